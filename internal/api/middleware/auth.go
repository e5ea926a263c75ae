package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"duty-tracker/pkg/jwt"
	"duty-tracker/pkg/response"
)

const roleKey = "role"

// AdminAuth 管理员认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token；
// enabled 为 false（未配置 jwt_secret / admin_password_hash）时直接放行
func AdminAuth(jwtMgr *jwt.Manager, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.Role != jwt.RoleAdmin {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Set(roleKey, claims.Role)
		c.Next()
	}
}
