package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 管理员登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, 11001, "管理员密码错误")
		case errors.Is(err, service.ErrAuthDisabled):
			response.NotFound(c, 11002, "未启用管理员认证")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
