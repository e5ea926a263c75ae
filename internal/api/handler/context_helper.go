package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "duty-tracker/pkg/errors"
	"duty-tracker/pkg/response"
)

// MustGetPathID 读取路径参数 :id，为空时写入 400 并返回 false
func MustGetPathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "ID 不能为空")
		return "", false
	}
	return id, true
}

// bindJSON 绑定 JSON 请求体；失败时写入 400（超出 BodyLimit 时为 413）并返回 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c)
			return false
		}
		response.ValidationFailed(c, err.Error())
		return false
	}
	return true
}

// bindQuery 绑定查询参数
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ValidationFailed(c, err.Error())
		return false
	}
	return true
}

// handleCommonError 处理各模块共有的错误：输入校验与乐观锁冲突。
// 已写入响应时返回 true。
func handleCommonError(c *gin.Context, err error) bool {
	if ve, ok := pkgerrors.IsValidation(err); ok {
		response.ValidationFailed(c, ve.Error())
		return true
	}
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
		return true
	}
	return false
}
