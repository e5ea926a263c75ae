package handler

import (
	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

// ImportHandler 群聊文本导入 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportChat 导入群聊排班文本
// POST /api/v1/import/chat
//
// 部分行失败时仍返回 200，失败行在 data.errors 中逐行列出
func (h *ImportHandler) ImportChat(c *gin.Context) {
	var req dto.ImportChatRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.importSvc.ImportChat(c.Request.Context(), &req)
	if err != nil {
		if handleCommonError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
