package handler

import (
	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

// FairnessHandler 公平性 HTTP 处理器
type FairnessHandler struct {
	fairnessSvc service.FairnessService
}

// NewFairnessHandler 创建 FairnessHandler
func NewFairnessHandler(fairnessSvc service.FairnessService) *FairnessHandler {
	return &FairnessHandler{fairnessSvc: fairnessSvc}
}

// ListFairness 公平性榜单
// GET /api/v1/fairness
func (h *FairnessHandler) ListFairness(c *gin.Context) {
	list, err := h.fairnessSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Recalculate 全量重算
// POST /api/v1/fairness/recalculate
func (h *FairnessHandler) Recalculate(c *gin.Context) {
	result, err := h.fairnessSvc.Recalculate(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Suggest 推荐负担最低的人员
// GET /api/v1/fairness/suggest?limit=5
func (h *FairnessHandler) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.fairnessSvc.Suggest(c.Request.Context(), req.Limit)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}
