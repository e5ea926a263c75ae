package handler

import (
	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

// DistributionHandler 岗位分布与看板 HTTP 处理器
type DistributionHandler struct {
	distributionSvc service.DistributionService
}

// NewDistributionHandler 创建 DistributionHandler
func NewDistributionHandler(distributionSvc service.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributionSvc: distributionSvc}
}

// GetDistribution 岗位分布
// GET /api/v1/distribution?from=&to=&per_person=true
func (h *DistributionHandler) GetDistribution(c *gin.Context) {
	var req dto.DistributionRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.distributionSvc.Get(c.Request.Context(), &req)
	if err != nil {
		if handleCommonError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Dashboard 看板统计
// GET /api/v1/dashboard
func (h *DistributionHandler) Dashboard(c *gin.Context) {
	result, err := h.distributionSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
