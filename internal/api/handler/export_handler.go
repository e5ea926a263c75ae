package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportDistribution 导出岗位分布 Excel
// GET /api/v1/export/distribution?from=&to=
func (h *ExportHandler) ExportDistribution(c *gin.Context) {
	var req dto.DistributionRequest
	if !bindQuery(c, &req) {
		return
	}

	buf, filename, err := h.exportSvc.ExportDistribution(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendFile(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportPersonCalendar 导出个人排班日历
// GET /api/v1/export/personnel/:id/calendar.ics
func (h *ExportHandler) ExportPersonCalendar(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportPersonCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendFile(c, filename, contentTypeICS, data)
}

func sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 18001, "人员不存在")
	default:
		response.InternalError(c)
	}
}
