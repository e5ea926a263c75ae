package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

// AssignmentHandler 排班记录 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListAssignments 排班列表（分页，按日期倒序）
// GET /api/v1/assignments?duty_date=&from=&to=&person_id=&page=&page_size=
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var req dto.AssignmentListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetAssignment 排班详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	a, err := h.assignmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, a)
}

// CreateAssignment 手工新增排班
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.assignmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.Created(c, a)
}

// UpdateAssignmentStatus 标记完成或缺勤
// PUT /api/v1/assignments/:id/status
func (h *AssignmentHandler) UpdateAssignmentStatus(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	var req dto.UpdateAssignmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.assignmentSvc.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, a)
}

// DeleteAssignment 删除排班
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleAssignmentError 统一处理排班模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 14001, "排班记录不存在")
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 14002, "人员不存在")
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, 14003, "岗位不存在")
	case errors.Is(err, service.ErrPersonInactive):
		response.BadRequest(c, 14004, "人员已停用")
	case errors.Is(err, service.ErrPostInactive):
		response.BadRequest(c, 14005, "岗位已停用")
	case errors.Is(err, service.ErrDuplicateAssignment):
		response.Conflict(c, 14006, "该人员当天已排在此岗位")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.Conflict(c, 14007, "只有已排班状态可以变更为完成或缺勤")
	default:
		response.InternalError(c)
	}
}
