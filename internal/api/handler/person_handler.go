package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

// PersonHandler 人员模块 HTTP 处理器
type PersonHandler struct {
	personSvc service.PersonService
}

// NewPersonHandler 创建 PersonHandler
func NewPersonHandler(personSvc service.PersonService) *PersonHandler {
	return &PersonHandler{personSvc: personSvc}
}

// ListPersonnel 人员列表
// GET /api/v1/personnel?include_inactive=true
func (h *PersonHandler) ListPersonnel(c *gin.Context) {
	var req dto.PersonListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.personSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetPerson 人员详情
// GET /api/v1/personnel/:id
func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	person, err := h.personSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, person)
}

// CreatePerson 新增人员
// POST /api/v1/personnel
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req dto.CreatePersonRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.personSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.Created(c, person)
}

// UpdatePerson 修改人员
// PUT /api/v1/personnel/:id
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	var req dto.UpdatePersonRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.personSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, person)
}

// DeactivatePerson 停用人员
// DELETE /api/v1/personnel/:id
func (h *PersonHandler) DeactivatePerson(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	if err := h.personSvc.Deactivate(c.Request.Context(), id); err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetPersonDetails 人员排班统计
// GET /api/v1/personnel/:id/details
func (h *PersonHandler) GetPersonDetails(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	details, err := h.personSvc.Details(c.Request.Context(), id)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, details)
}

// handlePersonError 统一处理人员模块业务错误
func (h *PersonHandler) handlePersonError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 12001, "人员不存在")
	default:
		response.InternalError(c)
	}
}
