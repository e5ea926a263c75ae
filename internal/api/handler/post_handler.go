package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/response"
)

// PostHandler 岗位模块 HTTP 处理器
type PostHandler struct {
	postSvc service.PostService
}

// NewPostHandler 创建 PostHandler
func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

// ListPostTypes 岗位类型列表
// GET /api/v1/post-types
func (h *PostHandler) ListPostTypes(c *gin.Context) {
	list, err := h.postSvc.ListTypes(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreatePostType 新增岗位类型
// POST /api/v1/post-types
func (h *PostHandler) CreatePostType(c *gin.Context) {
	var req dto.CreatePostTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	pt, err := h.postSvc.CreateType(c.Request.Context(), &req)
	if err != nil {
		h.handlePostError(c, err)
		return
	}
	response.Created(c, pt)
}

// ListPosts 在用岗位列表
// GET /api/v1/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	list, err := h.postSvc.ListPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreatePost 新增岗位
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postSvc.CreatePost(c.Request.Context(), &req)
	if err != nil {
		h.handlePostError(c, err)
		return
	}
	response.Created(c, post)
}

// SetupPosts 初始化标准岗位
// POST /api/v1/posts/setup
func (h *PostHandler) SetupPosts(c *gin.Context) {
	result, err := h.postSvc.SetupDefaults(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

func (h *PostHandler) handlePostError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrPostTypeNotFound):
		response.NotFound(c, 13001, "岗位类型不存在")
	case errors.Is(err, service.ErrPostTypeExists):
		response.Conflict(c, 13002, "岗位类型已存在")
	case errors.Is(err, service.ErrPostExists):
		response.Conflict(c, 13003, "该类型下已存在同名岗位")
	default:
		response.InternalError(c)
	}
}
