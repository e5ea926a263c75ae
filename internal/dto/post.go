package dto

// ── 岗位模块 ──

// CreatePostTypeRequest 新增岗位类型请求
type CreatePostTypeRequest struct {
	Name              string   `json:"name"               binding:"required,min=1,max=50"`
	Description       string   `json:"description"        binding:"max=1000"`
	EquipmentRequired []string `json:"equipment_required" binding:"omitempty,dive,min=1,max=100"`
	MeetingTime       string   `json:"meeting_time"       binding:"max=20"`
	MeetingLocation   string   `json:"meeting_location"   binding:"max=100"`
	PersonnelRequired int      `json:"personnel_required" binding:"omitempty,min=1,max=50"`
	ShiftStart        string   `json:"shift_start"`
	ShiftEnd          string   `json:"shift_end"`
}

// CreatePostRequest 新增岗位请求
type CreatePostRequest struct {
	Name       string `json:"name"         binding:"required,min=1,max=50"`
	PostTypeID string `json:"post_type_id" binding:"required,uuid"`
}

// PostTypeResponse 岗位类型响应
type PostTypeResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	EquipmentRequired []string `json:"equipment_required"`
	MeetingTime       string   `json:"meeting_time,omitempty"`
	MeetingLocation   string   `json:"meeting_location,omitempty"`
	PersonnelRequired int      `json:"personnel_required"`
	ShiftStart        string   `json:"shift_start,omitempty"`
	ShiftEnd          string   `json:"shift_end,omitempty"`
}

// PostResponse 岗位响应
type PostResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	IsActive bool              `json:"is_active"`
	PostType *PostTypeResponse `json:"post_type,omitempty"`
}

// PostBrief 岗位简要信息
type PostBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PostType string `json:"post_type"`
}

// SetupPostsResponse 初始化标准岗位结果
type SetupPostsResponse struct {
	PostTypesCreated int `json:"post_types_created"`
	PostsCreated     int `json:"posts_created"`
}
