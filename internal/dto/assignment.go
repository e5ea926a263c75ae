package dto

// ── 排班模块 ──

// CreateAssignmentRequest 新增排班请求
type CreateAssignmentRequest struct {
	PersonID  string `json:"person_id"  binding:"required,uuid"`
	PostID    string `json:"post_id"    binding:"required,uuid"`
	DutyDate  string `json:"duty_date"  binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Notes     string `json:"notes"      binding:"max=2000"`
}

// UpdateAssignmentStatusRequest 排班状态流转请求
type UpdateAssignmentStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=completed no-show"`
	Notes  *string `json:"notes"  binding:"omitempty,max=2000"`
}

// AssignmentListRequest 排班列表查询参数
type AssignmentListRequest struct {
	DutyDate string `form:"duty_date"`
	From     string `form:"from"`
	To       string `form:"to"`
	PersonID string `form:"person_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// AssignmentResponse 排班响应
type AssignmentResponse struct {
	ID        string       `json:"id"`
	PersonID  string       `json:"person_id"`
	PostID    string       `json:"post_id"`
	DutyDate  string       `json:"duty_date"`
	StartTime string       `json:"start_time,omitempty"`
	EndTime   string       `json:"end_time,omitempty"`
	Status    string       `json:"status"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt string       `json:"created_at"`
	Person    *PersonBrief `json:"person,omitempty"`
	Post      *PostBrief   `json:"post,omitempty"`
}
