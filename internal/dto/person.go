package dto

// ── 人员模块 ──

// CreatePersonRequest 新增人员请求
type CreatePersonRequest struct {
	Rank string `json:"rank" binding:"required"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdatePersonRequest 修改人员请求（管理员）
type UpdatePersonRequest struct {
	Rank     *string `json:"rank"`
	Name     *string `json:"name"      binding:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"is_active"`
}

// PersonListRequest 人员列表查询参数
type PersonListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// PersonResponse 人员信息响应
type PersonResponse struct {
	ID        string `json:"id"`
	Rank      string `json:"rank"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// PersonBrief 人员简要信息
type PersonBrief struct {
	ID       string `json:"id"`
	Rank     string `json:"rank"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// PersonDetailsResponse 人员详情（排班历史 + 公平性）
type PersonDetailsResponse struct {
	Person              PersonResponse       `json:"person"`
	TotalAssignments    int                  `json:"total_assignments"`
	PostTypeCounts      map[string]int       `json:"post_type_counts"`
	PostCounts          map[string]int       `json:"post_counts"`
	MostFrequentPostType string              `json:"most_frequent_post_type,omitempty"`
	MostFrequentPost    string               `json:"most_frequent_post,omitempty"`
	RecentAssignments   []AssignmentResponse `json:"recent_assignments"`
	Fairness            *FairnessResponse    `json:"fairness,omitempty"`
}
