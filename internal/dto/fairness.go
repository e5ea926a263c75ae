package dto

// ── 公平性模块 ──

// FairnessResponse 单人公平性记录
type FairnessResponse struct {
	PersonID           string  `json:"person_id"`
	PersonName         string  `json:"person_name,omitempty"`
	Rank               string  `json:"rank,omitempty"`
	FairnessScore      float64 `json:"fairness_score"`
	WeightedPoints     float64 `json:"weighted_points"`
	AssignmentCount    int     `json:"assignment_count"`
	ConsecutiveStandby int     `json:"consecutive_standby"`
	LastDutyDate       string  `json:"last_duty_date,omitempty"`
	LastRecalculated   string  `json:"last_recalculated"`
}

// IntegrityIssue 重算时被排除的排班
type IntegrityIssue struct {
	AssignmentID string `json:"assignment_id"`
	Ref          string `json:"ref"`
	RefID        string `json:"ref_id"`
	Message      string `json:"message"`
}

// RecalculateResponse 公平性重算结果
type RecalculateResponse struct {
	Records         []FairnessResponse `json:"records"`
	ScoredCount     int                `json:"scored_assignments"`
	IntegrityIssues []IntegrityIssue   `json:"integrity_issues"`
}

// SuggestRequest 推荐查询参数
type SuggestRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SuggestionResponse 推荐人员（负担最低者优先）
type SuggestionResponse struct {
	Person          PersonBrief `json:"person"`
	FairnessScore   float64     `json:"fairness_score"`
	AssignmentCount int         `json:"assignment_count"`
}
