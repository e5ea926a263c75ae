package dto

// ── 分布统计模块 ──

// DistributionRequest 分布统计查询参数
type DistributionRequest struct {
	From      string `form:"from"`
	To        string `form:"to"`
	PerPerson bool   `form:"per_person"`
}

// PostShare 某人在某岗位类型上的次数与占比
type PostShare struct {
	PostType           string  `json:"post_type"`
	Count              int     `json:"count"`
	PercentageOfTotal  float64 `json:"percentage_of_total"`
	PercentageOfPerson float64 `json:"percentage_of_person"`
}

// PersonDistribution 单人分布
type PersonDistribution struct {
	PersonID         string      `json:"person_id"`
	PersonName       string      `json:"person_name"`
	Rank             string      `json:"rank"`
	TotalAssignments int         `json:"total_assignments"`
	PostAssignments  []PostShare `json:"post_assignments"`
}

// DistributionResponse 岗位分布统计
type DistributionResponse struct {
	PostTypeTotals   map[string]int            `json:"post_type_totals"`
	TotalAssignments int                       `json:"total_assignments"`
	PerPerson        map[string]map[string]int `json:"per_person,omitempty"`
	PersonnelStats   []PersonDistribution      `json:"personnel_stats,omitempty"`
	TotalPersonnel   int                       `json:"total_personnel"`
}

// DashboardResponse 首页统计
type DashboardResponse struct {
	TotalPersonnel    int64                `json:"total_personnel"`
	ActiveAssignments int64                `json:"active_assignments"`
	PostsCovered      int64                `json:"posts_covered"`
	FairnessVariance  float64              `json:"fairness_variance"`
	RecentAssignments []AssignmentResponse `json:"recent_assignments"`
}
