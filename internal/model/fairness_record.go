package model

import "time"

// FairnessRecord 公平性记录表 — 对应 fairness_records
// 派生数据：可由 assignments + posts 完整重算，每次重算整表替换。
type FairnessRecord struct {
	PersonID           string     `gorm:"type:uuid;primaryKey"   json:"person_id"`
	FairnessScore      float64    `gorm:"not null;default:0"     json:"fairness_score"`
	WeightedPoints     float64    `gorm:"not null;default:0"     json:"weighted_points"`
	AssignmentCount    int        `gorm:"not null;default:0"     json:"assignment_count"`
	ConsecutiveStandby int        `gorm:"not null;default:0"     json:"consecutive_standby"`
	LastDutyDate       *time.Time `gorm:"type:date"              json:"last_duty_date,omitempty"`
	LastRecalculated   time.Time  `gorm:"not null"               json:"last_recalculated"`
}

// TableName 指定表名
func (FairnessRecord) TableName() string { return "fairness_records" }
