package model

import "time"

// 排班状态
const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusNoShow    = "no-show"
)

// Assignment 排班记录表 — 对应 assignments
// 所有按日期的筛选都以 DutyDate 为准，与 StartTime/EndTime 无关。
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	PersonID     string    `gorm:"type:uuid;not null"                             json:"person_id"`
	PostID       string    `gorm:"type:uuid;not null"                             json:"post_id"`
	DutyDate     time.Time `gorm:"type:date;not null"                             json:"duty_date"`
	StartTime    string    `gorm:"type:varchar(5)"                                json:"start_time,omitempty"` // HH:MM
	EndTime      string    `gorm:"type:varchar(5)"                                json:"end_time,omitempty"`   // HH:MM
	Status       string    `gorm:"type:varchar(20);not null;default:'assigned'"   json:"status"` // assigned | completed | no-show
	Notes        string    `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel

	// 关联（查询时按需 Preload，人员/岗位可能已不存在）
	Person *Person `gorm:"foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
	Post   *Post   `gorm:"foreignKey:PostID;references:PostID"     json:"post,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// IsValidAssignmentStatus 状态枚举校验
func IsValidAssignmentStatus(s string) bool {
	switch s {
	case AssignmentStatusAssigned, AssignmentStatusCompleted, AssignmentStatusNoShow:
		return true
	}
	return false
}
