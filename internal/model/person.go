package model

import "strings"

// Rank 军衔
type Rank string

const (
	RankPV2 Rank = "PV2"
	RankPFC Rank = "PFC"
	RankSPC Rank = "SPC"
	RankCPL Rank = "CPL"
	RankSGT Rank = "SGT"
	RankSSG Rank = "SSG"
	RankSFC Rank = "SFC"
	RankMSG Rank = "MSG"
	RankSGM Rank = "SGM"
)

// Ranks 按等级从低到高排列
var Ranks = []Rank{RankPV2, RankPFC, RankSPC, RankCPL, RankSGT, RankSSG, RankSFC, RankMSG, RankSGM}

// ParseRank 大小写不敏感地识别军衔
func ParseRank(s string) (Rank, bool) {
	for _, r := range Ranks {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// Person 人员表 — 对应 personnel（只做停用，不做物理删除）
type Person struct {
	PersonID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"person_id"`
	Rank     Rank   `gorm:"type:varchar(10);not null"                      json:"rank"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Person) TableName() string { return "personnel" }

// FullName 军衔 + 姓名，如 "SGT Smith"
func (p *Person) FullName() string {
	return string(p.Rank) + " " + p.Name
}
