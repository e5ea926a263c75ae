package model

// 内置岗位类型名称
const (
	PostTypeSOG     = "SOG"
	PostTypeCQ      = "CQ"
	PostTypeECP     = "ECP"
	PostTypeVCP     = "VCP"
	PostTypeRover   = "ROVER"
	PostTypeStandBy = "Stand by"
)

// PostType 岗位类型表 — 对应 post_types
type PostType struct {
	PostTypeID        string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"post_type_id"`
	Name              string        `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	Description       string        `gorm:"type:text"                                      json:"description,omitempty"`
	EquipmentRequired EquipmentList `gorm:"type:text"                                      json:"equipment_required"`
	MeetingTime       string        `gorm:"type:varchar(20)"                               json:"meeting_time,omitempty"`
	MeetingLocation   string        `gorm:"type:varchar(100)"                              json:"meeting_location,omitempty"`
	PersonnelRequired int           `gorm:"not null;default:1"                             json:"personnel_required"`
	ShiftStart        string        `gorm:"type:varchar(5)"                                json:"shift_start,omitempty"` // HH:MM，额定班次开始
	ShiftEnd          string        `gorm:"type:varchar(5)"                                json:"shift_end,omitempty"`   // HH:MM，额定班次结束
	BaseModel
}

// TableName 指定表名
func (PostType) TableName() string { return "post_types" }

// Post 具体岗位表 — 对应 posts（如 ECP1/ECP2 同属 ECP 类型）
type Post struct {
	PostID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"post_id"`
	Name       string `gorm:"type:varchar(50);not null"                      json:"name"`
	PostTypeID string `gorm:"type:uuid;not null"                             json:"post_type_id"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	PostType *PostType `gorm:"foreignKey:PostTypeID;references:PostTypeID" json:"post_type,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string { return "posts" }

// TypeName 岗位类型名；类型未加载时返回空串
func (p *Post) TypeName() string {
	if p.PostType == nil {
		return ""
	}
	return p.PostType.Name
}
