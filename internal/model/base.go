package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 装备清单自定义类型 ──

// EquipmentList 岗位所需装备（有序字符串列表），以 JSON 文本存储。
// 列值缺失、为空或无法解析时一律视为空列表。
type EquipmentList []string

// Scan 将 TEXT 列中的 JSON 数组解析为 []string。
func (e *EquipmentList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*e = EquipmentList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("EquipmentList.Scan: unsupported type %T", src)
	}
	*e = ParseEquipmentList(raw)
	return nil
}

// Value 将装备清单序列化为 JSON 文本；nil 写成 "[]"。
func (e EquipmentList) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(e))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MarshalJSON nil 输出为 []
func (e EquipmentList) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(e))
}

// UnmarshalJSON 容忍 null 与非数组输入
func (e *EquipmentList) UnmarshalJSON(b []byte) error {
	*e = ParseEquipmentList(b)
	return nil
}

// ParseEquipmentList 宽松解析装备清单 JSON，失败返回空列表
func ParseEquipmentList(raw []byte) EquipmentList {
	var items []string
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return EquipmentList{}
	}
	out := make(EquipmentList, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}

// BaseModel 通用审计字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// VersionedModel 支持乐观锁的模型
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}
