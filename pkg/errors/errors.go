package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ── 错误分类 ──
//
//   ValidationError  直接调用的输入不合法（如开始时间晚于结束时间）
//   ResolutionError  导入行引用了未知或有歧义的人员/岗位
//   ParseWarning     导入行不符合任何可识别格式
//   IntegrityError   公平性重算时遇到引用已失效的排班记录
//
// 前两类必须带上字段或行号返回给调用方；IntegrityError 记录日志并随结果返回，
// 但不会中断整次重算。

// ValidationError 输入校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError 创建校验错误
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation 判断 err 链上是否存在 ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ResolutionError 导入行实体解析失败
type ResolutionError struct {
	Line        int
	Raw         string
	Reason      string
	Suggestions []string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("第 %d 行: %s (%q)", e.Line, e.Reason, e.Raw)
	if len(e.Suggestions) > 0 {
		msg += "，是否为: " + strings.Join(e.Suggestions, " / ")
	}
	return msg
}

// ParseWarning 导入行无法识别
type ParseWarning struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (w ParseWarning) Error() string {
	return fmt.Sprintf("第 %d 行: %s (%q)", w.Line, w.Reason, w.Text)
}

// IntegrityError 排班记录引用的人员或岗位已不存在
type IntegrityError struct {
	AssignmentID string
	Ref          string // person | post | post_type
	RefID        string
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("排班 %s 引用的 %s %s 不存在", e.AssignmentID, e.Ref, e.RefID)
}
