package dto

// ── 群聊导入模块 ──

// ImportChatRequest 群聊文本导入请求
type ImportChatRequest struct {
	DutyDate string `json:"duty_date" binding:"required"`
	ChatText string `json:"chat_text" binding:"required"`
}

// 导入行错误类型
const (
	LineErrorParse      = "parse"
	LineErrorResolution = "resolution"
	LineErrorValidation = "validation"
	LineErrorDuplicate  = "duplicate"
)

// ImportLineError 单行导入失败原因
type ImportLineError struct {
	Line        int      `json:"line"`
	Kind        string   `json:"kind"`
	Reason      string   `json:"reason"`
	Text        string   `json:"text,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ImportChatResponse 导入结果：部分成功也会提交成功的部分
type ImportChatResponse struct {
	DutyDate      string             `json:"duty_date"`
	CreatedCount  int                `json:"created_count"`
	AssignmentIDs []string           `json:"assignment_ids"`
	Errors        []ImportLineError  `json:"errors"`
	Fairness      []FairnessResponse `json:"fairness"`
}
