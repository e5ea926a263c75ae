package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	pkgerrors "duty-tracker/pkg/errors"
)

// ── 群聊排班文本解析器 ──────────────────────────────────────
//
// 职责：把群聊里复制出来的排班消息拆成排班草稿，不访问数据库。
//
//   🚐 SOG: SGT Lastre
//   🚧 ECP 0600-1400:
//   SPC Henderson, PV2 Anderson (driver)
//
// 规则：
//   - "<标签>:" 且冒号后为空白、字母或行尾才算段落标题（"SOG:SGT Smith" 算，"06:00" 不算）
//   - 标题后的文本与段落内的后续行都是人员条目
//   - 条目按 , ; & / + 和单词 and 拆分，括号内文本作为备注
//   - 时间优先级：条目自带 > 整行唯一的时间 > 段落标题上的时间
//   - Meet at / Meeting / Uniform / Equipment / Bring / OCP / Time 等说明行直接跳过
//   - 其余无法产出条目的行记为 ParseWarning
//
// 输出只依赖输入文本与日期，同样的输入总是得到同样的结果。
// ─────────────────────────────────────────────────────────────

// AssignmentDraft 解析出的排班草稿（尚未解析人员与岗位）
type AssignmentDraft struct {
	Line       int       `json:"line"`
	PostLabel  string    `json:"post_label"`
	PersonText string    `json:"person_text"`
	RawTime    string    `json:"raw_time,omitempty"` // 原始时间段文本，如 "0600-1400"；为空表示未指定
	Notes      string    `json:"notes,omitempty"`
	DutyDate   time.Time `json:"duty_date"`
}

// ParseResult 解析结果
type ParseResult struct {
	Drafts   []AssignmentDraft        `json:"drafts"`
	Warnings []pkgerrors.ParseWarning `json:"warnings"`
}

var (
	infoLinePattern  = regexp.MustCompile(`(?i)^(meet(ing)?|uniform|equipment|bring|ocp'?s?|time)\b`)
	listMarkPattern  = regexp.MustCompile(`^\d{1,2}[.)]\s+`)
	separatorPattern = regexp.MustCompile(`(?i)\s*[,;&/+]\s*|\s+and\s+`)
	notesPattern     = regexp.MustCompile(`\(([^()]*)\)`)

	timeSide         = `(?:\d{1,2}:\d{2}|\d{3,4}|\d{1,2})\s*(?:am|pm)?`
	timeRangePattern = regexp.MustCompile(`(?i)\b(` + timeSide + `)\s*(?:-|–|—|\bto\b)\s*(` + timeSide + `)(?:\s*hrs?)?\b`)
)

// ParseChat 解析群聊排班文本
func ParseChat(text string, dutyDate time.Time) ParseResult {
	var (
		result      ParseResult
		section     string
		sectionTime string
	)

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, rawLine := range lines {
		lineNo := i + 1
		line := cleanChatLine(rawLine)
		if line == "" {
			continue
		}
		if infoLinePattern.MatchString(line) {
			continue
		}

		body := line
		if label, rest, ok := splitHeader(line); ok {
			section = label
			sectionTime = ""
			// 标题本身携带的时间，如 "ECP 0600-1400:"
			if ranges := findTimeRanges(label); len(ranges) == 1 {
				sectionTime = ranges[0].raw
				section = strings.TrimSpace(label[:ranges[0].start] + label[ranges[0].end:])
			}
			if rest == "" {
				continue
			}
			// 标题后只有时间："ECP: 0600-1400"
			if ranges := findTimeRanges(rest); len(ranges) == 1 && !hasLetters(rest[:ranges[0].start]+rest[ranges[0].end:]) {
				sectionTime = ranges[0].raw
				continue
			}
			body = rest
		}

		if section == "" {
			result.Warnings = append(result.Warnings, pkgerrors.ParseWarning{
				Line: lineNo, Text: strings.TrimSpace(rawLine), Reason: "人员条目前没有岗位标题",
			})
			continue
		}

		entries := parseEntries(body)
		if len(entries) == 0 {
			result.Warnings = append(result.Warnings, pkgerrors.ParseWarning{
				Line: lineNo, Text: strings.TrimSpace(rawLine), Reason: "无法识别的行",
			})
			continue
		}

		lineTime := ""
		if ranges := findTimeRanges(body); len(ranges) == 1 {
			lineTime = ranges[0].raw
		}

		for _, e := range entries {
			raw := e.time
			if raw == "" {
				raw = lineTime
			}
			if raw == "" {
				raw = sectionTime
			}
			result.Drafts = append(result.Drafts, AssignmentDraft{
				Line:       lineNo,
				PostLabel:  section,
				PersonText: e.person,
				RawTime:    raw,
				Notes:      e.notes,
				DutyDate:   dutyDate,
			})
		}
	}

	return result
}

// ParseTimeRange 将原始时间段文本规范化为 HH:MM 起止时间
// 支持 "0600-1400"、"06:00-14:00"、"6am-2pm"、"6:30am - 2pm"、"0600 to 1400"
func ParseTimeRange(raw string) (start, end string, err error) {
	m := timeRangePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", fmt.Errorf("无法识别的时间段 %q", raw)
	}
	if start, err = parseClock(m[1]); err != nil {
		return "", "", err
	}
	if end, err = parseClock(m[2]); err != nil {
		return "", "", err
	}
	return start, end, nil
}

// ── 内部辅助 ──

type chatEntry struct {
	person string
	time   string
	notes  string
}

type timeRange struct {
	raw        string
	start, end int
}

// cleanChatLine 去掉行首的表情、项目符号与序号
func cleanChatLine(s string) string {
	s = strings.TrimSpace(strings.TrimRight(s, "\r"))
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '('
	})
	s = listMarkPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// splitHeader 识别 "<标签>: 其余文本"；冒号后必须是空白、字母或行尾
func splitHeader(line string) (label, rest string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i+1 < len(line) {
			next, _ := utf8.DecodeRuneInString(line[i+1:])
			if !unicode.IsSpace(next) && !unicode.IsLetter(next) {
				continue
			}
		}
		label = strings.TrimSpace(line[:i])
		if label == "" || !hasLetters(label) {
			return "", "", false
		}
		return label, strings.TrimSpace(line[i+1:]), true
	}
	return "", "", false
}

// parseEntries 拆分一行中的人员条目；括号内的分隔符不参与拆分
func parseEntries(body string) []chatEntry {
	masked := maskParens(body)
	var pieces []string
	last := 0
	for _, loc := range separatorPattern.FindAllStringIndex(masked, -1) {
		pieces = append(pieces, body[last:loc[0]])
		last = loc[1]
	}
	pieces = append(pieces, body[last:])

	var entries []chatEntry
	for _, p := range pieces {
		var e chatEntry

		var notes []string
		for _, m := range notesPattern.FindAllStringSubmatch(p, -1) {
			if n := strings.TrimSpace(m[1]); n != "" {
				notes = append(notes, n)
			}
		}
		e.notes = strings.Join(notes, "; ")
		p = notesPattern.ReplaceAllString(p, " ")

		if ranges := findTimeRanges(p); len(ranges) > 0 {
			e.time = ranges[0].raw
			p = p[:ranges[0].start] + " " + p[ranges[0].end:]
		}

		e.person = strings.Trim(strings.Join(strings.Fields(p), " "), " -–:.")
		if !hasLetters(e.person) {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// maskParens 将括号内的字节替换为占位符，保持字节偏移不变
func maskParens(s string) string {
	b := []byte(s)
	depth := 0
	for i, c := range b {
		switch {
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth > 0:
			b[i] = 'x'
		}
	}
	return string(b)
}

func findTimeRanges(s string) []timeRange {
	var out []timeRange
	for _, m := range timeRangePattern.FindAllStringSubmatchIndex(s, -1) {
		if !looksLikeClock(s[m[2]:m[3]]) || !looksLikeClock(s[m[4]:m[5]]) {
			continue
		}
		out = append(out, timeRange{raw: strings.TrimSpace(s[m[0]:m[1]]), start: m[0], end: m[1]})
	}
	return out
}

// looksLikeClock 排除 "1-3" 之类的纯数字区间
func looksLikeClock(side string) bool {
	side = strings.ToLower(strings.ReplaceAll(side, " ", ""))
	if strings.Contains(side, ":") || strings.HasSuffix(side, "am") || strings.HasSuffix(side, "pm") {
		return true
	}
	return len(side) >= 3
}

func parseClock(side string) (string, error) {
	s := strings.ToLower(strings.ReplaceAll(side, " ", ""))
	meridiem := ""
	if strings.HasSuffix(s, "am") || strings.HasSuffix(s, "pm") {
		meridiem = s[len(s)-2:]
		s = s[:len(s)-2]
	}

	var hh, mm string
	switch {
	case strings.Contains(s, ":"):
		hh, mm, _ = strings.Cut(s, ":")
	case len(s) >= 3:
		hh, mm = s[:len(s)-2], s[len(s)-2:]
	default:
		hh, mm = s, "0"
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return "", fmt.Errorf("无法识别的时间 %q", side)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return "", fmt.Errorf("无法识别的时间 %q", side)
	}

	if meridiem != "" && (h < 1 || h > 12) {
		return "", fmt.Errorf("时间超出范围 %q", side)
	}
	switch meridiem {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 12 {
			h += 12
		}
	}
	if h > 23 || m > 59 {
		return "", fmt.Errorf("时间超出范围 %q", side)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

func hasLetters(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
