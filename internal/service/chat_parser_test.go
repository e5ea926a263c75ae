package service

import (
	"reflect"
	"testing"
)

var testDutyDate = mustDate("2024-01-15")

func TestParseChat_ExampleScenario(t *testing.T) {
	text := "SOG: SGT Smith 0600-1400\nCQ: PFC Jones\nECP: UnknownGuy"

	res := ParseChat(text, testDutyDate)

	want := []AssignmentDraft{
		{Line: 1, PostLabel: "SOG", PersonText: "SGT Smith", RawTime: "0600-1400", DutyDate: testDutyDate},
		{Line: 2, PostLabel: "CQ", PersonText: "PFC Jones", DutyDate: testDutyDate},
		{Line: 3, PostLabel: "ECP", PersonText: "UnknownGuy", DutyDate: testDutyDate},
	}
	if !reflect.DeepEqual(res.Drafts, want) {
		t.Errorf("草稿不符:\n期望 %+v\n实际 %+v", want, res.Drafts)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("不应有警告，实际 %v", res.Warnings)
	}
}

func TestParseChat_Deterministic(t *testing.T) {
	text := "🚐 SOG: SGT Lastre\n\n💻 CQ: SGT Park\n🚧 ECP1: SPC Henderson, PV2 Anderson (driver)\nrandom chatter here"

	first := ParseChat(text, testDutyDate)
	for i := 0; i < 5; i++ {
		again := ParseChat(text, testDutyDate)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("同样输入第 %d 次解析结果不同", i+2)
		}
	}
}

func TestParseChat_EmojiHeaders(t *testing.T) {
	text := `🚐 SOG: SGT Lastre

💻 CQ: SGT Park

🚧 ECP1: SPC Henderson

🚧 ECP2: SPC Cox

🚧 ECP3: PV2 Anderson

🛺 VCP: SGT Warren

🚧 ROVER: PFC Smith

Stand by: PV2 Johnson`

	res := ParseChat(text, testDutyDate)

	if len(res.Drafts) != 8 {
		t.Fatalf("期望 8 条草稿，实际 %d: %+v", len(res.Drafts), res.Drafts)
	}
	labels := []string{"SOG", "CQ", "ECP1", "ECP2", "ECP3", "VCP", "ROVER", "Stand by"}
	for i, l := range labels {
		if res.Drafts[i].PostLabel != l {
			t.Errorf("第 %d 条岗位期望 %q，实际 %q", i, l, res.Drafts[i].PostLabel)
		}
	}
	if res.Drafts[7].PersonText != "PV2 Johnson" || res.Drafts[7].Line != 15 {
		t.Errorf("最后一条草稿错误: %+v", res.Drafts[7])
	}
}

func TestParseChat_MultipleEntriesAndSections(t *testing.T) {
	text := "ECP 0600-1400:\n- SPC Henderson, PV2 Anderson & PFC Cox\nVCP: SGT Warren and SPC Diaz 1400-2200"

	res := ParseChat(text, testDutyDate)

	if len(res.Drafts) != 5 {
		t.Fatalf("期望 5 条草稿，实际 %d: %+v", len(res.Drafts), res.Drafts)
	}
	for i := 0; i < 3; i++ {
		d := res.Drafts[i]
		if d.PostLabel != "ECP" || d.RawTime != "0600-1400" || d.Line != 2 {
			t.Errorf("段落标题时间未继承: %+v", d)
		}
	}
	// 整行唯一的时间同时作用于同行的其他条目
	if res.Drafts[3].PersonText != "SGT Warren" || res.Drafts[3].RawTime != "1400-2200" {
		t.Errorf("行内时间未继承: %+v", res.Drafts[3])
	}
	if res.Drafts[4].PersonText != "SPC Diaz" || res.Drafts[4].RawTime != "1400-2200" {
		t.Errorf("条目时间错误: %+v", res.Drafts[4])
	}
}

func TestParseChat_TimePrecedence(t *testing.T) {
	text := "CQ: 0800-1600\nSGT Park 0600-1000, PFC Lee 1000-1400\nSPC Kim"

	res := ParseChat(text, testDutyDate)

	want := map[string]string{
		"SGT Park": "0600-1000",
		"PFC Lee":  "1000-1400",
		"SPC Kim":  "0800-1600",
	}
	if len(res.Drafts) != 3 {
		t.Fatalf("期望 3 条草稿，实际 %d", len(res.Drafts))
	}
	for _, d := range res.Drafts {
		if want[d.PersonText] != d.RawTime {
			t.Errorf("%s 时间期望 %q，实际 %q", d.PersonText, want[d.PersonText], d.RawTime)
		}
	}
}

func TestParseChat_NotesAndSeparatorsInsideParens(t *testing.T) {
	res := ParseChat("ROVER: PFC Smith (driver, night vision) / SPC Cox", testDutyDate)

	if len(res.Drafts) != 2 {
		t.Fatalf("括号内分隔符不应拆分，期望 2 条，实际 %d: %+v", len(res.Drafts), res.Drafts)
	}
	if res.Drafts[0].PersonText != "PFC Smith" || res.Drafts[0].Notes != "driver, night vision" {
		t.Errorf("备注解析错误: %+v", res.Drafts[0])
	}
	if res.Drafts[1].PersonText != "SPC Cox" || res.Drafts[1].Notes != "" {
		t.Errorf("第二条错误: %+v", res.Drafts[1])
	}
}

func TestParseChat_InformationalLinesSkipped(t *testing.T) {
	text := "ECP: SPC Cox\nMeet at 0615 front of C10\nUniform: OCP's\nEquipment: IOTV, ACH\nBring water\nTime: 0600-1400"

	res := ParseChat(text, testDutyDate)

	if len(res.Drafts) != 1 {
		t.Errorf("说明行不应产生草稿，实际 %+v", res.Drafts)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("说明行不应产生警告，实际 %v", res.Warnings)
	}
}

func TestParseChat_Warnings(t *testing.T) {
	text := "SGT Orphan\nSOG: SGT Smith\n!!! ???"

	res := ParseChat(text, testDutyDate)

	if len(res.Drafts) != 1 {
		t.Errorf("期望 1 条草稿，实际 %+v", res.Drafts)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Line != 1 {
		t.Errorf("无标题的条目应产生第 1 行警告，实际 %v", res.Warnings)
	}
}

func TestParseChat_ClockIsNotHeader(t *testing.T) {
	res := ParseChat("SOG: SGT Smith 06:00-14:00", testDutyDate)

	if len(res.Drafts) != 1 {
		t.Fatalf("期望 1 条草稿，实际 %+v", res.Drafts)
	}
	if res.Drafts[0].PostLabel != "SOG" || res.Drafts[0].RawTime != "06:00-14:00" {
		t.Errorf("06:00 不应被当成标题: %+v", res.Drafts[0])
	}
}

func TestParseChat_HeaderWithoutSpace(t *testing.T) {
	res := ParseChat("SOG:SGT Smith\nCQ:PFC Jones", testDutyDate)

	if len(res.Warnings) != 0 {
		t.Errorf("冒号后紧跟字母也是标题，不应有警告: %v", res.Warnings)
	}
	if len(res.Drafts) != 2 {
		t.Fatalf("期望 2 条草稿，实际 %+v", res.Drafts)
	}
	if d := res.Drafts[0]; d.PostLabel != "SOG" || d.PersonText != "SGT Smith" {
		t.Errorf("第一条错误: %+v", d)
	}
	if d := res.Drafts[1]; d.PostLabel != "CQ" || d.PersonText != "PFC Jones" || d.Line != 2 {
		t.Errorf("第二条应归入 CQ 而不是上一段: %+v", d)
	}
}

func TestParseChat_ColonBeforeDigitIsNotHeader(t *testing.T) {
	res := ParseChat("ECP:\nSPC Cox 06:00-14:00", testDutyDate)

	if len(res.Drafts) != 1 {
		t.Fatalf("期望 1 条草稿，实际 %+v", res.Drafts)
	}
	if d := res.Drafts[0]; d.PostLabel != "ECP" || d.PersonText != "SPC Cox" || d.RawTime != "06:00-14:00" {
		t.Errorf("时间中的冒号不应开启新段落: %+v", d)
	}
}

func TestParseChat_CRLF(t *testing.T) {
	res := ParseChat("SOG: SGT Smith\r\nCQ: PFC Jones\r\n", testDutyDate)
	if len(res.Drafts) != 2 || res.Drafts[1].PersonText != "PFC Jones" {
		t.Errorf("CRLF 解析错误: %+v", res.Drafts)
	}
}

func TestParseTimeRange(t *testing.T) {
	cases := []struct {
		raw, start, end string
	}{
		{"0600-1400", "06:00", "14:00"},
		{"06:00-14:00", "06:00", "14:00"},
		{"6am-2pm", "06:00", "14:00"},
		{"6:30am - 2pm", "06:30", "14:00"},
		{"0600 to 1400", "06:00", "14:00"},
		{"12am-12pm", "00:00", "12:00"},
		{"1400-2200hrs", "14:00", "22:00"},
	}
	for _, c := range cases {
		start, end, err := ParseTimeRange(c.raw)
		if err != nil {
			t.Errorf("%q 解析失败: %v", c.raw, err)
			continue
		}
		if start != c.start || end != c.end {
			t.Errorf("%q 期望 %s-%s，实际 %s-%s", c.raw, c.start, c.end, start, end)
		}
	}

	for _, bad := range []string{"2500-2600", "noon", "0670-0800"} {
		if _, _, err := ParseTimeRange(bad); err == nil {
			t.Errorf("%q 应解析失败", bad)
		}
	}
}
