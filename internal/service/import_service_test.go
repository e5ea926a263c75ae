package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	pkgerrors "duty-tracker/pkg/errors"
)

func TestImportService_ExampleScenario(t *testing.T) {
	cfg := testConfig()
	cfg.Fairness.Weights = map[string]float64{"SOG": 2, "CQ": 1.5}
	env := newTestEnv(cfg)
	sogPost := env.addPost(model.PostTypeSOG)
	cqPost := env.addPost(model.PostTypeCQ)
	env.addPost(model.PostTypeECP)
	smith := env.addPerson(model.RankSGT, "Smith")
	jones := env.addPerson(model.RankPFC, "Jones")

	resp, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15",
		ChatText: "SOG: SGT Smith 0600-1400\nCQ: PFC Jones\nECP: UnknownGuy",
	})
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	if resp.CreatedCount != 2 || len(resp.AssignmentIDs) != 2 {
		t.Fatalf("期望创建 2 条，实际 %d", resp.CreatedCount)
	}

	sog, _ := env.assignments.GetByID(context.Background(), resp.AssignmentIDs[0])
	if sog.PersonID != smith.PersonID || sog.PostID != sogPost.PostID {
		t.Errorf("SOG 排班错误: %+v", sog)
	}
	if sog.StartTime != "06:00" || sog.EndTime != "14:00" {
		t.Errorf("SOG 时间期望 06:00-14:00，实际 %s-%s", sog.StartTime, sog.EndTime)
	}
	if !sog.DutyDate.Equal(mustDate("2024-01-15")) {
		t.Errorf("duty_date 错误: %v", sog.DutyDate)
	}

	cq, _ := env.assignments.GetByID(context.Background(), resp.AssignmentIDs[1])
	if cq.PersonID != jones.PersonID || cq.PostID != cqPost.PostID {
		t.Errorf("CQ 排班错误: %+v", cq)
	}
	// 未给时间且岗位类型无额定班次 → 默认班次
	if cq.StartTime != "06:00" || cq.EndTime != "18:00" {
		t.Errorf("CQ 期望默认班次 06:00-18:00，实际 %s-%s", cq.StartTime, cq.EndTime)
	}

	if len(resp.Errors) != 1 {
		t.Fatalf("期望 1 个错误，实际 %+v", resp.Errors)
	}
	if e := resp.Errors[0]; e.Line != 3 || e.Kind != dto.LineErrorResolution || !strings.Contains(e.Reason, "UnknownGuy") {
		t.Errorf("第 3 行错误不符: %+v", e)
	}

	if env.fairness.replaceCalls != 1 {
		t.Errorf("期望重算 1 次，实际 %d", env.fairness.replaceCalls)
	}
	if len(resp.Fairness) != 2 {
		t.Fatalf("期望 2 条公平性记录，实际 %d", len(resp.Fairness))
	}
	// 负担升序：Jones(CQ 1.5) 在前，Smith(SOG 2) 在后
	if f := resp.Fairness[0]; f.PersonID != jones.PersonID || f.FairnessScore != 1.5 {
		t.Errorf("Jones 分数应反映 CQ 权重 1.5，实际 %+v", f)
	}
	if f := resp.Fairness[1]; f.PersonID != smith.PersonID || f.FairnessScore != 2 {
		t.Errorf("Smith 分数应反映 SOG 权重 2，实际 %+v", f)
	}
	if env.cache.stores != 1 {
		t.Errorf("提交后应刷新榜单镜像 1 次，实际 %d", env.cache.stores)
	}
}

func TestImportService_OneErrorPerLine(t *testing.T) {
	env := newTestEnv(nil)
	env.addPost(model.PostTypeSOG)
	env.addPost(model.PostTypeECP)
	env.addPerson(model.RankSGT, "Smith")

	resp, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15",
		ChatText: "VCP: Nobody\nSOG: SGT Smith",
	})
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	if resp.CreatedCount != 1 {
		t.Errorf("期望创建 1 条，实际 %d", resp.CreatedCount)
	}
	// 人员和岗位都解析失败，也只报告一条
	if len(resp.Errors) != 1 {
		t.Fatalf("期望第 1 行只有 1 个错误，实际 %+v", resp.Errors)
	}
	e := resp.Errors[0]
	if e.Line != 1 || e.Kind != dto.LineErrorResolution {
		t.Errorf("错误项不符: %+v", e)
	}
	if !strings.Contains(e.Reason, "未找到人员") || !strings.Contains(e.Reason, "未找到岗位") {
		t.Errorf("错误原因应同时说明人员与岗位: %q", e.Reason)
	}
	if e.Text != "VCP: Nobody" {
		t.Errorf("错误文本应为整条条目，实际 %q", e.Text)
	}
}

func TestImportService_FairnessReadFailureAfterCommit(t *testing.T) {
	env := newTestEnv(nil)
	env.setupPosts()
	env.addPerson(model.RankSGT, "Smith")
	// 事务内读取人员两次，提交后第三次读取失败
	env.persons.listErr = errors.New("connection reset")
	env.persons.listErrFrom = 3

	resp, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15", ChatText: "SOG: SGT Smith",
	})
	if err != nil {
		t.Fatalf("导入已提交，不应返回错误: %v", err)
	}
	if resp.CreatedCount != 1 || len(env.assignments.assignments) != 1 {
		t.Errorf("排班应已写入，实际 created=%d stored=%d", resp.CreatedCount, len(env.assignments.assignments))
	}
	if resp.Fairness == nil || len(resp.Fairness) != 0 {
		t.Errorf("读取人员失败时榜单应为空列表，实际 %+v", resp.Fairness)
	}
	if env.cache.stores != 0 {
		t.Errorf("榜单为空时不应刷新镜像")
	}
}

func TestImportService_PartialSuccess(t *testing.T) {
	env := newTestEnv(nil)
	env.setupPosts()
	env.addPerson(model.RankSGT, "Lastre")
	env.addPerson(model.RankSGT, "Park")
	env.addPerson(model.RankSPC, "Henderson")

	resp, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15",
		ChatText: "🚐 SOG: SGT Lastre\n💻 CQ: SGT Park\n🚧 ECP1: SPC Henderson\n🚧 ECP2: SPC Nobody",
	})
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	if resp.CreatedCount != 3 {
		t.Errorf("期望创建 3 条，实际 %d", resp.CreatedCount)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Line != 4 || resp.Errors[0].Kind != dto.LineErrorResolution {
		t.Errorf("期望第 4 行 1 个解析错误，实际 %+v", resp.Errors)
	}
	if len(env.assignments.assignments) != 3 {
		t.Errorf("成功的行应被提交，库中实际 %d 条", len(env.assignments.assignments))
	}
	if env.fairness.replaceCalls != 1 {
		t.Errorf("整批只应重算 1 次，实际 %d", env.fairness.replaceCalls)
	}
}

func TestImportService_DuplicateGuard(t *testing.T) {
	env := newTestEnv(nil)
	env.setupPosts()
	env.addPerson(model.RankSGT, "Smith")

	req := &dto.ImportChatRequest{DutyDate: "2024-01-15", ChatText: "SOG: SGT Smith\nSOG: SGT Smith"}
	resp, err := env.svc.Import.ImportChat(context.Background(), req)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if resp.CreatedCount != 1 || len(resp.Errors) != 1 || resp.Errors[0].Kind != dto.LineErrorDuplicate {
		t.Errorf("同批重复应报告 duplicate，实际 %+v", resp)
	}

	// 再次导入同一天：已存在的排班也视为重复
	resp, err = env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15", ChatText: "SOG: SGT Smith",
	})
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if resp.CreatedCount != 0 || len(resp.Errors) != 1 || resp.Errors[0].Kind != dto.LineErrorDuplicate {
		t.Errorf("已存在的排班应报告 duplicate，实际 %+v", resp)
	}
	if env.fairness.replaceCalls != 2 {
		t.Errorf("每次导入都应重算一次，实际 %d", env.fairness.replaceCalls)
	}
}

func TestImportService_TimeValidation(t *testing.T) {
	env := newTestEnv(nil)
	env.setupPosts()
	env.addPerson(model.RankSGT, "Smith")
	env.addPerson(model.RankPFC, "Jones")

	resp, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15",
		ChatText: "SOG: SGT Smith 1400-0600\nCQ: PFC Jones 2500-2600",
	})
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if resp.CreatedCount != 0 {
		t.Errorf("非法时间不应创建排班，实际 %d", resp.CreatedCount)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("期望 2 个校验错误，实际 %+v", resp.Errors)
	}
	for _, e := range resp.Errors {
		if e.Kind != dto.LineErrorValidation {
			t.Errorf("期望 validation 错误，实际 %+v", e)
		}
	}
}

func TestImportService_PostTypeWindowAndAlias(t *testing.T) {
	cfg := testConfig()
	cfg.Import.PostAliases = map[string]string{"gate": "ECP1"}
	env := newTestEnv(cfg)
	env.setupPosts()
	env.addPerson(model.RankSPC, "Cox")

	for _, pt := range env.posts.types {
		if pt.Name == model.PostTypeECP {
			pt.ShiftStart, pt.ShiftEnd = "06:15", "14:15"
		}
	}

	resp, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15",
		ChatText: "Gate: SPC Cox (radio)",
	})
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if resp.CreatedCount != 1 {
		t.Fatalf("期望创建 1 条，实际 %+v", resp)
	}
	a, _ := env.assignments.GetByID(context.Background(), resp.AssignmentIDs[0])
	if a.Post.Name != "ECP1" || a.StartTime != "06:15" || a.EndTime != "14:15" || a.Notes != "radio" {
		t.Errorf("别名/额定班次/备注处理错误: %+v", a)
	}
}

func TestImportService_ParseWarningsReported(t *testing.T) {
	env := newTestEnv(nil)
	env.setupPosts()

	resp, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15",
		ChatText: "good morning team",
	})
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Kind != dto.LineErrorParse || resp.Errors[0].Line != 1 {
		t.Errorf("期望第 1 行解析警告，实际 %+v", resp.Errors)
	}
}

func TestImportService_RequestValidation(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{DutyDate: "15/01/2024", ChatText: "SOG: SGT Smith"})
	if ve, ok := pkgerrors.IsValidation(err); !ok || ve.Field != "duty_date" {
		t.Errorf("期望 duty_date 校验错误，实际 %v", err)
	}

	env.cfg.Import.MaxTextBytes = 10
	_, err = env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15", ChatText: strings.Repeat("x", 11),
	})
	if ve, ok := pkgerrors.IsValidation(err); !ok || ve.Field != "chat_text" {
		t.Errorf("期望 chat_text 校验错误，实际 %v", err)
	}
}

func TestImportService_StoreFailureRollsBack(t *testing.T) {
	env := newTestEnv(nil)
	env.setupPosts()
	env.addPerson(model.RankSGT, "Smith")
	storeErr := errors.New("connection reset")
	env.assignments.createErr = storeErr

	_, err := env.svc.Import.ImportChat(context.Background(), &dto.ImportChatRequest{
		DutyDate: "2024-01-15", ChatText: "SOG: SGT Smith",
	})
	if !errors.Is(err, storeErr) {
		t.Errorf("写库失败应返回原始错误，实际 %v", err)
	}
	if env.fairness.replaceCalls != 0 {
		t.Errorf("写库失败时不应继续重算")
	}
}
