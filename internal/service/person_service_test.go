package service

import (
	"context"
	"errors"
	"testing"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	pkgerrors "duty-tracker/pkg/errors"
)

func TestPersonService_CreateAndList(t *testing.T) {
	env := newTestEnv(nil)

	resp, err := env.svc.Person.Create(context.Background(), &dto.CreatePersonRequest{Rank: "sgt", Name: "  Mary   Lastre "})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.Rank != "SGT" || resp.Name != "Mary Lastre" || resp.FullName != "SGT Mary Lastre" || !resp.IsActive {
		t.Errorf("创建结果错误: %+v", resp)
	}

	_, err = env.svc.Person.Create(context.Background(), &dto.CreatePersonRequest{Rank: "CPT", Name: "Nobody"})
	if ve, ok := pkgerrors.IsValidation(err); !ok || ve.Field != "rank" {
		t.Errorf("未知军衔应返回校验错误，实际 %v", err)
	}

	list, err := env.svc.Person.List(context.Background(), &dto.PersonListRequest{})
	if err != nil || len(list) != 1 {
		t.Errorf("期望 1 人，实际 %d (%v)", len(list), err)
	}
}

func TestPersonService_Deactivate(t *testing.T) {
	env := newTestEnv(nil)
	p := env.addPerson(model.RankPFC, "Jones")

	if err := env.svc.Person.Deactivate(context.Background(), p.PersonID); err != nil {
		t.Fatalf("停用失败: %v", err)
	}
	active, _ := env.svc.Person.List(context.Background(), &dto.PersonListRequest{})
	if len(active) != 0 {
		t.Errorf("停用后不应出现在在岗列表")
	}
	all, _ := env.svc.Person.List(context.Background(), &dto.PersonListRequest{IncludeInactive: true})
	if len(all) != 1 || all[0].IsActive {
		t.Errorf("停用人员应保留记录，实际 %+v", all)
	}

	if err := env.svc.Person.Deactivate(context.Background(), "missing"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("期望 ErrPersonNotFound，实际 %v", err)
	}
}

func TestPersonService_Update(t *testing.T) {
	env := newTestEnv(nil)
	p := env.addPerson(model.RankPFC, "Jones")

	rank := "SPC"
	resp, err := env.svc.Person.Update(context.Background(), p.PersonID, &dto.UpdatePersonRequest{Rank: &rank})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.Rank != "SPC" || resp.Name != "Jones" {
		t.Errorf("更新结果错误: %+v", resp)
	}

	empty := "   "
	_, err = env.svc.Person.Update(context.Background(), p.PersonID, &dto.UpdatePersonRequest{Name: &empty})
	if _, ok := pkgerrors.IsValidation(err); !ok {
		t.Errorf("空姓名应返回校验错误，实际 %v", err)
	}
}

func TestPersonService_Details(t *testing.T) {
	env := newTestEnv(nil)
	posts := env.setupPosts()
	p := env.addPerson(model.RankSPC, "Henderson")
	seedAssignment(env, p, posts["ECP1"], "2024-01-10")
	seedAssignment(env, p, posts["ECP2"], "2024-01-11")
	seedAssignment(env, p, posts["CQ"], "2024-01-12")
	if _, err := env.svc.Fairness.Recalculate(context.Background()); err != nil {
		t.Fatalf("重算失败: %v", err)
	}

	d, err := env.svc.Person.Details(context.Background(), p.PersonID)
	if err != nil {
		t.Fatalf("Details 失败: %v", err)
	}
	if d.TotalAssignments != 3 || d.PostTypeCounts["ECP"] != 2 || d.MostFrequentPostType != "ECP" {
		t.Errorf("统计错误: %+v", d)
	}
	if len(d.RecentAssignments) != 3 || d.RecentAssignments[0].DutyDate != "2024-01-12" {
		t.Errorf("最近排班应按日期倒序: %+v", d.RecentAssignments)
	}
	if d.Fairness == nil || d.Fairness.AssignmentCount != 3 {
		t.Errorf("应附带公平性记录: %+v", d.Fairness)
	}
}
