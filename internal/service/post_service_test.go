package service

import (
	"context"
	"errors"
	"testing"

	"duty-tracker/internal/dto"
	pkgerrors "duty-tracker/pkg/errors"
)

func TestPostService_SetupDefaultsIdempotent(t *testing.T) {
	env := newTestEnv(nil)

	first, err := env.svc.Post.SetupDefaults(context.Background())
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	if first.PostTypesCreated != 6 || first.PostsCreated != 8 {
		t.Errorf("期望 6 个类型 8 个岗位，实际 %+v", first)
	}

	second, err := env.svc.Post.SetupDefaults(context.Background())
	if err != nil {
		t.Fatalf("再次初始化失败: %v", err)
	}
	if second.PostTypesCreated != 0 || second.PostsCreated != 0 {
		t.Errorf("重复调用不应新建，实际 %+v", second)
	}

	types, _ := env.svc.Post.ListTypes(context.Background())
	for _, pt := range types {
		if pt.Name == "ECP" && (len(pt.EquipmentRequired) != 6 || pt.PersonnelRequired != 2) {
			t.Errorf("ECP 标准数据错误: %+v", pt)
		}
		if pt.Name == "Stand by" && pt.EquipmentRequired == nil {
			t.Errorf("装备列表应为空数组而非 nil")
		}
	}
}

func TestPostService_CreateType(t *testing.T) {
	env := newTestEnv(nil)

	resp, err := env.svc.Post.CreateType(context.Background(), &dto.CreatePostTypeRequest{
		Name: "Roving Guard", ShiftStart: "08:00", ShiftEnd: "16:00",
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.PersonnelRequired != 1 || len(resp.EquipmentRequired) != 0 {
		t.Errorf("默认值错误: %+v", resp)
	}

	if _, err := env.svc.Post.CreateType(context.Background(), &dto.CreatePostTypeRequest{Name: "roving guard"}); !errors.Is(err, ErrPostTypeExists) {
		t.Errorf("期望 ErrPostTypeExists，实际 %v", err)
	}

	_, err = env.svc.Post.CreateType(context.Background(), &dto.CreatePostTypeRequest{Name: "Night", ShiftStart: "22:00", ShiftEnd: "06:00"})
	if _, ok := pkgerrors.IsValidation(err); !ok {
		t.Errorf("跨夜班次应返回校验错误，实际 %v", err)
	}
}

func TestPostService_CreatePost(t *testing.T) {
	env := newTestEnv(nil)
	env.setupPosts()

	var ecpTypeID string
	for id, pt := range env.posts.types {
		if pt.Name == "ECP" {
			ecpTypeID = id
		}
	}

	resp, err := env.svc.Post.CreatePost(context.Background(), &dto.CreatePostRequest{Name: "ECP4", PostTypeID: ecpTypeID})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.PostType == nil || resp.PostType.Name != "ECP" || !resp.IsActive {
		t.Errorf("创建结果错误: %+v", resp)
	}

	if _, err := env.svc.Post.CreatePost(context.Background(), &dto.CreatePostRequest{Name: "ecp4", PostTypeID: ecpTypeID}); !errors.Is(err, ErrPostExists) {
		t.Errorf("期望 ErrPostExists，实际 %v", err)
	}
	if _, err := env.svc.Post.CreatePost(context.Background(), &dto.CreatePostRequest{Name: "X", PostTypeID: "missing"}); !errors.Is(err, ErrPostTypeNotFound) {
		t.Errorf("期望 ErrPostTypeNotFound，实际 %v", err)
	}

	posts, _ := env.svc.Post.ListPosts(context.Background())
	if len(posts) != 9 {
		t.Errorf("期望 9 个岗位，实际 %d", len(posts))
	}
}
