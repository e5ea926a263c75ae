package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"duty-tracker/internal/dto"
	"duty-tracker/pkg/jwt"
)

func authEnv(t *testing.T) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2-hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成哈希失败: %v", err)
	}
	cfg := testConfig()
	cfg.Auth.JWTSecret = "0123456789abcdef0123"
	cfg.Auth.AdminPasswordHash = string(hash)
	return newTestEnv(cfg)
}

func TestAuthService_Login(t *testing.T) {
	env := authEnv(t)

	resp, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{Password: "hunter2-hunter2"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.ExpiresAt == "" {
		t.Fatalf("应返回 Token: %+v", resp)
	}

	claims, err := jwt.NewManager(&env.cfg.Auth).ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("Token 无法解析: %v", err)
	}
	if claims.Role != jwt.RoleAdmin {
		t.Errorf("角色应为 admin，实际 %s", claims.Role)
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	env := authEnv(t)

	_, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际 %v", err)
	}
}

func TestAuthService_LoginDisabled(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{Password: "anything"})
	if !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("期望 ErrAuthDisabled，实际 %v", err)
	}
}
