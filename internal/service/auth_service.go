package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"duty-tracker/internal/dto"
	"duty-tracker/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("管理员密码错误")
	ErrAuthDisabled       = errors.New("未启用管理员认证")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authService struct {
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(jwtMgr *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{jwtMgr: jwtMgr, logger: logger}
}

func (s *authService) Login(_ context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	token, expiresAt, err := s.jwtMgr.Login(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrInvalidPassword):
			s.logger.Warn("管理员登录失败：密码错误")
			return nil, ErrInvalidCredentials
		case errors.Is(err, jwt.ErrAuthNotConfigured):
			return nil, ErrAuthDisabled
		}
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员登录成功")
	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Format(dto.TimestampLayout),
	}, nil
}

