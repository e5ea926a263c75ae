package service

import (
	"go.uber.org/zap"

	"duty-tracker/config"
	"duty-tracker/internal/repository"
	"duty-tracker/pkg/jwt"
	"duty-tracker/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Person       PersonService
	Post         PostService
	Assignment   AssignmentService
	Fairness     FairnessService
	Distribution DistributionService
	Import       ImportService
	Export       ExportService
}

// NewService 创建 Service 聚合；cache 为 nil 时不使用 Redis 榜单镜像
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache FairnessBoardCache,
	jwtMgr *jwt.Manager,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	fairness := newFairnessService(repo, cfg.Fairness.Weights, cache, cfg.Fairness.CacheTTL, m, logger)
	distribution := newDistributionService(repo, logger)

	return &Service{
		Auth:         NewAuthService(jwtMgr, logger),
		Person:       NewPersonService(repo, logger),
		Post:         NewPostService(repo, logger),
		Assignment:   newAssignmentService(repo, fairness, m, logger),
		Fairness:     fairness,
		Distribution: distribution,
		Import:       newImportService(&cfg.Import, repo, fairness, m, logger),
		Export:       newExportService(repo, distribution, logger),
	}
}
