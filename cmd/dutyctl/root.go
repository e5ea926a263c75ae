package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"duty-tracker/config"
	"duty-tracker/internal/repository"
	"duty-tracker/internal/service"
	"duty-tracker/pkg/database"
	"duty-tracker/pkg/jwt"
	applogger "duty-tracker/pkg/logger"
	"duty-tracker/pkg/metrics"
)

var configPath string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dutyctl",
		Short:         "Duty roster maintenance: chat import, fairness recalculation, distribution reports",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./config/config.yaml)")

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newRecalculateCmd())
	cmd.AddCommand(newDistributionCmd())
	cmd.AddCommand(newSetupPostsCmd())
	return cmd
}

// app CLI 运行时依赖；不连接 Redis，榜单镜像交由服务端在下次重算时刷新
type app struct {
	svc    *service.Service
	db     *gorm.DB
	logger *zap.Logger
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("数据库不可用: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return nil, err
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, nil, jwt.NewManager(&cfg.Auth), metrics.NewNop(), logger)
	return &app{svc: svc, db: db, logger: logger}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	a.logger.Sync()
}
