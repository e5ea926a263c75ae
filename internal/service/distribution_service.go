package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
	pkgerrors "duty-tracker/pkg/errors"
)

const dashboardRecentLimit = 5

// DistributionService 岗位分布统计业务接口
type DistributionService interface {
	// Get 统计 [from, to]（按 duty_date，含端点）内的岗位分布
	Get(ctx context.Context, req *dto.DistributionRequest) (*dto.DistributionResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type distributionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

func newDistributionService(repo *repository.Repository, logger *zap.Logger) *distributionService {
	return &distributionService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Get ──────────────────────

func (s *distributionService) Get(ctx context.Context, req *dto.DistributionRequest) (*dto.DistributionResponse, error) {
	d, persons, err := s.aggregate(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.DistributionResponse{
		PostTypeTotals:   d.PostTypeTotals,
		TotalAssignments: d.Total,
		TotalPersonnel:   len(d.PerPerson),
	}
	if req.PerPerson {
		resp.PerPerson = d.PerPerson
		resp.PersonnelStats = PersonnelStats(d, persons)
	}
	return resp, nil
}

// aggregate 读取区间内的排班并聚合；总是按人统计，便于导出复用
func (s *distributionService) aggregate(ctx context.Context, req *dto.DistributionRequest) (Distribution, map[string]*model.Person, error) {
	from, err := parseOptionalDate("from", req.From)
	if err != nil {
		return Distribution{}, nil, err
	}
	to, err := parseOptionalDate("to", req.To)
	if err != nil {
		return Distribution{}, nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return Distribution{}, nil, pkgerrors.NewValidationError("from", "开始日期不能晚于结束日期")
	}

	assignments, _, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{From: from, To: to})
	if err != nil {
		s.logger.Error("读取排班记录失败", zap.Error(err))
		return Distribution{}, nil, err
	}
	posts, err := s.repo.Post.ListPosts(ctx, true)
	if err != nil {
		s.logger.Error("读取岗位失败", zap.Error(err))
		return Distribution{}, nil, err
	}
	persons, err := s.repo.Person.List(ctx, true)
	if err != nil {
		s.logger.Error("读取人员失败", zap.Error(err))
		return Distribution{}, nil, err
	}

	postIndex := make(map[string]*model.Post, len(posts))
	for i := range posts {
		postIndex[posts[i].PostID] = &posts[i]
	}
	personIndex := make(map[string]*model.Person, len(persons))
	for i := range persons {
		personIndex[persons[i].PersonID] = &persons[i]
	}

	return AggregateDistribution(assignments, postIndex, true), personIndex, nil
}

// ────────────────────── Dashboard ──────────────────────

func (s *distributionService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{RecentAssignments: make([]dto.AssignmentResponse, 0, dashboardRecentLimit)}

	var err error
	if resp.TotalPersonnel, err = s.repo.Person.CountActive(ctx); err != nil {
		s.logger.Error("统计在岗人员失败", zap.Error(err))
		return nil, err
	}

	// duty_date 按 UTC 零点存储，"今天" 也按 UTC 取日期
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if resp.ActiveAssignments, err = s.repo.Assignment.CountFrom(ctx, today); err != nil {
		s.logger.Error("统计排班失败", zap.Error(err))
		return nil, err
	}
	if resp.PostsCovered, err = s.repo.Post.CountActivePosts(ctx); err != nil {
		s.logger.Error("统计岗位失败", zap.Error(err))
		return nil, err
	}

	records, err := s.repo.Fairness.List(ctx)
	if err != nil {
		s.logger.Error("读取公平性记录失败", zap.Error(err))
		return nil, err
	}
	resp.FairnessVariance = math.Round(FairnessVariance(records)*1000) / 1000

	recent, _, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{Limit: dashboardRecentLimit})
	if err != nil {
		s.logger.Error("读取最近排班失败", zap.Error(err))
		return nil, err
	}
	for i := range recent {
		resp.RecentAssignments = append(resp.RecentAssignments, toAssignmentResponse(&recent[i]))
	}
	return resp, nil
}
