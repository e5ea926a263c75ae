package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
	"duty-tracker/pkg/metrics"
	pkgredis "duty-tracker/pkg/redis"
)

// FairnessBoardCache 公平性榜单镜像（Redis），不是权威数据源
type FairnessBoardCache interface {
	StoreFairnessBoard(ctx context.Context, payload []byte, ttl time.Duration) error
	LoadFairnessBoard(ctx context.Context) ([]byte, error)
}

// FairnessService 公平性业务接口
type FairnessService interface {
	// Recalculate 全量重算并整表替换 fairness_records
	Recalculate(ctx context.Context) (*dto.RecalculateResponse, error)
	// List 返回按负担升序排列的榜单
	List(ctx context.Context) ([]dto.FairnessResponse, error)
	// Suggest 返回负担最低的在岗人员，仅作参考，不做排班求解
	Suggest(ctx context.Context, limit int) ([]dto.SuggestionResponse, error)
}

type fairnessService struct {
	repo     *repository.Repository
	weights  WeightTable
	cache    FairnessBoardCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// newFairnessService 创建公平性服务；cache 可为 nil
func newFairnessService(
	repo *repository.Repository,
	weights map[string]float64,
	cache FairnessBoardCache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *fairnessService {
	return &fairnessService{
		repo:     repo,
		weights:  NewWeightTable(weights),
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Recalculate ──────────────────────

func (s *fairnessService) Recalculate(ctx context.Context) (*dto.RecalculateResponse, error) {
	var outcome *FairnessOutcome
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		outcome, err = s.recalculateIn(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	persons, err := s.personIndex(ctx)
	if err != nil {
		return nil, err
	}
	board := toFairnessResponses(outcome.Records, persons)
	s.publish(ctx, board)

	resp := &dto.RecalculateResponse{
		Records:         board,
		ScoredCount:     outcome.Scored,
		IntegrityIssues: make([]dto.IntegrityIssue, 0, len(outcome.IntegrityErrors)),
	}
	for _, ie := range outcome.IntegrityErrors {
		resp.IntegrityIssues = append(resp.IntegrityIssues, dto.IntegrityIssue{
			AssignmentID: ie.AssignmentID,
			Ref:          ie.Ref,
			RefID:        ie.RefID,
			Message:      ie.Error(),
		})
	}
	return resp, nil
}

// recalculateIn 在给定（通常是事务内的）Repository 上完成一次重算。
// 导入与增删排班都复用它，保证与写入处于同一事务。
func (s *fairnessService) recalculateIn(ctx context.Context, tx *repository.Repository) (*FairnessOutcome, error) {
	start := time.Now()

	assignments, err := tx.Assignment.ListAll(ctx)
	if err != nil {
		s.logger.Error("读取排班记录失败", zap.Error(err))
		return nil, err
	}
	persons, err := tx.Person.List(ctx, true)
	if err != nil {
		s.logger.Error("读取人员失败", zap.Error(err))
		return nil, err
	}
	posts, err := tx.Post.ListPosts(ctx, true)
	if err != nil {
		s.logger.Error("读取岗位失败", zap.Error(err))
		return nil, err
	}

	in := FairnessInput{
		Assignments: assignments,
		Persons:     make(map[string]*model.Person, len(persons)),
		Posts:       make(map[string]*model.Post, len(posts)),
		Weights:     s.weights,
		Now:         s.now(),
	}
	for i := range persons {
		in.Persons[persons[i].PersonID] = &persons[i]
	}
	for i := range posts {
		in.Posts[posts[i].PostID] = &posts[i]
	}

	outcome := ComputeFairness(in)
	for _, ie := range outcome.IntegrityErrors {
		s.logger.Warn("排班引用失效，已跳过计分",
			zap.String("assignment_id", ie.AssignmentID),
			zap.String("ref", ie.Ref),
			zap.String("ref_id", ie.RefID),
		)
		s.metrics.IntegrityErrors.Inc()
	}

	if err := tx.Fairness.ReplaceAll(ctx, outcome.Records); err != nil {
		s.logger.Error("写入公平性记录失败", zap.Error(err))
		return nil, err
	}

	s.metrics.RecalculationTime.Observe(time.Since(start).Seconds())
	s.logger.Info("公平性重算完成",
		zap.Int("persons", len(outcome.Records)),
		zap.Int("scored", outcome.Scored),
		zap.Int("integrity_errors", len(outcome.IntegrityErrors)),
	)
	return &outcome, nil
}

// publish 提交后把榜单写入 Redis 镜像，失败只记日志
func (s *fairnessService) publish(ctx context.Context, board []dto.FairnessResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(board)
	if err != nil {
		s.logger.Warn("序列化公平性榜单失败", zap.Error(err))
		return
	}
	if err := s.cache.StoreFairnessBoard(ctx, payload, s.cacheTTL); err != nil {
		s.logger.Warn("写入公平性榜单镜像失败", zap.Error(err))
	}
}

// ────────────────────── List ──────────────────────

func (s *fairnessService) List(ctx context.Context) ([]dto.FairnessResponse, error) {
	if s.cache != nil {
		payload, err := s.cache.LoadFairnessBoard(ctx)
		if err == nil {
			var board []dto.FairnessResponse
			if jsonErr := json.Unmarshal(payload, &board); jsonErr == nil {
				return board, nil
			}
			s.logger.Warn("公平性榜单镜像损坏，回退到数据库")
		} else if !errors.Is(err, pkgredis.ErrCacheMiss) {
			s.logger.Warn("读取公平性榜单镜像失败", zap.Error(err))
		}
	}

	records, err := s.repo.Fairness.List(ctx)
	if err != nil {
		s.logger.Error("读取公平性记录失败", zap.Error(err))
		return nil, err
	}
	RankFairness(records)

	persons, err := s.personIndex(ctx)
	if err != nil {
		return nil, err
	}
	board := toFairnessResponses(records, persons)
	s.publish(ctx, board)
	return board, nil
}

// ────────────────────── Suggest ──────────────────────

func (s *fairnessService) Suggest(ctx context.Context, limit int) ([]dto.SuggestionResponse, error) {
	if limit <= 0 {
		limit = 5
	}

	persons, err := s.repo.Person.List(ctx, false)
	if err != nil {
		s.logger.Error("读取人员失败", zap.Error(err))
		return nil, err
	}
	records, err := s.repo.Fairness.List(ctx)
	if err != nil {
		s.logger.Error("读取公平性记录失败", zap.Error(err))
		return nil, err
	}
	byPerson := make(map[string]model.FairnessRecord, len(records))
	for _, r := range records {
		byPerson[r.PersonID] = r
	}

	// 没有记录的人按 0 分参与排序
	ranked := make([]model.FairnessRecord, 0, len(persons))
	index := make(map[string]*model.Person, len(persons))
	for i := range persons {
		p := &persons[i]
		index[p.PersonID] = p
		rec, ok := byPerson[p.PersonID]
		if !ok {
			rec = model.FairnessRecord{PersonID: p.PersonID}
		}
		ranked = append(ranked, rec)
	}
	RankFairness(ranked)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	result := make([]dto.SuggestionResponse, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, dto.SuggestionResponse{
			Person:          toPersonBrief(index[r.PersonID]),
			FairnessScore:   r.FairnessScore,
			AssignmentCount: r.AssignmentCount,
		})
	}
	return result, nil
}

// ── 内部辅助 ──

func (s *fairnessService) personIndex(ctx context.Context) (map[string]*model.Person, error) {
	persons, err := s.repo.Person.List(ctx, true)
	if err != nil {
		s.logger.Error("读取人员失败", zap.Error(err))
		return nil, err
	}
	index := make(map[string]*model.Person, len(persons))
	for i := range persons {
		index[persons[i].PersonID] = &persons[i]
	}
	return index, nil
}

func toFairnessResponses(records []model.FairnessRecord, persons map[string]*model.Person) []dto.FairnessResponse {
	result := make([]dto.FairnessResponse, 0, len(records))
	for i := range records {
		result = append(result, toFairnessResponse(&records[i], persons[records[i].PersonID]))
	}
	return result
}

func toFairnessResponse(r *model.FairnessRecord, p *model.Person) dto.FairnessResponse {
	resp := dto.FairnessResponse{
		PersonID:           r.PersonID,
		FairnessScore:      r.FairnessScore,
		WeightedPoints:     r.WeightedPoints,
		AssignmentCount:    r.AssignmentCount,
		ConsecutiveStandby: r.ConsecutiveStandby,
		LastRecalculated:   r.LastRecalculated.Format(dto.TimestampLayout),
	}
	if r.LastDutyDate != nil {
		resp.LastDutyDate = r.LastDutyDate.Format(dto.DateLayout)
	}
	if p != nil {
		resp.PersonName = p.Name
		resp.Rank = string(p.Rank)
	}
	return resp
}
