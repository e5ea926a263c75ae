package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
	pkgerrors "duty-tracker/pkg/errors"
)

// ── 人员模块业务错误 ──

var (
	ErrPersonNotFound = errors.New("人员不存在")
)

const recentAssignmentsLimit = 10

// PersonService 人员业务接口
type PersonService interface {
	List(ctx context.Context, req *dto.PersonListRequest) ([]dto.PersonResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PersonResponse, error)
	Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error)
	// Deactivate 停用人员；历史排班保留，人员不再参与导入匹配与推荐
	Deactivate(ctx context.Context, id string) error
	Details(ctx context.Context, id string) (*dto.PersonDetailsResponse, error)
}

type personService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(repo *repository.Repository, logger *zap.Logger) PersonService {
	return &personService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *personService) List(ctx context.Context, req *dto.PersonListRequest) ([]dto.PersonResponse, error) {
	persons, err := s.repo.Person.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出人员失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		result = append(result, toPersonResponse(&persons[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *personService) GetByID(ctx context.Context, id string) (*dto.PersonResponse, error) {
	person, err := s.getPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPersonResponse(person)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *personService) Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	rank, ok := model.ParseRank(req.Rank)
	if !ok {
		return nil, pkgerrors.NewValidationError("rank", "未知军衔: "+req.Rank)
	}
	name := strings.Join(strings.Fields(req.Name), " ")
	if name == "" {
		return nil, pkgerrors.NewValidationError("name", "姓名不能为空")
	}

	person := &model.Person{Rank: rank, Name: name, IsActive: true}
	if err := s.repo.Person.Create(ctx, person); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}

	resp := toPersonResponse(person)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *personService) Update(ctx context.Context, id string, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error) {
	person, err := s.getPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Rank != nil {
		rank, ok := model.ParseRank(*req.Rank)
		if !ok {
			return nil, pkgerrors.NewValidationError("rank", "未知军衔: "+*req.Rank)
		}
		person.Rank = rank
	}
	if req.Name != nil {
		name := strings.Join(strings.Fields(*req.Name), " ")
		if name == "" {
			return nil, pkgerrors.NewValidationError("name", "姓名不能为空")
		}
		person.Name = name
	}
	if req.IsActive != nil {
		person.IsActive = *req.IsActive
	}

	if err := s.repo.Person.Update(ctx, person); err != nil {
		s.logger.Error("更新人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toPersonResponse(person)
	return &resp, nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *personService) Deactivate(ctx context.Context, id string) error {
	person, err := s.getPerson(ctx, id)
	if err != nil {
		return err
	}
	if !person.IsActive {
		return nil
	}

	person.IsActive = false
	if err := s.repo.Person.Update(ctx, person); err != nil {
		s.logger.Error("停用人员失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("人员已停用", zap.String("id", id), zap.String("name", person.FullName()))
	return nil
}

// ────────────────────── Details ──────────────────────

func (s *personService) Details(ctx context.Context, id string) (*dto.PersonDetailsResponse, error) {
	person, err := s.getPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	assignments, _, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{PersonID: id})
	if err != nil {
		s.logger.Error("查询人员排班失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	details := &dto.PersonDetailsResponse{
		Person:            toPersonResponse(person),
		TotalAssignments:  len(assignments),
		PostTypeCounts:    make(map[string]int),
		PostCounts:        make(map[string]int),
		RecentAssignments: make([]dto.AssignmentResponse, 0, recentAssignmentsLimit),
	}
	for i := range assignments {
		a := &assignments[i]
		postName, typeName := UnresolvedPostType, UnresolvedPostType
		if a.Post != nil {
			postName = a.Post.Name
			if a.Post.PostType != nil {
				typeName = a.Post.PostType.Name
			}
		}
		details.PostCounts[postName]++
		details.PostTypeCounts[typeName]++

		// List 已按 duty_date 倒序
		if i < recentAssignmentsLimit {
			details.RecentAssignments = append(details.RecentAssignments, toAssignmentResponse(a))
		}
	}
	details.MostFrequentPostType = mostFrequent(details.PostTypeCounts)
	details.MostFrequentPost = mostFrequent(details.PostCounts)

	rec, err := s.repo.Fairness.GetByPersonID(ctx, id)
	switch {
	case err == nil:
		fr := toFairnessResponse(rec, person)
		details.Fairness = &fr
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询公平性记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return details, nil
}

// ── 内部辅助 ──

func (s *personService) getPerson(ctx context.Context, id string) (*model.Person, error) {
	person, err := s.repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return person, nil
}

// mostFrequent 次数最多的键，并列时取字典序最小者
func mostFrequent(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

func toPersonResponse(p *model.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:        p.PersonID,
		Rank:      string(p.Rank),
		Name:      p.Name,
		FullName:  p.FullName(),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format(dto.TimestampLayout),
	}
}

func toPersonBrief(p *model.Person) dto.PersonBrief {
	if p == nil {
		return dto.PersonBrief{}
	}
	return dto.PersonBrief{
		ID:       p.PersonID,
		Rank:     string(p.Rank),
		Name:     p.Name,
		FullName: p.FullName(),
	}
}
