package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
	pkgerrors "duty-tracker/pkg/errors"
	"duty-tracker/pkg/metrics"
)

// ── 排班模块业务错误 ──

var (
	ErrAssignmentNotFound      = errors.New("排班记录不存在")
	ErrDuplicateAssignment     = errors.New("该人员当天已排在此岗位")
	ErrInvalidStatusTransition = errors.New("只有已排班状态可以变更为完成或缺勤")
	ErrPersonInactive          = errors.New("人员已停用")
	ErrPostInactive            = errors.New("岗位已停用")
)

// AssignmentService 排班业务接口
type AssignmentService interface {
	List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	// Create 新增排班并在同一事务内重算公平性
	Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	// UpdateStatus assigned → completed | no-show，带乐观锁
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateAssignmentStatusRequest) (*dto.AssignmentResponse, error)
	// Delete 删除排班并在同一事务内重算公平性
	Delete(ctx context.Context, id string) error
}

type assignmentService struct {
	repo     *repository.Repository
	fairness *fairnessService
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// newAssignmentService 创建 AssignmentService 实例
func newAssignmentService(
	repo *repository.Repository,
	fairness *fairnessService,
	m *metrics.Metrics,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{repo: repo, fairness: fairness, metrics: m, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	filter := repository.AssignmentFilter{
		PersonID: req.PersonID,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	}
	var err error
	if filter.DutyDate, err = parseOptionalDate("duty_date", req.DutyDate); err != nil {
		return nil, 0, err
	}
	if filter.From, err = parseOptionalDate("from", req.From); err != nil {
		return nil, 0, err
	}
	if filter.To, err = parseOptionalDate("to", req.To); err != nil {
		return nil, 0, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, pkgerrors.NewValidationError("from", "开始日期不能晚于结束日期")
	}

	list, total, err := s.repo.Assignment.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出排班失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, toAssignmentResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *assignmentService) GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	dutyDate, err := parseDutyDate(req.DutyDate)
	if err != nil {
		return nil, err
	}
	start, end := strings.TrimSpace(req.StartTime), strings.TrimSpace(req.EndTime)
	if (start == "") != (end == "") {
		return nil, pkgerrors.NewValidationError("end_time", "开始与结束时间需同时提供")
	}
	if start != "" {
		if start, end, err = normalizeWindow(start, end); err != nil {
			return nil, err
		}
	}
	status := req.Status
	if status == "" {
		status = model.AssignmentStatusAssigned
	}
	if !model.IsValidAssignmentStatus(status) {
		return nil, pkgerrors.NewValidationError("status", "未知状态: "+status)
	}

	assignment := &model.Assignment{
		PersonID:  req.PersonID,
		PostID:    req.PostID,
		DutyDate:  dutyDate,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		Notes:     strings.TrimSpace(req.Notes),
	}

	var outcome *FairnessOutcome
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		person, err := tx.Person.GetByID(ctx, req.PersonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPersonNotFound
			}
			return err
		}
		if !person.IsActive {
			return ErrPersonInactive
		}
		post, err := tx.Post.GetPostByID(ctx, req.PostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if !post.IsActive {
			return ErrPostInactive
		}

		sameDay, err := tx.Assignment.ListByDutyDate(ctx, dutyDate)
		if err != nil {
			return err
		}
		for _, a := range sameDay {
			if a.PersonID == req.PersonID && a.PostID == req.PostID {
				return ErrDuplicateAssignment
			}
		}

		if err := tx.Assignment.Create(ctx, assignment); err != nil {
			return err
		}
		assignment.Person, assignment.Post = person, post

		outcome, err = s.fairness.recalculateIn(ctx, tx)
		return err
	})
	if err != nil {
		if !isAssignmentBusinessError(err) {
			s.logger.Error("创建排班失败", zap.Error(err))
		}
		return nil, err
	}

	s.metrics.AssignmentsCreated.Inc()
	s.publishOutcome(ctx, outcome)

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *assignmentService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateAssignmentStatusRequest) (*dto.AssignmentResponse, error) {
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssignmentStatusAssigned {
		return nil, ErrInvalidStatusTransition
	}
	if req.Status != model.AssignmentStatusCompleted && req.Status != model.AssignmentStatusNoShow {
		return nil, ErrInvalidStatusTransition
	}

	a.Status = req.Status
	if req.Notes != nil {
		a.Notes = strings.TrimSpace(*req.Notes)
	}
	if err := s.repo.Assignment.UpdateStatus(ctx, a); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新排班状态失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	resp := toAssignmentResponse(a)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	var outcome *FairnessOutcome
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		var err error
		outcome, err = s.fairness.recalculateIn(ctx, tx)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrAssignmentNotFound) {
			s.logger.Error("删除排班失败", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	s.metrics.AssignmentsDeleted.Inc()
	s.publishOutcome(ctx, outcome)
	return nil
}

// ── 内部辅助 ──

func (s *assignmentService) getAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询排班失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) publishOutcome(ctx context.Context, outcome *FairnessOutcome) {
	if outcome == nil {
		return
	}
	persons, err := s.fairness.personIndex(ctx)
	if err != nil {
		return
	}
	s.fairness.publish(ctx, toFairnessResponses(outcome.Records, persons))
}

func isAssignmentBusinessError(err error) bool {
	if _, ok := pkgerrors.IsValidation(err); ok {
		return true
	}
	for _, target := range []error{
		ErrPersonNotFound, ErrPostNotFound, ErrPersonInactive, ErrPostInactive, ErrDuplicateAssignment,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// parseDutyDate 解析 YYYY-MM-DD
func parseDutyDate(v string) (time.Time, error) {
	d, err := time.Parse(dto.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, pkgerrors.NewValidationError("duty_date", "日期格式应为 YYYY-MM-DD")
	}
	return d, nil
}

func parseOptionalDate(field, v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := time.Parse(dto.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return nil, pkgerrors.NewValidationError(field, "日期格式应为 YYYY-MM-DD")
	}
	return &d, nil
}

// normalizeWindow 校验并规范化 HH:MM 起止时间，要求开始早于结束
func normalizeWindow(start, end string) (string, string, error) {
	s, ok := clockMinutes(start)
	if !ok {
		return "", "", pkgerrors.NewValidationError("start_time", "时间格式应为 HH:MM")
	}
	e, ok := clockMinutes(end)
	if !ok {
		return "", "", pkgerrors.NewValidationError("end_time", "时间格式应为 HH:MM")
	}
	if s >= e {
		return "", "", pkgerrors.NewValidationError("end_time", "开始时间必须早于结束时间")
	}
	return formatClock(s), formatClock(e), nil
}

func formatClock(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04")
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:        a.AssignmentID,
		PersonID:  a.PersonID,
		PostID:    a.PostID,
		DutyDate:  a.DutyDate.Format(dto.DateLayout),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format(dto.TimestampLayout),
		Post:      toPostBrief(a.Post),
	}
	if a.Person != nil {
		brief := toPersonBrief(a.Person)
		resp.Person = &brief
	}
	return resp
}
