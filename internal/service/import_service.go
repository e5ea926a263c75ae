package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"duty-tracker/config"
	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
	pkgerrors "duty-tracker/pkg/errors"
	"duty-tracker/pkg/metrics"
)

// ImportService 群聊排班导入业务接口
type ImportService interface {
	// ImportChat 解析文本并写入排班。
	// 单行失败只记录在结果里，成功的行照常提交；写库失败时整批回滚。
	ImportChat(ctx context.Context, req *dto.ImportChatRequest) (*dto.ImportChatResponse, error)
}

type importService struct {
	cfg      *config.ImportConfig
	repo     *repository.Repository
	fairness *fairnessService
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// newImportService 创建 ImportService 实例
func newImportService(
	cfg *config.ImportConfig,
	repo *repository.Repository,
	fairness *fairnessService,
	m *metrics.Metrics,
	logger *zap.Logger,
) ImportService {
	return &importService{cfg: cfg, repo: repo, fairness: fairness, metrics: m, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ImportChat
// ═══════════════════════════════════════════════════════════
//
// 流程：
//   1. 解析文本 → 草稿 + 警告（纯函数）
//   2. 事务内：解析人员/岗位 → 确定时间窗 → 去重 → 写入
//   3. 同一事务末尾重算一次公平性
//   4. 提交后刷新 Redis 榜单镜像

func (s *importService) ImportChat(ctx context.Context, req *dto.ImportChatRequest) (*dto.ImportChatResponse, error) {
	dutyDate, err := parseDutyDate(req.DutyDate)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ChatText) == "" {
		return nil, pkgerrors.NewValidationError("chat_text", "导入文本不能为空")
	}
	if s.cfg.MaxTextBytes > 0 && len(req.ChatText) > s.cfg.MaxTextBytes {
		return nil, pkgerrors.NewValidationError("chat_text", fmt.Sprintf("导入文本不能超过 %d 字节", s.cfg.MaxTextBytes))
	}

	parsed := ParseChat(req.ChatText, dutyDate)

	resp := &dto.ImportChatResponse{
		DutyDate:      dutyDate.Format(dto.DateLayout),
		AssignmentIDs: []string{},
		Errors:        make([]dto.ImportLineError, 0, len(parsed.Warnings)),
	}
	for _, w := range parsed.Warnings {
		resp.Errors = append(resp.Errors, dto.ImportLineError{
			Line: w.Line, Kind: dto.LineErrorParse, Reason: w.Reason, Text: w.Text,
		})
	}

	var outcome *FairnessOutcome
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		persons, err := tx.Person.List(ctx, false)
		if err != nil {
			return err
		}
		posts, err := tx.Post.ListPosts(ctx, false)
		if err != nil {
			return err
		}
		existing, err := tx.Assignment.ListByDutyDate(ctx, dutyDate)
		if err != nil {
			return err
		}

		resolver := NewResolver(persons, posts, s.cfg.PostAliases)
		taken := make(map[string]bool, len(existing))
		for _, a := range existing {
			taken[a.PersonID+"|"+a.PostID] = true
		}

		for _, draft := range parsed.Drafts {
			assignment, lineErr := s.buildAssignment(resolver, draft)
			if lineErr != nil {
				resp.Errors = append(resp.Errors, *lineErr)
				continue
			}

			key := assignment.PersonID + "|" + assignment.PostID
			if taken[key] {
				resp.Errors = append(resp.Errors, dto.ImportLineError{
					Line:   draft.Line,
					Kind:   dto.LineErrorDuplicate,
					Reason: fmt.Sprintf("%s 当天已排在 %s", draft.PersonText, draft.PostLabel),
					Text:   draft.PersonText,
				})
				continue
			}

			if err := tx.Assignment.Create(ctx, assignment); err != nil {
				return err
			}
			taken[key] = true
			resp.AssignmentIDs = append(resp.AssignmentIDs, assignment.AssignmentID)
		}

		outcome, err = s.fairness.recalculateIn(ctx, tx)
		return err
	})
	if err != nil {
		s.logger.Error("群聊导入失败，已回滚", zap.String("duty_date", resp.DutyDate), zap.Error(err))
		s.metrics.ImportsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	resp.CreatedCount = len(resp.AssignmentIDs)
	sort.SliceStable(resp.Errors, func(i, j int) bool { return resp.Errors[i].Line < resp.Errors[j].Line })

	// 事务已提交，读取人员失败时只返回空榜单
	resp.Fairness = []dto.FairnessResponse{}
	if persons, err := s.fairness.personIndex(ctx); err != nil {
		s.logger.Error("导入已提交，读取人员失败，榜单留空", zap.String("duty_date", resp.DutyDate), zap.Error(err))
	} else {
		resp.Fairness = toFairnessResponses(outcome.Records, persons)
		s.fairness.publish(ctx, resp.Fairness)
	}

	s.recordMetrics(resp)
	s.logger.Info("群聊导入完成",
		zap.String("duty_date", resp.DutyDate),
		zap.Int("drafts", len(parsed.Drafts)),
		zap.Int("created", resp.CreatedCount),
		zap.Int("errors", len(resp.Errors)),
	)
	return resp, nil
}

// buildAssignment 把一条草稿解析为待写入的排班；失败时返回该行唯一的一条错误
func (s *importService) buildAssignment(resolver *Resolver, draft AssignmentDraft) (*model.Assignment, *dto.ImportLineError) {
	pm := resolver.ResolvePerson(draft.PersonText)
	postMatch := resolver.ResolvePost(draft.PostLabel)
	if lineErr := resolutionLineError(draft, pm, postMatch); lineErr != nil {
		return nil, lineErr
	}

	start, end, err := s.resolveWindow(draft, postMatch.Post)
	if err != nil {
		return nil, &dto.ImportLineError{
			Line: draft.Line, Kind: dto.LineErrorValidation, Reason: err.Error(), Text: draft.RawTime,
		}
	}

	if pm.Person.Rank != "" {
		if tokens := strings.Fields(draft.PersonText); len(tokens) > 1 {
			if rk, ok := model.ParseRank(strings.TrimRight(tokens[0], ".")); ok && rk != pm.Person.Rank {
				s.logger.Debug("导入军衔与人员档案不一致",
					zap.Int("line", draft.Line),
					zap.String("text", draft.PersonText),
					zap.String("stored_rank", string(pm.Person.Rank)),
				)
			}
		}
	}

	return &model.Assignment{
		PersonID:  pm.Person.PersonID,
		PostID:    postMatch.Post.PostID,
		DutyDate:  draft.DutyDate,
		StartTime: start,
		EndTime:   end,
		Status:    model.AssignmentStatusAssigned,
		Notes:     draft.Notes,
	}, nil
}

// resolveWindow 时间优先级：草稿自带 > 岗位类型额定班次 > 配置的默认班次
func (s *importService) resolveWindow(draft AssignmentDraft, post *model.Post) (string, string, error) {
	if draft.RawTime != "" {
		start, end, err := ParseTimeRange(draft.RawTime)
		if err != nil {
			return "", "", err
		}
		return normalizeWindow(start, end)
	}
	if pt := post.PostType; pt != nil && pt.ShiftStart != "" && pt.ShiftEnd != "" {
		if start, end, err := normalizeWindow(pt.ShiftStart, pt.ShiftEnd); err == nil {
			return start, end, nil
		}
	}
	return normalizeWindow(s.cfg.DefaultShiftStart, s.cfg.DefaultShiftEnd)
}

func (s *importService) recordMetrics(resp *dto.ImportChatResponse) {
	outcome := "ok"
	switch {
	case resp.CreatedCount == 0:
		outcome = "failed"
	case len(resp.Errors) > 0:
		outcome = "partial"
	}
	s.metrics.ImportsTotal.WithLabelValues(outcome).Inc()
	s.metrics.ImportLines.WithLabelValues("created").Add(float64(resp.CreatedCount))
	for _, e := range resp.Errors {
		s.metrics.ImportLines.WithLabelValues(e.Kind).Inc()
	}
	s.metrics.AssignmentsCreated.Add(float64(resp.CreatedCount))
}

// resolutionLineError 合并人员与岗位的解析失败，同一行只报告一条错误；都解析成功时返回 nil
func resolutionLineError(draft AssignmentDraft, pm PersonMatch, postMatch PostMatch) *dto.ImportLineError {
	personFailed := pm.Kind != MatchMatched
	postFailed := postMatch.Kind != MatchMatched

	var reasons []string
	raw := draft.PersonText
	switch {
	case personFailed && postFailed:
		reasons = append(reasons, personReason(pm), postReason(postMatch))
		raw = draft.PostLabel + ": " + draft.PersonText
	case personFailed:
		reasons = append(reasons, personReason(pm))
	case postFailed:
		reasons = append(reasons, postReason(postMatch))
		raw = draft.PostLabel
	default:
		return nil
	}

	re := &pkgerrors.ResolutionError{
		Line:        draft.Line,
		Raw:         raw,
		Reason:      strings.Join(reasons, "；"),
		Suggestions: pm.Suggestions,
	}
	return &dto.ImportLineError{
		Line:        draft.Line,
		Kind:        dto.LineErrorResolution,
		Reason:      re.Error(),
		Text:        raw,
		Suggestions: pm.Suggestions,
	}
}

func personReason(m PersonMatch) string {
	if m.Kind == MatchAmbiguous {
		names := make([]string, 0, len(m.Candidates))
		for _, p := range m.Candidates {
			names = append(names, p.FullName())
		}
		return "人员有歧义: " + strings.Join(names, ", ")
	}
	return "未找到人员"
}

func postReason(m PostMatch) string {
	if m.Kind == MatchAmbiguous {
		names := make([]string, 0, len(m.Candidates))
		for _, p := range m.Candidates {
			names = append(names, p.Name)
		}
		sort.Strings(names)
		return "岗位有歧义，请写明具体岗位: " + strings.Join(names, ", ")
	}
	return "未找到岗位"
}
