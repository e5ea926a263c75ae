package service

import (
	"sort"
	"strings"
	"time"

	"duty-tracker/internal/model"
	pkgerrors "duty-tracker/pkg/errors"
)

// ── 公平性评分（纯计算） ──────────────────────────────────────
//
// score = Σ weight(岗位类型) × duration_factor
//   - weight 来自配置的权重表，未配置的岗位类型一律为 1
//   - duration_factor = 实际时长 / 额定时长；任一时间窗缺失或无法解析时为 1
//
// 排班按 (duty_date, created_at, assignment_id) 的固定顺序累加，
// 同样的输入总是得到逐位相同的浮点结果。
// ─────────────────────────────────────────────────────────────

// WeightTable 岗位类型权重表，键为小写岗位类型名
type WeightTable map[string]float64

// NewWeightTable 由配置构造权重表（键大小写不敏感）
func NewWeightTable(raw map[string]float64) WeightTable {
	w := make(WeightTable, len(raw))
	for k, v := range raw {
		w[normalizeKey(k)] = v
	}
	return w
}

// Weight 返回岗位类型权重，未配置时为 1
func (w WeightTable) Weight(postType string) float64 {
	if v, ok := w[normalizeKey(postType)]; ok {
		return v
	}
	return 1
}

// FairnessInput 一次重算所需的全部数据
type FairnessInput struct {
	Assignments []model.Assignment
	Persons     map[string]*model.Person
	Posts       map[string]*model.Post // 需携带 PostType
	Weights     WeightTable
	Now         time.Time
}

// FairnessOutcome 重算结果；Records 只含至少有一条计分排班的人员，已按 RankFairness 排序
type FairnessOutcome struct {
	Records         []model.FairnessRecord
	Scored          int
	IntegrityErrors []pkgerrors.IntegrityError
}

// ComputeFairness 由排班历史计算每个人的公平性记录。
// 引用失效的排班不计分，以 IntegrityError 形式返回，其余排班照常计分。
func ComputeFairness(in FairnessInput) FairnessOutcome {
	ordered := make([]model.Assignment, len(in.Assignments))
	copy(ordered, in.Assignments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return canonicalLess(&ordered[i], &ordered[j])
	})

	byPerson := make(map[string]*model.FairnessRecord, len(in.Persons))
	for id := range in.Persons {
		byPerson[id] = &model.FairnessRecord{PersonID: id, LastRecalculated: in.Now}
	}

	var out FairnessOutcome
	for i := range ordered {
		a := &ordered[i]

		rec, ok := byPerson[a.PersonID]
		if !ok {
			out.IntegrityErrors = append(out.IntegrityErrors, pkgerrors.IntegrityError{
				AssignmentID: a.AssignmentID, Ref: "person", RefID: a.PersonID,
			})
			continue
		}
		post, ok := in.Posts[a.PostID]
		if !ok || post == nil {
			out.IntegrityErrors = append(out.IntegrityErrors, pkgerrors.IntegrityError{
				AssignmentID: a.AssignmentID, Ref: "post", RefID: a.PostID,
			})
			continue
		}
		if post.PostType == nil {
			out.IntegrityErrors = append(out.IntegrityErrors, pkgerrors.IntegrityError{
				AssignmentID: a.AssignmentID, Ref: "post_type", RefID: post.PostTypeID,
			})
			continue
		}

		weight := in.Weights.Weight(post.PostType.Name)
		rec.WeightedPoints += weight
		rec.FairnessScore += weight * durationFactor(a, post.PostType)
		rec.AssignmentCount++

		// 仅统计末尾连续的待命班次，出现正式岗位即清零
		if strings.EqualFold(post.PostType.Name, model.PostTypeStandBy) {
			rec.ConsecutiveStandby++
		} else {
			rec.ConsecutiveStandby = 0
		}

		if rec.LastDutyDate == nil || a.DutyDate.After(*rec.LastDutyDate) {
			d := a.DutyDate
			rec.LastDutyDate = &d
		}
		out.Scored++
	}

	out.Records = make([]model.FairnessRecord, 0, len(byPerson))
	for _, rec := range byPerson {
		if rec.AssignmentCount == 0 {
			continue
		}
		out.Records = append(out.Records, *rec)
	}
	RankFairness(out.Records)
	return out
}

// RankFairness 按负担从低到高排序：分数升序，其次排班次数升序，最后按人员 ID
func RankFairness(records []model.FairnessRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.FairnessScore != b.FairnessScore {
			return a.FairnessScore < b.FairnessScore
		}
		if a.AssignmentCount != b.AssignmentCount {
			return a.AssignmentCount < b.AssignmentCount
		}
		return a.PersonID < b.PersonID
	})
}

// FairnessVariance 公平性分数的总体方差；不足两人时为 0
func FairnessVariance(records []model.FairnessRecord) float64 {
	if len(records) < 2 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.FairnessScore
	}
	mean := sum / float64(len(records))
	var sq float64
	for _, r := range records {
		d := r.FairnessScore - mean
		sq += d * d
	}
	return sq / float64(len(records))
}

func canonicalLess(a, b *model.Assignment) bool {
	if !a.DutyDate.Equal(b.DutyDate) {
		return a.DutyDate.Before(b.DutyDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.AssignmentID < b.AssignmentID
}

// durationFactor 实际时长 / 额定时长
func durationFactor(a *model.Assignment, pt *model.PostType) float64 {
	actual, ok := windowMinutes(a.StartTime, a.EndTime)
	if !ok {
		return 1
	}
	nominal, ok := windowMinutes(pt.ShiftStart, pt.ShiftEnd)
	if !ok {
		return 1
	}
	return float64(actual) / float64(nominal)
}

// windowMinutes 返回 HH:MM 时间窗的分钟数；缺失、无法解析或非正时 ok=false
func windowMinutes(start, end string) (int, bool) {
	s, ok := clockMinutes(start)
	if !ok {
		return 0, false
	}
	e, ok := clockMinutes(end)
	if !ok || e <= s {
		return 0, false
	}
	return e - s, true
}

func clockMinutes(v string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
