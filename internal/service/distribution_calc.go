package service

import (
	"math"
	"sort"

	"duty-tracker/internal/dto"
	"duty-tracker/internal/model"
)

// UnresolvedPostType 岗位或岗位类型无法解析的排班归入此标签，保证各类合计等于总数
const UnresolvedPostType = "unresolved"

// Distribution 岗位分布聚合结果
type Distribution struct {
	PostTypeTotals map[string]int
	Total          int
	// PerPerson 人员 ID → 岗位类型 → 次数；未要求时为 nil
	PerPerson map[string]map[string]int
}

// AggregateDistribution 按岗位类型统计排班数量
func AggregateDistribution(assignments []model.Assignment, posts map[string]*model.Post, perPerson bool) Distribution {
	d := Distribution{PostTypeTotals: make(map[string]int)}
	if perPerson {
		d.PerPerson = make(map[string]map[string]int)
	}

	for i := range assignments {
		a := &assignments[i]
		label := UnresolvedPostType
		if p, ok := posts[a.PostID]; ok && p != nil && p.PostType != nil {
			label = p.PostType.Name
		}
		d.PostTypeTotals[label]++
		d.Total++

		if perPerson {
			counts, ok := d.PerPerson[a.PersonID]
			if !ok {
				counts = make(map[string]int)
				d.PerPerson[a.PersonID] = counts
			}
			counts[label]++
		}
	}
	return d
}

// PersonnelStats 将按人统计展开为带百分比的列表，按总次数降序、姓名升序排列。
// percentage_of_total 为该人在此岗位类型全部排班中的占比，percentage_of_person 为此类型在本人排班中的占比。
func PersonnelStats(d Distribution, persons map[string]*model.Person) []dto.PersonDistribution {
	stats := make([]dto.PersonDistribution, 0, len(d.PerPerson))
	for personID, counts := range d.PerPerson {
		pd := dto.PersonDistribution{PersonID: personID}
		if p, ok := persons[personID]; ok {
			pd.PersonName = p.Name
			pd.Rank = string(p.Rank)
		}
		for _, c := range counts {
			pd.TotalAssignments += c
		}
		for postType, c := range counts {
			share := dto.PostShare{PostType: postType, Count: c}
			if typeTotal := d.PostTypeTotals[postType]; typeTotal > 0 {
				share.PercentageOfTotal = round1(float64(c) * 100 / float64(typeTotal))
			}
			if pd.TotalAssignments > 0 {
				share.PercentageOfPerson = round1(float64(c) * 100 / float64(pd.TotalAssignments))
			}
			pd.PostAssignments = append(pd.PostAssignments, share)
		}
		sort.Slice(pd.PostAssignments, func(i, j int) bool {
			a, b := pd.PostAssignments[i], pd.PostAssignments[j]
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			return a.PostType < b.PostType
		})
		stats = append(stats, pd)
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.TotalAssignments != b.TotalAssignments {
			return a.TotalAssignments > b.TotalAssignments
		}
		if a.PersonName != b.PersonName {
			return a.PersonName < b.PersonName
		}
		return a.PersonID < b.PersonID
	})
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
