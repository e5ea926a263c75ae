package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"duty-tracker/internal/model"
)

// MatchKind 解析结果类型
type MatchKind int

const (
	MatchUnmatched MatchKind = iota
	MatchMatched
	MatchAmbiguous
)

func (k MatchKind) String() string {
	switch k {
	case MatchMatched:
		return "matched"
	case MatchAmbiguous:
		return "ambiguous"
	default:
		return "unmatched"
	}
}

// PersonMatch 人员解析结果：Matched 时 Person 有值，Ambiguous 时 Candidates 有值，
// Unmatched 时只有 Raw 与 Suggestions
type PersonMatch struct {
	Kind        MatchKind
	Person      *model.Person
	Candidates  []*model.Person
	Raw         string
	Suggestions []string
}

// PostMatch 岗位解析结果
type PostMatch struct {
	Kind       MatchKind
	Post       *model.Post
	Candidates []*model.Post
	Raw        string
}

// DefaultPostAliases 内置岗位别名（小写） → 岗位名
var DefaultPostAliases = map[string]string{
	"sergeant of the guard":      model.PostTypeSOG,
	"staff officer of the guard": model.PostTypeSOG,
	"charge of quarters":         model.PostTypeCQ,
	"vehicle control point":      model.PostTypeVCP,
	"rover patrol":               model.PostTypeRover,
	"mobile security":            model.PostTypeRover,
	"standby":                    model.PostTypeStandBy,
	"stand-by":                   model.PostTypeStandBy,
	"sb":                         model.PostTypeStandBy,
}

const maxSuggestions = 3

// Resolver 把群聊中的名字与岗位标签解析为已有记录。
// 只针对构造时给定的在岗人员与启用岗位，不访问数据库。
type Resolver struct {
	persons []*model.Person
	posts   []*model.Post
	aliases map[string]string
}

// NewResolver 创建解析器；extraAliases 覆盖同名内置别名
func NewResolver(persons []model.Person, posts []model.Post, extraAliases map[string]string) *Resolver {
	r := &Resolver{aliases: make(map[string]string, len(DefaultPostAliases)+len(extraAliases))}
	for i := range persons {
		if persons[i].IsActive {
			r.persons = append(r.persons, &persons[i])
		}
	}
	for i := range posts {
		if posts[i].IsActive {
			r.posts = append(r.posts, &posts[i])
		}
	}
	for k, v := range DefaultPostAliases {
		r.aliases[normalizeKey(k)] = v
	}
	for k, v := range extraAliases {
		r.aliases[normalizeKey(k)] = v
	}
	return r
}

// ResolvePerson 按 "[军衔] 姓名" 解析人员。
// 同名多人时用军衔缩小范围；全名不中时退回按姓氏匹配。
func (r *Resolver) ResolvePerson(raw string) PersonMatch {
	m := PersonMatch{Raw: raw}

	tokens := strings.Fields(normalizeKey(raw))
	var rank model.Rank
	if len(tokens) > 1 {
		if rk, ok := model.ParseRank(strings.TrimRight(tokens[0], ".")); ok {
			rank = rk
			tokens = tokens[1:]
		}
	}
	if len(tokens) == 0 {
		return m
	}
	name := strings.Join(tokens, " ")

	candidates := r.personsWhere(func(p *model.Person) bool {
		return normalizeKey(p.Name) == name
	})
	if len(candidates) == 0 {
		last := tokens[len(tokens)-1]
		candidates = r.personsWhere(func(p *model.Person) bool {
			f := strings.Fields(normalizeKey(p.Name))
			return len(f) > 0 && f[len(f)-1] == last
		})
	}

	if len(candidates) > 1 && rank != "" {
		var narrowed []*model.Person
		for _, p := range candidates {
			if p.Rank == rank {
				narrowed = append(narrowed, p)
			}
		}
		if len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	switch len(candidates) {
	case 0:
		m.Suggestions = r.suggestPersons(name)
	case 1:
		m.Kind = MatchMatched
		m.Person = candidates[0]
	default:
		m.Kind = MatchAmbiguous
		m.Candidates = candidates
	}
	return m
}

// ResolvePost 依次按岗位名、别名、岗位类型名解析岗位标签
func (r *Resolver) ResolvePost(label string) PostMatch {
	m := PostMatch{Raw: label}
	key := compactKey(label)
	if key == "" {
		return m
	}

	byName := func(k string) []*model.Post {
		return r.postsWhere(func(p *model.Post) bool { return compactKey(p.Name) == k })
	}

	candidates := byName(key)
	if len(candidates) == 0 {
		if target, ok := r.aliases[normalizeKey(label)]; ok {
			key = compactKey(target)
			candidates = byName(key)
		}
	}
	if len(candidates) == 0 {
		candidates = r.postsWhere(func(p *model.Post) bool {
			return p.PostType != nil && compactKey(p.PostType.Name) == key
		})
	}

	switch len(candidates) {
	case 0:
	case 1:
		m.Kind = MatchMatched
		m.Post = candidates[0]
	default:
		m.Kind = MatchAmbiguous
		m.Candidates = candidates
	}
	return m
}

func (r *Resolver) personsWhere(pred func(*model.Person) bool) []*model.Person {
	var out []*model.Person
	for _, p := range r.persons {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Resolver) postsWhere(pred func(*model.Post) bool) []*model.Post {
	var out []*model.Post
	for _, p := range r.posts {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

// suggestPersons 给出最多三个相近的人员全名
func (r *Resolver) suggestPersons(name string) []string {
	if len(r.persons) == 0 {
		return nil
	}
	names := make([]string, len(r.persons))
	for i, p := range r.persons {
		names[i] = p.Name
	}

	type scored struct {
		idx  int
		dist int
	}
	seen := make(map[int]bool)
	var picks []scored

	ranks := fuzzy.RankFindNormalizedFold(name, names)
	sort.Sort(ranks)
	for _, rank := range ranks {
		seen[rank.OriginalIndex] = true
		picks = append(picks, scored{idx: rank.OriginalIndex, dist: rank.Distance})
	}

	// 子序列匹配抓不到拼写错误，再补充编辑距离足够小的候选
	limit := len(name)/3 + 1
	for i, n := range names {
		if seen[i] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(name, normalizeKey(n)); d <= limit {
			picks = append(picks, scored{idx: i, dist: d})
		}
	}

	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].dist != picks[j].dist {
			return picks[i].dist < picks[j].dist
		}
		return names[picks[i].idx] < names[picks[j].idx]
	})

	var out []string
	for _, p := range picks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.persons[p.idx].FullName())
	}
	return out
}

// compactKey 去掉空白、连字符并转小写，"Stand by"、"standby"、"Stand-by" 视为同一键
func compactKey(s string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(s) {
		if c == ' ' || c == '\t' || c == '-' || c == '_' {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
