package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"duty-tracker/config"
	"duty-tracker/internal/model"
	"duty-tracker/internal/repository"
	pkgerrors "duty-tracker/pkg/errors"
	"duty-tracker/pkg/jwt"
	"duty-tracker/pkg/metrics"
	pkgredis "duty-tracker/pkg/redis"
)

// ── Mock PersonRepository ──

type mockPersonRepo struct {
	persons map[string]*model.Person
	seq     int

	// listErr 非空时，从第 listErrFrom 次 List 调用起返回该错误
	listErr     error
	listErrFrom int
	listCalls   int
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{persons: make(map[string]*model.Person)}
}

func (m *mockPersonRepo) Create(_ context.Context, person *model.Person) error {
	if person.PersonID == "" {
		m.seq++
		person.PersonID = fmt.Sprintf("person-%02d", m.seq)
	}
	cp := *person
	m.persons[person.PersonID] = &cp
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id string) (*model.Person, error) {
	if p, ok := m.persons[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) List(_ context.Context, includeInactive bool) ([]model.Person, error) {
	m.listCalls++
	if m.listErr != nil && m.listCalls >= m.listErrFrom {
		return nil, m.listErr
	}
	var result []model.Person
	for _, p := range m.persons {
		if includeInactive || p.IsActive {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].PersonID < result[j].PersonID
	})
	return result, nil
}

func (m *mockPersonRepo) Update(_ context.Context, person *model.Person) error {
	stored, ok := m.persons[person.PersonID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != person.Version {
		return pkgerrors.ErrOptimisticLock
	}
	person.Version++
	cp := *person
	m.persons[person.PersonID] = &cp
	return nil
}

func (m *mockPersonRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, p := range m.persons {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

// ── Mock PostRepository ──

type mockPostRepo struct {
	types map[string]*model.PostType
	posts map[string]*model.Post
	seq   int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		types: make(map[string]*model.PostType),
		posts: make(map[string]*model.Post),
	}
}

func (m *mockPostRepo) CreateType(_ context.Context, pt *model.PostType) error {
	if pt.PostTypeID == "" {
		m.seq++
		pt.PostTypeID = fmt.Sprintf("type-%02d", m.seq)
	}
	cp := *pt
	m.types[pt.PostTypeID] = &cp
	return nil
}

func (m *mockPostRepo) GetTypeByID(_ context.Context, id string) (*model.PostType, error) {
	if pt, ok := m.types[id]; ok {
		cp := *pt
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) GetTypeByName(_ context.Context, name string) (*model.PostType, error) {
	for _, pt := range m.types {
		if strings.EqualFold(pt.Name, name) {
			cp := *pt
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) ListTypes(_ context.Context) ([]model.PostType, error) {
	var result []model.PostType
	for _, pt := range m.types {
		result = append(result, *pt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockPostRepo) CreatePost(_ context.Context, post *model.Post) error {
	if post.PostID == "" {
		m.seq++
		post.PostID = fmt.Sprintf("post-%02d", m.seq)
	}
	cp := *post
	cp.PostType = nil
	m.posts[post.PostID] = &cp
	return nil
}

func (m *mockPostRepo) withType(p *model.Post) model.Post {
	cp := *p
	if pt, ok := m.types[p.PostTypeID]; ok {
		t := *pt
		cp.PostType = &t
	}
	return cp
}

func (m *mockPostRepo) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	if p, ok := m.posts[id]; ok {
		cp := m.withType(p)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) GetPostByTypeAndName(_ context.Context, postTypeID, name string) (*model.Post, error) {
	for _, p := range m.posts {
		if p.PostTypeID == postTypeID && strings.EqualFold(p.Name, name) {
			cp := m.withType(p)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) ListPosts(_ context.Context, includeInactive bool) ([]model.Post, error) {
	var result []model.Post
	for _, p := range m.posts {
		if includeInactive || p.IsActive {
			result = append(result, m.withType(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockPostRepo) CountActivePosts(_ context.Context) (int64, error) {
	var n int64
	for _, p := range m.posts {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

// ── Mock AssignmentRepository ──

var mockEpoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	persons     *mockPersonRepo
	posts       *mockPostRepo
	seq         int
	createErr   error
}

func newMockAssignmentRepo(persons *mockPersonRepo, posts *mockPostRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.Assignment),
		persons:     persons,
		posts:       posts,
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	if a.AssignmentID == "" {
		a.AssignmentID = fmt.Sprintf("asg-%03d", m.seq)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = mockEpoch.Add(time.Duration(m.seq) * time.Second)
	}
	cp := *a
	cp.Person, cp.Post = nil, nil
	m.assignments[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) preload(a *model.Assignment) model.Assignment {
	cp := *a
	if p, ok := m.persons.persons[a.PersonID]; ok {
		pc := *p
		cp.Person = &pc
	}
	if p, ok := m.posts.posts[a.PostID]; ok {
		pc := m.posts.withType(p)
		cp.Post = &pc
	}
	return cp
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		cp := m.preload(a)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) List(_ context.Context, f repository.AssignmentFilter) ([]model.Assignment, int64, error) {
	var all []model.Assignment
	for _, a := range m.assignments {
		if f.DutyDate != nil && !a.DutyDate.Equal(*f.DutyDate) {
			continue
		}
		if f.From != nil && a.DutyDate.Before(*f.From) {
			continue
		}
		if f.To != nil && a.DutyDate.After(*f.To) {
			continue
		}
		if f.PersonID != "" && a.PersonID != f.PersonID {
			continue
		}
		all = append(all, m.preload(a))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].DutyDate.Equal(all[j].DutyDate) {
			return all[i].DutyDate.After(all[j].DutyDate)
		}
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].AssignmentID < all[j].AssignmentID
	})
	total := int64(len(all))
	if f.Limit > 0 {
		if f.Offset >= len(all) {
			return []model.Assignment{}, total, nil
		}
		end := f.Offset + f.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[f.Offset:end]
	}
	return all, total, nil
}

func (m *mockAssignmentRepo) ListAll(_ context.Context) ([]model.Assignment, error) {
	var all []model.Assignment
	for _, a := range m.assignments {
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return canonicalLess(&all[i], &all[j]) })
	return all, nil
}

func (m *mockAssignmentRepo) ListByDutyDate(_ context.Context, d time.Time) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.DutyDate.Equal(d) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, a *model.Assignment) error {
	stored, ok := m.assignments[a.AssignmentID]
	if !ok || stored.Version != a.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = a.Status
	stored.Notes = a.Notes
	stored.Version++
	a.Version = stored.Version
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) CountFrom(_ context.Context, from time.Time) (int64, error) {
	var n int64
	for _, a := range m.assignments {
		if !a.DutyDate.Before(from) {
			n++
		}
	}
	return n, nil
}

// ── Mock FairnessRepository ──

type mockFairnessRepo struct {
	records      []model.FairnessRecord
	replaceCalls int
}

func newMockFairnessRepo() *mockFairnessRepo {
	return &mockFairnessRepo{}
}

func (m *mockFairnessRepo) ReplaceAll(_ context.Context, records []model.FairnessRecord) error {
	m.replaceCalls++
	m.records = append([]model.FairnessRecord(nil), records...)
	return nil
}

func (m *mockFairnessRepo) List(_ context.Context) ([]model.FairnessRecord, error) {
	result := append([]model.FairnessRecord(nil), m.records...)
	RankFairness(result)
	return result, nil
}

func (m *mockFairnessRepo) GetByPersonID(_ context.Context, personID string) (*model.FairnessRecord, error) {
	for i := range m.records {
		if m.records[i].PersonID == personID {
			cp := m.records[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock FairnessBoardCache ──

type mockBoardCache struct {
	payload []byte
	stores  int
}

func (m *mockBoardCache) StoreFairnessBoard(_ context.Context, payload []byte, _ time.Duration) error {
	m.stores++
	m.payload = append([]byte(nil), payload...)
	return nil
}

func (m *mockBoardCache) LoadFairnessBoard(_ context.Context) ([]byte, error) {
	if m.payload == nil {
		return nil, pkgredis.ErrCacheMiss
	}
	return m.payload, nil
}

// ── 测试环境 ──

type testEnv struct {
	svc         *Service
	repo        *repository.Repository
	persons     *mockPersonRepo
	posts       *mockPostRepo
	assignments *mockAssignmentRepo
	fairness    *mockFairnessRepo
	cache       *mockBoardCache
	cfg         *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Fairness: config.FairnessConfig{Weights: map[string]float64{}, CacheTTL: time.Minute},
		Import: config.ImportConfig{
			DefaultShiftStart: "06:00",
			DefaultShiftEnd:   "18:00",
			PostAliases:       map[string]string{},
			MaxTextBytes:      64 * 1024,
		},
		Auth: config.AuthConfig{AccessTokenTTL: time.Hour},
	}
}

func newTestEnv(cfg *config.Config) *testEnv {
	if cfg == nil {
		cfg = testConfig()
	}
	persons := newMockPersonRepo()
	posts := newMockPostRepo()
	assignments := newMockAssignmentRepo(persons, posts)
	fairness := newMockFairnessRepo()
	repo := &repository.Repository{
		Person:     persons,
		Post:       posts,
		Assignment: assignments,
		Fairness:   fairness,
	}
	cache := &mockBoardCache{}
	svc := NewService(cfg, repo, cache, jwt.NewManager(&cfg.Auth), metrics.NewNop(), zap.NewNop())
	return &testEnv{
		svc:         svc,
		repo:        repo,
		persons:     persons,
		posts:       posts,
		assignments: assignments,
		fairness:    fairness,
		cache:       cache,
		cfg:         cfg,
	}
}

func (e *testEnv) addPerson(rank model.Rank, name string) *model.Person {
	p := &model.Person{Rank: rank, Name: name, IsActive: true}
	_ = e.persons.Create(context.Background(), p)
	return p
}

// setupPosts 初始化标准岗位并返回 岗位名 → 岗位
func (e *testEnv) setupPosts() map[string]*model.Post {
	if _, err := e.svc.Post.SetupDefaults(context.Background()); err != nil {
		panic(err)
	}
	byName := make(map[string]*model.Post)
	for _, p := range e.posts.posts {
		cp := e.posts.withType(p)
		byName[p.Name] = &cp
	}
	return byName
}

// addPost 新建同名的岗位类型与岗位，如 addPost("SOG")
func (e *testEnv) addPost(name string) *model.Post {
	pt := &model.PostType{Name: name, PersonnelRequired: 1}
	_ = e.posts.CreateType(context.Background(), pt)
	p := &model.Post{Name: name, PostTypeID: pt.PostTypeID, IsActive: true}
	_ = e.posts.CreatePost(context.Background(), p)
	return p
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
