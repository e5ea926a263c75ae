package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"duty-tracker/internal/model"
	pkgerrors "duty-tracker/pkg/errors"
)

// AssignmentFilter 排班查询条件（日期均按 duty_date 比较，含端点）
type AssignmentFilter struct {
	DutyDate *time.Time
	From     *time.Time
	To       *time.Time
	PersonID string
	Offset   int
	Limit    int // <=0 表示不分页
}

// AssignmentRepository 排班记录数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	// List 按条件查询并预加载人员与岗位，按 duty_date DESC 排序
	List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, int64, error)
	// ListAll 全量读取（不预加载），供公平性重算与分布统计使用
	ListAll(ctx context.Context) ([]model.Assignment, error)
	ListByDutyDate(ctx context.Context, dutyDate time.Time) ([]model.Assignment, error)
	UpdateStatus(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id string) error
	CountFrom(ctx context.Context, from time.Time) (int64, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Omit("Person", "Post").Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("Post").Preload("Post.PostType").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, int64, error) {
	var list []model.Assignment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Assignment{})
	if filter.DutyDate != nil {
		db = db.Where("duty_date = ?", filter.DutyDate.Format("2006-01-02"))
	}
	if filter.From != nil {
		db = db.Where("duty_date >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		db = db.Where("duty_date <= ?", filter.To.Format("2006-01-02"))
	}
	if filter.PersonID != "" {
		db = db.Where("person_id = ?", filter.PersonID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Preload("Person").
		Preload("Post").Preload("Post.PostType").
		Order("duty_date DESC, created_at DESC, assignment_id ASC")
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	err := q.Find(&list).Error
	return list, total, err
}

func (r *assignmentRepo) ListAll(ctx context.Context) ([]model.Assignment, error) {
	var list []model.Assignment
	err := r.db.WithContext(ctx).
		Order("duty_date ASC, created_at ASC, assignment_id ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) ListByDutyDate(ctx context.Context, dutyDate time.Time) ([]model.Assignment, error) {
	var list []model.Assignment
	err := r.db.WithContext(ctx).
		Where("duty_date = ?", dutyDate.Format("2006-01-02")).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// UpdateStatus 仅允许修改状态与备注，带乐观锁
func (r *assignmentRepo) UpdateStatus(ctx context.Context, assignment *model.Assignment) error {
	oldVersion := assignment.Version
	result := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ? AND version = ?", assignment.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"status":     assignment.Status,
			"notes":      assignment.Notes,
			"updated_at": time.Now(),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	assignment.Version = oldVersion + 1
	return nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.Assignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepo) CountFrom(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("duty_date >= ?", from.Format("2006-01-02")).
		Count(&n).Error
	return n, err
}
