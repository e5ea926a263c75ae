package repository

import (
	"context"

	"gorm.io/gorm"

	"duty-tracker/internal/model"
	pkgerrors "duty-tracker/pkg/errors"
)

// PersonRepository 人员数据访问接口
type PersonRepository interface {
	Create(ctx context.Context, person *model.Person) error
	GetByID(ctx context.Context, id string) (*model.Person, error)
	// List includeInactive=false 时仅返回在岗人员
	List(ctx context.Context, includeInactive bool) ([]model.Person, error)
	Update(ctx context.Context, person *model.Person) error
	CountActive(ctx context.Context) (int64, error)
}

type personRepo struct {
	db *gorm.DB
}

// NewPersonRepo 创建 PersonRepository 实例
func NewPersonRepo(db *gorm.DB) PersonRepository {
	return &personRepo{db: db}
}

func (r *personRepo) Create(ctx context.Context, person *model.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *personRepo) GetByID(ctx context.Context, id string) (*model.Person, error) {
	var person model.Person
	err := r.db.WithContext(ctx).
		Where("person_id = ?", id).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepo) List(ctx context.Context, includeInactive bool) ([]model.Person, error) {
	var persons []model.Person
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC, rank ASC, person_id ASC").Find(&persons).Error
	return persons, err
}

func (r *personRepo) Update(ctx context.Context, person *model.Person) error {
	oldVersion := person.Version
	result := r.db.WithContext(ctx).
		Model(person).
		Where("person_id = ? AND version = ?", person.PersonID, oldVersion).
		Updates(map[string]interface{}{
			"rank":      person.Rank,
			"name":      person.Name,
			"is_active": person.IsActive,
			"version":   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	person.Version = oldVersion + 1
	return nil
}

func (r *personRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Person{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
