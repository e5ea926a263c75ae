package repository

import (
	"context"

	"gorm.io/gorm"

	"duty-tracker/internal/model"
)

// FairnessRepository 公平性记录数据访问接口
type FairnessRepository interface {
	// ReplaceAll 清空并整表写入（调用方负责包在事务里）
	ReplaceAll(ctx context.Context, records []model.FairnessRecord) error
	List(ctx context.Context) ([]model.FairnessRecord, error)
	GetByPersonID(ctx context.Context, personID string) (*model.FairnessRecord, error)
}

type fairnessRepo struct {
	db *gorm.DB
}

// NewFairnessRepo 创建 FairnessRepository 实例
func NewFairnessRepo(db *gorm.DB) FairnessRepository {
	return &fairnessRepo{db: db}
}

func (r *fairnessRepo) ReplaceAll(ctx context.Context, records []model.FairnessRecord) error {
	db := r.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.FairnessRecord{}).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return db.CreateInBatches(&records, 200).Error
}

func (r *fairnessRepo) List(ctx context.Context) ([]model.FairnessRecord, error) {
	var records []model.FairnessRecord
	err := r.db.WithContext(ctx).
		Order("fairness_score ASC, assignment_count ASC, person_id ASC").
		Find(&records).Error
	return records, err
}

func (r *fairnessRepo) GetByPersonID(ctx context.Context, personID string) (*model.FairnessRecord, error) {
	var rec model.FairnessRecord
	err := r.db.WithContext(ctx).Where("person_id = ?", personID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
