package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Person     PersonRepository
	Post       PostRepository
	Assignment AssignmentRepository
	Fairness   FairnessRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Person:     NewPersonRepo(db),
		Post:       NewPostRepo(db),
		Assignment: NewAssignmentRepo(db),
		Fairness:   NewFairnessRepo(db),
		db:         db,
	}
}

// Transaction 在同一数据库事务内执行 fn，fn 收到绑定到事务的 Repository。
// fn 返回错误时整体回滚。未绑定数据库（测试中以 mock 组装）时直接执行 fn。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
