package repository

import (
	"context"

	"gorm.io/gorm"

	"duty-tracker/internal/model"
)

// PostRepository 岗位与岗位类型数据访问接口
type PostRepository interface {
	CreateType(ctx context.Context, postType *model.PostType) error
	GetTypeByID(ctx context.Context, id string) (*model.PostType, error)
	GetTypeByName(ctx context.Context, name string) (*model.PostType, error)
	ListTypes(ctx context.Context) ([]model.PostType, error)

	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	GetPostByTypeAndName(ctx context.Context, postTypeID, name string) (*model.Post, error)
	// ListPosts 返回岗位并预加载岗位类型
	ListPosts(ctx context.Context, includeInactive bool) ([]model.Post, error)
	CountActivePosts(ctx context.Context) (int64, error)
}

type postRepo struct {
	db *gorm.DB
}

// NewPostRepo 创建 PostRepository 实例
func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

// ── 岗位类型 ──

func (r *postRepo) CreateType(ctx context.Context, postType *model.PostType) error {
	return r.db.WithContext(ctx).Create(postType).Error
}

func (r *postRepo) GetTypeByID(ctx context.Context, id string) (*model.PostType, error) {
	var pt model.PostType
	err := r.db.WithContext(ctx).Where("post_type_id = ?", id).First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *postRepo) GetTypeByName(ctx context.Context, name string) (*model.PostType, error) {
	var pt model.PostType
	err := r.db.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *postRepo) ListTypes(ctx context.Context) ([]model.PostType, error) {
	var types []model.PostType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

// ── 岗位 ──

func (r *postRepo) CreatePost(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepo) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("PostType").
		Where("post_id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) GetPostByTypeAndName(ctx context.Context, postTypeID, name string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("PostType").
		Where("post_type_id = ? AND lower(name) = lower(?)", postTypeID, name).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) ListPosts(ctx context.Context, includeInactive bool) ([]model.Post, error) {
	var posts []model.Post
	db := r.db.WithContext(ctx).Preload("PostType")
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&posts).Error
	return posts, err
}

func (r *postRepo) CountActivePosts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
