package repository

import (
	"context"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type NewsRepository struct {
	DB *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{DB: db}
}

const (
	NewsSortNewest    = "newest"
	NewsSortOldest    = "oldest"
	NewsSortImportant = "important"
)

type NewsFilter struct {
	Search   string
	Category model.NewsCategory
	Active   *bool
	Trash    bool
	Sort     string
}

func (r *NewsRepository) Create(ctx context.Context, n *model.News) error {
	return r.DB.WithContext(ctx).Omit("Author").Create(n).Error
}

func (r *NewsRepository) FindByID(ctx context.Context, id uint) (*model.News, error) {
	var n model.News
	err := r.DB.WithContext(ctx).Preload("Author").First(&n, id).Error
	return &n, err
}

func (r *NewsRepository) Update(ctx context.Context, n *model.News) error {
	return r.DB.WithContext(ctx).Model(n).
		Select("title", "content", "category", "is_important", "is_active").
		Updates(n).Error
}

func (r *NewsRepository) List(ctx context.Context, f NewsFilter) ([]model.News, error) {
	query := r.DB.WithContext(ctx).Model(&model.News{}).Preload("Author").
		Where("is_deleted = ?", f.Trash)
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Active != nil {
		query = query.Where("is_active = ?", *f.Active)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	switch f.Sort {
	case NewsSortOldest:
		query = query.Order("created_at ASC, id ASC")
	case NewsSortImportant:
		query = query.Order("is_important DESC, created_at DESC, id DESC")
	default:
		query = query.Order("created_at DESC, id DESC")
	}

	var news []model.News
	err := query.Find(&news).Error
	return news, err
}

// Latest 仪表盘显示的最新公开お知らせ
func (r *NewsRepository) Latest(ctx context.Context, limit int) ([]model.News, error) {
	var news []model.News
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&news).Error
	return news, err
}

func (r *NewsRepository) SetActive(ctx context.Context, ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.News{}).Where("id IN ?", ids).Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (r *NewsRepository) SetDeleted(ctx context.Context, ids []uint, deleted bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.News{}).Where("id IN ?", ids).Update("is_deleted", deleted)
	return res.RowsAffected, res.Error
}
