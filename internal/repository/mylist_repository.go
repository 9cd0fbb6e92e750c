package repository

import (
	"context"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type MylistRepository struct {
	DB *gorm.DB
}

func NewMylistRepository(db *gorm.DB) *MylistRepository {
	return &MylistRepository{DB: db}
}

func (r *MylistRepository) Create(ctx context.Context, m *model.Mylist) error {
	return r.DB.WithContext(ctx).Omit("Course", "News").Create(m).Error
}

func (r *MylistRepository) FindByTarget(ctx context.Context, userID uint, target model.FavoriteTarget) (*model.Mylist, error) {
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if target.Kind == model.FavoriteCourse {
		query = query.Where("course_id = ?", target.ID)
	} else {
		query = query.Where("news_id = ?", target.ID)
	}
	var m model.Mylist
	err := query.First(&m).Error
	return &m, err
}

func (r *MylistRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.Mylist{}, id).Error
}

func (r *MylistRepository) ListByUser(ctx context.Context, userID uint) ([]model.Mylist, error) {
	var items []model.Mylist
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Preload("News").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}
