package repository

import (
	"context"
	"errors"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type ConstantRepository struct {
	DB *gorm.DB
}

func NewConstantRepository(db *gorm.DB) *ConstantRepository {
	return &ConstantRepository{DB: db}
}

// Get 返回唯一一行；不存在时返回 nil, nil
func (r *ConstantRepository) Get(ctx context.Context) (*model.SiteConstant, error) {
	var c model.SiteConstant
	err := r.DB.WithContext(ctx).Order("id").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConstantRepository) Save(ctx context.Context, c *model.SiteConstant) error {
	return r.DB.WithContext(ctx).Save(c).Error
}
