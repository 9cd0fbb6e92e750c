package repository

import (
	"context"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

func (r *ProgressRepository) Find(ctx context.Context, userID, moduleID uint) (*model.UserModuleProgress, error) {
	var p model.UserModuleProgress
	err := r.DB.WithContext(ctx).Where("user_id = ? AND module_id = ?", userID, moduleID).First(&p).Error
	return &p, err
}

func (r *ProgressRepository) Create(ctx context.Context, p *model.UserModuleProgress) error {
	return r.DB.WithContext(ctx).Omit("Module").Create(p).Error
}

func (r *ProgressRepository) Update(ctx context.Context, p *model.UserModuleProgress) error {
	return r.DB.WithContext(ctx).Model(p).Select("last_position", "is_completed").Updates(p).Error
}

// CountCompletedInCourse 统计讲座下所有模块（不区分是否公开）的完成记录数
func (r *ProgressRepository) CountCompletedInCourse(ctx context.Context, userID, courseID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserModuleProgress{}).
		Joins("JOIN training_modules tm ON tm.id = user_module_progresses.module_id").
		Where("user_module_progresses.user_id = ? AND tm.course_id = ? AND user_module_progresses.is_completed = ?",
			userID, courseID, true).
		Count(&n).Error
	return n, err
}

// ListByCourse 用户在某讲座下的全部进度，按模块 id 索引
func (r *ProgressRepository) ListByCourse(ctx context.Context, userID, courseID uint) (map[uint]model.UserModuleProgress, error) {
	var rows []model.UserModuleProgress
	err := r.DB.WithContext(ctx).
		Joins("JOIN training_modules tm ON tm.id = user_module_progresses.module_id").
		Where("user_module_progresses.user_id = ? AND tm.course_id = ?", userID, courseID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]model.UserModuleProgress, len(rows))
	for _, p := range rows {
		out[p.ModuleID] = p
	}
	return out, nil
}
