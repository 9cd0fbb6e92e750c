package repository

import (
	"context"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

// ResultRepository 合否状态与答题记录
type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) WithTx(tx *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: tx}
}

func (r *ResultRepository) FindStatus(ctx context.Context, userID, examID uint) (*model.UserExamStatus, error) {
	var s model.UserExamStatus
	err := r.DB.WithContext(ctx).Where("user_id = ? AND exam_id = ?", userID, examID).First(&s).Error
	return &s, err
}

func (r *ResultRepository) CreateStatus(ctx context.Context, s *model.UserExamStatus) error {
	return r.DB.WithContext(ctx).Omit("Exam").Create(s).Error
}

func (r *ResultRepository) UpdateStatus(ctx context.Context, s *model.UserExamStatus) error {
	return r.DB.WithContext(ctx).Model(s).Select("is_passed", "passed_at").Updates(s).Error
}

func (r *ResultRepository) IsPassed(ctx context.Context, userID, examID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserExamStatus{}).
		Where("user_id = ? AND exam_id = ? AND is_passed = ?", userID, examID, true).
		Count(&n).Error
	return n > 0, err
}

func (r *ResultRepository) PassedExamIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.UserExamStatus{}).
		Where("user_id = ? AND is_passed = ?", userID, true).
		Order("exam_id").
		Pluck("exam_id", &ids).Error
	return ids, err
}

func (r *ResultRepository) CountPassed(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserExamStatus{}).
		Where("user_id = ? AND is_passed = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (r *ResultRepository) CreateResult(ctx context.Context, res *model.ExamResult) error {
	return r.DB.WithContext(ctx).Omit("Exam").Create(res).Error
}

func (r *ResultRepository) ListResults(ctx context.Context, userID uint) ([]model.ExamResult, error) {
	var results []model.ExamResult
	err := r.DB.WithContext(ctx).
		Preload("Exam").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&results).Error
	return results, err
}
