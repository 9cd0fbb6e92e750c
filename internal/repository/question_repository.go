package repository

import (
	"context"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

// Create 连同 Choices 一起写入
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&q, id).Error
	return &q, err
}

func (r *QuestionRepository) ListByExam(ctx context.Context, examID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("exam_id = ?", examID).
		Order("id").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("exam_id = ?", examID).Count(&n).Error
	return n, err
}

// Replace 覆盖题干并整体替换选项
func (r *QuestionRepository) Replace(ctx context.Context, q *model.Question) error {
	db := r.DB.WithContext(ctx)
	if err := db.Model(q).Select("text").Updates(q).Error; err != nil {
		return err
	}
	if err := db.Where("question_id = ?", q.ID).Delete(&model.Choice{}).Error; err != nil {
		return err
	}
	for i := range q.Choices {
		q.Choices[i].ID = 0
		q.Choices[i].QuestionID = q.ID
	}
	if len(q.Choices) == 0 {
		return nil
	}
	return db.Create(&q.Choices).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("question_id = ?", id).Delete(&model.Choice{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Question{}, id).Error
}
