package repository

import (
	"context"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) WithTx(tx *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: tx}
}

type ExamFilter struct {
	Type   model.ExamType
	Trash  bool // true 只看已删除，false 只看未删除
	Active *bool
	Search string
}

func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	return r.DB.WithContext(ctx).Omit("Questions", "Badge", "Prerequisite").Create(exam).Error
}

func (r *ExamRepository) FindByID(ctx context.Context, id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.WithContext(ctx).Preload("Badge").Preload("Prerequisite").First(&exam, id).Error
	return &exam, err
}

func (r *ExamRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Exam, error) {
	var exams []model.Exam
	if len(ids) == 0 {
		return exams, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&exams).Error
	return exams, err
}

// FindWithQuestions 受験画面用，题目和选项按 id 排序
func (r *ExamRepository) FindWithQuestions(ctx context.Context, id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&exam, id).Error
	return &exam, err
}

// Update 不修改 exam_type，也不触碰关联
func (r *ExamRepository) Update(ctx context.Context, exam *model.Exam) error {
	return r.DB.WithContext(ctx).Model(exam).
		Select("title", "exams_file", "description", "passing_score", "time_limit", "prerequisite_id", "is_active").
		Updates(exam).Error
}

func (r *ExamRepository) List(ctx context.Context, f ExamFilter) ([]model.Exam, error) {
	query := r.DB.WithContext(ctx).Model(&model.Exam{}).Preload("Badge").Preload("Prerequisite").
		Where("is_deleted = ?", f.Trash)
	if f.Type != "" {
		query = query.Where("exam_type = ?", f.Type)
	}
	if f.Active != nil {
		query = query.Where("is_active = ?", *f.Active)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		query = query.Where("title LIKE ?", "%"+s+"%")
	}
	var exams []model.Exam
	err := query.Order("created_at DESC, id DESC").Find(&exams).Error
	return exams, err
}

// DependentMainIDs 以给定仮試験为前提的本試験
func (r *ExamRepository) DependentMainIDs(ctx context.Context, mockIDs []uint) ([]uint, error) {
	var ids []uint
	if len(mockIDs) == 0 {
		return ids, nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Exam{}).
		Where("exam_type = ? AND prerequisite_id IN ?", model.MainExam, mockIDs).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *ExamRepository) SetDeleted(ctx context.Context, ids []uint, deleted bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.Exam{}).Where("id IN ?", ids).Update("is_deleted", deleted)
	return res.RowsAffected, res.Error
}

func (r *ExamRepository) SetActive(ctx context.Context, ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.Exam{}).Where("id IN ?", ids).Update("is_active", active)
	return res.RowsAffected, res.Error
}

// HardDelete 物理删除检定及其题目、选项、徽章和成绩，依赖它的本試験前提置空
func (r *ExamRepository) HardDelete(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	questionIDs := db.Model(&model.Question{}).Select("id").Where("exam_id = ?", id)
	if err := db.Where("question_id IN (?)", questionIDs).Delete(&model.Choice{}).Error; err != nil {
		return err
	}
	steps := []interface{}{
		&model.Question{},
		&model.Badge{},
		&model.UserExamStatus{},
		&model.ExamResult{},
	}
	for _, m := range steps {
		if err := db.Where("exam_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	if err := db.Model(&model.Exam{}).Where("prerequisite_id = ?", id).Update("prerequisite_id", nil).Error; err != nil {
		return err
	}
	return db.Delete(&model.Exam{}, id).Error
}
