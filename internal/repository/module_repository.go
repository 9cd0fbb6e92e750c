package repository

import (
	"context"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) WithTx(tx *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: tx}
}

func (r *ModuleRepository) Create(ctx context.Context, m *model.TrainingModule) error {
	return r.DB.WithContext(ctx).Omit("Examples").Create(m).Error
}

func (r *ModuleRepository) FindByID(ctx context.Context, id uint) (*model.TrainingModule, error) {
	var m model.TrainingModule
	err := r.DB.WithContext(ctx).First(&m, id).Error
	return &m, err
}

// FindWithExamples 模块详情：练习题及其选项
func (r *ModuleRepository) FindWithExamples(ctx context.Context, id uint) (*model.TrainingModule, error) {
	var m model.TrainingModule
	err := r.DB.WithContext(ctx).
		Preload("Examples", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Examples.Choices", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&m, id).Error
	return &m, err
}

func (r *ModuleRepository) Update(ctx context.Context, m *model.TrainingModule) error {
	return r.DB.WithContext(ctx).Model(m).
		Select("title", "content_text", "video_path", "document_path", "estimated_time", "is_active", "sort_order").
		Updates(m).Error
}

func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID uint, activeOnly bool) ([]model.TrainingModule, error) {
	query := r.DB.WithContext(ctx).Where("course_id = ?", courseID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var modules []model.TrainingModule
	err := query.Order("sort_order, id").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.TrainingModule{}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Count(&n).Error
	return n, err
}

func (r *ModuleRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.DB.WithContext(ctx).Model(&model.TrainingModule{}).Where("id = ?", id).Update("is_active", active).Error
}

// DeactivateByCourses 讲座批量删除时一并停用其模块
func (r *ModuleRepository) DeactivateByCourses(ctx context.Context, courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.TrainingModule{}).
		Where("course_id IN ?", courseIDs).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// Delete 物理删除模块及其练习题、学习记录
func (r *ModuleRepository) Delete(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	exampleIDs := db.Model(&model.TrainingExample{}).Select("id").Where("module_id = ?", id)
	if err := db.Where("example_id IN (?)", exampleIDs).Delete(&model.TrainingExampleChoice{}).Error; err != nil {
		return err
	}
	if err := db.Where("module_id = ?", id).Delete(&model.TrainingExample{}).Error; err != nil {
		return err
	}
	if err := db.Where("module_id = ?", id).Delete(&model.UserModuleProgress{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.TrainingModule{}, id).Error
}

func (r *ModuleRepository) CreateExample(ctx context.Context, e *model.TrainingExample) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *ModuleRepository) FindExample(ctx context.Context, id uint) (*model.TrainingExample, error) {
	var e model.TrainingExample
	err := r.DB.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&e, id).Error
	return &e, err
}

// ReplaceExample 覆盖题干与解说，并整体替换选项
func (r *ModuleRepository) ReplaceExample(ctx context.Context, e *model.TrainingExample) error {
	db := r.DB.WithContext(ctx)
	if err := db.Model(e).Select("text", "explanation").Updates(e).Error; err != nil {
		return err
	}
	if err := db.Where("example_id = ?", e.ID).Delete(&model.TrainingExampleChoice{}).Error; err != nil {
		return err
	}
	for i := range e.Choices {
		e.Choices[i].ID = 0
		e.Choices[i].ExampleID = e.ID
	}
	if len(e.Choices) == 0 {
		return nil
	}
	return db.Create(&e.Choices).Error
}

func (r *ModuleRepository) DeleteExample(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("example_id = ?", id).Delete(&model.TrainingExampleChoice{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.TrainingExample{}, id).Error
}
