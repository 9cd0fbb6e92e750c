package repository

import (
	"context"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

type CourseFilter struct {
	Active *bool
	Search string
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit("Modules").Create(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	return &course, err
}

// FindWithModules 预加载按 order 排序的模块
func (r *CourseRepository) FindWithModules(ctx context.Context, id uint, activeOnly bool) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			if activeOnly {
				db = db.Where("is_active = ?", true)
			}
			return db.Order("sort_order, id")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Model(course).
		Select("subject", "course_count", "is_active").
		Updates(course).Error
}

func (r *CourseRepository) List(ctx context.Context, f CourseFilter) ([]model.Course, error) {
	query := r.DB.WithContext(ctx).Model(&model.Course{})
	if f.Active != nil {
		query = query.Where("is_active = ?", *f.Active)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		query = query.Where("subject LIKE ?", "%"+s+"%")
	}
	var courses []model.Course
	err := query.Order("id").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	var found []uint
	if len(ids) == 0 {
		return found, nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Where("id IN ?", ids).Order("id").Pluck("id", &found).Error
	return found, err
}

func (r *CourseRepository) SetActive(ctx context.Context, ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.Course{}).Where("id IN ?", ids).Update("is_active", active)
	return res.RowsAffected, res.Error
}
