package service

import (
	"context"
	"errors"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// swagger:model CourseRequest
type CourseRequest struct {
	Subject     string `json:"subject" binding:"required,max=50"`
	CourseCount int    `json:"courseCount" binding:"min=0"`
	IsActive    *bool  `json:"isActive"`
}

// swagger:model ModuleRequest
type ModuleRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	ContentText   string `json:"contentText"`
	VideoPath     string `json:"videoPath" binding:"max=255"`
	DocumentPath  string `json:"documentPath" binding:"max=255"`
	EstimatedTime int    `json:"estimatedTime" binding:"min=0"`
	Order         int    `json:"order"`
	IsActive      *bool  `json:"isActive"`
}

type CourseService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
	ModuleRepo *repository.ModuleRepository
}

func NewCourseService(db *gorm.DB, courseRepo *repository.CourseRepository, moduleRepo *repository.ModuleRepository) *CourseService {
	return &CourseService{
		DB:         db,
		CourseRepo: courseRepo,
		ModuleRepo: moduleRepo,
	}
}

func courseNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCourseNotFound
	}
	return err
}

func moduleNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrModuleNotFound
	}
	return err
}

func (s *CourseService) CreateCourse(ctx context.Context, req CourseRequest) (*model.Course, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, invalid("subject", "is required")
	}
	course := &model.Course{
		Subject:     subject,
		CourseCount: req.CourseCount,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, id uint, req CourseRequest) (*model.Course, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, invalid("subject", "is required")
	}
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, courseNotFound(err)
	}
	course.Subject = subject
	course.CourseCount = req.CourseCount
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if err := s.CourseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindWithModules(ctx, id, false)
	if err != nil {
		return nil, courseNotFound(err)
	}
	return course, nil
}

func (s *CourseService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]model.Course, error) {
	return s.CourseRepo.List(ctx, filter)
}

func (s *CourseService) ToggleCourse(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, courseNotFound(err)
	}
	course.IsActive = !course.IsActive
	if _, err := s.CourseRepo.SetActive(ctx, []uint{course.ID}, course.IsActive); err != nil {
		return nil, err
	}
	return course, nil
}

// BulkCourses delete 停用讲座并停用其全部模块；restore 只恢复讲座，模块保持原状
func (s *CourseService) BulkCourses(ctx context.Context, action string, ids []uint) (int, error) {
	if action != BulkDelete && action != BulkRestore {
		return 0, ErrInvalidBulkAction
	}

	affected := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)
		existing, err := courses.ExistingIDs(ctx, ids)
		if err != nil {
			return err
		}
		affected = len(existing)
		if action == BulkRestore {
			_, err := courses.SetActive(ctx, existing, true)
			return err
		}
		if _, err := courses.SetActive(ctx, existing, false); err != nil {
			return err
		}
		_, err = s.ModuleRepo.WithTx(tx).DeactivateByCourses(ctx, existing)
		return err
	})
	if err != nil {
		return 0, err
	}

	logger.Log.Info("Course bulk action", zap.String("action", action), zap.Int("affected", affected))
	return affected, nil
}

func (s *CourseService) CreateModule(ctx context.Context, courseID uint, req ModuleRequest) (*model.TrainingModule, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, courseNotFound(err)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	m := &model.TrainingModule{
		CourseID:      courseID,
		Title:         title,
		ContentText:   req.ContentText,
		VideoPath:     req.VideoPath,
		DocumentPath:  req.DocumentPath,
		EstimatedTime: req.EstimatedTime,
		Order:         req.Order,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if err := s.ModuleRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) UpdateModule(ctx context.Context, id uint, req ModuleRequest) (*model.TrainingModule, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	m, err := s.ModuleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, moduleNotFound(err)
	}
	m.Title = title
	m.ContentText = req.ContentText
	m.VideoPath = req.VideoPath
	m.DocumentPath = req.DocumentPath
	m.EstimatedTime = req.EstimatedTime
	m.Order = req.Order
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := s.ModuleRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CourseService) GetModule(ctx context.Context, id uint) (*model.TrainingModule, error) {
	m, err := s.ModuleRepo.FindWithExamples(ctx, id)
	if err != nil {
		return nil, moduleNotFound(err)
	}
	return m, nil
}

func (s *CourseService) ListModules(ctx context.Context, courseID uint) ([]model.TrainingModule, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, courseNotFound(err)
	}
	return s.ModuleRepo.ListByCourse(ctx, courseID, false)
}

func (s *CourseService) ToggleModule(ctx context.Context, id uint) (*model.TrainingModule, error) {
	m, err := s.ModuleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, moduleNotFound(err)
	}
	m.IsActive = !m.IsActive
	if err := s.ModuleRepo.SetActive(ctx, m.ID, m.IsActive); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteModule 软删除
func (s *CourseService) DeleteModule(ctx context.Context, id uint) error {
	if _, err := s.ModuleRepo.FindByID(ctx, id); err != nil {
		return moduleNotFound(err)
	}
	return s.ModuleRepo.SetActive(ctx, id, false)
}

func (s *CourseService) HardDeleteModule(ctx context.Context, id uint) error {
	if _, err := s.ModuleRepo.FindByID(ctx, id); err != nil {
		return moduleNotFound(err)
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.ModuleRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.Log.Warn("Training module permanently deleted", zap.Uint("module_id", id))
	return nil
}

func (s *CourseService) AddExample(ctx context.Context, moduleID uint, req ExampleRequest) (*model.TrainingExample, error) {
	if _, err := s.ModuleRepo.FindByID(ctx, moduleID); err != nil {
		return nil, moduleNotFound(err)
	}
	e, err := buildExample(moduleID, req)
	if err != nil {
		return nil, err
	}
	if err := s.ModuleRepo.CreateExample(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *CourseService) UpdateExample(ctx context.Context, exampleID uint, req ExampleRequest) (*model.TrainingExample, error) {
	existing, err := s.ModuleRepo.FindExample(ctx, exampleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExampleNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := buildExample(existing.ModuleID, req)
	if err != nil {
		return nil, err
	}
	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.ModuleRepo.WithTx(tx).ReplaceExample(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *CourseService) DeleteExample(ctx context.Context, exampleID uint) error {
	if _, err := s.ModuleRepo.FindExample(ctx, exampleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExampleNotFound
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.ModuleRepo.WithTx(tx).DeleteExample(ctx, exampleID)
	})
}
