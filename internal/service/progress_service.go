package service

import (
	"context"
	"errors"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"gorm.io/gorm"
)

// swagger:model CourseProgress
type CourseProgress struct {
	CourseID      uint   `json:"courseId"`
	Subject       string `json:"subject"`
	ActiveModules int64  `json:"activeModules"`
	Done          int64  `json:"done"`
	Percent       int    `json:"percent"`
	Completed     bool   `json:"completed"`
}

// swagger:model ModuleProgressRequest
type ModuleProgressRequest struct {
	Position float64 `json:"position" binding:"min=0"`
	Done     bool    `json:"done"`
}

// swagger:model ModuleDetail
type ModuleDetail struct {
	Module   *model.TrainingModule     `json:"module"`
	Progress *model.UserModuleProgress `json:"progress,omitempty"`
}

type ProgressService struct {
	DB           *gorm.DB
	CourseRepo   *repository.CourseRepository
	ModuleRepo   *repository.ModuleRepository
	ProgressRepo *repository.ProgressRepository
}

func NewProgressService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	progressRepo *repository.ProgressRepository,
) *ProgressService {
	return &ProgressService{
		DB:           db,
		CourseRepo:   courseRepo,
		ModuleRepo:   moduleRepo,
		ProgressRepo: progressRepo,
	}
}

// Completion 没有公开模块的讲座为 0% 且不算完成；完成以 done == active 判断
func Completion(active, done int64) (percent int, completed bool) {
	if active <= 0 {
		return 0, false
	}
	percent = int(100 * done / active)
	if percent > 100 {
		percent = 100
	}
	return percent, done == active
}

func (s *ProgressService) courseProgress(ctx context.Context, userID uint, course *model.Course) (*CourseProgress, error) {
	active, err := s.ModuleRepo.CountActiveByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	p := &CourseProgress{
		CourseID:      course.ID,
		Subject:       course.Subject,
		ActiveModules: active,
	}
	if active == 0 {
		return p, nil
	}
	if p.Done, err = s.ProgressRepo.CountCompletedInCourse(ctx, userID, course.ID); err != nil {
		return nil, err
	}
	p.Percent, p.Completed = Completion(active, p.Done)
	return p, nil
}

func (s *ProgressService) CourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, courseNotFound(err)
	}
	return s.courseProgress(ctx, userID, course)
}

// CourseOverview 公开讲座逐个计算进度
func (s *ProgressService) CourseOverview(ctx context.Context, userID uint) ([]CourseProgress, error) {
	active := true
	courses, err := s.CourseRepo.List(ctx, repository.CourseFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	out := make([]CourseProgress, 0, len(courses))
	for i := range courses {
		p, err := s.courseProgress(ctx, userID, &courses[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *ProgressService) CompletedCourseCount(ctx context.Context, userID uint) (int, error) {
	overview, err := s.CourseOverview(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range overview {
		if p.Completed {
			n++
		}
	}
	return n, nil
}

// UpdateModuleProgress 位置直接覆盖，完成标记取新旧值的或
func (s *ProgressService) UpdateModuleProgress(ctx context.Context, userID, moduleID uint, position float64, done bool) (*model.UserModuleProgress, error) {
	if _, err := s.ModuleRepo.FindByID(ctx, moduleID); err != nil {
		return nil, moduleNotFound(err)
	}

	var progress *model.UserModuleProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.ProgressRepo.WithTx(tx)
		existing, err := repo.Find(ctx, userID, moduleID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = &model.UserModuleProgress{
				UserID:       userID,
				ModuleID:     moduleID,
				LastPosition: position,
				IsCompleted:  done,
			}
			return repo.Create(ctx, progress)
		}
		if err != nil {
			return err
		}
		existing.LastPosition = position
		existing.IsCompleted = existing.IsCompleted || done
		progress = existing
		return repo.Update(ctx, existing)
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// ModuleDetail 受講画面：公开讲座下的公开模块及当前用户的进度
func (s *ProgressService) ModuleDetail(ctx context.Context, userID, moduleID uint) (*ModuleDetail, error) {
	m, err := s.ModuleRepo.FindWithExamples(ctx, moduleID)
	if err != nil {
		return nil, moduleNotFound(err)
	}
	if !m.IsActive {
		return nil, ErrModuleNotFound
	}
	course, err := s.CourseRepo.FindByID(ctx, m.CourseID)
	if err != nil || !course.IsActive {
		return nil, ErrModuleNotFound
	}

	detail := &ModuleDetail{Module: m}
	p, err := s.ProgressRepo.Find(ctx, userID, moduleID)
	switch {
	case err == nil:
		detail.Progress = p
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return detail, nil
}

// swagger:model CourseDetail
type CourseDetail struct {
	Course   *model.Course                     `json:"course"`
	Progress *CourseProgress                   `json:"progress"`
	Modules  map[uint]model.UserModuleProgress `json:"modules"`
}

// CourseDetail 受講者看到的讲座：只含公开模块
func (s *ProgressService) CourseDetail(ctx context.Context, userID, courseID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindWithModules(ctx, courseID, true)
	if err != nil {
		return nil, courseNotFound(err)
	}
	if !course.IsActive {
		return nil, ErrCourseNotFound
	}
	progress, err := s.courseProgress(ctx, userID, course)
	if err != nil {
		return nil, err
	}
	modules, err := s.ProgressRepo.ListByCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: course, Progress: progress, Modules: modules}, nil
}
