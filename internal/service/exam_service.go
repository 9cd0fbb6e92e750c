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

// 批量操作，检定和お知らせ共用
const (
	BulkDelete      = "delete"
	BulkRestore     = "restore"
	BulkMakePublic  = "make_public"
	BulkMakePrivate = "make_private"
)

func validBulkAction(action string) bool {
	switch action {
	case BulkDelete, BulkRestore, BulkMakePublic, BulkMakePrivate:
		return true
	}
	return false
}

// swagger:model CreateExamRequest
type CreateExamRequest struct {
	Title          string         `json:"title" binding:"required,max=100"`
	Description    string         `json:"description"`
	ExamsFile      string         `json:"examsFile" binding:"max=255"`
	PassingScore   *int           `json:"passingScore" binding:"omitempty,min=0,max=100"`
	TimeLimit      int            `json:"timeLimit" binding:"min=0"`
	ExamType       model.ExamType `json:"examType" binding:"required,oneof=mock main"`
	PrerequisiteID *uint          `json:"prerequisiteId"`
	IsActive       *bool          `json:"isActive"`
}

// swagger:model UpdateExamRequest
type UpdateExamRequest struct {
	Title          string `json:"title" binding:"required,max=100"`
	Description    string `json:"description"`
	ExamsFile      string `json:"examsFile" binding:"max=255"`
	PassingScore   *int   `json:"passingScore" binding:"omitempty,min=0,max=100"`
	TimeLimit      int    `json:"timeLimit" binding:"min=0"`
	PrerequisiteID *uint  `json:"prerequisiteId"`
	IsActive       *bool  `json:"isActive"`
}

// swagger:model BulkActionRequest
type BulkActionRequest struct {
	Action string `json:"action" binding:"required"`
	IDs    []uint `json:"ids"`
}

type ExamService struct {
	DB        *gorm.DB
	ExamRepo  *repository.ExamRepository
	BadgeRepo *repository.BadgeRepository
}

func NewExamService(db *gorm.DB, examRepo *repository.ExamRepository, badgeRepo *repository.BadgeRepository) *ExamService {
	return &ExamService{
		DB:        db,
		ExamRepo:  examRepo,
		BadgeRepo: badgeRepo,
	}
}

func examNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrExamNotFound
	}
	return err
}

func checkPassingScore(score *int) (int, error) {
	if score == nil {
		return model.DefaultPassingScore, nil
	}
	if *score < 0 || *score > 100 {
		return 0, invalid("passingScore", "must be between 0 and 100")
	}
	return *score, nil
}

// checkPrerequisite 本試験的前提必须是未删除的仮試験，仮試験不能有前提
func checkPrerequisite(ctx context.Context, exams *repository.ExamRepository, typ model.ExamType, selfID uint, prereqID *uint) error {
	if prereqID == nil {
		return nil
	}
	if typ != model.MainExam || *prereqID == selfID {
		return ErrInvalidPrerequisite
	}
	prereq, err := exams.FindByID(ctx, *prereqID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidPrerequisite
	}
	if err != nil {
		return err
	}
	if prereq.ExamType != model.MockExam || prereq.IsDeleted {
		return ErrInvalidPrerequisite
	}
	return nil
}

// CreateExam 本試験会在同一事务里生成徽章
func (s *ExamService) CreateExam(ctx context.Context, req CreateExamRequest) (*model.Exam, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if !req.ExamType.Valid() {
		return nil, invalid("examType", "must be mock or main")
	}
	score, err := checkPassingScore(req.PassingScore)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		Title:          title,
		Description:    req.Description,
		ExamsFile:      req.ExamsFile,
		PassingScore:   score,
		TimeLimit:      req.TimeLimit,
		ExamType:       req.ExamType,
		PrerequisiteID: req.PrerequisiteID,
		IsActive:       req.IsActive == nil || *req.IsActive,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		if err := checkPrerequisite(ctx, exams, exam.ExamType, 0, exam.PrerequisiteID); err != nil {
			return err
		}
		if err := exams.Create(ctx, exam); err != nil {
			return err
		}
		if exam.ExamType != model.MainExam {
			return nil
		}
		badge := &model.Badge{
			ExamID:   exam.ID,
			Name:     model.BadgeNameFor(exam.Title),
			IsActive: exam.IsActive,
		}
		if err := s.BadgeRepo.WithTx(tx).Create(ctx, badge); err != nil {
			return err
		}
		exam.Badge = badge
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Exam created",
		zap.Uint("exam_id", exam.ID),
		zap.String("type", string(exam.ExamType)))
	return exam, nil
}

// UpdateExam 类型不可变，保存后徽章的 is_active 重新与检定同步
func (s *ExamService) UpdateExam(ctx context.Context, id uint, req UpdateExamRequest) (*model.Exam, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}

	var exam *model.Exam
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		var err error
		exam, err = exams.FindByID(ctx, id)
		if err != nil {
			return examNotFound(err)
		}

		score := exam.PassingScore
		if req.PassingScore != nil {
			if score, err = checkPassingScore(req.PassingScore); err != nil {
				return err
			}
		}
		if err := checkPrerequisite(ctx, exams, exam.ExamType, exam.ID, req.PrerequisiteID); err != nil {
			return err
		}

		exam.Title = title
		exam.Description = req.Description
		exam.ExamsFile = req.ExamsFile
		exam.PassingScore = score
		exam.TimeLimit = req.TimeLimit
		exam.PrerequisiteID = req.PrerequisiteID
		exam.Prerequisite = nil
		if req.IsActive != nil {
			exam.IsActive = *req.IsActive
		}
		if err := exams.Update(ctx, exam); err != nil {
			return err
		}
		if exam.ExamType == model.MainExam {
			if err := s.BadgeRepo.WithTx(tx).SetActiveByExams(ctx, []uint{exam.ID}, exam.IsActive); err != nil {
				return err
			}
			if exam.Badge != nil {
				exam.Badge.IsActive = exam.IsActive
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) GetExam(ctx context.Context, id uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, examNotFound(err)
	}
	return exam, nil
}

func (s *ExamService) ListExams(ctx context.Context, filter repository.ExamFilter) ([]model.Exam, error) {
	return s.ExamRepo.List(ctx, filter)
}

// ListMocks 可选作前提的仮試験
func (s *ExamService) ListMocks(ctx context.Context) ([]model.Exam, error) {
	return s.ExamRepo.List(ctx, repository.ExamFilter{Type: model.MockExam})
}

// DeleteExam 软删除；仮試験会连带删除以它为前提的本試験（只一层）。返回被连带删除的 id
func (s *ExamService) DeleteExam(ctx context.Context, id uint) ([]uint, error) {
	var cascaded []uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		exam, err := exams.FindByID(ctx, id)
		if err != nil {
			return examNotFound(err)
		}
		if _, err := exams.SetDeleted(ctx, []uint{exam.ID}, true); err != nil {
			return err
		}
		if exam.ExamType != model.MockExam {
			return nil
		}
		if cascaded, err = exams.DependentMainIDs(ctx, []uint{exam.ID}); err != nil {
			return err
		}
		_, err = exams.SetDeleted(ctx, cascaded, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Exam deleted", zap.Uint("exam_id", id), zap.Uints("cascaded", cascaded))
	return cascaded, nil
}

// RestoreExam 恢复单个检定。cascade 为 true 且本試験的前提仮試験已删除时一并恢复；
// 恢复仮試験不会恢复依赖它的本試験
func (s *ExamService) RestoreExam(ctx context.Context, id uint, cascade bool) ([]uint, error) {
	var restored []uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		exam, err := exams.FindByID(ctx, id)
		if err != nil {
			return examNotFound(err)
		}
		if _, err := exams.SetDeleted(ctx, []uint{exam.ID}, false); err != nil {
			return err
		}
		if !cascade || exam.ExamType != model.MainExam || exam.Prerequisite == nil || !exam.Prerequisite.IsDeleted {
			return nil
		}
		if _, err := exams.SetDeleted(ctx, []uint{exam.Prerequisite.ID}, false); err != nil {
			return err
		}
		restored = append(restored, exam.Prerequisite.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Exam restored", zap.Uint("exam_id", id), zap.Uints("cascaded", restored))
	return restored, nil
}

func (s *ExamService) SetActive(ctx context.Context, id uint, active bool) (*model.Exam, error) {
	var exam *model.Exam
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		exam, err = s.setActive(ctx, tx, id, func(*model.Exam) bool { return active })
		return err
	})
	return exam, err
}

// ToggleActive 翻转公开状态，徽章跟随
func (s *ExamService) ToggleActive(ctx context.Context, id uint) (*model.Exam, error) {
	var exam *model.Exam
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		exam, err = s.setActive(ctx, tx, id, func(e *model.Exam) bool { return !e.IsActive })
		return err
	})
	return exam, err
}

func (s *ExamService) setActive(ctx context.Context, tx *gorm.DB, id uint, next func(*model.Exam) bool) (*model.Exam, error) {
	exams := s.ExamRepo.WithTx(tx)
	exam, err := exams.FindByID(ctx, id)
	if err != nil {
		return nil, examNotFound(err)
	}
	exam.IsActive = next(exam)
	if _, err := exams.SetActive(ctx, []uint{exam.ID}, exam.IsActive); err != nil {
		return nil, err
	}
	if err := s.BadgeRepo.WithTx(tx).SetActiveByExams(ctx, []uint{exam.ID}, exam.IsActive); err != nil {
		return nil, err
	}
	if exam.Badge != nil {
		exam.Badge.IsActive = exam.IsActive
	}
	return exam, nil
}

// BulkAction 对存在的 id 逐个执行，不存在的忽略。删除带一层前提级联，恢复不级联。
// 返回受影响的所选检定数
func (s *ExamService) BulkAction(ctx context.Context, action string, ids []uint) (int, error) {
	if !validBulkAction(action) {
		return 0, ErrInvalidBulkAction
	}

	affected := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		found, err := exams.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		existing := make([]uint, 0, len(found))
		var mocks []uint
		for _, e := range found {
			existing = append(existing, e.ID)
			if e.ExamType == model.MockExam {
				mocks = append(mocks, e.ID)
			}
		}
		affected = len(existing)

		switch action {
		case BulkDelete:
			if _, err := exams.SetDeleted(ctx, existing, true); err != nil {
				return err
			}
			dependents, err := exams.DependentMainIDs(ctx, mocks)
			if err != nil {
				return err
			}
			_, err = exams.SetDeleted(ctx, dependents, true)
			return err
		case BulkRestore:
			_, err := exams.SetDeleted(ctx, existing, false)
			return err
		default:
			active := action == BulkMakePublic
			if _, err := exams.SetActive(ctx, existing, active); err != nil {
				return err
			}
			return s.BadgeRepo.WithTx(tx).SetActiveByExams(ctx, existing, active)
		}
	})
	if err != nil {
		return 0, err
	}

	logger.Log.Info("Exam bulk action",
		zap.String("action", action),
		zap.Int("requested", len(ids)),
		zap.Int("affected", affected))
	return affected, nil
}

// HardDeleteExam 物理删除，仅管理员可用
func (s *ExamService) HardDeleteExam(ctx context.Context, id uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		if _, err := exams.FindByID(ctx, id); err != nil {
			return examNotFound(err)
		}
		return exams.HardDelete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.Log.Warn("Exam permanently deleted", zap.Uint("exam_id", id))
	return nil
}
