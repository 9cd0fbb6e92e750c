package service

import (
	"context"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
)

// swagger:model AvailableExam
type AvailableExam struct {
	model.Exam
	Passed bool `json:"passed"`
	// Locked 前提仮試験尚未合格
	Locked bool `json:"locked"`
}

// ExamTakingService 受験者视角：可受験列表、题目、提交
type ExamTakingService struct {
	ExamRepo   *repository.ExamRepository
	ResultRepo *repository.ResultRepository
	Grading    *GradingService
}

func NewExamTakingService(examRepo *repository.ExamRepository, resultRepo *repository.ResultRepository, grading *GradingService) *ExamTakingService {
	return &ExamTakingService{
		ExamRepo:   examRepo,
		ResultRepo: resultRepo,
		Grading:    grading,
	}
}

func (s *ExamTakingService) AvailableExams(ctx context.Context, userID uint) ([]AvailableExam, error) {
	active := true
	exams, err := s.ExamRepo.List(ctx, repository.ExamFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	passedIDs, err := s.ResultRepo.PassedExamIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	passed := make(map[uint]bool, len(passedIDs))
	for _, id := range passedIDs {
		passed[id] = true
	}

	out := make([]AvailableExam, 0, len(exams))
	for _, e := range exams {
		out = append(out, AvailableExam{
			Exam:   e,
			Passed: passed[e.ID],
			Locked: e.PrerequisiteID != nil && !passed[*e.PrerequisiteID],
		})
	}
	return out, nil
}

// checkTakeable 只能受験公开中且未删除的检定，本試験需先通过前提仮試験
func (s *ExamTakingService) checkTakeable(ctx context.Context, userID uint, exam *model.Exam) error {
	if exam.IsDeleted || !exam.IsActive {
		return ErrExamNotFound
	}
	if exam.ExamType != model.MainExam || exam.PrerequisiteID == nil {
		return nil
	}
	ok, err := s.ResultRepo.IsPassed(ctx, userID, *exam.PrerequisiteID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPrerequisiteNotPassed
	}
	return nil
}

// GetExam 返回题目，正确答案被抹掉
func (s *ExamTakingService) GetExam(ctx context.Context, userID, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindWithQuestions(ctx, examID)
	if err != nil {
		return nil, examNotFound(err)
	}
	if err := s.checkTakeable(ctx, userID, exam); err != nil {
		return nil, err
	}
	for i := range exam.Questions {
		for j := range exam.Questions[i].Choices {
			exam.Questions[i].Choices[j].IsCorrect = false
		}
	}
	return exam, nil
}

func (s *ExamTakingService) Submit(ctx context.Context, userID, examID uint, answers Answers) (*GradeResult, error) {
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, examNotFound(err)
	}
	if err := s.checkTakeable(ctx, userID, exam); err != nil {
		return nil, err
	}
	return s.Grading.Grade(ctx, userID, examID, answers)
}

func (s *ExamTakingService) Results(ctx context.Context, userID uint) ([]model.ExamResult, error) {
	return s.ResultRepo.ListResults(ctx, userID)
}
