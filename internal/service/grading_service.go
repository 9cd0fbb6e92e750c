package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/merial523/graduate-git/pkg/monitoring"
	"github.com/merial523/graduate-git/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answers 题目 id -> 所选选项 id，nil 表示未作答
type Answers map[uint]*uint

// swagger:model SubmitExamRequest
type SubmitExamRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"dive"`
}

type AnswerRequest struct {
	QuestionID uint  `json:"questionId" binding:"required"`
	ChoiceID   *uint `json:"choiceId"`
}

func (r SubmitExamRequest) ToAnswers() Answers {
	out := make(Answers, len(r.Answers))
	for _, a := range r.Answers {
		out[a.QuestionID] = a.ChoiceID
	}
	return out
}

// swagger:model GradeResult
type GradeResult struct {
	ExamID       uint `json:"examId"`
	Score        int  `json:"score"`
	Correct      int  `json:"correct"`
	Total        int  `json:"total"`
	Passed       bool `json:"passed"`
	PassingScore int  `json:"passingScore"`
	ResultID     uint `json:"resultId"`
}

type GradingService struct {
	DB           *gorm.DB
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	ResultRepo   *repository.ResultRepository
	now          func() time.Time
}

func NewGradingService(
	db *gorm.DB,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	resultRepo *repository.ResultRepository,
) *GradingService {
	return &GradingService{
		DB:           db,
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		ResultRepo:   resultRepo,
		now:          time.Now,
	}
}

// Score 只有选项属于该题且 is_correct 时才计分；没有题目时得分为 0
func Score(questions []model.Question, answers Answers) (correct, score int) {
	for _, q := range questions {
		selected := answers[q.ID]
		if selected == nil {
			continue
		}
		for _, c := range q.Choices {
			if c.ID == *selected && c.QuestionID == q.ID && c.IsCorrect {
				correct++
				break
			}
		}
	}
	if len(questions) == 0 {
		return 0, 0
	}
	score = int(math.Round(100 * float64(correct) / float64(len(questions))))
	return correct, score
}

// Grade 判分并记录。合格时 upsert 合否状态（只会变为合格），答题记录无论合否都追加
func (s *GradingService) Grade(ctx context.Context, userID, examID uint, answers Answers) (result *GradeResult, err error) {
	ctx, span := tracing.Start(ctx, "GradingService.Grade",
		attribute.Int64("exam.id", int64(examID)),
		attribute.Int64("user.id", int64(userID)))
	defer func() { tracing.End(span, err) }()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		exam, err := s.ExamRepo.WithTx(tx).FindByID(ctx, examID)
		if err != nil {
			return examNotFound(err)
		}
		if exam.IsDeleted {
			return ErrExamNotFound
		}

		questions, err := s.QuestionRepo.WithTx(tx).ListByExam(ctx, examID)
		if err != nil {
			return err
		}
		correct, score := Score(questions, answers)
		passed := score >= exam.PassingScore

		results := s.ResultRepo.WithTx(tx)
		if passed {
			if err := s.markPassed(ctx, results, userID, examID); err != nil {
				return err
			}
		}

		snapshot, err := json.Marshal(answers)
		if err != nil {
			return err
		}
		record := &model.ExamResult{
			UserID:   userID,
			ExamID:   examID,
			Score:    score,
			IsPassed: passed,
			Answers:  datatypes.JSON(snapshot),
		}
		if err := results.CreateResult(ctx, record); err != nil {
			return err
		}

		result = &GradeResult{
			ExamID:       examID,
			Score:        score,
			Correct:      correct,
			Total:        len(questions),
			Passed:       passed,
			PassingScore: exam.PassingScore,
			ResultID:     record.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ObserveSubmission(result.Passed)
	logger.Log.Info("Exam graded",
		zap.Uint("user_id", userID),
		zap.Uint("exam_id", examID),
		zap.Int("score", result.Score),
		zap.Bool("passed", result.Passed))
	return result, nil
}

func (s *GradingService) markPassed(ctx context.Context, results *repository.ResultRepository, userID, examID uint) error {
	status, err := results.FindStatus(ctx, userID, examID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := s.now()
		return results.CreateStatus(ctx, &model.UserExamStatus{
			UserID:   userID,
			ExamID:   examID,
			IsPassed: true,
			PassedAt: &now,
		})
	}
	if err != nil {
		return err
	}
	if status.IsPassed {
		return nil
	}
	now := s.now()
	status.IsPassed = true
	status.PassedAt = &now
	return results.UpdateStatus(ctx, status)
}
