package service

import (
	"context"
	"errors"
	"strings"

	"github.com/merial523/graduate-git/internal/ai"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// swagger:model ChoiceRequest
type ChoiceRequest struct {
	Text      string `json:"text" binding:"required,max=200"`
	IsCorrect bool   `json:"isCorrect"`
}

// swagger:model QuestionRequest
type QuestionRequest struct {
	Text    string          `json:"text" binding:"required"`
	Choices []ChoiceRequest `json:"choices" binding:"required,min=1,dive"`
}

// swagger:model ExampleRequest
type ExampleRequest struct {
	Text        string          `json:"text" binding:"required"`
	Explanation string          `json:"explanation"`
	Choices     []ChoiceRequest `json:"choices" binding:"required,len=4,dive"`
}

// swagger:model GenerateRequest
type GenerateRequest struct {
	Topic  string `json:"topic" binding:"required,max=200"`
	Source string `json:"source"`
	Count  int    `json:"count" binding:"omitempty,min=1,max=20"`
}

// ImportReport 生成内容导入结果，不合格的题目被丢弃
type ImportReport struct {
	Imported  int `json:"imported"`
	Discarded int `json:"discarded"`
}

type QuestionService struct {
	DB           *gorm.DB
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	ModuleRepo   *repository.ModuleRepository
	Generator    ai.QuestionGenerator
}

func NewQuestionService(
	db *gorm.DB,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	moduleRepo *repository.ModuleRepository,
	generator ai.QuestionGenerator,
) *QuestionService {
	return &QuestionService{
		DB:           db,
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		ModuleRepo:   moduleRepo,
		Generator:    generator,
	}
}

func buildQuestion(examID uint, req QuestionRequest) (*model.Question, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, invalid("text", "is required")
	}
	if len(req.Choices) == 0 {
		return nil, invalid("choices", "at least one choice is required")
	}
	q := &model.Question{ExamID: examID, Text: text}
	correct := 0
	for _, c := range req.Choices {
		ct := strings.TrimSpace(c.Text)
		if ct == "" {
			return nil, invalid("choices", "choice text is required")
		}
		if c.IsCorrect {
			correct++
		}
		q.Choices = append(q.Choices, model.Choice{Text: ct, IsCorrect: c.IsCorrect})
	}
	if correct == 0 {
		return nil, ErrNoCorrectChoice
	}
	return q, nil
}

func buildExample(moduleID uint, req ExampleRequest) (*model.TrainingExample, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, invalid("text", "is required")
	}
	if len(req.Choices) != model.ExampleChoiceCount {
		return nil, ErrInvalidExampleChoices
	}
	e := &model.TrainingExample{ModuleID: moduleID, Text: text, Explanation: req.Explanation}
	correct := 0
	for _, c := range req.Choices {
		ct := strings.TrimSpace(c.Text)
		if ct == "" {
			return nil, invalid("choices", "choice text is required")
		}
		if c.IsCorrect {
			correct++
		}
		e.Choices = append(e.Choices, model.TrainingExampleChoice{Text: ct, IsCorrect: c.IsCorrect})
	}
	if correct != 1 {
		return nil, ErrInvalidExampleChoices
	}
	return e, nil
}

func (s *QuestionService) requireExam(ctx context.Context, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, examNotFound(err)
	}
	return exam, nil
}

func (s *QuestionService) requireModule(ctx context.Context, moduleID uint) (*model.TrainingModule, error) {
	m, err := s.ModuleRepo.FindByID(ctx, moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModuleNotFound
	}
	return m, err
}

func (s *QuestionService) ListQuestions(ctx context.Context, examID uint) ([]model.Question, error) {
	if _, err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}
	return s.QuestionRepo.ListByExam(ctx, examID)
}

func (s *QuestionService) AddQuestion(ctx context.Context, examID uint, req QuestionRequest) (*model.Question, error) {
	if _, err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}
	q, err := buildQuestion(examID, req)
	if err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, questionID uint, req QuestionRequest) (*model.Question, error) {
	existing, err := s.QuestionRepo.FindByID(ctx, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	q, err := buildQuestion(existing.ExamID, req)
	if err != nil {
		return nil, err
	}
	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.QuestionRepo.WithTx(tx).Replace(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID uint) error {
	if _, err := s.QuestionRepo.FindByID(ctx, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.QuestionRepo.WithTx(tx).Delete(ctx, questionID)
	})
}

// ImportGenerated 把生成的题目写入检定。没有题干、没有选项或没有正确选项的题目被丢弃
func (s *QuestionService) ImportGenerated(ctx context.Context, examID uint, items []ai.GeneratedQuestion) (*ImportReport, error) {
	if _, err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	var questions []*model.Question
	for _, item := range items {
		q, err := buildQuestion(examID, toQuestionRequest(item))
		if err != nil {
			report.Discarded++
			continue
		}
		questions = append(questions, q)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.QuestionRepo.WithTx(tx)
		for _, q := range questions {
			if err := repo.Create(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Imported = len(questions)

	logger.Log.Info("Generated questions imported",
		zap.Uint("exam_id", examID),
		zap.Int("imported", report.Imported),
		zap.Int("discarded", report.Discarded))
	return report, nil
}

// ImportGeneratedExamples 练习题要求恰好4个选项且只有一个正确
func (s *QuestionService) ImportGeneratedExamples(ctx context.Context, moduleID uint, items []ai.GeneratedQuestion) (*ImportReport, error) {
	if _, err := s.requireModule(ctx, moduleID); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	var examples []*model.TrainingExample
	for _, item := range items {
		req := ExampleRequest{Text: item.Text, Explanation: item.Explanation}
		for _, c := range item.Choices {
			req.Choices = append(req.Choices, ChoiceRequest{Text: c.Text, IsCorrect: c.IsCorrect})
		}
		e, err := buildExample(moduleID, req)
		if err != nil {
			report.Discarded++
			continue
		}
		examples = append(examples, e)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.ModuleRepo.WithTx(tx)
		for _, e := range examples {
			if err := repo.CreateExample(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Imported = len(examples)
	return report, nil
}

func toQuestionRequest(item ai.GeneratedQuestion) QuestionRequest {
	req := QuestionRequest{Text: item.Text}
	for _, c := range item.Choices {
		req.Choices = append(req.Choices, ChoiceRequest{Text: c.Text, IsCorrect: c.IsCorrect})
	}
	return req
}

// GenerateForExam 调用生成服务后导入。生成失败以 ExternalError 返回
func (s *QuestionService) GenerateForExam(ctx context.Context, examID uint, req GenerateRequest) (*ImportReport, error) {
	if s.Generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if _, err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}
	items, err := s.Generator.Generate(ctx, ai.Request{
		Kind:   ai.KindExam,
		Topic:  req.Topic,
		Source: req.Source,
		Count:  req.Count,
	})
	if err != nil {
		logger.Log.Warn("Question generation failed", zap.Uint("exam_id", examID), zap.Error(err))
		return nil, &ExternalError{Service: "question generator", Err: err}
	}
	return s.ImportGenerated(ctx, examID, items)
}

func (s *QuestionService) GenerateForModule(ctx context.Context, moduleID uint, req GenerateRequest) (*ImportReport, error) {
	if s.Generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if _, err := s.requireModule(ctx, moduleID); err != nil {
		return nil, err
	}
	items, err := s.Generator.Generate(ctx, ai.Request{
		Kind:   ai.KindExample,
		Topic:  req.Topic,
		Source: req.Source,
		Count:  req.Count,
	})
	if err != nil {
		logger.Log.Warn("Example generation failed", zap.Uint("module_id", moduleID), zap.Error(err))
		return nil, &ExternalError{Service: "question generator", Err: err}
	}
	return s.ImportGeneratedExamples(ctx, moduleID, items)
}
