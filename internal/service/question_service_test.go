package service

import (
	"context"
	"errors"
	"testing"

	"github.com/merial523/graduate-git/internal/ai"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) questionService(gen ai.QuestionGenerator) *QuestionService {
	return NewQuestionService(f.db, f.exams, f.questions, f.modules, gen)
}

func TestAddQuestionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exam := f.exam(t, "A", model.MockExam, nil)
	svc := f.questionService(nil)

	_, err := svc.AddQuestion(ctx, exam.ID, QuestionRequest{Text: "q", Choices: []ChoiceRequest{{Text: "a"}, {Text: "b"}}})
	assert.ErrorIs(t, err, ErrNoCorrectChoice)

	_, err = svc.AddQuestion(ctx, exam.ID, QuestionRequest{Text: " ", Choices: []ChoiceRequest{{Text: "a", IsCorrect: true}}})
	assert.True(t, IsValidation(err))

	_, err = svc.AddQuestion(ctx, 999, QuestionRequest{Text: "q", Choices: []ChoiceRequest{{Text: "a", IsCorrect: true}}})
	assert.ErrorIs(t, err, ErrExamNotFound)

	q, err := svc.AddQuestion(ctx, exam.ID, QuestionRequest{Text: "q", Choices: []ChoiceRequest{{Text: "a", IsCorrect: true}, {Text: "b"}}})
	require.NoError(t, err)
	assert.Len(t, q.Choices, 2)

	updated, err := svc.UpdateQuestion(ctx, q.ID, QuestionRequest{Text: "q2", Choices: []ChoiceRequest{{Text: "c", IsCorrect: true}}})
	require.NoError(t, err)
	assert.Equal(t, "q2", updated.Text)

	questions, err := svc.ListQuestions(ctx, exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Len(t, questions[0].Choices, 1)

	require.NoError(t, svc.DeleteQuestion(ctx, q.ID))
	assert.ErrorIs(t, svc.DeleteQuestion(ctx, q.ID), ErrQuestionNotFound)
}

func TestImportGeneratedDiscardsMalformed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exam := f.exam(t, "A", model.MockExam, nil)
	svc := f.questionService(nil)

	items := []ai.GeneratedQuestion{
		{Text: "ok", Choices: []ai.GeneratedChoice{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		{Text: "", Choices: []ai.GeneratedChoice{{Text: "a", IsCorrect: true}}},
		{Text: "no choices"},
		{Text: "no correct", Choices: []ai.GeneratedChoice{{Text: "a"}}},
	}
	report, err := svc.ImportGenerated(ctx, exam.ID, items)
	require.NoError(t, err)
	assert.Equal(t, &ImportReport{Imported: 1, Discarded: 3}, report)

	n, err := f.questions.CountByExam(ctx, exam.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestImportGeneratedExamples(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, modules := f.course(t, "Go", 1)
	svc := f.questionService(nil)

	four := []ai.GeneratedChoice{{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"}, {Text: "d"}}
	items := []ai.GeneratedQuestion{
		{Text: "ok", Explanation: "because", Choices: four},
		{Text: "three", Choices: four[:3]},
		{Text: "two correct", Choices: []ai.GeneratedChoice{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}, {Text: "c"}, {Text: "d"}}},
	}
	report, err := svc.ImportGeneratedExamples(ctx, modules[0].ID, items)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Discarded)

	_, err = svc.ImportGeneratedExamples(ctx, 999, items)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestGenerateForExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	exam := f.exam(t, "A", model.MockExam, nil)

	_, err := f.questionService(nil).GenerateForExam(ctx, exam.ID, GenerateRequest{Topic: "Go"})
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)

	gen := &ai.MockGenerator{Results: [][]ai.GeneratedQuestion{{
		{Text: "q", Choices: []ai.GeneratedChoice{{Text: "a", IsCorrect: true}}},
	}}}
	report, err := f.questionService(gen).GenerateForExam(ctx, exam.ID, GenerateRequest{Topic: "Go", Count: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, gen.Calls, 1)
	assert.Equal(t, ai.KindExam, gen.Calls[0].Kind)

	failing := &ai.MockGenerator{Err: errors.New("upstream timeout")}
	_, err = f.questionService(failing).GenerateForExam(ctx, exam.ID, GenerateRequest{Topic: "Go"})
	var ext *ExternalError
	assert.True(t, errors.As(err, &ext))
}
