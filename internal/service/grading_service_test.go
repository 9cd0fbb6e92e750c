package service

import (
	"context"
	"testing"
	"time"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func correctChoice(q *model.Question) *uint {
	for _, c := range q.Choices {
		if c.IsCorrect {
			id := c.ID
			return &id
		}
	}
	return nil
}

func wrongChoice(q *model.Question) *uint {
	for _, c := range q.Choices {
		if !c.IsCorrect {
			id := c.ID
			return &id
		}
	}
	return nil
}

func TestScore(t *testing.T) {
	q1 := model.Question{Choices: []model.Choice{{IsCorrect: true}, {}}}
	q1.ID = 1
	q1.Choices[0].ID, q1.Choices[0].QuestionID = 11, 1
	q1.Choices[1].ID, q1.Choices[1].QuestionID = 12, 1
	q2 := model.Question{Choices: []model.Choice{{IsCorrect: true}, {}}}
	q2.ID = 2
	q2.Choices[0].ID, q2.Choices[0].QuestionID = 21, 2
	q2.Choices[1].ID, q2.Choices[1].QuestionID = 22, 2
	q3 := model.Question{Choices: []model.Choice{{IsCorrect: true}}}
	q3.ID = 3
	q3.Choices[0].ID, q3.Choices[0].QuestionID = 31, 3
	questions := []model.Question{q1, q2, q3}

	tests := []struct {
		name    string
		answers Answers
		correct int
		score   int
	}{
		{"all correct", Answers{1: ptr(uint(11)), 2: ptr(uint(21)), 3: ptr(uint(31))}, 3, 100},
		{"none answered", Answers{}, 0, 0},
		{"two of three rounds up", Answers{1: ptr(uint(11)), 2: ptr(uint(21)), 3: nil}, 2, 67},
		{"one of three rounds down", Answers{1: ptr(uint(11)), 2: ptr(uint(22))}, 1, 33},
		{"choice from another question", Answers{1: ptr(uint(21)), 2: ptr(uint(11))}, 0, 0},
		{"unknown choice", Answers{1: ptr(uint(999))}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, score := Score(questions, tt.answers)
			assert.Equal(t, tt.correct, correct)
			assert.Equal(t, tt.score, score)
		})
	}

	correct, score := Score(nil, Answers{1: ptr(uint(11))})
	assert.Zero(t, correct)
	assert.Zero(t, score)
}

func TestGradeRecordsPass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "staff1", model.Staff)
	exam := f.exam(t, "A", model.MockExam, nil)
	q1 := f.question(t, exam.ID, "q1")
	q2 := f.question(t, exam.ID, "q2")

	svc := f.gradingService()
	first := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	res, err := svc.Grade(ctx, user.ID, exam.ID, Answers{q1.ID: correctChoice(q1), q2.ID: correctChoice(q2)})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 2, res.Total)
	assert.True(t, res.Passed)
	assert.Equal(t, model.DefaultPassingScore, res.PassingScore)

	svc.now = func() time.Time { return first.Add(24 * time.Hour) }
	res, err = svc.Grade(ctx, user.ID, exam.ID, Answers{q1.ID: wrongChoice(q1)})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, 0, res.Score)

	status, err := f.results.FindStatus(ctx, user.ID, exam.ID)
	require.NoError(t, err)
	assert.True(t, status.IsPassed)
	require.NotNil(t, status.PassedAt)
	assert.True(t, first.Equal(*status.PassedAt))

	results, err := f.results.ListResults(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestGradeFailureCreatesNoStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "staff1", model.Staff)
	exam := f.exam(t, "A", model.MockExam, nil)

	res, err := f.gradingService().Grade(ctx, user.ID, exam.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.False(t, res.Passed)

	passed, err := f.results.IsPassed(ctx, user.ID, exam.ID)
	require.NoError(t, err)
	assert.False(t, passed)
}

func TestGradeRejectsDeletedExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "staff1", model.Staff)
	exam := f.exam(t, "A", model.MockExam, nil)
	_, err := f.examService().DeleteExam(ctx, exam.ID)
	require.NoError(t, err)

	_, err = f.gradingService().Grade(ctx, user.ID, exam.ID, nil)
	assert.ErrorIs(t, err, ErrExamNotFound)

	_, err = f.gradingService().Grade(ctx, user.ID, 999, nil)
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestExamTakingPrerequisiteGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "staff1", model.Staff)
	mock := f.exam(t, "A", model.MockExam, nil)
	main := f.exam(t, "B", model.MainExam, &mock.ID)
	mq := f.question(t, mock.ID, "mq")
	f.question(t, main.ID, "q")

	svc := NewExamTakingService(f.exams, f.results, f.gradingService())

	available, err := svc.AvailableExams(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, available, 2)
	for _, e := range available {
		assert.Equal(t, e.ID == main.ID, e.Locked)
	}

	_, err = svc.Submit(ctx, user.ID, main.ID, nil)
	assert.ErrorIs(t, err, ErrPrerequisiteNotPassed)
	_, err = svc.GetExam(ctx, user.ID, main.ID)
	assert.ErrorIs(t, err, ErrPrerequisiteNotPassed)

	res, err := svc.Submit(ctx, user.ID, mock.ID, Answers{mq.ID: correctChoice(mq)})
	require.NoError(t, err)
	require.True(t, res.Passed)

	exam, err := svc.GetExam(ctx, user.ID, main.ID)
	require.NoError(t, err)
	require.Len(t, exam.Questions, 1)
	for _, c := range exam.Questions[0].Choices {
		assert.False(t, c.IsCorrect)
	}
}

func TestExamTakingRejectsUnpublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "staff1", model.Staff)
	mock := f.exam(t, "A", model.MockExam, nil)
	_, err := f.examService().ToggleActive(ctx, mock.ID)
	require.NoError(t, err)

	svc := NewExamTakingService(f.exams, f.results, f.gradingService())
	_, err = svc.Submit(ctx, user.ID, mock.ID, nil)
	assert.ErrorIs(t, err, ErrExamNotFound)

	available, err := svc.AvailableExams(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, available)
}
