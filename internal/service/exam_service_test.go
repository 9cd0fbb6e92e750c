package service

import (
	"context"
	"testing"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExamBadge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mock := f.exam(t, "基礎", model.MockExam, nil)
	assert.Nil(t, mock.Badge)
	_, err := f.badges.FindByExamID(ctx, mock.ID)
	assert.Error(t, err)

	main := f.exam(t, "応用", model.MainExam, &mock.ID)
	require.NotNil(t, main.Badge)
	assert.Equal(t, "応用合格バッジ", main.Badge.Name)
	assert.True(t, main.Badge.IsActive)
	assert.Equal(t, model.DefaultPassingScore, main.PassingScore)

	_, err = f.examService().UpdateExam(ctx, main.ID, UpdateExamRequest{Title: "応用2", PrerequisiteID: &mock.ID})
	require.NoError(t, err)

	badges, err := f.badges.List(ctx)
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}

func TestCreateExamValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.examService()

	_, err := svc.CreateExam(ctx, CreateExamRequest{Title: "  ", ExamType: model.MockExam})
	assert.True(t, IsValidation(err))

	_, err = svc.CreateExam(ctx, CreateExamRequest{Title: "x", ExamType: model.MainExam, PassingScore: ptr(101)})
	assert.True(t, IsValidation(err))

	other := f.exam(t, "main", model.MainExam, nil)
	_, err = svc.CreateExam(ctx, CreateExamRequest{Title: "x", ExamType: model.MainExam, PrerequisiteID: &other.ID})
	assert.ErrorIs(t, err, ErrInvalidPrerequisite)

	mock := f.exam(t, "mock", model.MockExam, nil)
	_, err = svc.CreateExam(ctx, CreateExamRequest{Title: "x", ExamType: model.MockExam, PrerequisiteID: &mock.ID})
	assert.ErrorIs(t, err, ErrInvalidPrerequisite)

	_, err = svc.CreateExam(ctx, CreateExamRequest{Title: "x", ExamType: model.MainExam, PrerequisiteID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrInvalidPrerequisite)
}

func TestDeleteMockCascadesToMain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.examService()
	mock := f.exam(t, "A", model.MockExam, nil)
	main := f.exam(t, "B", model.MainExam, &mock.ID)
	unrelated := f.exam(t, "C", model.MainExam, nil)

	cascaded, err := svc.DeleteExam(ctx, mock.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{main.ID}, cascaded)

	got, err := svc.GetExam(ctx, main.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamDeleted, got.State())

	got, err = svc.GetExam(ctx, unrelated.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestDeleteMainLeavesMock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.examService()
	mock := f.exam(t, "A", model.MockExam, nil)
	main := f.exam(t, "B", model.MainExam, &mock.ID)

	cascaded, err := svc.DeleteExam(ctx, main.ID)
	require.NoError(t, err)
	assert.Empty(t, cascaded)

	got, err := svc.GetExam(ctx, mock.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestRestoreExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.examService()
	mock := f.exam(t, "A", model.MockExam, nil)
	main := f.exam(t, "B", model.MainExam, &mock.ID)
	_, err := svc.DeleteExam(ctx, mock.ID)
	require.NoError(t, err)

	t.Run("restoring the mock leaves the main deleted", func(t *testing.T) {
		restored, err := svc.RestoreExam(ctx, mock.ID, true)
		require.NoError(t, err)
		assert.Empty(t, restored)

		got, err := svc.GetExam(ctx, main.ID)
		require.NoError(t, err)
		assert.True(t, got.IsDeleted)
	})

	t.Run("restoring the main with cascade restores its mock", func(t *testing.T) {
		_, err := svc.DeleteExam(ctx, mock.ID)
		require.NoError(t, err)

		restored, err := svc.RestoreExam(ctx, main.ID, true)
		require.NoError(t, err)
		assert.Equal(t, []uint{mock.ID}, restored)

		got, err := svc.GetExam(ctx, mock.ID)
		require.NoError(t, err)
		assert.False(t, got.IsDeleted)
	})

	t.Run("restoring the main without cascade", func(t *testing.T) {
		_, err := svc.DeleteExam(ctx, mock.ID)
		require.NoError(t, err)

		restored, err := svc.RestoreExam(ctx, main.ID, false)
		require.NoError(t, err)
		assert.Empty(t, restored)

		got, err := svc.GetExam(ctx, mock.ID)
		require.NoError(t, err)
		assert.True(t, got.IsDeleted)
	})

	_, err = svc.RestoreExam(ctx, 999, false)
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestToggleActiveMirrorsBadge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.examService()
	main := f.exam(t, "B", model.MainExam, nil)

	toggled, err := svc.ToggleActive(ctx, main.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	badge, err := f.badges.FindByExamID(ctx, main.ID)
	require.NoError(t, err)
	assert.False(t, badge.IsActive)

	toggled, err = svc.ToggleActive(ctx, main.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
	badge, err = f.badges.FindByExamID(ctx, main.ID)
	require.NoError(t, err)
	assert.True(t, badge.IsActive)
}

func TestExamBulkAction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.examService()
	mock := f.exam(t, "A", model.MockExam, nil)
	main := f.exam(t, "B", model.MainExam, &mock.ID)

	_, err := svc.BulkAction(ctx, "archive", []uint{mock.ID})
	assert.ErrorIs(t, err, ErrInvalidBulkAction)

	n, err := svc.BulkAction(ctx, BulkMakePrivate, []uint{main.ID, 404})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	badge, err := f.badges.FindByExamID(ctx, main.ID)
	require.NoError(t, err)
	assert.False(t, badge.IsActive)

	n, err = svc.BulkAction(ctx, BulkDelete, []uint{mock.ID, 404, 405})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := svc.GetExam(ctx, main.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	n, err = svc.BulkAction(ctx, BulkRestore, []uint{mock.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = svc.GetExam(ctx, main.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestHardDeleteExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.examService()
	main := f.exam(t, "B", model.MainExam, nil)
	f.question(t, main.ID, "q1")

	require.NoError(t, svc.HardDeleteExam(ctx, main.ID))
	_, err := svc.GetExam(ctx, main.ID)
	assert.ErrorIs(t, err, ErrExamNotFound)
	assert.True(t, IsNotFound(err))

	_, err = f.badges.FindByExamID(ctx, main.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.HardDeleteExam(ctx, main.ID), ErrExamNotFound)
}
