package service

import (
	"context"
	"testing"
	"time"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) pass(t *testing.T, userID, examID uint) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.results.CreateStatus(context.Background(), &model.UserExamStatus{
		UserID:   userID,
		ExamID:   examID,
		IsPassed: true,
		PassedAt: &now,
	}))
}

func TestRankingCachedUntilTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	mem := cache.NewMemoryCache().WithClock(func() time.Time { return now })
	svc := NewRankingService(f.badges, mem, config.RankingConfig{TTLSeconds: 60, Limit: 3})

	alice := f.user(t, "alice", model.Staff)
	bob := f.user(t, "bob", model.Staff)
	e1 := f.exam(t, "E1", model.MainExam, nil)
	e2 := f.exam(t, "E2", model.MainExam, nil)
	f.pass(t, alice.ID, e1.ID)

	first, err := svc.Ranking(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, alice.ID, first[0].UserID)

	f.pass(t, bob.ID, e1.ID)
	f.pass(t, bob.ID, e2.ID)

	cached, err := svc.Ranking(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	now = now.Add(61 * time.Second)
	fresh, err := svc.Ranking(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, bob.ID, fresh[0].UserID)
	assert.EqualValues(t, 2, fresh[0].BadgeCount)
}

func TestRankingIgnoresUnpublishedAndNonStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRankingService(f.badges, cache.NewMemoryCache(), config.RankingConfig{Limit: 3})

	staff := f.user(t, "staff", model.Staff)
	admin := f.user(t, "admin", model.Administer)
	mock := f.exam(t, "M", model.MockExam, nil)
	main := f.exam(t, "E", model.MainExam, nil)
	hidden := f.exam(t, "H", model.MainExam, nil)
	_, err := f.examService().ToggleActive(ctx, hidden.ID)
	require.NoError(t, err)

	f.pass(t, staff.ID, mock.ID)
	f.pass(t, staff.ID, main.ID)
	f.pass(t, staff.ID, hidden.ID)
	f.pass(t, admin.ID, main.ID)

	ranking, err := svc.Ranking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking, 1)
	assert.Equal(t, staff.ID, ranking[0].UserID)
	assert.EqualValues(t, 1, ranking[0].BadgeCount)
}

func TestRankingInvalidateAndConfigure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRankingService(f.badges, cache.NewMemoryCache(), config.RankingConfig{Limit: 3})
	for _, name := range []string{"a", "b", "c"} {
		f.user(t, name, model.Staff)
	}

	ranking, err := svc.Ranking(ctx)
	require.NoError(t, err)
	assert.Len(t, ranking, 3)

	svc.Configure(config.RankingConfig{Limit: 2})
	svc.Invalidate(ctx)
	ranking, err = svc.Ranking(ctx)
	require.NoError(t, err)
	assert.Len(t, ranking, 2)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ranking := NewRankingService(f.badges, cache.NewMemoryCache(), config.RankingConfig{Limit: 3})
	svc := NewDashboardService(f.results, f.badges, f.news, f.progressService(), ranking)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 7, 30, 0, 0, time.Local) }

	staff := f.user(t, "staff", model.Staff)
	admin := f.user(t, "admin", model.Administer)
	mock := f.exam(t, "M", model.MockExam, nil)
	main := f.exam(t, "E", model.MainExam, &mock.ID)
	f.pass(t, staff.ID, mock.ID)
	f.pass(t, staff.ID, main.ID)

	_, modules := f.course(t, "Go", 1)
	_, err := f.progressService().UpdateModuleProgress(ctx, staff.ID, modules[0].ID, 0, true)
	require.NoError(t, err)

	news := NewNewsService(f.news, f.users, nil)
	for _, title := range []string{"1", "2", "3", "4"} {
		_, err := news.CreateNews(ctx, admin.ID, NewsRequest{Title: title})
		require.NoError(t, err)
	}

	d, err := svc.GetDashboard(ctx, staff.ID, model.Staff)
	require.NoError(t, err)
	require.NotNil(t, d.Staff)
	assert.Equal(t, "おはようございます", d.Staff.Greeting)
	assert.EqualValues(t, 2, d.Staff.PassedExamCount)
	assert.Equal(t, 1, d.Staff.BadgeCount)
	assert.Equal(t, 1, d.Staff.CompletedCourseCount)
	assert.Len(t, d.Staff.LatestNews, 3)
	require.Len(t, d.Ranking, 1)

	d, err = svc.GetDashboard(ctx, admin.ID, model.Administer)
	require.NoError(t, err)
	assert.Nil(t, d.Staff)
	assert.Len(t, d.Ranking, 1)
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 4, 1, h, 0, 0, 0, time.UTC) }
	assert.Equal(t, "お疲れ様です", Greeting(at(4)))
	assert.Equal(t, "おはようございます", Greeting(at(5)))
	assert.Equal(t, "こんにちは", Greeting(at(11)))
	assert.Equal(t, "こんにちは", Greeting(at(17)))
	assert.Equal(t, "お疲れ様です", Greeting(at(18)))
}

func TestUpdateBadge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBadgeService(f.badges)
	main := f.exam(t, "E", model.MainExam, nil)

	badge, err := svc.UpdateBadge(ctx, main.Badge.ID, BadgeRequest{Name: "金バッジ", Icon: "gold.png"})
	require.NoError(t, err)
	assert.Equal(t, "金バッジ", badge.Name)
	assert.True(t, badge.IsActive)

	_, err = svc.UpdateBadge(ctx, 999, BadgeRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrBadgeNotFound)
}
