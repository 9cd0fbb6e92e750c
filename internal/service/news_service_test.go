package service

import (
	"context"
	"testing"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/notify"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNewsBroadcast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", model.Administer)
	f.user(t, "staff", model.Staff)
	inactive := f.user(t, "gone", model.Staff)
	_, err := f.users.SetActive(ctx, []uint{inactive.ID}, false, 0)
	require.NoError(t, err)

	rec := &notify.Recorder{FailFor: map[string]bool{"staff@example.com": true}}
	svc := NewNewsService(f.news, f.users, rec)

	res, err := svc.CreateNews(ctx, admin.ID, NewsRequest{Title: "研修のお知らせ", Content: "本文", IsImportant: true, Broadcast: true})
	require.NoError(t, err)
	assert.Equal(t, model.NewsGeneral, res.News.Category)
	assert.True(t, res.News.IsActive)
	assert.Equal(t, 1, res.Notified)
	assert.Equal(t, 1, res.NotifyFailures)
	for _, m := range rec.Sent() {
		assert.Contains(t, m.Subject, "【重要】")
		assert.NotEqual(t, inactive.Email, m.To)
	}

	_, err = svc.CreateNews(ctx, admin.ID, NewsRequest{Title: "x", Category: "sports"})
	assert.True(t, IsValidation(err))
}

func TestNewsVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin", model.Administer)
	svc := NewNewsService(f.news, f.users, &notify.Recorder{})

	var ids []uint
	for _, title := range []string{"一", "二", "三", "四"} {
		res, err := svc.CreateNews(ctx, admin.ID, NewsRequest{Title: title})
		require.NoError(t, err)
		ids = append(ids, res.News.ID)
	}

	toggled, err := svc.ToggleNews(ctx, ids[3])
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	_, err = svc.GetPublishedNews(ctx, ids[3])
	assert.ErrorIs(t, err, ErrNewsNotFound)

	latest, err := svc.Latest(ctx, 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, ids[2], latest[0].ID)

	n, err := svc.BulkAction(ctx, BulkDelete, []uint{ids[0], ids[1], 404})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	trash, err := svc.ListNews(ctx, repository.NewsFilter{Trash: true})
	require.NoError(t, err)
	assert.Len(t, trash, 2)

	require.NoError(t, svc.SetDeleted(ctx, ids[0], false))
	assert.ErrorIs(t, svc.SetDeleted(ctx, 404, true), ErrNewsNotFound)

	_, err = svc.BulkAction(ctx, "archive", ids)
	assert.ErrorIs(t, err, ErrInvalidBulkAction)
}
