package service

import (
	"context"
	"testing"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMylist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewMylistService(f.mylists, f.courses, f.news)
	user := f.user(t, "staff", model.Staff)
	course, _ := f.course(t, "Go", 1)
	news, err := NewNewsService(f.news, f.users, nil).CreateNews(ctx, user.ID, NewsRequest{Title: "お知らせ"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, user.ID, model.FavoriteTarget{Kind: "exam", ID: 1})
	assert.ErrorIs(t, err, ErrInvalidFavoriteTarget)
	_, err = svc.Add(ctx, user.ID, model.CourseTarget(0))
	assert.ErrorIs(t, err, ErrInvalidFavoriteTarget)
	_, err = svc.Add(ctx, user.ID, model.CourseTarget(999))
	assert.ErrorIs(t, err, ErrCourseNotFound)

	item, err := svc.Add(ctx, user.ID, model.CourseTarget(course.ID))
	require.NoError(t, err)
	target, err := item.Target()
	require.NoError(t, err)
	assert.Equal(t, model.CourseTarget(course.ID), target)

	_, err = svc.Add(ctx, user.ID, model.CourseTarget(course.ID))
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	on, err := svc.Toggle(ctx, user.ID, model.NewsTarget(news.News.ID))
	require.NoError(t, err)
	assert.True(t, on)

	items, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.True(t, (it.CourseID == nil) != (it.NewsID == nil))
	}

	on, err = svc.Toggle(ctx, user.ID, model.NewsTarget(news.News.ID))
	require.NoError(t, err)
	assert.False(t, on)

	fav, err := svc.IsFavorited(ctx, user.ID, model.NewsTarget(news.News.ID))
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, svc.Remove(ctx, user.ID, model.CourseTarget(course.ID)))
	require.NoError(t, svc.Remove(ctx, user.ID, model.CourseTarget(course.ID)))
	items, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
