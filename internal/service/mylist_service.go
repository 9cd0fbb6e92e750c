package service

import (
	"context"
	"errors"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"gorm.io/gorm"
)

type MylistService struct {
	MylistRepo *repository.MylistRepository
	CourseRepo *repository.CourseRepository
	NewsRepo   *repository.NewsRepository
}

func NewMylistService(mylistRepo *repository.MylistRepository, courseRepo *repository.CourseRepository, newsRepo *repository.NewsRepository) *MylistService {
	return &MylistService{
		MylistRepo: mylistRepo,
		CourseRepo: courseRepo,
		NewsRepo:   newsRepo,
	}
}

func (s *MylistService) requireTarget(ctx context.Context, target model.FavoriteTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target.Kind == model.FavoriteCourse {
		if _, err := s.CourseRepo.FindByID(ctx, target.ID); err != nil {
			return courseNotFound(err)
		}
		return nil
	}
	if _, err := s.NewsRepo.FindByID(ctx, target.ID); err != nil {
		return newsNotFound(err)
	}
	return nil
}

// Add 已收藏时返回 ErrAlreadyFavorited
func (s *MylistService) Add(ctx context.Context, userID uint, target model.FavoriteTarget) (*model.Mylist, error) {
	if err := s.requireTarget(ctx, target); err != nil {
		return nil, err
	}
	_, err := s.MylistRepo.FindByTarget(ctx, userID, target)
	if err == nil {
		return nil, ErrAlreadyFavorited
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	item, err := model.NewMylist(userID, target)
	if err != nil {
		return nil, err
	}
	if err := s.MylistRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return item, nil
}

// Remove 未收藏时不报错
func (s *MylistService) Remove(ctx context.Context, userID uint, target model.FavoriteTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	item, err := s.MylistRepo.FindByTarget(ctx, userID, target)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.MylistRepo.Delete(ctx, item.ID)
}

// Toggle 返回操作后的收藏状态
func (s *MylistService) Toggle(ctx context.Context, userID uint, target model.FavoriteTarget) (bool, error) {
	if err := s.requireTarget(ctx, target); err != nil {
		return false, err
	}
	item, err := s.MylistRepo.FindByTarget(ctx, userID, target)
	switch {
	case err == nil:
		return false, s.MylistRepo.Delete(ctx, item.ID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}
	if _, err := s.Add(ctx, userID, target); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MylistService) List(ctx context.Context, userID uint) ([]model.Mylist, error) {
	return s.MylistRepo.ListByUser(ctx, userID)
}

// IsFavorited 详情页显示收藏状态
func (s *MylistService) IsFavorited(ctx context.Context, userID uint, target model.FavoriteTarget) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}
	_, err := s.MylistRepo.FindByTarget(ctx, userID, target)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
