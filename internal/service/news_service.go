package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/notify"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/merial523/graduate-git/pkg/monitoring"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// swagger:model NewsRequest
type NewsRequest struct {
	Title       string             `json:"title" binding:"required,max=100"`
	Content     string             `json:"content"`
	Category    model.NewsCategory `json:"category" binding:"omitempty,oneof=news training urgent"`
	IsImportant bool               `json:"isImportant"`
	IsActive    *bool              `json:"isActive"`
	// Broadcast 发布时邮件通知所有有效用户
	Broadcast bool `json:"broadcast"`
}

// swagger:model NewsResult
type NewsResult struct {
	News           *model.News `json:"news"`
	Notified       int         `json:"notified"`
	NotifyFailures int         `json:"notifyFailures"`
}

type NewsService struct {
	NewsRepo *repository.NewsRepository
	UserRepo *repository.UserRepository
	Notifier notify.Notifier
}

func NewNewsService(newsRepo *repository.NewsRepository, userRepo *repository.UserRepository, notifier notify.Notifier) *NewsService {
	return &NewsService{
		NewsRepo: newsRepo,
		UserRepo: userRepo,
		Notifier: notifier,
	}
}

func newsNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNewsNotFound
	}
	return err
}

func (s *NewsService) CreateNews(ctx context.Context, authorID uint, req NewsRequest) (*NewsResult, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	category := req.Category
	if category == "" {
		category = model.NewsGeneral
	}
	if !category.Valid() {
		return nil, invalid("category", "must be news, training or urgent")
	}

	author := authorID
	news := &model.News{
		Title:       title,
		Content:     req.Content,
		Category:    category,
		IsImportant: req.IsImportant,
		IsActive:    req.IsActive == nil || *req.IsActive,
		AuthorID:    &author,
	}
	if err := s.NewsRepo.Create(ctx, news); err != nil {
		return nil, err
	}

	result := &NewsResult{News: news}
	if req.Broadcast && news.IsActive {
		result.Notified, result.NotifyFailures = s.broadcast(ctx, news)
	}
	return result, nil
}

// broadcast 逐个发送，失败只记日志
func (s *NewsService) broadcast(ctx context.Context, news *model.News) (sent, failed int) {
	users, err := s.UserRepo.ActiveWithEmail(ctx)
	if err != nil {
		logger.Log.Warn("Load broadcast recipients failed", zap.Uint("news_id", news.ID), zap.Error(err))
		return 0, 0
	}
	subject := fmt.Sprintf("【EngageUp】%s", news.Title)
	if news.IsImportant {
		subject = "【重要】" + subject
	}
	for _, u := range users {
		if err := s.Notifier.Send(ctx, u.Email, subject, news.Content); err != nil {
			failed++
			monitoring.NotificationFailures.WithLabelValues("news").Inc()
			logger.Log.Warn("News notification failed", zap.Uint("user_id", u.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, failed
}

func (s *NewsService) UpdateNews(ctx context.Context, id uint, req NewsRequest) (*model.News, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	news, err := s.NewsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, newsNotFound(err)
	}
	news.Title = title
	news.Content = req.Content
	if req.Category != "" {
		if !req.Category.Valid() {
			return nil, invalid("category", "must be news, training or urgent")
		}
		news.Category = req.Category
	}
	news.IsImportant = req.IsImportant
	if req.IsActive != nil {
		news.IsActive = *req.IsActive
	}
	if err := s.NewsRepo.Update(ctx, news); err != nil {
		return nil, err
	}
	return news, nil
}

func (s *NewsService) GetNews(ctx context.Context, id uint) (*model.News, error) {
	news, err := s.NewsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, newsNotFound(err)
	}
	return news, nil
}

// GetPublishedNews 一般用户只能看到公开且未删除的お知らせ
func (s *NewsService) GetPublishedNews(ctx context.Context, id uint) (*model.News, error) {
	news, err := s.GetNews(ctx, id)
	if err != nil {
		return nil, err
	}
	if news.IsDeleted || !news.IsActive {
		return nil, ErrNewsNotFound
	}
	return news, nil
}

func (s *NewsService) ListNews(ctx context.Context, filter repository.NewsFilter) ([]model.News, error) {
	return s.NewsRepo.List(ctx, filter)
}

func (s *NewsService) Latest(ctx context.Context, limit int) ([]model.News, error) {
	return s.NewsRepo.Latest(ctx, limit)
}

func (s *NewsService) ToggleNews(ctx context.Context, id uint) (*model.News, error) {
	news, err := s.NewsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, newsNotFound(err)
	}
	news.IsActive = !news.IsActive
	if _, err := s.NewsRepo.SetActive(ctx, []uint{id}, news.IsActive); err != nil {
		return nil, err
	}
	return news, nil
}

func (s *NewsService) SetDeleted(ctx context.Context, id uint, deleted bool) error {
	if _, err := s.NewsRepo.FindByID(ctx, id); err != nil {
		return newsNotFound(err)
	}
	_, err := s.NewsRepo.SetDeleted(ctx, []uint{id}, deleted)
	return err
}

// BulkAction 不存在的 id 直接忽略
func (s *NewsService) BulkAction(ctx context.Context, action string, ids []uint) (int, error) {
	var (
		n   int64
		err error
	)
	switch action {
	case BulkDelete:
		n, err = s.NewsRepo.SetDeleted(ctx, ids, true)
	case BulkRestore:
		n, err = s.NewsRepo.SetDeleted(ctx, ids, false)
	case BulkMakePublic:
		n, err = s.NewsRepo.SetActive(ctx, ids, true)
	case BulkMakePrivate:
		n, err = s.NewsRepo.SetActive(ctx, ids, false)
	default:
		return 0, ErrInvalidBulkAction
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
