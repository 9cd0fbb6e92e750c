package service

import (
	"context"
	"errors"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"gorm.io/gorm"
)

// swagger:model BadgeRequest
type BadgeRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Icon string `json:"icon" binding:"max=255"`
}

type BadgeService struct {
	BadgeRepo *repository.BadgeRepository
}

func NewBadgeService(badgeRepo *repository.BadgeRepository) *BadgeService {
	return &BadgeService{BadgeRepo: badgeRepo}
}

func (s *BadgeService) ListBadges(ctx context.Context) ([]model.Badge, error) {
	return s.BadgeRepo.List(ctx)
}

// UpdateBadge 徽章的启用状态跟随检定，这里只改外观
func (s *BadgeService) UpdateBadge(ctx context.Context, id uint, req BadgeRequest) (*model.Badge, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	badge, err := s.BadgeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadgeNotFound
		}
		return nil, err
	}
	badge.Name = name
	badge.Icon = strings.TrimSpace(req.Icon)
	if err := s.BadgeRepo.UpdateAppearance(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) Earned(ctx context.Context, userID uint) ([]model.Badge, error) {
	return s.BadgeRepo.ListEarned(ctx, userID)
}
