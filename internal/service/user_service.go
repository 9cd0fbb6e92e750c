package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/notify"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/merial523/graduate-git/pkg/monitoring"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// swagger:model UserBulkRequest
type UserBulkRequest struct {
	Action string `json:"action" binding:"required,oneof=delete restore"`
	IDs    []uint `json:"ids" binding:"required,min=1"`
}

// swagger:model RankChangeRequest
type RankChangeRequest struct {
	IDs           []uint         `json:"ids" binding:"required,min=1"`
	Rank          model.UserRank `json:"rank" binding:"required,rank"`
	ResetPassword bool           `json:"resetPassword"`
}

// swagger:model RankChangeResult
type RankChangeResult struct {
	Updated        int      `json:"updated"`
	NotifyFailures []string `json:"notifyFailures,omitempty"`
}

// swagger:model ActivateRequest
type ActivateRequest struct {
	Password        string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	Name            string `json:"name" binding:"max=20"`
}

// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name    string `json:"name" binding:"max=20"`
	Avatar  string `json:"avatar" binding:"max=255"`
	Remarks string `json:"remarks" binding:"max=500"`
}

// UserService 处理用户相关的业务逻辑
type UserService struct {
	DB       *gorm.DB
	UserRepo *repository.UserRepository
	Notifier notify.Notifier
	HashCost int
}

func NewUserService(db *gorm.DB, userRepo *repository.UserRepository, notifier notify.Notifier) *UserService {
	return &UserService{
		DB:       db,
		UserRepo: userRepo,
		Notifier: notifier,
		HashCost: bcrypt.DefaultCost,
	}
}

func userNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	return s.UserRepo.List(ctx, filter)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFound(err)
	}
	fields := map[string]interface{}{
		"name":    req.Name,
		"avatar":  req.Avatar,
		"remarks": req.Remarks,
	}
	if err := s.UserRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	user.Name = req.Name
	user.Avatar = req.Avatar
	user.Remarks = req.Remarks
	return user, nil
}

// BulkSetActive 批量停用/恢复，操作者本人不受影响
func (s *UserService) BulkSetActive(ctx context.Context, actorID uint, action string, ids []uint) (int, error) {
	var active bool
	switch action {
	case BulkDelete:
		active = false
	case BulkRestore:
		active = true
	default:
		return 0, ErrInvalidBulkAction
	}
	n, err := s.UserRepo.SetActive(ctx, ids, active, actorID)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("User bulk action",
		zap.Uint("actor_id", actorID),
		zap.String("action", action),
		zap.Int64("affected", n))
	return int(n), nil
}

// ChangeRank 批量改权限（不含操作者本人）。resetPassword 时重新发放密码并通知，通知失败不影响结果
func (s *UserService) ChangeRank(ctx context.Context, actorID uint, req RankChangeRequest) (*RankChangeResult, error) {
	if !req.Rank.Valid() {
		return nil, ErrInvalidRank
	}

	type reset struct {
		user     model.User
		password string
	}
	var resets []reset
	updated := 0

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		targets, err := users.FindByIDs(ctx, req.IDs)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(targets))
		for _, u := range targets {
			if u.ID == actorID {
				continue
			}
			ids = append(ids, u.ID)
			if !req.ResetPassword {
				continue
			}
			password, err := GeneratePassword()
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
			if err != nil {
				return err
			}
			if err := users.UpdateFields(ctx, u.ID, map[string]interface{}{"password": string(hash)}); err != nil {
				return err
			}
			resets = append(resets, reset{user: u, password: password})
		}
		n, err := users.SetRank(ctx, ids, req.Rank, actorID)
		updated = int(n)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &RankChangeResult{Updated: updated}
	for _, r := range resets {
		body := fmt.Sprintf("権限が「%s」に変更されました。\n\nユーザー名: %s\n新しいパスワード: %s", req.Rank, r.user.Username, r.password)
		if err := s.Notifier.Send(ctx, r.user.Email, "【EngageUp】権限変更のお知らせ", body); err != nil {
			monitoring.NotificationFailures.WithLabelValues("rank_change").Inc()
			logger.Log.Warn("Rank change notification failed", zap.Uint("user_id", r.user.ID), zap.Error(err))
			result.NotifyFailures = append(result.NotifyFailures, r.user.Username)
		}
	}

	logger.Log.Info("User rank changed",
		zap.Uint("actor_id", actorID),
		zap.String("rank", string(req.Rank)),
		zap.Int("updated", updated))
	return result, nil
}

// Activate visitor 设置新密码后成为 staff
func (s *UserService) Activate(ctx context.Context, userID uint, req ActivateRequest) (*model.User, error) {
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}
	if user.Rank != model.Visitor {
		return nil, ErrNotVisitor
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.HashCost)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"password":  string(hash),
		"user_rank": model.Staff,
	}
	if req.Name != "" {
		fields["name"] = req.Name
		user.Name = req.Name
	}
	if err := s.UserRepo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	user.Password = string(hash)
	user.Rank = model.Staff
	logger.Log.Info("Visitor activated", zap.Uint("user_id", userID))
	return user, nil
}

// DeleteUser 物理删除，不能删除自己
func (s *UserService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrPermissionDenied
	}
	if _, err := s.UserRepo.FindByID(ctx, id); err != nil {
		return userNotFound(err)
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.UserRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.Log.Warn("User permanently deleted", zap.Uint("actor_id", actorID), zap.Uint("user_id", id))
	return nil
}
