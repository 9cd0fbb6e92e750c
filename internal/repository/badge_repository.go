package repository

import (
	"context"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) WithTx(tx *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: tx}
}

func (r *BadgeRepository) Create(ctx context.Context, badge *model.Badge) error {
	return r.DB.WithContext(ctx).Create(badge).Error
}

func (r *BadgeRepository) FindByID(ctx context.Context, id uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.WithContext(ctx).First(&badge, id).Error
	return &badge, err
}

func (r *BadgeRepository) FindByExamID(ctx context.Context, examID uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.WithContext(ctx).Where("exam_id = ?", examID).First(&badge).Error
	return &badge, err
}

func (r *BadgeRepository) List(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.WithContext(ctx).Order("id").Find(&badges).Error
	return badges, err
}

// UpdateAppearance 只允许改名称和图标
func (r *BadgeRepository) UpdateAppearance(ctx context.Context, badge *model.Badge) error {
	return r.DB.WithContext(ctx).Model(badge).Select("name", "icon").Updates(badge).Error
}

// SetActiveByExams 让徽章的 is_active 跟随检定
func (r *BadgeRepository) SetActiveByExams(ctx context.Context, examIDs []uint, active bool) error {
	if len(examIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Badge{}).
		Where("exam_id IN ?", examIDs).
		Update("is_active", active).Error
}

// ListEarned 用户已获得的徽章：合格且为公开中的本試験
func (r *BadgeRepository) ListEarned(ctx context.Context, userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.WithContext(ctx).
		Joins("JOIN exams ON exams.id = badges.exam_id").
		Joins("JOIN user_exam_statuses ues ON ues.exam_id = exams.id").
		Where("ues.user_id = ? AND ues.is_passed = ?", userID, true).
		Where("exams.exam_type = ? AND exams.is_active = ? AND exams.is_deleted = ?", model.MainExam, true, false).
		Order("badges.id").
		Find(&badges).Error
	return badges, err
}

// Ranking 按合格的公开本試験数量给 staff 排名，同数按用户 id 升序
func (r *BadgeRepository) Ranking(ctx context.Context, limit int) ([]model.BadgeRankingEntry, error) {
	var rows []model.BadgeRankingEntry
	err := r.DB.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.username, users.name, COUNT(exams.id) AS badge_count").
		Joins("LEFT JOIN user_exam_statuses ues ON ues.user_id = users.id AND ues.is_passed = ?", true).
		Joins("LEFT JOIN exams ON exams.id = ues.exam_id AND exams.exam_type = ? AND exams.is_active = ? AND exams.is_deleted = ?",
			model.MainExam, true, false).
		Where("users.user_rank = ? AND users.is_active = ?", model.Staff, true).
		Group("users.id, users.username, users.name").
		Order("badge_count DESC, users.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
