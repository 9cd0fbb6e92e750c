package repository

import (
	"context"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

type UserFilter struct {
	Rank   model.UserRank
	Active *bool
	Search string
	Page   int
	Limit  int
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) CreateBatch(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(users, 100).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, err
}

// FindCollisions 返回用户名或邮箱已被占用的用户
func (r *UserRepository) FindCollisions(ctx context.Context, usernames, emails []string) ([]model.User, error) {
	var users []model.User
	if len(usernames) == 0 && len(emails) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).
		Where("username IN ? OR email IN ?", usernames, emails).
		Order("id").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]model.User, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.User{})
	if f.Rank != "" {
		query = query.Where("user_rank = ?", f.Rank)
	}
	if f.Active != nil {
		query = query.Where("is_active = ?", *f.Active)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("username LIKE ? OR name LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var users []model.User
	err := query.Order("id").Find(&users).Error
	return users, total, err
}

// SetActive 批量启用/停用，excludeID 为操作者自己
func (r *UserRepository) SetActive(ctx context.Context, ids []uint, active bool, excludeID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id IN ? AND id <> ?", ids, excludeID).
		Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) SetRank(ctx context.Context, ids []uint, rank model.UserRank, excludeID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id IN ? AND id <> ?", ids, excludeID).
		Update("user_rank", rank)
	return res.RowsAffected, res.Error
}

// ActiveWithEmail お知らせ配信の対象
func (r *UserRepository) ActiveWithEmail(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND email <> ''", true).
		Order("id").
		Find(&users).Error
	return users, err
}

// Delete 物理删除用户及其成绩、进度、收藏；其发布的お知らせ作者置空
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	db := r.DB.WithContext(ctx)
	for _, m := range []interface{}{
		&model.UserExamStatus{},
		&model.ExamResult{},
		&model.UserModuleProgress{},
		&model.Mylist{},
	} {
		if err := db.Where("user_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	if err := db.Model(&model.News{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
		return err
	}
	return db.Delete(&model.User{}, id).Error
}
