package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/notify"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/merial523/graduate-git/pkg/monitoring"
	"github.com/merial523/graduate-git/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PasswordLength    = 12
	passwordAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
	MaxProvisionCount = 100
)

// swagger:model ProvisionRequest
type ProvisionRequest struct {
	Start int            `json:"start" binding:"required,min=1"`
	Count int            `json:"count" binding:"required,min=1,max=100"`
	Rank  model.UserRank `json:"rank" binding:"required,rank"`
}

// swagger:model ProvisionCheckRequest
type ProvisionCheckRequest struct {
	Start int `json:"start" binding:"required,min=1"`
	Count int `json:"count" binding:"required,min=1,max=100"`
}

// ProvisionedAccount 新建账号及其明文初始密码（只在本次响应中出现）
type ProvisionedAccount struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// swagger:model ProvisionResult
type ProvisionResult struct {
	Accounts       []ProvisionedAccount `json:"accounts"`
	NotifyFailures []string             `json:"notifyFailures,omitempty"`
}

type candidate struct {
	username string
	email    string
}

// AccountService 批量生成账号
type AccountService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	ConstantRepo *repository.ConstantRepository
	Notifier     notify.Notifier
	Defaults     config.ProvisioningConfig
	HashCost     int
}

func NewAccountService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	constantRepo *repository.ConstantRepository,
	notifier notify.Notifier,
	defaults config.ProvisioningConfig,
) *AccountService {
	return &AccountService{
		DB:           db,
		UserRepo:     userRepo,
		ConstantRepo: constantRepo,
		Notifier:     notifier,
		Defaults:     defaults,
		HashCost:     bcrypt.DefaultCost,
	}
}

// GeneratePassword 使用 crypto/rand 从固定字符集中取 PasswordLength 个字符
func GeneratePassword() (string, error) {
	buf := make([]byte, PasswordLength)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func checkRange(start, count int) error {
	if start < 1 {
		return invalid("start", "must be at least 1")
	}
	if count < 1 || count > MaxProvisionCount {
		return invalid("count", fmt.Sprintf("must be between 1 and %d", MaxProvisionCount))
	}
	return nil
}

// siteConstant 常量表为空时使用配置默认值
func (s *AccountService) siteConstant(ctx context.Context) (model.SiteConstant, error) {
	c, err := s.ConstantRepo.Get(ctx)
	if err != nil {
		return model.SiteConstant{}, err
	}
	if c == nil {
		return model.SiteConstant{CompanyCode: s.Defaults.CompanyCode, Address: s.Defaults.Address}, nil
	}
	return *c, nil
}

func (s *AccountService) candidates(ctx context.Context, start, count int) ([]candidate, error) {
	c, err := s.siteConstant(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, count)
	for i := 0; i < count; i++ {
		n := start + i
		out = append(out, candidate{
			username: fmt.Sprintf("user%d", n),
			email:    fmt.Sprintf("%s%d@%s", c.CompanyCode, n, c.Address),
		})
	}
	return out, nil
}

// collisions 用户名或邮箱已被占用的候选用户名，按候选顺序返回
func collisions(ctx context.Context, users *repository.UserRepository, cands []candidate) ([]string, error) {
	usernames := make([]string, len(cands))
	emails := make([]string, len(cands))
	for i, c := range cands {
		usernames[i] = c.username
		emails[i] = c.email
	}
	existing, err := users.FindCollisions(ctx, usernames, emails)
	if err != nil {
		return nil, err
	}
	takenNames := make(map[string]bool, len(existing))
	takenEmails := make(map[string]bool, len(existing))
	for _, u := range existing {
		takenNames[u.Username] = true
		takenEmails[u.Email] = true
	}
	var out []string
	for _, c := range cands {
		if takenNames[c.username] || takenEmails[c.email] {
			out = append(out, c.username)
		}
	}
	return out, nil
}

// CheckDuplicates 返回会冲突的候选用户名
func (s *AccountService) CheckDuplicates(ctx context.Context, start, count int) ([]string, error) {
	if err := checkRange(start, count); err != nil {
		return nil, err
	}
	cands, err := s.candidates(ctx, start, count)
	if err != nil {
		return nil, err
	}
	dups, err := collisions(ctx, s.UserRepo, cands)
	if err != nil {
		return nil, err
	}
	if dups == nil {
		dups = []string{}
	}
	return dups, nil
}

// Provision 全部成功或全部不建。有冲突时返回 *CollisionError，账号提交后逐个通知，通知失败不回滚
func (s *AccountService) Provision(ctx context.Context, start, count int, rank model.UserRank) (result *ProvisionResult, err error) {
	ctx, span := tracing.Start(ctx, "AccountService.Provision",
		attribute.Int("provision.start", start),
		attribute.Int("provision.count", count))
	defer func() { tracing.End(span, err) }()

	if err := checkRange(start, count); err != nil {
		return nil, err
	}
	if !rank.Valid() {
		return nil, ErrInvalidRank
	}
	cands, err := s.candidates(ctx, start, count)
	if err != nil {
		return nil, err
	}

	accounts := make([]ProvisionedAccount, len(cands))
	users := make([]*model.User, len(cands))
	for i, c := range cands {
		password, err := GeneratePassword()
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
		if err != nil {
			return nil, err
		}
		accounts[i] = ProvisionedAccount{Username: c.username, Email: c.email, Password: password}
		users[i] = &model.User{
			Username: c.username,
			Email:    c.email,
			Password: string(hash),
			Rank:     rank,
			IsActive: true,
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.UserRepo.WithTx(tx)
		dups, err := collisions(ctx, repo, cands)
		if err != nil {
			return err
		}
		if len(dups) > 0 {
			return &CollisionError{Usernames: dups}
		}
		return repo.CreateBatch(ctx, users)
	})
	if err != nil {
		var ce *CollisionError
		if errors.As(err, &ce) {
			logger.Log.Info("Provisioning aborted by collision", zap.Strings("usernames", ce.Usernames))
		}
		return nil, err
	}

	for i := range accounts {
		accounts[i].UserID = users[i].ID
	}
	monitoring.ProvisionedAccounts.Add(float64(len(accounts)))
	logger.Log.Info("Accounts provisioned",
		zap.Int("start", start),
		zap.Int("count", count),
		zap.String("rank", string(rank)))

	result = &ProvisionResult{Accounts: accounts}
	result.NotifyFailures = s.notifyAccounts(ctx, accounts)
	return result, nil
}

func (s *AccountService) notifyAccounts(ctx context.Context, accounts []ProvisionedAccount) []string {
	var failed []string
	for _, a := range accounts {
		body := fmt.Sprintf("アカウントが作成されました。\n\nユーザー名: %s\nパスワード: %s\n\nログイン後、パスワードを変更してください。",
			a.Username, a.Password)
		if err := s.Notifier.Send(ctx, a.Email, "【EngageUp】アカウント発行のお知らせ", body); err != nil {
			monitoring.NotificationFailures.WithLabelValues("provision").Inc()
			logger.Log.Warn("Account notification failed", zap.String("username", a.Username), zap.Error(err))
			failed = append(failed, a.Username)
		}
	}
	sort.Strings(failed)
	return failed
}

func (s *AccountService) GetConstant(ctx context.Context) (model.SiteConstant, error) {
	return s.siteConstant(ctx)
}

// swagger:model ConstantRequest
type ConstantRequest struct {
	CompanyCode string `json:"companyCode" binding:"required,max=20,alphanum"`
	Address     string `json:"address" binding:"required,max=20,hostname"`
}

func (s *AccountService) UpdateConstant(ctx context.Context, req ConstantRequest) (*model.SiteConstant, error) {
	c, err := s.ConstantRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &model.SiteConstant{}
	}
	c.CompanyCode = req.CompanyCode
	c.Address = req.Address
	if err := s.ConstantRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
