package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/merial523/graduate-git/internal/model"
)

var (
	ErrExamNotFound          = errors.New("exam not found")
	ErrCourseNotFound        = errors.New("course not found")
	ErrModuleNotFound        = errors.New("training module not found")
	ErrExampleNotFound       = errors.New("training example not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrBadgeNotFound         = errors.New("badge not found")
	ErrNewsNotFound          = errors.New("news not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidPrerequisite   = errors.New("prerequisite must be an existing mock exam")
	ErrNoCorrectChoice       = errors.New("at least one choice must be marked correct")
	ErrInvalidExampleChoices = errors.New("a training example needs exactly 4 choices with exactly one correct")
	ErrInvalidBulkAction     = errors.New("unknown bulk action")
	ErrInvalidFavoriteTarget = model.ErrInvalidFavoriteTarget
	ErrAlreadyFavorited      = errors.New("already in my list")
	ErrPrerequisiteNotPassed = errors.New("the prerequisite mock exam has not been passed")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrInvalidRank           = errors.New("invalid rank")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountDisabled       = errors.New("account is disabled")
	ErrEmailRegistered       = errors.New("email already registered")
	ErrNotVisitor            = errors.New("only visitor accounts can be activated")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrGeneratorUnavailable  = errors.New("question generator is not configured")
)

// ValidationError 输入校验失败，Field 指出出错的字段
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// CollisionError 批量生成账号时已存在的用户名
type CollisionError struct {
	Usernames []string
}

func (e *CollisionError) Error() string {
	return "accounts already exist: " + strings.Join(e.Usernames, ", ")
}

// ExternalError 外部服务（AI 生成、邮件）失败，已提交的数据不回滚
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// IsValidation 包括字段校验错误和各类非法输入哨兵错误
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range []error{
		ErrInvalidPrerequisite,
		ErrNoCorrectChoice,
		ErrInvalidExampleChoices,
		ErrInvalidBulkAction,
		ErrInvalidFavoriteTarget,
		ErrPasswordMismatch,
		ErrInvalidRank,
		ErrNotVisitor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrExamNotFound,
		ErrCourseNotFound,
		ErrModuleNotFound,
		ErrExampleNotFound,
		ErrQuestionNotFound,
		ErrBadgeNotFound,
		ErrNewsNotFound,
		ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
