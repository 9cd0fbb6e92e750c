package util

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/merial523/graduate-git/internal/model"
)

// RegisterValidators 在 gin 的校验引擎上注册自定义规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("rank", validateRank)
}

func validateRank(fl validator.FieldLevel) bool {
	return model.UserRank(fl.Field().String()).Valid()
}
