package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

// respondError 把服务层错误映射成 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	var collision *service.CollisionError
	var external *service.ExternalError
	switch {
	case service.IsValidation(err):
		util.BadRequest(ctx, err.Error())
	case service.IsNotFound(err):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.As(err, &collision):
		util.Conflict(ctx, err.Error(), gin.H{"usernames": collision.Usernames})
	case errors.Is(err, service.ErrAlreadyFavorited), errors.Is(err, service.ErrEmailRegistered):
		util.Conflict(ctx, err.Error(), nil)
	case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrPrerequisiteNotPassed):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountDisabled):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.As(err, &external), errors.Is(err, service.ErrGeneratorUnavailable):
		util.BadGateway(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// bindJSON 绑定失败时已写出 400
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}

func paramID(ctx *gin.Context) (uint, bool) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid id")
	}
	return id, ok
}

// currentUser 由 AuthMiddleware 写入
func currentUser(ctx *gin.Context) *util.Claims {
	return util.GetUserFromContext(ctx)
}
