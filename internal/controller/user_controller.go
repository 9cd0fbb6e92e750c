package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

// UserController 用户管理、批量生成账号以及站点常量
type UserController struct {
	UserService    *service.UserService
	AccountService *service.AccountService
}

func NewUserController(userService *service.UserService, accountService *service.AccountService) *UserController {
	return &UserController{
		UserService:    userService,
		AccountService: accountService,
	}
}

// ListUsers godoc
// @Summary 获取用户列表
// @Description 支持按权限、状态、关键字筛选，分页返回
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param rank query string false "administer / moderator / staff / visitor"
// @Param active query bool false "是否有效"
// @Param search query string false "用户名、姓名或邮箱"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	filter := repository.UserFilter{
		Rank:   model.UserRank(ctx.Query("rank")),
		Active: util.QueryBool(ctx, "active"),
		Search: ctx.Query("search"),
		Page:   util.QueryInt(ctx, "page", 1),
		Limit:  util.QueryInt(ctx, "limit", 20),
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	users, total, err := c.UserService.ListUsers(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// GetUser godoc
// @Summary 用户详情
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	user, err := c.UserService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary 更新用户资料
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body service.UpdateUserRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := c.UserService.UpdateUser(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// BulkUsers godoc
// @Summary 批量停用/恢复用户
// @Description 操作者本人不受影响
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.UserBulkRequest true "批量操作"
// @Success 200 {object} util.Response{data=object}
// @Router /users/bulk [post]
func (c *UserController) BulkUsers(ctx *gin.Context) {
	var req service.UserBulkRequest
	if !bindJSON(ctx, &req) {
		return
	}
	n, err := c.UserService.BulkSetActive(ctx.Request.Context(), currentUser(ctx).UserID, req.Action, req.IDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"affected": n})
}

// ChangeRank godoc
// @Summary 批量修改权限
// @Description resetPassword 为 true 时重新发放密码并邮件通知
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.RankChangeRequest true "权限"
// @Success 200 {object} util.Response{data=service.RankChangeResult}
// @Router /users/rank [post]
func (c *UserController) ChangeRank(ctx *gin.Context) {
	var req service.RankChangeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	result, err := c.UserService.ChangeRank(ctx.Request.Context(), currentUser(ctx).UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// DeleteUser godoc
// @Summary 彻底删除用户
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	if err := c.UserService.DeleteUser(ctx.Request.Context(), currentUser(ctx).UserID, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// Provision godoc
// @Summary 批量生成账号
// @Description 用户名或邮箱有冲突时整体不创建，返回 409 和冲突的用户名
// @Tags 账号发放
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.ProvisionRequest true "起始编号、数量、权限"
// @Success 201 {object} util.Response{data=service.ProvisionResult}
// @Failure 409 {object} util.Response
// @Router /users/provision [post]
func (c *UserController) Provision(ctx *gin.Context) {
	var req service.ProvisionRequest
	if !bindJSON(ctx, &req) {
		return
	}
	result, err := c.AccountService.Provision(ctx.Request.Context(), req.Start, req.Count, req.Rank)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// ProvisionCheck godoc
// @Summary 检查待生成账号是否冲突
// @Tags 账号发放
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.ProvisionCheckRequest true "起始编号、数量"
// @Success 200 {object} util.Response{data=object}
// @Router /users/provision/check [post]
func (c *UserController) ProvisionCheck(ctx *gin.Context) {
	var req service.ProvisionCheckRequest
	if !bindJSON(ctx, &req) {
		return
	}
	dups, err := c.AccountService.CheckDuplicates(ctx.Request.Context(), req.Start, req.Count)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if dups == nil {
		dups = []string{}
	}
	util.Success(ctx, gin.H{"usernames": dups, "available": len(dups) == 0})
}

// GetConstant godoc
// @Summary 站点常量
// @Tags 账号发放
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.SiteConstant}
// @Router /constants [get]
func (c *UserController) GetConstant(ctx *gin.Context) {
	constant, err := c.AccountService.GetConstant(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, constant)
}

// UpdateConstant godoc
// @Summary 修改站点常量
// @Tags 账号发放
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.ConstantRequest true "公司代码和邮箱域名"
// @Success 200 {object} util.Response{data=model.SiteConstant}
// @Router /constants [put]
func (c *UserController) UpdateConstant(ctx *gin.Context) {
	var req service.ConstantRequest
	if !bindJSON(ctx, &req) {
		return
	}
	constant, err := c.AccountService.UpdateConstant(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, constant)
}
