package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

type NewsController struct {
	NewsService *service.NewsService
}

func NewNewsController(newsService *service.NewsService) *NewsController {
	return &NewsController{NewsService: newsService}
}

// canManage 管理者可以看到未公开和回收站中的お知らせ
func canManage(ctx *gin.Context) bool {
	rank := currentUser(ctx).Rank
	return rank == model.Administer || rank == model.Moderator
}

// ListNews godoc
// @Summary お知らせ列表
// @Description 一般用户只能看到公开中的お知らせ
// @Tags お知らせ
// @Produce  json
// @Security BearerAuth
// @Param search query string false "关键字"
// @Param category query string false "news / training / urgent"
// @Param sort query string false "newest / oldest / important"
// @Param trash query bool false "回收站（仅管理者）"
// @Success 200 {object} util.Response{data=[]model.News}
// @Router /news [get]
func (c *NewsController) ListNews(ctx *gin.Context) {
	filter := repository.NewsFilter{
		Search:   ctx.Query("search"),
		Category: model.NewsCategory(ctx.Query("category")),
		Sort:     ctx.Query("sort"),
	}
	if canManage(ctx) {
		filter.Active = util.QueryBool(ctx, "active")
		if trash := util.QueryBool(ctx, "trash"); trash != nil {
			filter.Trash = *trash
		}
	} else {
		active := true
		filter.Active = &active
	}
	news, err := c.NewsService.ListNews(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, news)
}

// GetNews godoc
// @Summary お知らせ详情
// @Tags お知らせ
// @Produce  json
// @Security BearerAuth
// @Param id path int true "お知らせID"
// @Success 200 {object} util.Response{data=model.News}
// @Router /news/{id} [get]
func (c *NewsController) GetNews(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var (
		news *model.News
		err  error
	)
	if canManage(ctx) {
		news, err = c.NewsService.GetNews(ctx.Request.Context(), id)
	} else {
		news, err = c.NewsService.GetPublishedNews(ctx.Request.Context(), id)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, news)
}

// CreateNews godoc
// @Summary 发布お知らせ
// @Description broadcast 为 true 时邮件通知全部有效用户，发送失败不影响发布
// @Tags お知らせ
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.NewsRequest true "お知らせ"
// @Success 201 {object} util.Response{data=service.NewsResult}
// @Router /news [post]
func (c *NewsController) CreateNews(ctx *gin.Context) {
	var req service.NewsRequest
	if !bindJSON(ctx, &req) {
		return
	}
	result, err := c.NewsService.CreateNews(ctx.Request.Context(), currentUser(ctx).UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// UpdateNews godoc
// @Summary 更新お知らせ
// @Tags お知らせ
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "お知らせID"
// @Param body body service.NewsRequest true "お知らせ"
// @Success 200 {object} util.Response{data=model.News}
// @Router /news/{id} [put]
func (c *NewsController) UpdateNews(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.NewsRequest
	if !bindJSON(ctx, &req) {
		return
	}
	news, err := c.NewsService.UpdateNews(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, news)
}

// ToggleNews godoc
// @Summary 切换お知らせ公开状态
// @Tags お知らせ
// @Produce  json
// @Security BearerAuth
// @Param id path int true "お知らせID"
// @Success 200 {object} util.Response{data=model.News}
// @Router /news/{id}/toggle [post]
func (c *NewsController) ToggleNews(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	news, err := c.NewsService.ToggleNews(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, news)
}

// DeleteNews godoc
// @Summary 删除お知らせ（移入回收站）
// @Tags お知らせ
// @Produce  json
// @Security BearerAuth
// @Param id path int true "お知らせID"
// @Success 200 {object} util.Response
// @Router /news/{id}/delete [post]
func (c *NewsController) DeleteNews(ctx *gin.Context) {
	c.setDeleted(ctx, true)
}

// RestoreNews godoc
// @Summary 恢复お知らせ
// @Tags お知らせ
// @Produce  json
// @Security BearerAuth
// @Param id path int true "お知らせID"
// @Success 200 {object} util.Response
// @Router /news/{id}/restore [post]
func (c *NewsController) RestoreNews(ctx *gin.Context) {
	c.setDeleted(ctx, false)
}

func (c *NewsController) setDeleted(ctx *gin.Context, deleted bool) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	if err := c.NewsService.SetDeleted(ctx.Request.Context(), id, deleted); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "deleted": deleted})
}

// BulkAction godoc
// @Summary お知らせ批量操作
// @Tags お知らせ
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.BulkActionRequest true "批量操作"
// @Success 200 {object} util.Response{data=object}
// @Router /news/bulk [post]
func (c *NewsController) BulkAction(ctx *gin.Context) {
	var req service.BulkActionRequest
	if !bindJSON(ctx, &req) {
		return
	}
	n, err := c.NewsService.BulkAction(ctx.Request.Context(), req.Action, req.IDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"affected": n})
}
