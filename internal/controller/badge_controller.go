package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

type BadgeController struct {
	BadgeService   *service.BadgeService
	RankingService *service.RankingService
}

func NewBadgeController(badgeService *service.BadgeService, rankingService *service.RankingService) *BadgeController {
	return &BadgeController{
		BadgeService:   badgeService,
		RankingService: rankingService,
	}
}

// ListBadges godoc
// @Summary 徽章列表
// @Tags 徽章
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Badge}
// @Router /badges [get]
func (c *BadgeController) ListBadges(ctx *gin.Context) {
	badges, err := c.BadgeService.ListBadges(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// MyBadges godoc
// @Summary 我获得的徽章
// @Tags 徽章
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Badge}
// @Router /my/badges [get]
func (c *BadgeController) MyBadges(ctx *gin.Context) {
	badges, err := c.BadgeService.Earned(ctx.Request.Context(), currentUser(ctx).UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// UpdateBadge godoc
// @Summary 修改徽章名称和图标
// @Tags 徽章
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "徽章ID"
// @Param body body service.BadgeRequest true "徽章"
// @Success 200 {object} util.Response{data=model.Badge}
// @Router /badges/{id} [put]
func (c *BadgeController) UpdateBadge(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.BadgeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	badge, err := c.BadgeService.UpdateBadge(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.RankingService.Invalidate(ctx.Request.Context())
	util.Success(ctx, badge)
}

// Ranking godoc
// @Summary 徽章排行榜
// @Tags 徽章
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.BadgeRankingEntry}
// @Router /badges/ranking [get]
func (c *BadgeController) Ranking(ctx *gin.Context) {
	ranking, err := c.RankingService.Ranking(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, ranking)
}
