package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 仪表盘
// @Description 徽章排行；staff 另有合格数、徽章数、完成讲座数和最新お知らせ
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	user := currentUser(ctx)
	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context(), user.UserID, user.Rank)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
