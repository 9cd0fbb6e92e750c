package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

// LearningController 受講者视角的讲座与进度
type LearningController struct {
	ProgressService *service.ProgressService
}

func NewLearningController(progressService *service.ProgressService) *LearningController {
	return &LearningController{ProgressService: progressService}
}

// MyCourses godoc
// @Summary 讲座进度一览
// @Tags 受講
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.CourseProgress}
// @Router /my/courses [get]
func (c *LearningController) MyCourses(ctx *gin.Context) {
	overview, err := c.ProgressService.CourseOverview(ctx.Request.Context(), currentUser(ctx).UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// MyCourse godoc
// @Summary 讲座详情与进度
// @Tags 受講
// @Produce  json
// @Security BearerAuth
// @Param id path int true "讲座ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Router /my/courses/{id} [get]
func (c *LearningController) MyCourse(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	detail, err := c.ProgressService.CourseDetail(ctx.Request.Context(), currentUser(ctx).UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// MyModule godoc
// @Summary 模块受講画面
// @Tags 受講
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=service.ModuleDetail}
// @Router /my/modules/{id} [get]
func (c *LearningController) MyModule(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	detail, err := c.ProgressService.ModuleDetail(ctx.Request.Context(), currentUser(ctx).UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// UpdateProgress godoc
// @Summary 保存学习进度
// @Description 位置直接覆盖；完成标记一旦为 true 不会回退
// @Tags 受講
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Param body body service.ModuleProgressRequest true "进度"
// @Success 200 {object} util.Response{data=model.UserModuleProgress}
// @Router /my/modules/{id}/progress [post]
func (c *LearningController) UpdateProgress(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.ModuleProgressRequest
	if !bindJSON(ctx, &req) {
		return
	}
	p, err := c.ProgressService.UpdateModuleProgress(ctx.Request.Context(), currentUser(ctx).UserID, id, req.Position, req.Done)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, p)
}
