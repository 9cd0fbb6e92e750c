package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

// CourseController 讲座和研修模块的管理
type CourseController struct {
	CourseService   *service.CourseService
	QuestionService *service.QuestionService
}

func NewCourseController(courseService *service.CourseService, questionService *service.QuestionService) *CourseController {
	return &CourseController{
		CourseService:   courseService,
		QuestionService: questionService,
	}
}

// ListCourses godoc
// @Summary 讲座列表
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param active query bool false "公开状态"
// @Param search query string false "关键字"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses(ctx.Request.Context(), repository.CourseFilter{
		Active: util.QueryBool(ctx, "active"),
		Search: ctx.Query("search"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary 创建讲座
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.CourseRequest true "讲座"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if !bindJSON(ctx, &req) {
		return
	}
	course, err := c.CourseService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// GetCourse godoc
// @Summary 讲座详情
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "讲座ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	course, err := c.CourseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新讲座
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "讲座ID"
// @Param body body service.CourseRequest true "讲座"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.CourseRequest
	if !bindJSON(ctx, &req) {
		return
	}
	course, err := c.CourseService.UpdateCourse(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// ToggleCourse godoc
// @Summary 切换讲座公开状态
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "讲座ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /courses/{id}/toggle [post]
func (c *CourseController) ToggleCourse(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	course, err := c.CourseService.ToggleCourse(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// BulkCourses godoc
// @Summary 讲座批量操作
// @Description delete 停用讲座及其全部模块；restore 只恢复讲座
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.BulkActionRequest true "批量操作"
// @Success 200 {object} util.Response{data=object}
// @Router /courses/bulk [post]
func (c *CourseController) BulkCourses(ctx *gin.Context) {
	var req service.BulkActionRequest
	if !bindJSON(ctx, &req) {
		return
	}
	n, err := c.CourseService.BulkCourses(ctx.Request.Context(), req.Action, req.IDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"affected": n})
}

// ListModules godoc
// @Summary 讲座下的模块
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "讲座ID"
// @Success 200 {object} util.Response{data=[]model.TrainingModule}
// @Router /courses/{id}/modules [get]
func (c *CourseController) ListModules(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	modules, err := c.CourseService.ListModules(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// CreateModule godoc
// @Summary 创建模块
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "讲座ID"
// @Param body body service.ModuleRequest true "模块"
// @Success 201 {object} util.Response{data=model.TrainingModule}
// @Router /courses/{id}/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.ModuleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	m, err := c.CourseService.CreateModule(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// GetModule godoc
// @Summary 模块详情（含练习题）
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.TrainingModule}
// @Router /modules/{id} [get]
func (c *CourseController) GetModule(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	m, err := c.CourseService.GetModule(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// UpdateModule godoc
// @Summary 更新模块
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Param body body service.ModuleRequest true "模块"
// @Success 200 {object} util.Response{data=model.TrainingModule}
// @Router /modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.ModuleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	m, err := c.CourseService.UpdateModule(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// ToggleModule godoc
// @Summary 切换模块公开状态
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.TrainingModule}
// @Router /modules/{id}/toggle [post]
func (c *CourseController) ToggleModule(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	m, err := c.CourseService.ToggleModule(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// DeleteModule godoc
// @Summary 删除模块（停用）
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /modules/{id}/delete [post]
func (c *CourseController) DeleteModule(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	if err := c.CourseService.DeleteModule(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// HardDeleteModule godoc
// @Summary 物理删除模块
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /modules/{id} [delete]
func (c *CourseController) HardDeleteModule(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	if err := c.CourseService.HardDeleteModule(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// AddExample godoc
// @Summary 添加练习题
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Param body body service.ExampleRequest true "练习题（4个选项，1个正确）"
// @Success 201 {object} util.Response{data=model.TrainingExample}
// @Router /modules/{id}/examples [post]
func (c *CourseController) AddExample(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.ExampleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	e, err := c.CourseService.AddExample(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, e)
}

// UpdateExample godoc
// @Summary 更新练习题
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param exampleId path int true "练习题ID"
// @Param body body service.ExampleRequest true "练习题"
// @Success 200 {object} util.Response{data=model.TrainingExample}
// @Router /examples/{exampleId} [put]
func (c *CourseController) UpdateExample(ctx *gin.Context) {
	eid, ok := util.ParamID(ctx, "exampleId")
	if !ok {
		util.BadRequest(ctx, "invalid example id")
		return
	}
	var req service.ExampleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	e, err := c.CourseService.UpdateExample(ctx.Request.Context(), eid, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// DeleteExample godoc
// @Summary 删除练习题
// @Tags 讲座管理
// @Produce  json
// @Security BearerAuth
// @Param exampleId path int true "练习题ID"
// @Success 200 {object} util.Response
// @Router /examples/{exampleId} [delete]
func (c *CourseController) DeleteExample(ctx *gin.Context) {
	eid, ok := util.ParamID(ctx, "exampleId")
	if !ok {
		util.BadRequest(ctx, "invalid example id")
		return
	}
	if err := c.CourseService.DeleteExample(ctx.Request.Context(), eid); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": eid})
}

// GenerateExamples godoc
// @Summary AI 生成练习题
// @Tags 讲座管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "模块ID"
// @Param body body service.GenerateRequest true "生成条件"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Failure 502 {object} util.Response
// @Router /modules/{id}/ai-generate [post]
func (c *CourseController) GenerateExamples(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.GenerateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	report, err := c.QuestionService.GenerateForModule(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
