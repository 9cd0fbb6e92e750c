package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

// ExamController 检定管理（administer / moderator）
type ExamController struct {
	ExamService     *service.ExamService
	QuestionService *service.QuestionService
}

func NewExamController(examService *service.ExamService, questionService *service.QuestionService) *ExamController {
	return &ExamController{
		ExamService:     examService,
		QuestionService: questionService,
	}
}

// ListExams godoc
// @Summary 检定列表
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param type query string false "mock / main"
// @Param trash query bool false "回收站"
// @Param active query bool false "公开状态"
// @Param search query string false "标题关键字"
// @Success 200 {object} util.Response{data=[]model.Exam}
// @Router /exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	filter := repository.ExamFilter{
		Type:   model.ExamType(ctx.Query("type")),
		Active: util.QueryBool(ctx, "active"),
		Search: ctx.Query("search"),
	}
	if trash := util.QueryBool(ctx, "trash"); trash != nil {
		filter.Trash = *trash
	}
	exams, err := c.ExamService.ListExams(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// ListMocks godoc
// @Summary 可作为前提的仮試験
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Exam}
// @Router /exams/mocks [get]
func (c *ExamController) ListMocks(ctx *gin.Context) {
	exams, err := c.ExamService.ListMocks(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// CreateExam godoc
// @Summary 创建检定
// @Description 本試験会同时生成徽章
// @Tags 检定管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.CreateExamRequest true "检定"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response
// @Router /exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req service.CreateExamRequest
	if !bindJSON(ctx, &req) {
		return
	}
	exam, err := c.ExamService.CreateExam(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// GetExam godoc
// @Summary 检定详情
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Router /exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	exam, err := c.ExamService.GetExam(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// UpdateExam godoc
// @Summary 更新检定
// @Tags 检定管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Param body body service.UpdateExamRequest true "检定"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.UpdateExamRequest
	if !bindJSON(ctx, &req) {
		return
	}
	exam, err := c.ExamService.UpdateExam(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// DeleteExam godoc
// @Summary 删除检定（软删除）
// @Description 仮試験会连带删除以它为前提的本試験
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Success 200 {object} util.Response{data=object}
// @Router /exams/{id}/delete [post]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	cascaded, err := c.ExamService.DeleteExam(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "cascaded": cascaded})
}

// RestoreExam godoc
// @Summary 恢复检定
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Param cascade query bool false "同时恢复已删除的前提仮試験"
// @Success 200 {object} util.Response{data=object}
// @Router /exams/{id}/restore [post]
func (c *ExamController) RestoreExam(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	cascade := util.QueryBool(ctx, "cascade")
	restored, err := c.ExamService.RestoreExam(ctx.Request.Context(), id, cascade != nil && *cascade)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "cascaded": restored})
}

// ToggleExam godoc
// @Summary 切换公开状态
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /exams/{id}/toggle [post]
func (c *ExamController) ToggleExam(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	exam, err := c.ExamService.ToggleActive(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// BulkAction godoc
// @Summary 批量操作
// @Description action: delete / restore / make_public / make_private，不存在的 id 被忽略
// @Tags 检定管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.BulkActionRequest true "批量操作"
// @Success 200 {object} util.Response{data=object}
// @Router /exams/bulk [post]
func (c *ExamController) BulkAction(ctx *gin.Context) {
	var req service.BulkActionRequest
	if !bindJSON(ctx, &req) {
		return
	}
	n, err := c.ExamService.BulkAction(ctx.Request.Context(), req.Action, req.IDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"affected": n})
}

// HardDeleteExam godoc
// @Summary 物理删除检定
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Success 200 {object} util.Response
// @Router /exams/{id} [delete]
func (c *ExamController) HardDeleteExam(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	if err := c.ExamService.HardDeleteExam(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// ListQuestions godoc
// @Summary 题目列表
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /exams/{id}/questions [get]
func (c *ExamController) ListQuestions(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	questions, err := c.QuestionService.ListQuestions(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// AddQuestion godoc
// @Summary 添加题目
// @Tags 检定管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Param body body service.QuestionRequest true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /exams/{id}/questions [post]
func (c *ExamController) AddQuestion(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.QuestionRequest
	if !bindJSON(ctx, &req) {
		return
	}
	q, err := c.QuestionService.AddQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 检定管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Param questionId path int true "题目ID"
// @Param body body service.QuestionRequest true "题目"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /exams/{id}/questions/{questionId} [put]
func (c *ExamController) UpdateQuestion(ctx *gin.Context) {
	qid, ok := util.ParamID(ctx, "questionId")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	var req service.QuestionRequest
	if !bindJSON(ctx, &req) {
		return
	}
	q, err := c.QuestionService.UpdateQuestion(ctx.Request.Context(), qid, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 检定管理
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /exams/{id}/questions/{questionId} [delete]
func (c *ExamController) DeleteQuestion(ctx *gin.Context) {
	qid, ok := util.ParamID(ctx, "questionId")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	if err := c.QuestionService.DeleteQuestion(ctx.Request.Context(), qid); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": qid})
}

// GenerateQuestions godoc
// @Summary AI 生成题目
// @Description 不合格的生成结果会被丢弃并计数
// @Tags 检定管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Param body body service.GenerateRequest true "生成条件"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Failure 502 {object} util.Response "生成服务不可用"
// @Router /exams/{id}/ai-generate [post]
func (c *ExamController) GenerateQuestions(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.GenerateRequest
	if !bindJSON(ctx, &req) {
		return
	}
	report, err := c.QuestionService.GenerateForExam(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
