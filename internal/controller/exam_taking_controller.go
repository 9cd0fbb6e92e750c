package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

// ExamTakingController 受験
type ExamTakingController struct {
	TakingService *service.ExamTakingService
}

func NewExamTakingController(takingService *service.ExamTakingService) *ExamTakingController {
	return &ExamTakingController{TakingService: takingService}
}

// ListAvailable godoc
// @Summary 可受験的检定
// @Tags 受験
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.AvailableExam}
// @Router /my/exams [get]
func (c *ExamTakingController) ListAvailable(ctx *gin.Context) {
	exams, err := c.TakingService.AvailableExams(ctx.Request.Context(), currentUser(ctx).UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// GetExam godoc
// @Summary 受験画面
// @Description 返回题目和选项，不含正确答案
// @Tags 受験
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 403 {object} util.Response "前提仮試験未合格"
// @Failure 404 {object} util.Response
// @Router /my/exams/{id} [get]
func (c *ExamTakingController) GetExam(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	exam, err := c.TakingService.GetExam(ctx.Request.Context(), currentUser(ctx).UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Submit godoc
// @Summary 提交答案
// @Tags 受験
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "检定ID"
// @Param body body service.SubmitExamRequest true "答案"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Failure 403 {object} util.Response "前提仮試験未合格"
// @Router /my/exams/{id}/submit [post]
func (c *ExamTakingController) Submit(ctx *gin.Context) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	var req service.SubmitExamRequest
	if !bindJSON(ctx, &req) {
		return
	}
	result, err := c.TakingService.Submit(ctx.Request.Context(), currentUser(ctx).UserID, id, req.ToAnswers())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListResults godoc
// @Summary 受験履历
// @Tags 受験
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ExamResult}
// @Router /my/results [get]
func (c *ExamTakingController) ListResults(ctx *gin.Context) {
	results, err := c.TakingService.Results(ctx.Request.Context(), currentUser(ctx).UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
