package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
)

type MylistController struct {
	MylistService *service.MylistService
}

func NewMylistController(mylistService *service.MylistService) *MylistController {
	return &MylistController{MylistService: mylistService}
}

// ListMylist godoc
// @Summary 我的收藏
// @Tags マイリスト
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Mylist}
// @Router /mylist [get]
func (c *MylistController) ListMylist(ctx *gin.Context) {
	items, err := c.MylistService.List(ctx.Request.Context(), currentUser(ctx).UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// ToggleCourse godoc
// @Summary 收藏/取消收藏讲座
// @Tags マイリスト
// @Produce  json
// @Security BearerAuth
// @Param id path int true "讲座ID"
// @Success 200 {object} util.Response{data=object}
// @Router /mylist/courses/{id}/toggle [post]
func (c *MylistController) ToggleCourse(ctx *gin.Context) {
	c.toggle(ctx, model.CourseTarget)
}

// ToggleNews godoc
// @Summary 收藏/取消收藏お知らせ
// @Tags マイリスト
// @Produce  json
// @Security BearerAuth
// @Param id path int true "お知らせID"
// @Success 200 {object} util.Response{data=object}
// @Router /mylist/news/{id}/toggle [post]
func (c *MylistController) ToggleNews(ctx *gin.Context) {
	c.toggle(ctx, model.NewsTarget)
}

func (c *MylistController) toggle(ctx *gin.Context, target func(uint) model.FavoriteTarget) {
	id, ok := paramID(ctx)
	if !ok {
		return
	}
	favorited, err := c.MylistService.Toggle(ctx.Request.Context(), currentUser(ctx).UserID, target(id))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"favorited": favorited})
}
