package app

import (
	"github.com/gin-gonic/gin"
	"github.com/merial523/graduate-git/docs"
	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/middleware"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/pkg/monitoring"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 全部权限通用
		a.registerMemberRoutes(authGroup, c)

		// 管理者（administer / moderator）
		manage := authGroup.Group("")
		manage.Use(middleware.RoleMiddleware(model.Moderator))
		a.registerManageRoutes(manage, c)

		// 仅 administer
		admin := authGroup.Group("")
		admin.Use(middleware.RoleMiddleware(model.Administer))
		a.registerAdminRoutes(admin, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerMemberRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/dashboard", c.dashboard.GetDashboard)
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)
	rg.POST("/profile/activate", c.auth.Activate)

	// 检定
	rg.GET("/my/exams", c.examTaking.ListAvailable)
	rg.GET("/my/exams/:id", c.examTaking.GetExam)
	rg.POST("/my/exams/:id/submit", c.examTaking.Submit)
	rg.GET("/my/results", c.examTaking.ListResults)
	rg.GET("/my/badges", c.badge.MyBadges)

	// 研修
	rg.GET("/my/courses", c.learning.MyCourses)
	rg.GET("/my/courses/:id", c.learning.MyCourse)
	rg.GET("/my/modules/:id", c.learning.MyModule)
	rg.POST("/my/modules/:id/progress", c.learning.UpdateProgress)

	// お知らせ（控制器内按权限区分可见范围）
	rg.GET("/news", c.news.ListNews)
	rg.GET("/news/:id", c.news.GetNews)

	// マイリスト
	rg.GET("/mylist", c.mylist.ListMylist)
	rg.POST("/mylist/courses/:id/toggle", c.mylist.ToggleCourse)
	rg.POST("/mylist/news/:id/toggle", c.mylist.ToggleNews)

	// 徽章
	rg.GET("/badges", c.badge.ListBadges)
	rg.GET("/badges/ranking", c.badge.Ranking)
}

func (a *App) registerManageRoutes(rg *gin.RouterGroup, c *controllers) {
	exams := rg.Group("/exams")
	{
		exams.GET("", c.exam.ListExams)
		exams.POST("", c.exam.CreateExam)
		exams.GET("/mocks", c.exam.ListMocks)
		exams.POST("/bulk", c.exam.BulkAction)
		exams.GET("/:id", c.exam.GetExam)
		exams.PUT("/:id", c.exam.UpdateExam)
		exams.POST("/:id/delete", c.exam.DeleteExam)
		exams.POST("/:id/restore", c.exam.RestoreExam)
		exams.POST("/:id/toggle", c.exam.ToggleExam)
		exams.GET("/:id/questions", c.exam.ListQuestions)
		exams.POST("/:id/questions", c.exam.AddQuestion)
		exams.PUT("/:id/questions/:questionId", c.exam.UpdateQuestion)
		exams.DELETE("/:id/questions/:questionId", c.exam.DeleteQuestion)
		exams.POST("/:id/ai-generate", c.exam.GenerateQuestions)
	}

	courses := rg.Group("/courses")
	{
		courses.GET("", c.course.ListCourses)
		courses.POST("", c.course.CreateCourse)
		courses.POST("/bulk", c.course.BulkCourses)
		courses.GET("/:id", c.course.GetCourse)
		courses.PUT("/:id", c.course.UpdateCourse)
		courses.POST("/:id/toggle", c.course.ToggleCourse)
		courses.GET("/:id/modules", c.course.ListModules)
		courses.POST("/:id/modules", c.course.CreateModule)
	}

	modules := rg.Group("/modules")
	{
		modules.GET("/:id", c.course.GetModule)
		modules.PUT("/:id", c.course.UpdateModule)
		modules.POST("/:id/toggle", c.course.ToggleModule)
		modules.POST("/:id/delete", c.course.DeleteModule)
		modules.POST("/:id/examples", c.course.AddExample)
		modules.POST("/:id/ai-generate", c.course.GenerateExamples)
	}
	rg.PUT("/examples/:exampleId", c.course.UpdateExample)
	rg.DELETE("/examples/:exampleId", c.course.DeleteExample)

	news := rg.Group("/news")
	{
		news.POST("", c.news.CreateNews)
		news.POST("/bulk", c.news.BulkAction)
		news.PUT("/:id", c.news.UpdateNews)
		news.POST("/:id/toggle", c.news.ToggleNews)
		news.POST("/:id/delete", c.news.DeleteNews)
		news.POST("/:id/restore", c.news.RestoreNews)
	}

	users := rg.Group("/users")
	{
		users.GET("", c.user.ListUsers)
		users.POST("/rank", c.user.ChangeRank)
		users.POST("/provision", c.user.Provision)
		users.POST("/provision/check", c.user.ProvisionCheck)
		users.GET("/:id", c.user.GetUser)
		users.PUT("/:id", c.user.UpdateUser)
	}
	rg.GET("/constants", c.user.GetConstant)

	rg.PUT("/badges/:id", c.badge.UpdateBadge)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.DELETE("/exams/:id", c.exam.HardDeleteExam)
	rg.DELETE("/modules/:id", c.course.HardDeleteModule)
	rg.POST("/users/bulk", c.user.BulkUsers)
	rg.DELETE("/users/:id", c.user.DeleteUser)
	rg.PUT("/constants", c.user.UpdateConstant)
}
