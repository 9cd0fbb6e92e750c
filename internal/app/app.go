package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/merial523/graduate-git/internal/ai"
	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/controller"
	"github.com/merial523/graduate-git/internal/middleware"
	"github.com/merial523/graduate-git/internal/notify"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/internal/service"
	"github.com/merial523/graduate-git/internal/util"
	"github.com/merial523/graduate-git/pkg/cache"
	"github.com/merial523/graduate-git/pkg/configwatcher"
	"github.com/merial523/graduate-git/pkg/database"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/merial523/graduate-git/pkg/monitoring"
	"github.com/merial523/graduate-git/pkg/security"
	"github.com/merial523/graduate-git/pkg/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	serviceName   = "engageup"
	cacheKeyspace = "engageup:"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	// ConfigFile 非空时 Run 会监听该文件并热更新
	ConfigFile string

	services *services
	limiter  *security.Limiter
	tracer   *sdktrace.TracerProvider

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	constant *repository.ConstantRepository
	exam     *repository.ExamRepository
	question *repository.QuestionRepository
	badge    *repository.BadgeRepository
	result   *repository.ResultRepository
	course   *repository.CourseRepository
	module   *repository.ModuleRepository
	progress *repository.ProgressRepository
	news     *repository.NewsRepository
	mylist   *repository.MylistRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	account   *service.AccountService
	exam      *service.ExamService
	question  *service.QuestionService
	grading   *service.GradingService
	taking    *service.ExamTakingService
	course    *service.CourseService
	progress  *service.ProgressService
	news      *service.NewsService
	mylist    *service.MylistService
	badge     *service.BadgeService
	ranking   *service.RankingService
	dashboard *service.DashboardService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	exam       *controller.ExamController
	examTaking *controller.ExamTakingController
	course     *controller.CourseController
	learning   *controller.LearningController
	news       *controller.NewsController
	mylist     *controller.MylistController
	badge      *controller.BadgeController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// applyConfig 配置热更新入口，依次通知订阅者
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.Config = cfg
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		constant: repository.NewConstantRepository(db),
		exam:     repository.NewExamRepository(db),
		question: repository.NewQuestionRepository(db),
		badge:    repository.NewBadgeRepository(db),
		result:   repository.NewResultRepository(db),
		course:   repository.NewCourseRepository(db),
		module:   repository.NewModuleRepository(db),
		progress: repository.NewProgressRepository(db),
		news:     repository.NewNewsRepository(db),
		mylist:   repository.NewMylistRepository(db),
	}
}

// rankingCache Redis 可用时共享缓存，否则退回进程内缓存
func (a *App) rankingCache() cache.Cache {
	if a.Redis != nil {
		return cache.NewRedisCache(a.Redis, cacheKeyspace)
	}
	return cache.NewMemoryCache()
}

// questionGenerator 未配置 API Key 时返回 nil 接口，生成接口会回 502
func questionGenerator(cfg config.AIConfig) ai.QuestionGenerator {
	if !cfg.Enabled() {
		return nil
	}
	gen, err := ai.NewOpenAIGenerator(cfg)
	if err != nil {
		logger.Log.Warn("AI generator disabled", zap.Error(err))
		return nil
	}
	return gen
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}
	notifier := notify.New(cfg.Mail)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(db, repos.user, notifier)
	s.account = service.NewAccountService(db, repos.user, repos.constant, notifier, cfg.Provisioning)

	s.exam = service.NewExamService(db, repos.exam, repos.badge)
	s.question = service.NewQuestionService(db, repos.exam, repos.question, repos.module, questionGenerator(cfg.AI))
	s.grading = service.NewGradingService(db, repos.exam, repos.question, repos.result)
	s.taking = service.NewExamTakingService(repos.exam, repos.result, s.grading)

	s.course = service.NewCourseService(db, repos.course, repos.module)
	s.progress = service.NewProgressService(db, repos.course, repos.module, repos.progress)

	s.news = service.NewNewsService(repos.news, repos.user, notifier)
	s.mylist = service.NewMylistService(repos.mylist, repos.course, repos.news)

	s.badge = service.NewBadgeService(repos.badge)
	s.ranking = service.NewRankingService(repos.badge, a.rankingCache(), cfg.Ranking)
	s.dashboard = service.NewDashboardService(repos.result, repos.badge, repos.news, s.progress, s.ranking)

	a.RegisterConfigCallback(func(c *config.Config) {
		s.ranking.Configure(c.Ranking)
	})
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user, s.account),
		exam:       controller.NewExamController(s.exam, s.question),
		examTaking: controller.NewExamTakingController(s.taking),
		course:     controller.NewCourseController(s.course, s.question),
		learning:   controller.NewLearningController(s.progress),
		news:       controller.NewNewsController(s.news),
		mylist:     controller.NewMylistController(s.mylist),
		badge:      controller.NewBadgeController(s.badge, s.ranking),
		dashboard:  controller.NewDashboardController(s.dashboard),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	a.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, window)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// build 组装路由，不涉及外部连接，测试直接使用
func build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db)
	controllers := app.initControllers(app.services, db)

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetMode(c.Server.Mode)
	})

	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)
	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if err := util.RegisterValidators(); err != nil {
		logger.Log.Fatal("Failed to register validators", zap.Error(err))
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不自动迁移，需显式 --migrate
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		if err := database.SeedConstant(db, cfg.Provisioning); err != nil {
			logger.Log.Fatal("Failed to seed site constant", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
	}

	app := build(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(serviceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.limiter.Janitor(ctx)

	if a.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.ConfigFile, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
