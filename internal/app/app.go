package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"homeschool_hub_backend/internal/config"
	"homeschool_hub_backend/internal/controller"
	"homeschool_hub_backend/internal/curriculum"
	"homeschool_hub_backend/internal/llm"
	"homeschool_hub_backend/internal/repository"
	"homeschool_hub_backend/internal/service"
	"homeschool_hub_backend/pkg/configwatcher"
	"homeschool_hub_backend/pkg/database"
	"homeschool_hub_backend/pkg/logger"
	"homeschool_hub_backend/pkg/monitoring"
	"homeschool_hub_backend/pkg/security"
	"homeschool_hub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const balanceCacheTTL = 10 * time.Minute

type App struct {
	Config *config.Config
	// ConfigFile is watched for hot-reloadable settings.
	ConfigFile string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client

	services *services
	tracer   *sdktrace.TracerProvider
	limiter  *security.RateLimiter

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	teacher      *repository.UserRepository
	student      *repository.StudentRepository
	assignment   *repository.AssignmentRepository
	binding      *repository.StudentAssignmentRepository
	point        *repository.PointRepository
	reward       *repository.RewardRepository
	message      *repository.MessageRepository
	lessonPlan   *repository.LessonPlanRepository
	spellingList *repository.SpellingListRepository
}

type services struct {
	auth         *service.AuthService
	student      *service.StudentService
	storage      *service.StorageService
	assignment   *service.AssignmentService
	submission   *service.SubmissionService
	points       *service.PointsService
	reward       *service.RewardService
	lessonPlan   *service.LessonPlanService
	spellingList *service.SpellingListService
	gradebook    *service.GradebookService
	message      *service.MessageService
	hub          *service.MessageHub

	assignmentAI *llm.Completer
	lessonPlanAI *llm.Completer
}

type controllers struct {
	auth       *controller.AuthController
	student    *controller.StudentController
	assignment *controller.AssignmentController
	points     *controller.PointsController
	curriculum *controller.CurriculumController
	message    *controller.MessageController
	health     *controller.HealthController
}

// RegisterConfigCallback adds a hook run with every reloaded config.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	a.configCallbacks = append(a.configCallbacks, callback)
	a.mu.Unlock()
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		teacher:      repository.NewUserRepository(db),
		student:      repository.NewStudentRepository(db),
		assignment:   repository.NewAssignmentRepository(db),
		binding:      repository.NewStudentAssignmentRepository(db),
		point:        repository.NewPointRepository(db),
		reward:       repository.NewRewardRepository(db),
		message:      repository.NewMessageRepository(db),
		lessonPlan:   repository.NewLessonPlanRepository(db),
		spellingList: repository.NewSpellingListRepository(db),
	}
}

func (a *App) initServices(ctx context.Context, repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	provider, err := llm.NewProvider(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("init AI provider: %w", err)
	}
	s.assignmentAI = llm.NewCompleter(provider, llm.CompleterOptions{
		System:      curriculum.SystemPrompt,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	s.lessonPlanAI = llm.NewCompleter(provider, llm.CompleterOptions{
		System:      service.LessonPlanSystemPrompt,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})

	s.storage = service.NewStorageService(cfg)
	prepCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := s.storage.Prepare(prepCtx); err != nil {
		logger.Log.Warn("Object storage not ready, raw AI output will not be archived", zap.Error(err))
	}
	cancel()
	s.auth = service.NewAuthService(repos.teacher, repos.student, cfg)
	s.student = service.NewStudentService(repos.student)
	s.assignment = service.NewAssignmentService(
		repos.assignment,
		repos.binding,
		repos.student,
		repos.spellingList,
		curriculum.NewRegistry(),
		s.assignmentAI,
		s.storage,
	)

	s.points = service.NewPointsService(repos.point, repos.student, service.NewBalanceCache(rdb, balanceCacheTTL))
	s.reward = service.NewRewardService(repos.reward, repos.student, s.points)
	s.submission = service.NewSubmissionService(repos.binding, repos.assignment, s.points)
	s.submission.SetRewardPolicy(rewardPolicy(cfg))

	s.lessonPlan = service.NewLessonPlanService(repos.lessonPlan, s.lessonPlanAI)
	s.spellingList = service.NewSpellingListService(repos.spellingList, repos.student)
	s.gradebook = service.NewGradebookService(repos.student, repos.binding, repos.assignment)

	s.hub = service.NewMessageHub(rdb, security.OriginChecker(cfg.CORS.AllowedOrigins))
	s.message = service.NewMessageService(repos.message, repos.teacher, repos.student, s.hub, s.hub)
	s.hub.SetContactChecker(s.message)
	go s.hub.Run()

	return s, nil
}

func rateWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
}

func rewardPolicy(cfg *config.Config) service.RewardPolicy {
	return service.RewardPolicy{Threshold: cfg.Rewards.Threshold, Points: cfg.Rewards.Points}
}

// registerReloadables hooks the settings that may change without a restart.
func (a *App) registerReloadables(s *services) {
	a.RegisterConfigCallback(logger.SetLevel)
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if a.limiter != nil {
			a.limiter.SetLimit(cfg.RateLimit.MaxRequests, rateWindow(cfg))
		}
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.submission.SetRewardPolicy(rewardPolicy(cfg))
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.assignmentAI.SetTimeout(cfg.AI.Timeout)
		s.lessonPlanAI.SetTimeout(cfg.AI.Timeout)
	})
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		student:    controller.NewStudentController(s.student),
		assignment: controller.NewAssignmentController(s.assignment, s.submission),
		points:     controller.NewPointsController(s.points, s.reward),
		curriculum: controller.NewCurriculumController(s.lessonPlan, s.spellingList, s.gradebook),
		message:    controller.NewMessageController(s.message, s.hub),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, rateWindow(cfg))
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp connects the stores and builds the HTTP stack. With cfg.MigrateOnly
// it stops after migrating.
func NewApp(cfg *config.Config, configFile string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	app := &App{
		Config:     cfg,
		ConfigFile: configFile,
		DB:         db,
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("homeschool-hub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	monitoring.Init()

	repos := app.initRepositories(db)
	services, err := app.initServices(context.Background(), repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	app.services = services
	app.registerReloadables(services)
	controllers := app.initControllers(services, db, rdb)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.limiter != nil {
		go a.limiter.Sweep(ctx)
	}

	if a.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.ConfigFile, a.applyConfig); err != nil {
				logger.Log.Warn("Config hot reload disabled", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	return nil
}
