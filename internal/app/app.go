package app

import (
	"context"
	"edumarket_backend/internal/config"
	"edumarket_backend/internal/controller"
	"edumarket_backend/internal/repository"
	"edumarket_backend/internal/service"
	"edumarket_backend/pkg/database"
	"edumarket_backend/pkg/logger"
	"edumarket_backend/pkg/monitoring"
	"edumarket_backend/pkg/security"
	"edumarket_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	// refreshMinutes is read by the catalog refresh loop and updated on
	// config reload.
	refreshMinutes atomic.Int64

	stopBackground context.CancelFunc
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	category    *repository.CategoryRepository
	instructor  *repository.InstructorRepository
	enrollment  *repository.EnrollmentRepository
	certificate *repository.CertificateRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	catalog    *service.CatalogService
	course     *service.CourseService
	content    *service.ContentService
	enrollment *service.EnrollmentService
	progress   *service.ProgressService
	navigator  *service.NavigatorService
	playback   *service.PlaybackService
}

type controllers struct {
	auth        *controller.AuthController
	catalog     *controller.CatalogController
	enrollment  *controller.EnrollmentController
	learning    *controller.LearningController
	playback    *controller.PlaybackController
	courseAdmin *controller.CourseAdminController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		category:    repository.NewCategoryRepository(db),
		instructor:  repository.NewInstructorRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.catalog = service.NewCatalogService(repos.course)
	s.course = service.NewCourseService(repos.course, repos.category, repos.instructor, s.catalog)
	s.content = service.NewContentService(repos.course, s.storage)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.instructor, repos.certificate, cfg.Server.WriteTimeout)
	s.progress = service.NewProgressService(repos.enrollment, repos.course, repos.certificate, rdb)
	s.navigator = service.NewNavigatorService()
	s.playback = service.NewPlaybackService(s.progress)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		catalog:     controller.NewCatalogController(s.catalog, repos.category, repos.instructor),
		enrollment:  controller.NewEnrollmentController(s.enrollment, s.progress),
		learning:    controller.NewLearningController(s.progress, s.navigator, s.catalog),
		playback:    controller.NewPlaybackController(s.playback),
		courseAdmin: controller.NewCourseAdminController(s.course, s.content),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	s.playback.StartJanitor(ctx)

	go func() {
		for {
			interval := time.Duration(a.refreshMinutes.Load()) * time.Minute
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
				if err := s.catalog.Refresh(); err != nil {
					logger.Log.Error("Catalog refresh failed", zap.Error(err))
				}
			}
		}
	}()
}

// ApplyConfig picks up the settings that can change without a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.refreshMinutes.Store(int64(cfg.Catalog.RefreshMinutes))
	logger.Log.Info("Configuration reloaded",
		zap.Int("catalogRefreshMinutes", cfg.Catalog.RefreshMinutes))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	if cfg.MigrateOnly {
		return app
	}

	if err := services.catalog.Refresh(); err != nil {
		logger.Log.Error("Initial catalog load failed", zap.Error(err))
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("edumarket", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel
	app.refreshMinutes.Store(int64(cfg.Catalog.RefreshMinutes))
	app.startBackgroundTasks(ctx, services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stopBackground != nil {
		a.stopBackground()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
