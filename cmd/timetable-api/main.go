package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campuskit/timetable-api/api/swagger"
	"github.com/campuskit/timetable-api/internal/handler"
	"github.com/campuskit/timetable-api/internal/middleware"
	"github.com/campuskit/timetable-api/internal/models"
	"github.com/campuskit/timetable-api/internal/repository"
	"github.com/campuskit/timetable-api/internal/service"
	"github.com/campuskit/timetable-api/pkg/cache"
	"github.com/campuskit/timetable-api/pkg/config"
	"github.com/campuskit/timetable-api/pkg/database"
	"github.com/campuskit/timetable-api/pkg/jobs"
	"github.com/campuskit/timetable-api/pkg/logger"
	corsmiddleware "github.com/campuskit/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/timetable-api/pkg/middleware/requestid"
)

// @title Campus Timetable API
// @version 1.0.0
// @description Institution timetable management with heuristic generation
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, view caching disabled", zap.Error(err))
		redisClient = nil
	}

	// Repositories
	settingsRepo := repository.NewSettingsRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Background queue: cache invalidation after generation runs off the
	// request path.
	invalidationQueue := jobs.NewQueue("cache-invalidate", func(ctx context.Context, job jobs.Job) error {
		pattern, _ := job.Payload.(string)
		if pattern == "" {
			return nil
		}
		return cacheRepo.DeleteByPattern(ctx, pattern)
	}, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	queueCtx, queueCancel := context.WithCancel(context.Background())
	defer queueCancel()
	invalidationQueue.Start(queueCtx)
	defer invalidationQueue.Stop()

	// Services
	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:             cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "timetable-api",
	})
	if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logr.Fatal("failed to seed admin account", zap.Error(err))
	}
	setupService := service.NewSetupService(
		settingsRepo, courseRepo, sectionRepo, subjectRepo,
		facultyRepo, roomRepo, slotRepo, sessionRepo, nil, logr)
	generationService := service.NewGenerationService(service.GenerationServiceParams{
		Settings:  settingsRepo,
		Sections:  sectionRepo,
		Subjects:  subjectRepo,
		Faculty:   facultyRepo,
		Rooms:     roomRepo,
		Sessions:  sessionRepo,
		Cache:     cacheRepo,
		Metrics:   metricsService,
		Queue:     invalidationQueue,
		Logger:    logr,
		Seed:      cfg.Scheduler.Seed,
		Threshold: cfg.Scheduler.LowSuccessThreshold,
	})

	var viewCache *repository.CacheRepository
	if cfg.Views.CacheEnabled {
		viewCache = cacheRepo
	}
	timetableService := service.NewTimetableService(
		sessionRepo, sectionRepo, facultyRepo, settingsRepo,
		viewCacheOrNil(viewCache), metricsService, cfg.Views.CacheTTL, logr)
	exportService := service.NewExportService(sessionRepo, sectionRepo, facultyRepo, settingsRepo, logr)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	setupHandler := handler.NewSetupHandler(setupService, generationService)
	timetableHandler := handler.NewTimetableHandler(generationService, timetableService, exportService)
	facultyHandler := handler.NewFacultyHandler(timetableService, exportService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	setup := protected.Group("/setup")
	setup.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		setup.GET("/status", setupHandler.Status)
		setup.POST("/institute", setupHandler.ConfigureInstitute)
		setup.POST("/academics", setupHandler.ConfigureAcademics)
	}

	timetables := protected.Group("/timetables")
	{
		timetables.POST("/generate", middleware.RequireRoles(models.RoleAdmin), timetableHandler.Generate)
		timetables.GET("", timetableHandler.Index)
		timetables.GET("/master", timetableHandler.Master)
		timetables.GET("/sections/:id", timetableHandler.Section)
		timetables.GET("/sections/:id/navigation", timetableHandler.Navigation)
		timetables.GET("/sections/:id/export", timetableHandler.ExportSection)
	}

	faculty := protected.Group("/faculty")
	{
		faculty.GET("", facultyHandler.Roster)
		faculty.GET("/validate-continuous", facultyHandler.ValidateContinuousAll)
		faculty.GET("/:id/timetable", facultyHandler.Timetable)
		faculty.GET("/:id/validate-continuous", facultyHandler.ValidateContinuous)
		faculty.GET("/:id/export", facultyHandler.ExportSchedule)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// viewCacheOrNil keeps the nil-interface pitfall out of the service wiring: a
// nil *CacheRepository must become a nil interface, not a typed nil.
func viewCacheOrNil(repo *repository.CacheRepository) service.ViewCache {
	if repo == nil {
		return nil
	}
	return repo
}
