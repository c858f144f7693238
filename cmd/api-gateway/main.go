package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Timetable scheduling and conflict-resolution engine
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	configCache := service.NewCacheService(cacheRepo, metrics, cfg.Cache.ConfigTTL, logr, cfg.Cache.Enabled)
	conflictCache := service.NewCacheService(cacheRepo, metrics, cfg.Cache.ConflictTTL, logr, cfg.Cache.Enabled)

	validate := validator.New()

	slotRepo := repository.NewSlotRepository(db)
	configRepo := repository.NewScheduleConfigRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	termRepo := repository.NewTermRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	configSvc := service.NewConfigService(configRepo, configCache, validate, logr)
	conflictSvc := service.NewConflictService(slotRepo, termRepo, periodRepo, conflictCache, metrics, logr)
	placementSvc := service.NewPlacementService(slotRepo, constraintRepo, conflictSvc, auditRepo, metrics, validate, logr)
	suggestionSvc := service.NewSuggestionService(slotRepo, termRepo, periodRepo, configSvc, validate, logr)
	templateSvc := service.NewTemplateService(templateRepo, slotRepo, termRepo, conflictSvc, auditRepo, metrics, db, validate, logr)
	generatorSvc := service.NewGeneratorService(curriculumRepo, slotRepo, termRepo, periodRepo, configSvc, conflictSvc, auditRepo, metrics, db, cfg.Generator.PreviewTTL, cfg.Generator.MaxRequirements, validate, logr)
	termSvc := service.NewTermService(termRepo, auditRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(slotRepo, termRepo, periodRepo, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, validate, logr)

	timetableHandler := handler.NewTimetableHandler(conflictSvc, placementSvc, suggestionSvc)
	configHandler := handler.NewConfigHandler(configSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)
	generatorHandler := handler.NewGeneratorHandler(generatorSvc)
	termHandler := handler.NewTermHandler(termSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))

	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStaff)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api.GET("/terms", anyRole, termHandler.List)
	api.GET("/terms/active", anyRole, termHandler.Active)
	api.GET("/terms/:id", anyRole, termHandler.Get)
	api.POST("/terms", adminOnly, termHandler.Create)
	api.PUT("/terms/:id/activate", adminOnly, termHandler.Activate)

	api.GET("/schedule-config", anyRole, configHandler.Resolve)
	api.PUT("/schedule-config", adminOnly, configHandler.Upsert)

	api.GET("/periods", anyRole, scheduleHandler.Periods)

	api.GET("/timetable/slots", anyRole, scheduleHandler.ListSlots)
	api.GET("/timetable/conflicts", anyRole, timetableHandler.Conflicts)
	api.POST("/timetable/validate", anyRole, timetableHandler.Validate)
	api.POST("/timetable/slots", adminOnly, timetableHandler.UpsertSlot)
	api.DELETE("/timetable/slots", adminOnly, timetableHandler.DeleteSlot)
	api.GET("/timetable/suggestions", anyRole, timetableHandler.Suggestions)

	api.GET("/templates", anyRole, templateHandler.List)
	api.GET("/templates/:id", anyRole, templateHandler.Get)
	api.POST("/templates", adminOnly, templateHandler.Create)
	api.POST("/templates/:id/apply", adminOnly, templateHandler.Apply)
	api.PUT("/templates/:id/default", adminOnly, templateHandler.SetDefault)

	api.POST("/timetable/generate", adminOnly, generatorHandler.Generate)
	api.POST("/timetable/generate/commit", adminOnly, generatorHandler.Commit)

	api.GET("/teachers/:id/constraints", anyRole, constraintHandler.GetTeacherConstraint)
	api.PUT("/teachers/:id/constraints", adminOnly, constraintHandler.UpsertTeacherConstraint)
	api.GET("/rooms/:id/constraints", anyRole, constraintHandler.GetRoomConstraint)
	api.PUT("/rooms/:id/constraints", adminOnly, constraintHandler.UpsertRoomConstraint)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
