package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ilmpact/steam-export-api/api/swagger"
	"github.com/ilmpact/steam-export-api/internal/handler"
	"github.com/ilmpact/steam-export-api/internal/middleware"
	"github.com/ilmpact/steam-export-api/internal/repository"
	"github.com/ilmpact/steam-export-api/internal/service"
	"github.com/ilmpact/steam-export-api/pkg/config"
	"github.com/ilmpact/steam-export-api/pkg/database"
	"github.com/ilmpact/steam-export-api/pkg/logger"
	corsmiddleware "github.com/ilmpact/steam-export-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ilmpact/steam-export-api/pkg/middleware/requestid"
	"github.com/ilmpact/steam-export-api/pkg/storage"
)

// @title STEAM Export API
// @version 1.0.0
// @description School monitoring data export for the national reporting system
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	store, err := storage.NewLocalStorage(cfg.Export.OutputDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	exportRepo := repository.NewExportRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(validator.New(), logr, cfg.Auth)
	aggSvc := service.NewAggregationService(exportRepo, cfg.Export, logr)
	exportSvc := service.NewExportService(aggSvc, store, metricsSvc, cfg.Export, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	exportHandler := handler.NewExportHandler(exportSvc, cfg.Export)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/export", exportHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "delivery", cfg.Export.Delivery)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
