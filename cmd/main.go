package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/zeneves1970/ocorrencias/internal/config"
	"github.com/zeneves1970/ocorrencias/internal/feed"
	v1 "github.com/zeneves1970/ocorrencias/internal/handler/http/v1"
	"github.com/zeneves1970/ocorrencias/internal/mirror"
	"github.com/zeneves1970/ocorrencias/internal/notify"
	"github.com/zeneves1970/ocorrencias/internal/repository"
	"github.com/zeneves1970/ocorrencias/internal/service"
	"github.com/zeneves1970/ocorrencias/pkg/logger"
	redisclient "github.com/zeneves1970/ocorrencias/pkg/redis"
	"github.com/zeneves1970/ocorrencias/pkg/sqlite"

	_ "github.com/zeneves1970/ocorrencias/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Ocorrencias Aveiro Monitor API
// @version 1.0
// @description Read-only dashboard API over the Aveiro civil-protection occurrence monitor.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Warm-start local state from the mirror before opening the store.
	// The monitor runs with whatever it has; a missing remote copy only
	// means a cold start.
	var mirrorClient service.Mirror
	if cfg.DropboxToken != "" {
		dbx := mirror.NewDropboxClient(cfg, log)
		if err := dbx.Download(ctx); err != nil {
			if errors.Is(err, mirror.ErrNotFound) {
				log.Info("No database on the mirror yet, starting cold")
			} else {
				log.WithError(err).Warn("Failed to warm-start database from mirror")
			}
		}
		mirrorClient = dbx
	} else {
		log.Warn("DROPBOX_TOKEN not set, mirroring disabled")
	}

	db, err := sqlite.Open(cfg.DBFile)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully opened SQLite database")

	if err := sqlite.Migrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Info("Database migrations applied successfully")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	publisher := notify.NewRedisPublisher(redisClient)

	telegram := notify.NewTelegramClient(cfg)
	if !telegram.Configured() {
		log.Warn("Telegram is not configured, notifications will be skipped")
	}
	worker := notify.NewWorker(redisClient, telegram, log, cfg)
	worker.Start(ctx)

	incidentRepo := repository.NewIncidentRepository(db)
	feedClient := feed.NewClient(cfg, log)

	monitorService := service.NewMonitorService(
		feedClient,
		incidentRepo,
		publisher,
		mirrorClient,
		service.SystemClock(),
		cfg,
		log,
	)

	handler := v1.NewHandler(monitorService, log, cfg)

	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	go monitorService.Run(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
