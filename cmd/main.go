package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"reviewwidget/backend/internal/api/handler"
	"reviewwidget/backend/internal/bridge"
	"reviewwidget/backend/internal/config"
	"reviewwidget/backend/internal/localization"
	"reviewwidget/backend/internal/logger"
	"reviewwidget/backend/internal/storage"
	"reviewwidget/backend/internal/widget"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config, log *zap.SugaredLogger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Info("Database and Redis connections established.")
	return db, rdb
}

func main() {
	cfg, envLoaded := config.Load()
	log := logger.NewLogger(cfg.DevMode)
	defer log.Sync()

	log.Info("Starting review widget backend...")
	if !envLoaded {
		log.Warn("No .env file loaded, using process environment.")
	}

	db, rdb := setupDependencies(cfg, log)
	s := storage.NewStorageService(db, rdb, cfg.SessionTTL, log)
	if err := s.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	loc, err := localization.Bundled()
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	hub := bridge.NewManagerService(s, log)
	controller := widget.NewController(s, hub, loc, log)
	hub.SetResultHandler(controller)

	go hub.Run()
	go controller.Run()
	hub.StartPubSubListener()

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	h := handler.NewHandler(controller, hub, s, cfg.JWTSecret, log)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infow("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}
	if err := rdb.Close(); err != nil {
		log.Errorw("Redis close failed", "error", err)
	}
}
