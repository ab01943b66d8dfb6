// Package main runs the event slot registration HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aura-events/backend/config"
	"github.com/aura-events/backend/internal/auth"
	"github.com/aura-events/backend/internal/availability"
	"github.com/aura-events/backend/internal/directory"
	"github.com/aura-events/backend/internal/export"
	"github.com/aura-events/backend/internal/middleware"
	"github.com/aura-events/backend/internal/registrations"
	"github.com/aura-events/backend/internal/schedule"
	"github.com/aura-events/backend/internal/settings"
	"github.com/aura-events/backend/pkg/database"
	"github.com/aura-events/backend/pkg/redis"
	"github.com/aura-events/backend/pkg/response"
	"github.com/aura-events/backend/pkg/utils"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Admin auth
	authRepo := auth.NewRepository(pool)
	if cfg.Admin.Password != "" {
		hash, err := utils.HashPassword(cfg.Admin.Password)
		if err != nil {
			logger.Fatal("hash admin password", zap.Error(err))
		}
		if err := authRepo.Seed(ctx, cfg.Admin.Email, hash, cfg.Admin.FullName); err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
	}
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Availability (cache invalidated by every mutation below)
	availCache := availability.NewCache(rdb.Client, cfg.Redis.AvailabilityTTL, logger)
	availRepo := availability.NewRepository(pool)
	settingsRepo := settings.NewRepository(pool)
	availHandler := availability.NewHandler(availRepo, settingsRepo, availCache, logger)
	settingsHandler := settings.NewHandler(settingsRepo, logger)

	// Directory lookup
	dirClient := directory.NewClient(cfg.Directory, logger)
	dirHandler := directory.NewHandler(dirClient)

	// Registrations
	registrationRepo := registrations.NewRepository(pool)
	registrationHandler := registrations.NewHandler(registrationRepo, dirClient, availCache, logger)

	// Schedule admin surface
	scheduleRepo := schedule.NewRepository(pool)
	scheduleHandler := schedule.NewHandler(scheduleRepo, availCache, logger)

	// Export
	exportHandler := export.NewHandler(registrationRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public
	router.GET("/availability", availHandler.List)
	router.GET("/directory/lookup", dirHandler.Lookup)
	router.POST("/register", registrationHandler.Register)
	router.GET("/selections/:id", registrationHandler.Get)
	router.GET("/my-selection", registrationHandler.MySelection)

	// Auth (public)
	router.POST("/auth/login", authHandler.Login)

	// Admin (JWT required)
	admin := router.Group("/admin")
	admin.Use(middleware.JWT(jwtService))
	{
		admin.GET("/selections", registrationHandler.Search)
		admin.POST("/selections/:id/cancel", registrationHandler.Cancel)

		admin.GET("/dates", scheduleHandler.ListDates)
		admin.POST("/dates", scheduleHandler.CreateDate)
		admin.PUT("/dates/:id", scheduleHandler.UpdateDate)
		admin.DELETE("/dates/:id", scheduleHandler.DeleteDate)

		admin.GET("/times", scheduleHandler.ListTimes)
		admin.POST("/times", scheduleHandler.CreateTime)
		admin.PUT("/times/:id", scheduleHandler.UpdateTime)
		admin.DELETE("/times/:id", scheduleHandler.DeleteTime)

		admin.GET("/slots", scheduleHandler.ListSlots)
		admin.POST("/slots", scheduleHandler.CreateSlot)
		admin.PUT("/slots/:id", scheduleHandler.UpdateSlot)
		admin.DELETE("/slots/:id", scheduleHandler.DeleteSlot)
		admin.POST("/slots/mass-add", scheduleHandler.MassAddSlot)

		admin.POST("/schedule/bulk", scheduleHandler.BulkSave)

		admin.GET("/settings", settingsHandler.Get)
		admin.PUT("/settings", settingsHandler.Update)

		admin.GET("/export", exportHandler.Export)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
