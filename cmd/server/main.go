package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thanhvan06/japanese-quiz-service/internal/cache"
	"github.com/Thanhvan06/japanese-quiz-service/internal/config"
	"github.com/Thanhvan06/japanese-quiz-service/internal/handlers"
	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
	"github.com/Thanhvan06/japanese-quiz-service/internal/repositories/postgres"
	"github.com/Thanhvan06/japanese-quiz-service/internal/services"
	"github.com/Thanhvan06/japanese-quiz-service/internal/utils"
	"github.com/Thanhvan06/japanese-quiz-service/internal/validator"
	"github.com/Thanhvan06/japanese-quiz-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "development" {
		logger = utils.NewDevelopmentLogger()
	} else {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	}
	slogLogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.QuestionRecord{}, &models.TestResult{}); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	utils.InitCasdoor(utils.CasdoorParams{
		Endpoint:     cfg.Casdoor.Endpoint,
		ClientID:     cfg.Casdoor.ClientID,
		ClientSecret: cfg.Casdoor.ClientSecret,
		Certificate:  cfg.Casdoor.Certificate,
		Organization: cfg.Casdoor.Organization,
		Application:  cfg.Casdoor.Application,
	})

	repo := postgres.NewRepository(db)
	defer repo.Close()

	cacheService := cache.NewRedisCache(redisClient, slogLogger)
	v := validator.New()
	sessionService := services.NewSessionService(repo, cacheService, publisher, v, slogLogger)
	importService := services.NewImportService(repo, slogLogger, v)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	hm := handlers.NewHandlerManager(sessionService, importService, v, logger)
	hm.SetupRoutes(router, utils.AuthMiddleware(logger, cfg.Environment))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
