package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authd/internal/auth"
	"authd/internal/cache"
	"authd/internal/config"
	"authd/internal/db"
	"authd/internal/handler"
	"authd/internal/logredact"
	"authd/internal/model"
	"authd/internal/repository"
	"authd/internal/router"
	"authd/internal/service"
)

func main() {
	cfg := config.Load()

	logger := slog.New(logredact.NewHandler(
		slog.NewTextHandler(os.Stdout, nil),
		nil,
	))
	slog.SetDefault(logger)

	e := echo.New()
	e.Use(middleware.RequestID())

	var userRepo repository.UserRepository
	var cacheClient *cache.Client

	switch cfg.Store {
	case config.StoreMemory:
		logger.Info("using in-memory store")
		userRepo = repository.NewMemoryRepository()
	default:
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			logger.Error("database init", "error", err)
			os.Exit(1)
		}
		if err := gormDB.AutoMigrate(&model.User{}); err != nil {
			logger.Error("auto-migrate", "error", err)
			os.Exit(1)
		}
		userRepo = repository.NewUserRepository(gormDB)
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cacheClient.Close()
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	identityService := service.NewIdentityService(userRepo, hasher)
	sessionService := service.NewSessionService(userRepo, cacheClient)
	resetService := service.NewResetService(userRepo, hasher)

	userHandler := handler.NewUserHandler(identityService)
	sessionHandler := handler.NewSessionHandler(identityService, sessionService)
	resetHandler := handler.NewResetHandler(resetService)

	router.Register(e, userHandler, sessionHandler, resetHandler)

	addr := ":" + cfg.ServerPort
	logger.Info("starting server", "addr", addr, "store", cfg.Store)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Error("server start", "error", err)
		os.Exit(1)
	}
}
