package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/helved/rafflebox/internal/auth"
	"github.com/helved/rafflebox/internal/config"
	"github.com/helved/rafflebox/internal/handlers"
	"github.com/helved/rafflebox/internal/middleware"
	"github.com/helved/rafflebox/internal/objectstore"
	"github.com/helved/rafflebox/internal/payment"
	"github.com/helved/rafflebox/internal/service"
	"github.com/helved/rafflebox/internal/storage"
	"github.com/helved/rafflebox/internal/storage/sqlite"
	"github.com/helved/rafflebox/pkg/logging"
)

const mediaURLPrefix = "/media"

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	objects, err := objectstore.NewDiskStore(cfg.MediaDir, mediaURLPrefix)
	if err != nil {
		slog.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	watcher := storage.NewWatcher(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	// The stub gateway approves every charge; swap in the real card SDK
	// adapter here.
	gateway := &payment.StubGateway{}

	raffleSvc := service.NewRaffleService(store, watcher, gateway, objects)
	authSvc := service.NewAuthService(authenticator, jwtManager, store)

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Static(mediaURLPrefix, cfg.MediaDir)

	httpHandler := handlers.NewHTTPHandler(raffleSvc, authSvc, watcher, jwtManager)
	httpHandler.RegisterRoutes(router)

	slog.Info("server starting", "addr", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
