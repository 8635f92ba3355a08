package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/auth"
	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/config"
	"github.com/rainbowlistings/directory/internal/handler"
	"github.com/rainbowlistings/directory/internal/logging"
	middlewarepkg "github.com/rainbowlistings/directory/internal/middleware"
	"github.com/rainbowlistings/directory/internal/notify"
	"github.com/rainbowlistings/directory/internal/repository"
	"github.com/rainbowlistings/directory/internal/router"
	"github.com/rainbowlistings/directory/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(logging.Config{})
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &logger

	cat, err := loadCatalog(cfg.CategoriesFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load categories")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	verifiers := auth.ChainVerifier{jwtManager}
	if cfg.GoogleClientID != "" {
		verifiers = append(verifiers, auth.NewGoogleVerifier(cfg.GoogleClientID))
	}

	var notifier service.SubmissionNotifier
	if cfg.NotifyWebhook != "" {
		webhook, err := notify.NewWebhookNotifier(context.Background(), nil, cfg.NotifyWebhook)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure submission webhook")
		}
		notifier = webhook
	}

	listingsService := service.NewListingsService(store.Businesses, cat)
	featuredService := service.NewFeaturedService(store.Businesses, cfg.FeaturedBackoff)
	eventsService := service.NewEventsService(store.Events)
	validator := service.NewFormValidator(cat, cfg.PhoneRegion, service.WithSystemDNS())

	handlers := router.Handlers{
		Home:        handler.NewHomeHandler(service.NewHomeService(listingsService, featuredService, eventsService)),
		Listings:    handler.NewListingsHandler(listingsService, featuredService),
		Categories:  handler.NewCategoriesHandler(listingsService),
		Events:      handler.NewEventsHandler(eventsService),
		Prompt:      handler.NewPromptSearchHandler(service.NewPromptService(), listingsService),
		Submission:  handler.NewSubmissionHandler(service.NewSubmissionService(store.Businesses, validator, notifier)),
		Moderation:  handler.NewModerationHandler(service.NewModerationService(store.Businesses)),
		AdminUpload: handler.NewAdminUploadHandler(service.NewImportService(store.Businesses, cat)),
	}
	if store.Users != nil {
		handlers.Auth = handler.NewAuthHandler(service.NewAuthService(store.Users, jwtManager))
		handlers.Users = handler.NewUserAdminHandler(service.NewUserService(store.Users))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	router.Register(e, cfg, verifiers, handlers)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("directory api listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
