package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sparkacademy/internal/catalog"
	"sparkacademy/internal/config"
	"sparkacademy/internal/handlers"
	"sparkacademy/internal/llm"
	"sparkacademy/internal/logger"
	"sparkacademy/internal/repository"
	"sparkacademy/internal/security"
	"sparkacademy/internal/service"
	"sparkacademy/internal/store"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// Storage degrades to memory when the backend cannot be reached
	var kv *store.Fallback
	storage, err := repository.OpenStorage(ctx, cfg, log)
	switch {
	case err == nil:
		defer storage.Close()
		kv = store.NewFallback(storage.KV, log)
		log.Info("storage ready", "backend", storage.Backend)
	case errors.Is(err, store.ErrStorageUnavailable):
		kv = store.NewOffline(err, log)
	default:
		log.Fatal("failed to open storage", "error", err)
	}

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		log.Fatal("failed to load course catalog", "error", err)
	}
	log.Info("course catalog loaded", "courses", len(cat.Courses()))

	// Initialize repositories
	keys := repository.NewKeys(cfg.Storage.KeyPrefix)
	accounts := repository.NewAccountRepository(kv, keys)
	profiles := repository.NewProfileRepository(kv, keys, log)
	settings := repository.NewSettingsRepository(kv, keys)

	// Initialize services
	ctl := service.NewSessionController(cat, accounts, profiles, settings, log)
	ctl.SetLocation(cfg.Location())

	emailService, err := service.NewEmailService(ctx, cfg.Email, log)
	if err != nil {
		log.Warn("welcome email disabled", "error", err)
	} else if emailService.IsEnabled() {
		ctl.SetNotifier(emailService)
	}

	llmClient, err := llm.NewLLMClient(cfg.AI, log)
	if err != nil {
		log.Warn("AI helper disabled", "error", err)
		llmClient = nil
	}
	helpService := service.NewHelpService(llmClient, cfg.AI.Timeout, log)

	if result, err := ctl.Restore(ctx); err != nil {
		log.Warn("could not restore previous session", "error", err)
	} else if result != nil {
		log.Info("restored previous session", "email", result.User.Email, "streak", result.Streak)
	}

	limiter := security.NewRateLimiter(authRateLimit, authRateWindow)
	defer limiter.Stop()

	api := handlers.NewAPI(handlers.Options{
		Controller:     ctl,
		Courses:        service.NewCourseService(cat),
		Help:           helpService,
		Tokens:         security.NewTokenIssuer(cfg.Session.Secret, cfg.Session.Duration),
		CSRF:           security.NewCSRFGenerator(cfg.Session.Secret),
		Limiter:        limiter,
		Storage:        kv,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SecureCookies:  cfg.Server.SecureCookies,
	})

	// Start server
	addr := ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      api.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// loadCatalog reads the course catalog from path, or the built-in catalog
// when path is empty
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
