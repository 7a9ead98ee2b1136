package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/courtamos/tinyapp/internal/api"
	"github.com/courtamos/tinyapp/internal/api/handlers"
	"github.com/courtamos/tinyapp/internal/api/middleware"
	"github.com/courtamos/tinyapp/internal/api/views"
	"github.com/courtamos/tinyapp/internal/engine/accounts"
	"github.com/courtamos/tinyapp/internal/engine/links"
	"github.com/courtamos/tinyapp/internal/pkg/logger"
	"github.com/courtamos/tinyapp/internal/platform/auth"
	"github.com/courtamos/tinyapp/internal/platform/config"
	"github.com/courtamos/tinyapp/internal/platform/database"
	"github.com/courtamos/tinyapp/internal/platform/repositories"
)

type userStore interface {
	accounts.Repository
	handlers.Pinger
}

type linkStore interface {
	links.Store
	handlers.Pinger
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Session.Secret == "" {
		secret, err := auth.GenerateSecret()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate session secret")
		}
		cfg.Session.Secret = secret
		log.Warn().Msg("session.secret is empty, using a random secret; sessions will not survive a restart")
	}

	// Stores
	users, linkRepo, closeStores, err := openStores(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer closeStores()

	// Services
	codes, err := links.NewCodeGenerator(cfg.Links.ShortCodeLength)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create short code generator")
	}
	accountSvc := accounts.NewService(users, cfg.Security.BcryptCost)
	linkSvc := links.NewService(linkRepo, codes)
	sessions := auth.NewSessionManager(cfg.Session)

	renderer, err := views.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Router
	deps := &api.Dependencies{
		AuthHandler:       handlers.NewAuthHandler(accountSvc, sessions, renderer),
		LinkHandler:       handlers.NewLinkHandler(linkSvc, renderer, cfg.Links.BaseURL),
		RedirectHandler:   handlers.NewRedirectHandler(linkSvc),
		HealthHandler:     handlers.NewHealthHandler(map[string]handlers.Pinger{"users": users, "links": linkRepo}),
		MetricsHandler:    handlers.NewMetricsHandler(accountSvc, linkSvc),
		SessionMiddleware: middleware.NewSessionMiddleware(sessions, accountSvc),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("TinyApp listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// openStores builds the user and link stores for the configured driver. Both
// drivers keep data in process memory only.
func openStores(ctx context.Context, cfg config.StorageConfig) (userStore, linkStore, func(), error) {
	if cfg.Driver != "sqlite" {
		return repositories.NewMemoryUserRepository(), links.NewMemoryStore(), func() {}, nil
	}

	db, err := database.OpenMemory(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
	return repositories.NewUserRepository(db), links.NewRepository(db), closeDB, nil
}
