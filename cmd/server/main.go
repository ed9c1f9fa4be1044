package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth"

	"github.com/acornlabs/squirreldex/pkg/squirreldex"
	"github.com/acornlabs/squirreldex/pkg/squirreldex/api"
	"github.com/acornlabs/squirreldex/pkg/squirreldex/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		logger.Error("failed to build repository", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	blobStore, err := cfg.BuildBlobStore()
	if err != nil {
		logger.Error("failed to build blob store", "error", err)
		os.Exit(1)
	}

	svc, err := squirreldex.New(
		squirreldex.WithRepository(repo),
		squirreldex.WithBlobStore(blobStore),
		squirreldex.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	tokenAuth := jwtauth.New("HS256", []byte(cfg.AuthSecret), nil)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.NewRouter(svc, tokenAuth, logger),
	}

	go func() {
		logger.Info("squirreldex server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"database", cfg.DatabaseType,
			"storage", cfg.StorageType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
