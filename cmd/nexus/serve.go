package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/nexus/internal/config"
	"github.com/mtlprog/nexus/internal/database"
	"github.com/mtlprog/nexus/internal/handler"
	"github.com/mtlprog/nexus/internal/middleware"
	"github.com/mtlprog/nexus/internal/repository"
	"github.com/mtlprog/nexus/internal/repository/memory"
	"github.com/mtlprog/nexus/internal/seed"
	"github.com/mtlprog/nexus/internal/service"
)

func runServe(c *cli.Context) error {
	ctx := c.Context

	// A bare `nexus` runs this action without the serve flags, so their defaults apply here.
	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	retention := c.Int("retention")
	if !c.IsSet("retention") && retention == 0 {
		retention = config.DefaultRetention
	}

	store, closeStore, err := openStore(ctx, c.String("database-url"), retention)
	if err != nil {
		return err
	}
	defer closeStore()

	fixtures, err := seed.Load(c.String("seed-file"))
	if err != nil {
		return fmt.Errorf("failed to load seed fixtures: %w", err)
	}
	if err := seed.Apply(ctx, store, fixtures); err != nil {
		return fmt.Errorf("failed to apply seed fixtures: %w", err)
	}

	monitor := service.NewMonitorService(store, service.NewRandomGenerator())
	auth := middleware.NewAuthMiddleware(c.StringSlice("api-key"))
	h := handler.New(monitor, auth)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.CORS(c.String("cors-origin"), mux),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server",
			"server_addr", "http://localhost:"+port,
			"auth", auth.Enabled(),
			"retention", retention,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openStore returns the PostgreSQL store when databaseURL is set, otherwise a memory store.
func openStore(ctx context.Context, databaseURL string, retention int) (service.Store, func(), error) {
	if databaseURL == "" {
		slog.Info("using in-memory store", "retention", retention)
		return memory.New(retention), func() {}, nil
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repository.NewStore(db.Pool()), db.Close, nil
}

func runMigrate(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return errors.New("migrate requires --database-url or DATABASE_URL")
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
