// Package server initializes and runs the sharedrop server: it wires the
// metadata repositories, the object store backend, and the HTTP API, and
// handles graceful shutdown.
package server

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

	"github.com/dmitrijs2005/sharedrop/internal/logging"
	"github.com/dmitrijs2005/sharedrop/internal/server/capability"
	"github.com/dmitrijs2005/sharedrop/internal/server/config"
	"github.com/dmitrijs2005/sharedrop/internal/server/files"
	"github.com/dmitrijs2005/sharedrop/internal/server/httpapi"
	"github.com/dmitrijs2005/sharedrop/internal/server/shared/db"
	"github.com/dmitrijs2005/sharedrop/internal/server/shares"
	"github.com/dmitrijs2005/sharedrop/internal/server/storage"
)

const (
	shutdownTimeout = 10 * time.Second

	// Abandoned multipart sessions older than staleSessionAge are
	// removed on every reap tick.
	reapInterval    = 15 * time.Minute
	staleSessionAge = time.Hour
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.RepositoryManager
	store   storage.Store
	server  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var manager db.RepositoryManager
	if cfg.DatabaseDSN == "" {
		logger.Warn(ctx, "no database dsn configured, using in-memory metadata store")
		manager = db.NewInMemoryRepositoryManager()
	} else {
		m, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		manager = m
	}

	var store storage.Store
	switch cfg.StorageBackend {
	case config.BackendS3:
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		store = s
	default:
		s, err := storage.NewDiskStore(cfg.StorageRoot, logger)
		if err != nil {
			return nil, fmt.Errorf("disk store init error: %w", err)
		}
		store = s
	}

	issuer := capability.NewIssuer([]byte(cfg.SecretKey), cfg.BaseURL, cfg.CapabilityTTL)
	shareSvc := shares.NewService(manager.Shares(), cfg)
	fileSvc := files.NewService(manager.Files(), store, issuer, logger)

	srv := httpapi.NewServer(shareSvc, fileSvc, store, issuer, []byte(cfg.SecretKey), cfg.FrontendOrigin, logger)

	return &App{config: cfg, logger: logger, manager: manager, store: store, server: srv}, nil
}

// runReaper periodically removes multipart sessions that were started
// but never completed.
func (app *App) runReaper(ctx context.Context) {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.store.ReapStale(ctx, staleSessionAge); err != nil {
				app.logger.Warn(ctx, "stale session reap failed", "error", err.Error())
			}
		}
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	go app.runReaper(ctx)

	httpServer := &http.Server{
		Addr:              app.config.Address,
		Handler:           app.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "address", app.config.Address, "backend", app.config.StorageBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err.Error())
	}

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	return nil
}
