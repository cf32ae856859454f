// Package server boots the storefront: config, logging, database, sessions,
// storage, the order feed and the HTTP listener, plus the optional gRPC
// health endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
	grpcserver "github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// Start runs the server until SIGINT or SIGTERM, then drains in-flight
// requests and releases every connection it opened.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}
	closeLogs, err := logger.Configure()
	if err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	store, closeStore, err := sessionStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	disk, err := storage.Open(ctx, config.StorageDefault())
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	api, err := routes.New(deps(db, disk, hub))
	if err != nil {
		return err
	}
	handler := app.New().
		Sessions(store, session.DefaultOptions()).
		CORS(corsOptions()).
		Routes(api.Register).
		Handler()

	if config.GRPCEnabled() {
		gs, err := grpcserver.Start(config.GRPCPort(), orm.New(db).Ping)
		if err != nil {
			return err
		}
		defer grpcserver.Stop(gs)
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func deps(db *gorm.DB, disk storage.Disk, hub *ws.Hub) routes.Deps {
	d := routes.Deps{
		Gateway:     orm.New(db),
		Disk:        disk,
		Hasher:      crypt.ForName(config.PasswordHasher()),
		Events:      event.NewDispatcher(),
		Feed:        hub,
		ContentRoot: config.ContentRoot(),
		CSSRoot:     config.CSSRoot(),
	}
	if local, ok := disk.(*storage.LocalDisk); ok {
		d.UploadRoot = local.Root()
	}
	return d
}

// corsOptions opens the API to CORS_ALLOWED_ORIGINS, cookies included, so a
// separately hosted admin frontend can keep its session.
func corsOptions() middleware.CORSOptions {
	opts := middleware.DefaultCORSOptions()
	if origins := config.CORSAllowedOrigins(); len(origins) > 0 {
		opts.AllowedOrigins = origins
		opts.AllowCredentials = true
	}
	return opts
}

// sessionStore picks the backend named by SESSION_DRIVER.
func sessionStore(ctx context.Context) (session.Store, func(), error) {
	switch config.SessionDriver() {
	case "redis":
		rdb, err := cache.Connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rdb), func() { _ = cache.Close() }, nil
	case "memory", "":
		store := session.NewMemoryStore(config.SessionSweepInterval())
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("server: unknown session driver %q", config.SessionDriver())
	}
}
