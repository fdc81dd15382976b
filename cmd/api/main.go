package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/auth"
	"storefront/internal/cache"
	catalogsvc "storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/controller"
	"storefront/internal/db"
	"storefront/internal/docstore"
	"storefront/internal/httpserver"
	orderssvc "storefront/internal/orders"
	profilesvc "storefront/internal/profile"
	"storefront/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	store := docstore.NewPostgres(dbpool, logger)

	var productCache cache.Cache
	if cfg.RedisAddr != "" {
		productCache = cache.NewRedis(cfg.RedisAddr, "storefront")
		logger.Printf("product cache: redis at %s", cfg.RedisAddr)
	} else {
		productCache = cache.NewMemory("storefront")
		logger.Printf("product cache: in-memory")
	}

	catalogService := catalogsvc.New(store, productCache, logger)
	ordersService := orderssvc.New(store, logger)
	profileService := profilesvc.New(store, logger)
	authProvider := auth.New(store, logger)

	sessions := session.NewManager(cfg.SessionTTL)
	registry := controller.NewRegistry(controller.Deps{
		Catalog: catalogService,
		Orders:  ordersService,
		Profile: profileService,
		Auth:    authProvider,
		Logger:  logger,
	})
	sessions.OnEvict(registry.Drop)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:    sessions,
		Controllers: registry,
		Auth:        authProvider,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
