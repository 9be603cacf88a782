package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nursan/golistings/internal/auth"
	"github.com/nursan/golistings/internal/catalog"
	"github.com/nursan/golistings/internal/config"
	"github.com/nursan/golistings/internal/listing"
	"github.com/nursan/golistings/internal/logger"
	"github.com/nursan/golistings/internal/server"
	"github.com/nursan/golistings/internal/storage"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := storage.NewClient(cfg.Supabase)

	authService, err := auth.NewService(store, cfg.Auth)
	if err != nil {
		logg.Fatal("init auth service", zap.Error(err))
	}

	listingService := listing.NewService(store)
	catalogService := catalog.NewService(store)

	router := server.NewRouter(server.Dependencies{
		Config:         cfg,
		Store:          store,
		AuthService:    authService,
		ListingService: listingService,
		CatalogService: catalogService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("GoListings API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
