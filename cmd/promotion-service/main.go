package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/pujakart/promotion-service/internal/api"
	"github.com/pujakart/promotion-service/internal/api/middleware"
	"github.com/pujakart/promotion-service/internal/cache"
	"github.com/pujakart/promotion-service/internal/observability"
	"github.com/pujakart/promotion-service/internal/repository"
	"github.com/pujakart/promotion-service/internal/service"
	"github.com/pujakart/promotion-service/pkg/db"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := observability.NewLogger()
	defer logger.Sync()

	ctx := context.Background()

	cfg, _ := db.LoadPostgresConfig()
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		logger.Fatal(ctx, "db connect failed", err)
	}
	defer conn.Close()

	// redis is optional; without it lookups fall back to a process-local cache
	var lookupCache cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache, err := cache.NewRedisCache(addr)
		if err != nil {
			logger.Fatal(ctx, "redis connect failed", err)
		}
		defer redisCache.Close()
		lookupCache = redisCache
	} else {
		lookupCache = cache.NewMemoryCache()
	}

	referralRepo := repository.NewReferralRepo(conn)
	couponRepo := repository.NewCouponRepo(conn)
	catalogRepo := repository.NewCatalogRepo(conn)
	notificationRepo := repository.NewNotificationRepo(conn)

	promotionService := service.NewPromotionService(referralRepo, couponRepo, lookupCache, logger)
	catalogService := service.NewCatalogService(catalogRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)

	handler := api.NewRouter(promotionService, catalogService, notificationService)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Mount("/", handler)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "HTTP server shutdown", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info(ctx, "starting promotion-service on "+addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal(ctx, "listen failed", err)
	}

	<-idleConnsClosed
	logger.Info(ctx, "server stopped")
}
