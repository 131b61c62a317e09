package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/bistrosoft/orders/internal/api"
	"github.com/bistrosoft/orders/internal/cache"
	"github.com/bistrosoft/orders/internal/health"
	"github.com/bistrosoft/orders/internal/metrics"
	"github.com/bistrosoft/orders/internal/service/auth"
	"github.com/bistrosoft/orders/internal/service/catalog"
	"github.com/bistrosoft/orders/internal/service/customers"
	"github.com/bistrosoft/orders/internal/service/orders"
	"github.com/bistrosoft/orders/internal/version"
)

// Run собирает приложение и обслуживает HTTP до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	if err := cfg.Validate(); err != nil {
		return err
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	var catalogCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		pc, err := cache.NewProductCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger.WithField("component", "cache"))
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, continuing without catalog cache")
		} else {
			catalogCache = pc
			logger.WithField("addr", cfg.RedisAddr).Info("catalog cache initialized")
		}
	}
	defer func() {
		if catalogCache == nil {
			return
		}
		if err := catalogCache.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis client")
		}
	}()

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(storage.repos.Users, tokens, logger.WithField("component", "auth"))
	if err != nil {
		return err
	}

	var invalidator orders.CatalogInvalidator
	var catalogReader catalog.Cache
	if catalogCache != nil {
		invalidator = catalogCache
		catalogReader = catalogCache
	}

	services := api.Services{
		Orders:    orders.NewService(storage.repos, storage.uow, invalidator, logger.WithField("component", "orders")),
		Customers: customers.NewService(storage.repos.Customers, storage.repos.Orders, logger.WithField("component", "customers")),
		Catalog:   catalog.NewService(storage.repos.Products, catalogReader, logger.WithField("component", "catalog")),
		Auth:      authSvc,
		Tokens:    tokens,
	}

	healthHandler := health.NewHandler(version.Version())
	if storage.ping != nil {
		healthHandler.Register("postgres", storage.ping)
	}

	server := api.NewServer(services, metrics.NewHTTPMetrics(), logger.WithField("component", "api"), api.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		Development:    cfg.Development,
	})

	metricsSrv := startMetricsServer(cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает служебный HTTP с метриками и health-проверками.
func startMetricsServer(addr string, logger *log.Entry, healthHandler *health.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", health.Liveness)
	mux.HandleFunc("/readyz", healthHandler.Readiness)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	return srv
}

// shutdownHTTP мягко останавливает HTTP-сервер с таймаутом.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("failed to shutdown http server")
	}
}
