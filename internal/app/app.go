package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/router"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/credential"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/tracer"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	cfg      *config.Config
	log      *logger.Logger
	server   *http.Server
	metrics  *metrics.MetricsManager
	tp       *sdktrace.TracerProvider
	backends *backends
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	log.Info("Application starting",
		zap.String("service_name", cfg.Tracing.ServiceName),
		zap.String("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// 1. Tracing and metrics
	tp := tracer.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint, log)
	m := metrics.NewMetricsManager("marketplace")

	// 2. Storage, image store, cache, messaging, mail
	b, err := newBackends(ctx, cfg, log)
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize backends: %w", err)
	}

	// 3. Usecases
	accounts := usecase.NewAccountUsecase(b.accounts, b.images, credential.NewEngine(), b.mailer, b.publisher, m, log)
	offers := usecase.NewOfferUsecase(b.offers, usecase.NewGallery(b.images, m, log), b.cache, b.publisher, m, log)
	catalog := usecase.NewCatalogUsecase(b.offers, b.accounts, b.cache, cfg.Redis.OfferTTL, cfg.Catalog.PageSize, log)
	log.Info("Usecases initialized")

	// 4. HTTP surface
	h := handler.NewHandler(accounts, offers, catalog, cfg.HTTP.MaxUploadBytes, m, log)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router.NewRouter(h, accounts, m, log),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &App{
		cfg:      cfg,
		log:      log,
		server:   srv,
		metrics:  m,
		tp:       tp,
		backends: b,
	}, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down the HTTP server, the backends and the tracer in that order.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := metrics.StartMetricsServer(ctx, a.cfg.Metrics.Port, a.log, a.metrics.Registry); err != nil {
			a.log.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
			a.log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout+5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Error during HTTP server graceful shutdown", zap.Error(err))
	} else {
		a.log.Info("HTTP server stopped")
	}

	a.backends.close(shutdownCtx, a.log) // Close DB, cache and NATS connections

	if err := a.tp.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Failed to shut down tracer provider", zap.Error(err))
	}

	a.log.Info("Application shut down")
	_ = a.log.Sync()
	return runErr
}
