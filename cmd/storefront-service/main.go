package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/user"
	"github.com/andreasstove999/ecommerce-system/services/storefront-service-go/internal/wishlist"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.SecretKey == config.DevSecretKey {
		logger.Warn("SECRET_KEY not set, using the development key")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("db connect")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.WithError(err).Fatal("db migrate")
		}
	}

	// --- AMQP ---
	publisher, closePublisher := startPublisher(cfg, pool, logger)
	defer closePublisher()

	// --- domain ---
	products := catalog.NewService(catalog.NewPostgresRepository(pool))
	gate := auth.NewGate(user.NewPostgresRepository(pool), auth.NewPasswordHasher(cfg.PasswordHashIterations))

	h := httpapi.NewHandler(httpapi.Deps{
		Logger:    logger,
		Sessions:  session.NewManager(cfg.SecretKey, cfg.SessionTTL, cfg.SecureCookies),
		Auth:      gate,
		Catalog:   products,
		Carts:     cart.NewManager(cart.NewPostgresRepository(pool), products),
		Wishlists: wishlist.NewManager(wishlist.NewPostgresRepository(pool), products),
		Events:    publisher,
		Metrics:   metrics.New(),
		Limiter:   httpapi.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginBurst),
	})

	// --- HTTP ---
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutdown signal")
	case err := <-errCh:
		logger.WithError(err).Error("http server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http shutdown")
	}
	cancel()

	logger.Info("shutdown complete")
}

// startPublisher connects to RabbitMQ when configured. A broker that cannot
// be reached downgrades to the no-op publisher instead of stopping the shop.
func startPublisher(cfg config.Config, store events.Store, logger logrus.FieldLogger) (events.Publisher, func()) {
	if !cfg.EventsEnabled() {
		logger.Info("event publishing disabled")
		return events.NoopPublisher{}, func() {}
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Warn("rabbitmq unavailable, events disabled")
		return events.NoopPublisher{}, func() {}
	}

	pub, err := events.NewRabbitPublisher(conn, events.NewSequenceRepository(store))
	if err != nil {
		_ = conn.Close()
		logger.WithError(err).Warn("rabbitmq publisher setup failed, events disabled")
		return events.NoopPublisher{}, func() {}
	}

	logger.WithField("exchange", events.EventsExchange).Info("publishing events")
	return pub, func() {
		_ = pub.Close()
		_ = conn.Close()
	}
}
