package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	dropshipserver "github.com/Apurer/dropship-order-service/go"
	authmemory "github.com/Apurer/dropship-order-service/internal/domains/auth/adapters/memory"
	authpostgres "github.com/Apurer/dropship-order-service/internal/domains/auth/adapters/persistence/postgres"
	authapp "github.com/Apurer/dropship-order-service/internal/domains/auth/application"
	authports "github.com/Apurer/dropship-order-service/internal/domains/auth/ports"
	ordermemory "github.com/Apurer/dropship-order-service/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/dropship-order-service/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/dropship-order-service/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/dropship-order-service/internal/domains/orders/application"
	orderports "github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	walletkafka "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/kafka"
	walletmemory "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/memory"
	walletobs "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/observability"
	walletpostgres "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/persistence/postgres"
	walletapp "github.com/Apurer/dropship-order-service/internal/domains/wallet/application"
	walletports "github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/platform/metrics"
	"github.com/Apurer/dropship-order-service/internal/platform/migrations"
	platformobservability "github.com/Apurer/dropship-order-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/dropship-order-service/internal/platform/postgres"
)

const (
	serviceName     = "dropship-order-service"
	shutdownTimeout = 10 * time.Second
)

// Run boots the order and wallet HTTP API and blocks until ctx is cancelled
// or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.SettingsFromEnv(serviceName, cfg.Environment))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	if cfg.MigrateOnStart {
		if err := migrations.RunDSN(cfg.PostgresDSN); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}

	db, closeDB := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	defer closeDB()
	stores := buildStores(db)

	publisher, closePublisher := buildPublisher(cfg, logger)
	defer closePublisher()

	orderService := orderobs.New(
		orderapp.NewService(stores.orders, orderapp.WithLogger(logger)),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	walletService := walletobs.New(
		walletapp.NewService(stores.wallet, walletapp.WithPublisher(publisher), walletapp.WithLogger(logger)),
		walletobs.WithLogger(logger),
		walletobs.WithTracer(instruments.Tracer("internal.wallet.application")),
		walletobs.WithMeter(instruments.Meter("internal.wallet.application")),
	)
	authenticator, err := authapp.NewAuthenticator(stores.sessions, authapp.WithTTL(cfg.SessionTTL))
	if err != nil {
		return fmt.Errorf("build authenticator: %w", err)
	}
	if err := seedDevSessions(ctx, authenticator, cfg.DevSessions, logger); err != nil {
		return err
	}

	checks := map[string]dropshipserver.HealthCheck{}
	if db != nil {
		checks["postgres"] = platformpostgres.Ping(db)
	}
	router := NewRouter(Services{
		Orders:        orderService,
		Wallet:        walletService,
		Authenticator: authenticator,
		HealthChecks:  checks,
		Metrics:       metrics.NewHTTPMetrics("dropship"),
		Logger:        logger,
		ServiceName:   serviceName,
	})

	return serve(ctx, &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}, logger)
}

type stores struct {
	orders   orderports.Repository
	wallet   walletports.Store
	sessions authports.SessionStore
}

func buildStores(db *gorm.DB) stores {
	if db == nil {
		return stores{
			orders:   ordermemory.NewRepository(),
			wallet:   walletmemory.NewStore(),
			sessions: authmemory.NewSessionStore(),
		}
	}
	return stores{
		orders:   orderpostgres.NewRepository(db),
		wallet:   walletpostgres.NewStore(db),
		sessions: authpostgres.NewSessionStore(db),
	}
}

func buildPublisher(cfg Config, logger *slog.Logger) (walletports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return walletports.NoopPublisher, func() {}
	}
	publisher, err := walletkafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.Warn("wallet event publishing disabled", slog.String("error", err.Error()))
		return walletports.NoopPublisher, func() {}
	}
	logger.Info("wallet events published to kafka",
		slog.String("topic", cfg.KafkaTopic),
		slog.Any("brokers", cfg.KafkaBrokers))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}
}

// seedDevSessions registers DEV_SESSIONS. Entries without a token get one
// issued, and the token is logged so a developer can use it.
func seedDevSessions(ctx context.Context, authenticator *authapp.Authenticator, raw string, logger *slog.Logger) error {
	sessions, err := ParseDevSessions(raw)
	if err != nil {
		return fmt.Errorf("DEV_SESSIONS: %w", err)
	}
	for _, dev := range sessions {
		if dev.Token != "" {
			if _, err := authenticator.Register(ctx, dev.Token, dev.CustomerID); err != nil {
				return fmt.Errorf("seed dev session: %w", err)
			}
			continue
		}
		session, err := authenticator.IssueSession(ctx, dev.CustomerID)
		if err != nil {
			return fmt.Errorf("issue dev session: %w", err)
		}
		logger.Warn("development session issued",
			slog.Int64("customer_id", session.CustomerID),
			slog.String("token", session.Token))
	}
	if len(sessions) > 0 {
		logger.Warn("development sessions registered", slog.Int("count", len(sessions)))
	}
	return nil
}

func serve(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("dropship order service listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("HTTP server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}
	return nil
}
