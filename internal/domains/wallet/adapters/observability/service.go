package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	walletdomain "github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	walletports "github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/observability/service"

// Service decorates the wallet service with tracing, logging, and metrics.
type Service struct {
	inner   walletports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core wallet service.
func New(inner walletports.Service, opts ...Option) walletports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) UpdateBalance(ctx context.Context, cmd walletports.UpdateCommand) (*walletports.UpdateResult, error) {
	ctx, span := s.tracer.Start(ctx, "WalletService.UpdateBalance", trace.WithAttributes(
		attribute.Int64("wallet.customer_id", cmd.CustomerID),
		attribute.String("wallet.transaction_type", cmd.Type),
		attribute.String("wallet.amount", cmd.Amount.String()),
	))
	defer span.End()

	s.logInfo(ctx, "updating wallet balance",
		slog.Int64("wallet.customer_id", cmd.CustomerID),
		slog.String("wallet.transaction_type", cmd.Type),
		slog.String("wallet.amount", cmd.Amount.String()))
	result, err := s.inner.UpdateBalance(ctx, cmd)
	if err != nil {
		s.metrics.recordRejected(ctx, cmd.Type)
		return nil, s.handleError(ctx, span, err, "failed to update wallet balance",
			slog.Int64("wallet.customer_id", cmd.CustomerID),
			slog.String("wallet.transaction_type", cmd.Type))
	}
	span.SetAttributes(attribute.Int64("wallet.transaction_id", result.TransactionID))
	s.metrics.recordUpdated(ctx, result.Type)
	s.logInfo(ctx, "wallet balance updated",
		slog.Int64("wallet.customer_id", result.CustomerID),
		slog.Int64("wallet.transaction_id", result.TransactionID),
		slog.String("wallet.old_balance", result.OldBalance.StringFixed(2)),
		slog.String("wallet.new_balance", result.NewBalance.StringFixed(2)))
	return result, nil
}

func (s *Service) GetBalance(ctx context.Context, customerID int64) (*walletports.BalanceResult, error) {
	ctx, span := s.tracer.Start(ctx, "WalletService.GetBalance", trace.WithAttributes(attribute.Int64("wallet.customer_id", customerID)))
	defer span.End()

	result, err := s.inner.GetBalance(ctx, customerID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load wallet balance", slog.Int64("wallet.customer_id", customerID))
	}
	span.SetAttributes(attribute.Bool("wallet.balance_found", result.Found))
	return result, nil
}

func (s *Service) ListTransactions(ctx context.Context, query walletports.TransactionQuery) (*pagination.Page[*walletdomain.Transaction], error) {
	ctx, span := s.tracer.Start(ctx, "WalletService.ListTransactions", trace.WithAttributes(
		attribute.Int64("wallet.customer_id", query.CustomerID),
		attribute.String("wallet.transaction_type", query.Type),
		attribute.Int("wallet.page", query.Page.Page),
	))
	defer span.End()

	result, err := s.inner.ListTransactions(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list wallet transactions", slog.Int64("wallet.customer_id", query.CustomerID))
	}
	span.SetAttributes(attribute.Int64("wallet.total_count", result.TotalCount))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	updated  metric.Int64Counter
	rejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	updated, _ := m.Int64Counter("wallet.service.updated", metric.WithDescription("Number of committed balance changes"))
	rejected, _ := m.Int64Counter("wallet.service.rejected", metric.WithDescription("Number of balance changes that failed"))
	return serviceMetrics{updated: updated, rejected: rejected}
}

func (m serviceMetrics) recordUpdated(ctx context.Context, t walletdomain.TransactionType) {
	if m.updated != nil {
		m.updated.Add(ctx, 1, metric.WithAttributes(attribute.String("wallet.transaction_type", string(t))))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, t string) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("wallet.transaction_type", t)))
	}
}

var _ walletports.Service = (*Service)(nil)
