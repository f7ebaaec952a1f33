package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	orderports "github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/dropship-order-service/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) ListOrders(ctx context.Context, input orderports.ListOrdersInput) (*orderports.OrderList, error) {
	buyerID, scoped := input.Scope.BuyerID()
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders", trace.WithAttributes(
		attribute.String("orders.view", string(input.View)),
		attribute.Bool("orders.scoped", scoped),
		attribute.Int64("orders.buyer_id", buyerID),
		attribute.Int("orders.page", input.Page.Page),
		attribute.Int("orders.page_size", input.Page.PageSize),
	))
	defer span.End()

	s.logInfo(ctx, "listing orders",
		slog.String("orders.view", string(input.View)),
		slog.Bool("orders.scoped", scoped),
		slog.Int64("orders.buyer_id", buyerID),
		slog.String("orders.sort", input.SortBy))
	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("orders.view", string(input.View)))
	}
	span.SetAttributes(attribute.Int64("orders.total_count", result.Orders.TotalCount))
	s.metrics.recordListed(ctx, input.View)
	s.logInfo(ctx, "orders listed",
		slog.String("orders.view", string(input.View)),
		slog.Int64("orders.total_count", result.Orders.TotalCount),
		slog.Int("orders.returned", len(result.Orders.Items)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, scope orderdomain.Scope, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "loading order", slog.Int64("order.id", id))
	result, err := s.inner.GetOrder(ctx, scope, id)
	if err != nil {
		if errors.Is(err, orderports.ErrNotFound) {
			s.metrics.recordMissing(ctx)
		}
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order loaded", slog.Int64("order.id", result.ID), slog.Int("order.line_items", len(result.LineItems)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	listings metric.Int64Counter
	missing  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	listings, _ := m.Int64Counter("orders.service.listings", metric.WithDescription("Number of order listings served"))
	missing, _ := m.Int64Counter("orders.service.lookups_missing", metric.WithDescription("Number of order lookups that found nothing"))
	return serviceMetrics{listings: listings, missing: missing}
}

func (m serviceMetrics) recordListed(ctx context.Context, view orderdomain.ViewName) {
	if m.listings != nil {
		m.listings.Add(ctx, 1, metric.WithAttributes(attribute.String("orders.view", string(view))))
	}
}

func (m serviceMetrics) recordMissing(ctx context.Context) {
	if m.missing != nil {
		m.missing.Add(ctx, 1)
	}
}

var _ orderports.Service = (*Service)(nil)
