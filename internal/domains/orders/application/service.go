package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// Service runs the order listing and lookup use cases.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the logger used for ignored filters.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListOrders filters, sorts and pages one view.
func (s *Service) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.OrderList, error) {
	view, ok := domain.LookupView(input.View)
	if !ok {
		return nil, mapError(fmt.Errorf("%w: %q", domain.ErrUnknownView, input.View))
	}
	page := input.Page
	if page == (pagination.Request{}) {
		page = pagination.Default()
	}
	if err := page.Validate(); err != nil {
		return nil, mapError(err)
	}
	source, err := domain.ParseSource(input.Source)
	if err != nil {
		return nil, mapError(err)
	}

	query := domain.Query{
		Scope:     input.Scope,
		Status:    view.Predicate,
		Purchased: s.dateRange(ctx, input.FromDate, input.ToDate),
		Search:    input.Search,
		Source:    source,
		Sort:      domain.ParseSort(input.SortBy),
		Page:      page,
	}
	orders, total, err := s.repo.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	return &ports.OrderList{View: view, Orders: pagination.NewPage(page, orders, total)}, nil
}

// GetOrder loads one order with line items. Orders outside scope are reported as missing.
func (s *Service) GetOrder(ctx context.Context, scope domain.Scope, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(order) {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// dateRange keeps unparsable bounds out of the query. Such values widen the
// result set instead of failing the request.
func (s *Service) dateRange(ctx context.Context, rawFrom, rawTo string) domain.DateRange {
	var r domain.DateRange
	if from, ok := s.bound(ctx, "from_date", rawFrom, domain.ParseLowerBound); ok {
		r.From = &from
	}
	if to, ok := s.bound(ctx, "to_date", rawTo, domain.ParseUpperBound); ok {
		r.To = &to
	}
	return r
}

func (s *Service) bound(ctx context.Context, name, raw string, parse func(string) (time.Time, bool)) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, ok := parse(raw)
	if !ok {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "date filter ignored",
			slog.String("param", name), slog.String("value", raw))
	}
	return t, ok
}

var _ ports.Service = (*Service)(nil)
