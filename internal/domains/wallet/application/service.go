package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// Service runs the wallet use cases.
type Service struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithPublisher sets where committed transactions are announced.
func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the ledger timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store ports.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: ports.NoopPublisher,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// UpdateBalance adds to or subtracts from the customer's balance and appends
// the ledger row in the same unit of work.
func (s *Service) UpdateBalance(ctx context.Context, cmd ports.UpdateCommand) (*ports.UpdateResult, error) {
	if cmd.CustomerID <= 0 {
		return nil, mapError(domain.ErrInvalidCustomer)
	}
	txType, err := domain.ParseTransactionType(cmd.Type)
	if err != nil {
		return nil, mapError(err)
	}
	amount, err := domain.NormalizeAmount(cmd.Amount)
	if err != nil {
		return nil, mapError(err)
	}
	mutation := domain.Mutation{
		Type:        txType,
		Amount:      amount,
		Description: cmd.Description,
		At:          s.now(),
	}
	tx, err := s.store.Apply(ctx, cmd.CustomerID, func(current domain.Balance) (*domain.Transaction, error) {
		return current.Apply(mutation)
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, *tx)
	return &ports.UpdateResult{
		CustomerID:    cmd.CustomerID,
		Type:          tx.Type,
		OldBalance:    tx.BalanceBefore,
		NewBalance:    tx.BalanceAfter,
		TransactionID: tx.ID,
	}, nil
}

// GetBalance never creates a row; a customer without one holds zero.
func (s *Service) GetBalance(ctx context.Context, customerID int64) (*ports.BalanceResult, error) {
	if customerID <= 0 {
		return nil, mapError(domain.ErrInvalidCustomer)
	}
	balance, err := s.store.GetBalance(ctx, customerID)
	if errors.Is(err, ports.ErrBalanceNotFound) {
		return &ports.BalanceResult{Balance: domain.Balance{CustomerID: customerID}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ports.BalanceResult{Balance: *balance, Found: true}, nil
}

// ListTransactions pages the customer's ledger newest first.
func (s *Service) ListTransactions(ctx context.Context, query ports.TransactionQuery) (*pagination.Page[*domain.Transaction], error) {
	if query.CustomerID <= 0 {
		return nil, mapError(domain.ErrInvalidCustomer)
	}
	page := query.Page
	if page == (pagination.Request{}) {
		page = pagination.Default()
	}
	if err := page.Validate(); err != nil {
		return nil, mapError(err)
	}
	filter := ports.TransactionFilter{CustomerID: query.CustomerID, Page: page}
	if raw := strings.TrimSpace(query.Type); raw != "" {
		txType, err := domain.ParseTransactionType(raw)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Type = &txType
	}
	items, total, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := pagination.NewPage(page, items, total)
	return &result, nil
}

func (s *Service) publish(ctx context.Context, tx domain.Transaction) {
	event := domain.TransactionRecorded{
		EventID:     uuid.NewString(),
		Transaction: tx,
		Timestamp:   s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish wallet event",
			slog.String("event.name", event.EventName()),
			slog.Int64("wallet.transaction_id", tx.ID),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
