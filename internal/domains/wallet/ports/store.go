package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

var ErrBalanceNotFound = errors.New("balance not found")

// MutateFunc computes the ledger row for a locked balance. Returning an error
// aborts the whole unit of work.
type MutateFunc func(current domain.Balance) (*domain.Transaction, error)

// TransactionFilter selects ledger rows of one customer.
type TransactionFilter struct {
	CustomerID int64
	Type       *domain.TransactionType
	Page       pagination.Request
}

// Store persists balances and the transaction ledger.
type Store interface {
	// Apply loads the customer's balance, creating a zero row if needed,
	// passes it to mutate and commits the new balance together with the
	// returned ledger row. Nothing is persisted when mutate fails.
	Apply(ctx context.Context, customerID int64, mutate MutateFunc) (*domain.Transaction, error)
	GetBalance(ctx context.Context, customerID int64) (*domain.Balance, error)
	// ListTransactions returns one page, newest first, and the filtered total.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, int64, error)
}
