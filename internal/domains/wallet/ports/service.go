package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// UpdateCommand requests one balance change. Type is validated by the service.
type UpdateCommand struct {
	CustomerID  int64
	Amount      decimal.Decimal
	Type        string
	Description string
}

// UpdateResult reports a committed balance change.
type UpdateResult struct {
	CustomerID    int64
	Type          domain.TransactionType
	OldBalance    decimal.Decimal
	NewBalance    decimal.Decimal
	TransactionID int64
}

// BalanceResult carries the balance and whether a row exists for it.
type BalanceResult struct {
	Balance domain.Balance
	Found   bool
}

// TransactionQuery lists a customer's ledger. An empty Type means all types.
type TransactionQuery struct {
	CustomerID int64
	Type       string
	Page       pagination.Request
}

// Service exposes wallet use cases to adapters.
type Service interface {
	UpdateBalance(ctx context.Context, cmd UpdateCommand) (*UpdateResult, error)
	GetBalance(ctx context.Context, customerID int64) (*BalanceResult, error)
	ListTransactions(ctx context.Context, query TransactionQuery) (*pagination.Page[*domain.Transaction], error)
}
