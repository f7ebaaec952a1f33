package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a balance change.
type TransactionType string

const (
	TransactionAdd      TransactionType = "add"
	TransactionSubtract TransactionType = "subtract"
)

var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidTransactionType = errors.New("invalid transaction type, use 'add' or 'subtract'")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidCustomer        = errors.New("customer id must be positive")
)

// ParseTransactionType accepts only the two known types, exactly as spelled.
func ParseTransactionType(raw string) (TransactionType, error) {
	switch t := TransactionType(strings.TrimSpace(raw)); t {
	case TransactionAdd, TransactionSubtract:
		return t, nil
	default:
		return "", ErrInvalidTransactionType
	}
}

// NormalizeAmount rounds to cents and rejects anything not strictly positive
// afterwards.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return rounded, nil
}

// DefaultDescription is used when a caller gives no description.
func DefaultDescription(t TransactionType, amount decimal.Decimal) string {
	return fmt.Sprintf("Wallet %s of %s", t, amount.StringFixed(2))
}

// Balance is the current amount held for a customer.
type Balance struct {
	CustomerID int64
	Amount     decimal.Decimal
}

// Transaction is one immutable ledger row.
type Transaction struct {
	ID            int64
	CustomerID    int64
	Amount        decimal.Decimal
	Type          TransactionType
	Description   string
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// Mutation describes a requested balance change.
type Mutation struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	At          time.Time
}

// Apply computes the ledger row that m produces against b. b is not modified;
// the new balance is the returned transaction's BalanceAfter.
func (b Balance) Apply(m Mutation) (*Transaction, error) {
	amount, err := NormalizeAmount(m.Amount)
	if err != nil {
		return nil, err
	}
	var after decimal.Decimal
	switch m.Type {
	case TransactionAdd:
		after = b.Amount.Add(amount)
	case TransactionSubtract:
		if b.Amount.LessThan(amount) {
			return nil, ErrInsufficientBalance
		}
		after = b.Amount.Sub(amount)
	default:
		return nil, ErrInvalidTransactionType
	}
	description := strings.TrimSpace(m.Description)
	if description == "" {
		description = DefaultDescription(m.Type, amount)
	}
	return &Transaction{
		CustomerID:    b.CustomerID,
		Amount:        amount,
		Type:          m.Type,
		Description:   description,
		BalanceBefore: b.Amount,
		BalanceAfter:  after,
		CreatedAt:     m.At,
	}, nil
}
