package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

var _ ports.Store = (*Store)(nil)

// Store is an in-memory wallet adapter. One mutex covers balances and ledger
// so an Apply is all-or-nothing.
type Store struct {
	mu       sync.RWMutex
	balances map[int64]decimal.Decimal
	ledger   []domain.Transaction
	nextID   int64
}

func NewStore() *Store {
	return &Store{balances: map[int64]decimal.Decimal{}}
}

func (s *Store) Apply(_ context.Context, customerID int64, mutate ports.MutateFunc) (*domain.Transaction, error) {
	if mutate == nil {
		return nil, errors.New("mutate func is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current := domain.Balance{CustomerID: customerID, Amount: s.balances[customerID]}
	tx, err := mutate(current)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, errors.New("mutate returned no transaction")
	}
	s.nextID++
	stored := *tx
	stored.ID = s.nextID
	stored.CustomerID = customerID
	s.balances[customerID] = stored.BalanceAfter
	s.ledger = append(s.ledger, stored)
	out := stored
	return &out, nil
}

func (s *Store) GetBalance(_ context.Context, customerID int64) (*domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amount, ok := s.balances[customerID]
	if !ok {
		return nil, ports.ErrBalanceNotFound
	}
	return &domain.Balance{CustomerID: customerID, Amount: amount}, nil
}

func (s *Store) ListTransactions(_ context.Context, filter ports.TransactionFilter) ([]*domain.Transaction, int64, error) {
	s.mu.RLock()
	matched := make([]*domain.Transaction, 0)
	for i := range s.ledger {
		tx := s.ledger[i]
		if tx.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		matched = append(matched, &tx)
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return pagination.Window(matched, filter.Page), int64(len(matched)), nil
}
