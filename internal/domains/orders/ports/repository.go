package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository is the read side of the order store.
type Repository interface {
	// Find returns the requested page of orders matching q, with line items, and
	// the size of the whole filtered set.
	Find(ctx context.Context, q domain.Query) ([]*domain.Order, int64, error)
	// GetByID loads one order with its line items.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}
