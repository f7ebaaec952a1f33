package ports

import (
	"context"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// ListOrdersInput carries raw listing parameters as received from the caller.
// Dates, source and sort are parsed by the service.
type ListOrdersInput struct {
	View     domain.ViewName
	Scope    domain.Scope
	FromDate string
	ToDate   string
	Search   string
	Source   string
	SortBy   string
	Page     pagination.Request
}

// OrderList is one page of a view.
type OrderList struct {
	View   domain.View
	Orders pagination.Page[*domain.Order]
}

// Service exposes order use cases.
type Service interface {
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderList, error)
	GetOrder(ctx context.Context, scope domain.Scope, id int64) (*domain.Order, error)
}
