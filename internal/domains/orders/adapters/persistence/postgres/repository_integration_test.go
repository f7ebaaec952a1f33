//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	"github.com/Apurer/dropship-order-service/internal/platform/postgres/pgtest"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

func seedOrders(t *testing.T, repo *Repository) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 10; day++ {
		status := domain.Statuses{Lifecycle: domain.LifecycleOS, Payment: domain.PaymentUnpaid}
		if day%2 == 1 {
			status = domain.Statuses{Lifecycle: domain.LifecycleOB, Payment: domain.PaymentPaid, Shipping: domain.ShippingUnshipped}
		}
		_, err := repo.Create(context.Background(), &domain.Order{
			Serial:        fmt.Sprintf("SN-%03d", day+1),
			BuyerID:       int64(day%2 + 1),
			SellerID:      77,
			Source:        day % 3,
			DatePurchased: base.AddDate(0, 0, day),
			LastModified:  base.AddDate(0, 1, -day),
			CurrencyValue: decimal.RequireFromString(fmt.Sprintf("%d.50", 100+day*10)),
			ShippingFee:   decimal.RequireFromString("4.50"),
			AmazonOrderID: fmt.Sprintf("AMZ-%d", day+1),
			DeliveryName:  fmt.Sprintf("Customer %d", day+1),
			Status:        status,
			LineItems: []domain.LineItem{
				{ProductID: 11, Quantity: 2, Model: "M-1", UnitPrice: decimal.NewFromInt(20), FinalPrice: decimal.NewFromInt(40)},
				{ProductID: 12, Quantity: 1, Model: "M-2", UnitPrice: decimal.NewFromInt(30), FinalPrice: decimal.NewFromInt(30)},
			},
		})
		require.NoError(t, err)
	}
}

func TestRepository_FindFiltersCountsAndPages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := pgtest.Start(t, "orders_test")
	defer cleanup()

	repo := NewRepository(db)
	seedOrders(t, repo)
	ctx := context.Background()

	from, _ := domain.ParseLowerBound("2024-01-05")
	page, err := pagination.New(1, 2)
	require.NoError(t, err)
	orders, total, err := repo.Find(ctx, domain.Query{
		Scope:     domain.Unscoped(),
		Purchased: domain.DateRange{From: &from},
		Sort:      domain.ParseSort("pricedesc"),
		Page:      page,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "SN-010", orders[0].Serial)
	assert.Equal(t, "SN-009", orders[1].Serial)
	assert.Equal(t, 3, orders[0].TotalQuantity())

	view, _ := domain.LookupView(domain.ViewWaitForShipping)
	shipping, total, err := repo.Find(ctx, domain.Query{
		Scope:  domain.ScopeFor(2),
		Status: view.Predicate,
		Search: "customer",
		Sort:   domain.ParseSort("date"),
		Page:   pagination.Default(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	for _, o := range shipping {
		assert.Equal(t, int64(2), o.BuyerID)
		assert.Equal(t, domain.ShippingUnshipped, o.Status.Shipping)
	}
}

func TestRepository_GetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := pgtest.Start(t, "orders_test")
	defer cleanup()

	repo := NewRepository(db)
	seedOrders(t, repo)
	ctx := context.Background()

	list, _, err := repo.Find(ctx, domain.Query{Search: "AMZ-4", Page: pagination.Default()})
	require.NoError(t, err)
	require.Len(t, list, 1)

	order, err := repo.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "SN-004", order.Serial)
	require.Len(t, order.LineItems, 2)
	assert.Equal(t, "M-1", order.LineItems[0].Model)
	assert.True(t, decimal.NewFromInt(40).Equal(order.LineItems[0].FinalPrice))

	_, err = repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
