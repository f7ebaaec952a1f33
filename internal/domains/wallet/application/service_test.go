package application_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletmemory "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/memory"
	"github.com/Apurer/dropship-order-service/internal/domains/wallet/application"
	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

type recordingPublisher struct {
	events []domain.TransactionRecorded
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.TransactionRecorded) error {
	p.events = append(p.events, event)
	return p.err
}

var fixedNow = time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

func newService(pub ports.EventPublisher, opts ...application.Option) (*application.Service, *walletmemory.Store) {
	store := walletmemory.NewStore()
	opts = append([]application.Option{
		application.WithClock(func() time.Time { return fixedNow }),
		application.WithPublisher(pub),
	}, opts...)
	return application.NewService(store, opts...), store
}

func TestUpdateBalance_AddThenSubtract(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newService(pub)
	ctx := context.Background()

	res, err := svc.UpdateBalance(ctx, ports.UpdateCommand{CustomerID: 5, Amount: decimal.NewFromInt(100), Type: "add"})
	require.NoError(t, err)
	assert.True(t, res.OldBalance.IsZero())
	assert.True(t, res.NewBalance.Equal(decimal.NewFromInt(100)))

	res, err = svc.UpdateBalance(ctx, ports.UpdateCommand{CustomerID: 5, Amount: decimal.NewFromInt(40), Type: "subtract", Description: "order payment"})
	require.NoError(t, err)
	assert.True(t, res.OldBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, res.NewBalance.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, domain.TransactionSubtract, res.Type)
	assert.NotZero(t, res.TransactionID)

	bal, err := svc.GetBalance(ctx, 5)
	require.NoError(t, err)
	assert.True(t, bal.Found)
	assert.True(t, bal.Balance.Amount.Equal(decimal.NewFromInt(60)))

	page, err := svc.ListTransactions(ctx, ports.TransactionQuery{CustomerID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "order payment", page.Items[0].Description)
	assert.Equal(t, "Wallet add of 100.00", page.Items[1].Description)
	assert.Equal(t, fixedNow, page.Items[0].CreatedAt)

	require.Len(t, pub.events, 2)
	assert.NotEmpty(t, pub.events[0].EventID)
	assert.NotEqual(t, pub.events[0].EventID, pub.events[1].EventID)
	assert.Equal(t, res.TransactionID, pub.events[1].Transaction.ID)
}

func TestUpdateBalance_InsufficientLeavesStateUntouched(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newService(pub)
	ctx := context.Background()
	_, err := svc.UpdateBalance(ctx, ports.UpdateCommand{CustomerID: 2, Amount: decimal.NewFromInt(30), Type: "add"})
	require.NoError(t, err)

	_, err = svc.UpdateBalance(ctx, ports.UpdateCommand{CustomerID: 2, Amount: decimal.NewFromInt(31), Type: "subtract"})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	bal, err := svc.GetBalance(ctx, 2)
	require.NoError(t, err)
	assert.True(t, bal.Balance.Amount.Equal(decimal.NewFromInt(30)))
	page, err := svc.ListTransactions(ctx, ports.TransactionQuery{CustomerID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Len(t, pub.events, 1)
}

func TestUpdateBalance_InvalidInput(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	_, err := svc.UpdateBalance(ctx, ports.UpdateCommand{CustomerID: 1, Amount: decimal.NewFromInt(1), Type: "refund"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)

	_, err = svc.UpdateBalance(ctx, ports.UpdateCommand{CustomerID: 1, Amount: decimal.NewFromInt(-1), Type: "add"})
	assert.ErrorIs(t, err, application.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.UpdateBalance(ctx, ports.UpdateCommand{CustomerID: 0, Amount: decimal.NewFromInt(1), Type: "add"})
	assert.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestUpdateBalance_PublishFailureIsLoggedOnly(t *testing.T) {
	var buf bytes.Buffer
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, _ := newService(pub, application.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))

	res, err := svc.UpdateBalance(context.Background(), ports.UpdateCommand{CustomerID: 8, Amount: decimal.NewFromInt(3), Type: "add"})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(decimal.NewFromInt(3)))
	assert.Contains(t, buf.String(), "failed to publish wallet event")
	assert.Contains(t, buf.String(), "broker down")
}

func TestGetBalance_MissingRowIsZeroAndNotCreated(t *testing.T) {
	svc, store := newService(nil)
	bal, err := svc.GetBalance(context.Background(), 77)
	require.NoError(t, err)
	assert.False(t, bal.Found)
	assert.Equal(t, int64(77), bal.Balance.CustomerID)
	assert.True(t, bal.Balance.Amount.IsZero())

	_, err = store.GetBalance(context.Background(), 77)
	assert.ErrorIs(t, err, ports.ErrBalanceNotFound)
}

func TestListTransactions_Validation(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	_, err := svc.ListTransactions(ctx, ports.TransactionQuery{CustomerID: 1, Type: "bonus"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)

	_, err = svc.ListTransactions(ctx, ports.TransactionQuery{CustomerID: 1, Page: pagination.Request{Page: 1, PageSize: 101}})
	assert.ErrorIs(t, err, application.ErrInvalidInput)
	assert.ErrorIs(t, err, pagination.ErrInvalidPageSize)

	page, err := svc.ListTransactions(ctx, ports.TransactionQuery{CustomerID: 1, Type: "subtract"})
	require.NoError(t, err)
	assert.Equal(t, pagination.DefaultPage, page.Page)
	assert.Equal(t, pagination.DefaultPageSize, page.PageSize)
	assert.Empty(t, page.Items)
}
