package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	walletmemory "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/memory"
	walletapp "github.com/Apurer/dropship-order-service/internal/domains/wallet/application"
	walletdomain "github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	walletports "github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
)

func TestUpdateBalance_TracesLogsAndCounts(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	meters := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var buf bytes.Buffer

	svc := New(walletapp.NewService(walletmemory.NewStore()),
		WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		WithTracer(provider.Tracer("test")),
		WithMeter(meters.Meter("test")),
	)
	ctx := context.Background()

	_, err := svc.UpdateBalance(ctx, walletports.UpdateCommand{CustomerID: 1, Amount: decimal.NewFromInt(5), Type: "add"})
	require.NoError(t, err)
	_, err = svc.UpdateBalance(ctx, walletports.UpdateCommand{CustomerID: 1, Amount: decimal.NewFromInt(50), Type: "subtract"})
	require.ErrorIs(t, err, walletdomain.ErrInsufficientBalance)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "WalletService.UpdateBalance", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int64("wallet.transaction_id", 1))

	logs := buf.String()
	assert.Contains(t, logs, "wallet balance updated")
	assert.Contains(t, logs, "failed to update wallet balance")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					counts[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), counts["wallet.service.updated"])
	assert.Equal(t, int64(1), counts["wallet.service.rejected"])
}

func TestGetBalance_PassesThrough(t *testing.T) {
	svc := New(walletapp.NewService(walletmemory.NewStore()))
	res, err := svc.GetBalance(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, res.Found)

	page, err := svc.ListTransactions(context.Background(), walletports.TransactionQuery{CustomerID: 4})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}
