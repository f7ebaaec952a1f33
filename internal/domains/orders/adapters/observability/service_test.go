package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	ordermemory "github.com/Apurer/dropship-order-service/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/dropship-order-service/internal/domains/orders/application"
	orderdomain "github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	orderports "github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
)

func newDecorated(t *testing.T) (orderports.Service, *tracetest.SpanRecorder, *bytes.Buffer, *ordermemory.Repository) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	var buf bytes.Buffer
	repo := ordermemory.NewRepository()
	svc := New(orderapp.NewService(repo),
		WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		WithTracer(provider.Tracer("test")),
	)
	return svc, recorder, &buf, repo
}

func TestListOrders_RecordsSpanAndLogs(t *testing.T) {
	svc, recorder, buf, repo := newDecorated(t)
	_, err := repo.Save(context.Background(), &orderdomain.Order{ID: 1, Status: orderdomain.Statuses{Lifecycle: orderdomain.LifecycleCancelled}})
	require.NoError(t, err)

	list, err := svc.ListOrders(context.Background(), orderports.ListOrdersInput{
		View:  orderdomain.ViewCancelled,
		Scope: orderdomain.Unscoped(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Orders.TotalCount)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "OrderService.ListOrders", spans[0].Name())
	assert.Contains(t, buf.String(), "orders listed")
}

func TestGetOrder_MissingMarksSpanError(t *testing.T) {
	svc, recorder, buf, _ := newDecorated(t)

	_, err := svc.GetOrder(context.Background(), orderdomain.Unscoped(), 404)
	require.ErrorIs(t, err, orderports.ErrNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, buf.String(), "failed to load order")
}
