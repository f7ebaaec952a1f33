package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() domain.TransactionRecorded {
	at := time.Date(2024, 8, 2, 15, 4, 5, 0, time.UTC)
	return domain.TransactionRecorded{
		EventID:   "evt-1",
		Timestamp: at,
		Transaction: domain.Transaction{
			ID:            12,
			CustomerID:    901,
			Amount:        decimal.RequireFromString("40"),
			Type:          domain.TransactionSubtract,
			Description:   "order 5",
			BalanceBefore: decimal.RequireFromString("100"),
			BalanceAfter:  decimal.RequireFromString("60"),
			CreatedAt:     at,
		},
	}
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "901", string(msg.Key))
	assert.Equal(t, time.Date(2024, 8, 2, 15, 4, 5, 0, time.UTC), msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "wallet.transaction.recorded", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "evt-1", body["event_id"])
	assert.Equal(t, "subtract", body["transaction_type"])
	assert.Equal(t, "40.00", body["amount"])
	assert.Equal(t, "60.00", body["balance_after"])
	assert.EqualValues(t, 12, body["transaction_id"])
}

func TestPublisher_WritesAndPropagatesErrors(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)

	w.err = errors.New("leader not available")
	assert.EqualError(t, p.Publish(context.Background(), sampleEvent()), "leader not available")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewPublisher(nil, "")
	assert.Error(t, err)

	p, err := NewPublisher([]string{"localhost:9092"}, "")
	require.NoError(t, err)
	writer, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, writer.Topic)
}
