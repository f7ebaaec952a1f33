package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
)

// DefaultTopic receives wallet ledger events when none is configured.
const DefaultTopic = "wallet.transactions"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes TransactionRecorded events to Kafka keyed by customer id,
// so one customer's events stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}, nil
}

type transactionEvent struct {
	EventID       string    `json:"event_id"`
	EventName     string    `json:"event_name"`
	OccurredAt    time.Time `json:"occurred_at"`
	TransactionID int64     `json:"transaction_id"`
	CustomerID    int64     `json:"customer_id"`
	Type          string    `json:"transaction_type"`
	Amount        string    `json:"amount"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p *Publisher) Publish(ctx context.Context, event domain.TransactionRecorded) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func buildMessage(event domain.TransactionRecorded) (kafka.Message, error) {
	tx := event.Transaction
	value, err := json.Marshal(transactionEvent{
		EventID:       event.EventID,
		EventName:     event.EventName(),
		OccurredAt:    event.OccurredAt(),
		TransactionID: tx.ID,
		CustomerID:    tx.CustomerID,
		Type:          string(tx.Type),
		Amount:        tx.Amount.StringFixed(2),
		BalanceBefore: tx.BalanceBefore.StringFixed(2),
		BalanceAfter:  tx.BalanceAfter.StringFixed(2),
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
	})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(tx.CustomerID, 10)),
		Value: value,
		Time:  event.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event_name", Value: []byte(event.EventName())},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}, nil
}

var _ ports.EventPublisher = (*Publisher)(nil)
