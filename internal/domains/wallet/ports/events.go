package ports

import (
	"context"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
)

// EventPublisher announces committed ledger changes.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.TransactionRecorded) error
}

// NoopPublisher is used when no broker is configured.
var NoopPublisher EventPublisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.TransactionRecorded) error { return nil }
