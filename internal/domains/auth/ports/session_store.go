package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dropship-order-service/internal/domains/auth/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts session/token persistence.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Lookup(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// Authenticator resolves bearer tokens for transport middleware.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}
