package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jaevor/go-nanoid"

	"github.com/Apurer/dropship-order-service/internal/domains/auth/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/auth/ports"
)

const (
	// DefaultSessionTTL applies when no TTL is configured.
	DefaultSessionTTL = 24 * time.Hour
	tokenLength       = 32
)

// Authenticator verifies bearer tokens against a session store and issues new
// sessions.
type Authenticator struct {
	store    ports.SessionStore
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

type Option func(*Authenticator)

func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAuthenticator(store ports.SessionStore, opts ...Option) (*Authenticator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	gen, err := nanoid.Standard(tokenLength)
	if err != nil {
		return nil, err
	}
	a := &Authenticator{
		store:    store,
		ttl:      DefaultSessionTTL,
		now:      func() time.Time { return time.Now().UTC() },
		newToken: gen,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// Authenticate returns the identity behind token. Lookup failures other than
// a missing session are returned as is so they surface as server errors.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	session, err := a.store.Lookup(ctx, token)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return domain.Identity{}, err
	}
	if session.Expired(a.now()) || session.CustomerID < 0 {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return domain.Identity{CustomerID: session.CustomerID}, nil
}

// IssueSession stores a fresh random token for customerID.
func (a *Authenticator) IssueSession(ctx context.Context, customerID int64) (*domain.Session, error) {
	return a.Register(ctx, a.newToken(), customerID)
}

// Register stores a caller-chosen token, used to seed known tokens.
func (a *Authenticator) Register(ctx context.Context, token string, customerID int64) (*domain.Session, error) {
	expires := a.now().Add(a.ttl)
	session := domain.Session{Token: strings.TrimSpace(token), CustomerID: customerID, ExpiresAt: &expires}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

var _ ports.Authenticator = (*Authenticator)(nil)
