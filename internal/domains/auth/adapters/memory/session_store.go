package memory

import (
	"context"
	"sync"

	"github.com/Apurer/dropship-order-service/internal/domains/auth/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/auth/ports"
)

// SessionStore is an in-memory SessionStore implementation keyed by token.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	s.sessions.Store(session.Token, session)
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (*domain.Session, error) {
	v, ok := s.sessions.Load(token)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := v.(domain.Session)
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.sessions.Delete(token)
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
