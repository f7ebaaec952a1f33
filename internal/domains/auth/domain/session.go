package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrUnauthenticated covers missing, unknown and expired bearer tokens alike.
var ErrUnauthenticated = errors.New("invalid authentication credentials")

// Session binds an opaque bearer token to a customer.
type Session struct {
	Token      string
	CustomerID int64
	ExpiresAt  *time.Time
}

// Expired reports whether s is no longer valid at now. Sessions without an
// expiry never expire.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Validate checks the fields a store needs.
func (s Session) Validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return errors.New("session token is required")
	}
	if s.CustomerID < 0 {
		return errors.New("session customer id must not be negative")
	}
	return nil
}

// Identity is the verified caller attached to a request. CustomerID 0 is the
// operator account whose order listings are not restricted to one buyer.
type Identity struct {
	CustomerID int64
}
