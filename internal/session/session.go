// Package session resolves opaque request credentials into sessions and
// carries the result through request contexts.
package session

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned by resolvers for tokens they cannot accept.
var ErrInvalidToken = errors.New("invalid session token")

type Session struct {
	UserID string
	Email  string
}

// Resolver turns a bearer/cookie token into a Session.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Session, error)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// Chain tries each resolver in order and returns the first session found.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, token string) (*Session, error) {
	var errs []error
	for _, r := range c {
		if r == nil {
			continue
		}
		s, err := r.Resolve(ctx, token)
		if err == nil && s != nil {
			return s, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil, ErrInvalidToken
	}
	return nil, errors.Join(errs...)
}
