package dal

import (
	"context"
	"sync"

	"orders-backend/internal/models"
)

type memo struct {
	once sync.Once
	user *models.User
}

type memoKey struct{}

// WithRequestScope returns a context in which GetCurrentUser resolves at
// most once. Install it once per incoming request.
func WithRequestScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, memoKey{}, &memo{})
}

func memoFrom(ctx context.Context) *memo {
	m, _ := ctx.Value(memoKey{}).(*memo)
	return m
}
