package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
	"orders-backend/internal/config"
	"orders-backend/internal/session"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// AuthResolver resolves Supabase Auth access tokens into sessions.
type AuthResolver struct {
	client *supabase.Client
}

func NewAuthResolver(c *Client) *AuthResolver {
	return &AuthResolver{client: c.Supabase}
}

func (r *AuthResolver) Resolve(_ context.Context, token string) (*session.Session, error) {
	user, err := r.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrInvalidToken, err)
	}
	if user == nil {
		return nil, session.ErrInvalidToken
	}
	return &session.Session{UserID: user.ID.String(), Email: user.Email}, nil
}
