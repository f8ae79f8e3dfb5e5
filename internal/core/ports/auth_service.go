package ports

import (
	"context"
	"time"

	"github.com/drowwn/weNote/internal/core/domain"
)

// TokenClaims is what the transport layers need from a verified token.
type TokenClaims struct {
	UserID    string
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// TokenRevoker stores revoked token ids until they would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (string, *domain.User, error)
	// Verify parses a token and rejects it when it has been revoked.
	Verify(ctx context.Context, token string) (*TokenClaims, error)
	Logout(ctx context.Context, claims *TokenClaims) error
	Refresh(ctx context.Context, claims *TokenClaims) (string, error)
}
