package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

const minPasswordLen = 8

// AuthService implements registration, login and token lifecycle.
type AuthService struct {
	repo        ports.UserRepository
	revoker     ports.TokenRevoker
	jwtSecret   string
	tokenTTL    time.Duration
	rememberTTL time.Duration
}

func NewAuthService(repo ports.UserRepository, revoker ports.TokenRevoker, jwtSecret string, tokenTTL, rememberTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 2 * time.Hour
	}
	if rememberTTL <= 0 {
		rememberTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		repo:        repo,
		revoker:     revoker,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		rememberTTL: rememberTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < minPasswordLen {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	ttl := s.tokenTTL
	if rememberMe {
		ttl = s.rememberTTL
	}
	token, err := s.generateToken(user.ID, user.Username, ttl)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Verify checks the signature and expiry of token and consults the revocation
// store. A revocation lookup failure is returned as an error rather than
// letting the token through.
func (s *AuthService) Verify(ctx context.Context, token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	out := &ports.TokenClaims{}
	out.UserID, _ = claims["sub"].(string)
	out.Username, _ = claims["username"].(string)
	out.TokenID, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if out.UserID == "" || out.TokenID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	revoked, err := s.revoker.IsRevoked(ctx, out.TokenID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}
	return out, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *ports.TokenClaims) error {
	until := claims.ExpiresAt
	if until.IsZero() {
		until = time.Now().Add(s.rememberTTL)
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, until); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Refresh revokes the presented token and issues a fresh one for the same user.
func (s *AuthService) Refresh(ctx context.Context, claims *ports.TokenClaims) (string, error) {
	token, err := s.generateToken(claims.UserID, claims.Username, s.rememberTTL)
	if err != nil {
		return "", err
	}
	if err := s.Logout(ctx, claims); err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	return token, nil
}

func (s *AuthService) generateToken(userID, username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
