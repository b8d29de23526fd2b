package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

var (
	// ErrTokenInvalid indicates the presented token is missing, malformed,
	// expired, or names an identity that no longer exists.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrTokenReused indicates the refresh token no longer matches the
	// persisted value: it is expired or was already used.
	ErrTokenReused = errors.New("refresh token expired or used")
)

// IdentityStore is the slice of the user repository the token manager needs
// to persist refresh tokens.
type IdentityStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	SwapRefreshToken(ctx context.Context, id, current, next string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// TokenManager issues and validates paired access and refresh tokens. Both
// are HS256-signed JWTs; the refresh token is additionally persisted on the
// user record, so only the most recently issued refresh token is accepted.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	users IdentityStore

	// NowFunc overrides the time source in tests.
	NowFunc func() time.Time
}

// NewTokenManager constructs a TokenManager signing with the provided secrets.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, users IdentityStore) *TokenManager {
	if users == nil {
		panic("auth: identity store must not be nil")
	}
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		users:         users,
	}
}

// IssuePair signs a new access/refresh token pair for the user and persists
// the refresh token, replacing any previously issued one.
func (m *TokenManager) IssuePair(ctx context.Context, userID string) (models.TokenPair, error) {
	if userID == "" {
		return models.TokenPair{}, errors.New("user id must be provided")
	}

	now := m.now()
	accessExpiry := now.Add(m.accessTTL)
	refreshExpiry := now.Add(m.refreshTTL)

	accessToken, err := signToken(m.accessSecret, userID, now, accessExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := signToken(m.refreshSecret, userID, now, refreshExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := m.users.SetRefreshToken(ctx, userID, refreshToken); err != nil {
		return models.TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return models.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// Rotate exchanges a refresh token for a fresh pair. The persisted token is
// compared and replaced in a single conditional write, so an old refresh
// token becomes unusable the moment a newer one is issued.
func (m *TokenManager) Rotate(ctx context.Context, presented string) (models.TokenPair, error) {
	userID, err := m.verify(m.refreshSecret, presented)
	if err != nil {
		return models.TokenPair{}, err
	}

	if _, err := m.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.TokenPair{}, ErrTokenInvalid
		}
		return models.TokenPair{}, fmt.Errorf("load identity: %w", err)
	}

	now := m.now()
	accessExpiry := now.Add(m.accessTTL)
	refreshExpiry := now.Add(m.refreshTTL)

	accessToken, err := signToken(m.accessSecret, userID, now, accessExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := signToken(m.refreshSecret, userID, now, refreshExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := m.users.SwapRefreshToken(ctx, userID, presented, refreshToken); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.TokenPair{}, ErrTokenReused
		}
		return models.TokenPair{}, fmt.Errorf("swap refresh token: %w", err)
	}

	return models.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// Revoke clears the persisted refresh token, invalidating any previously
// issued refresh token for the user.
func (m *TokenManager) Revoke(ctx context.Context, userID string) error {
	if err := m.users.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// VerifyAccess checks an access token's signature and expiry and returns the
// identity it names.
func (m *TokenManager) VerifyAccess(token string) (string, error) {
	return m.verify(m.accessSecret, token)
}

func (m *TokenManager) verify(secret []byte, token string) (string, error) {
	if token == "" {
		return "", ErrTokenInvalid
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

func (m *TokenManager) now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return time.Now().UTC()
}

func signToken(secret []byte, subject string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
