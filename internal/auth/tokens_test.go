package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

type memoryIdentityStore struct {
	users map[string]models.User
}

func newMemoryIdentityStore(ids ...string) *memoryIdentityStore {
	store := &memoryIdentityStore{users: make(map[string]models.User)}
	for _, id := range ids {
		store.users[id] = models.User{ID: id}
	}
	return store
}

func (s *memoryIdentityStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memoryIdentityStore) SetRefreshToken(_ context.Context, id, token string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[id] = user
	return nil
}

func (s *memoryIdentityStore) SwapRefreshToken(_ context.Context, id, current, next string) error {
	user, ok := s.users[id]
	if !ok || user.RefreshToken != current {
		return repositories.ErrNotFound
	}
	user.RefreshToken = next
	s.users[id] = user
	return nil
}

func (s *memoryIdentityStore) ClearRefreshToken(_ context.Context, id string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = ""
	s.users[id] = user
	return nil
}

func newTestManager(store *memoryIdentityStore) *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour, store)
}

func TestTokenManagerIssueAndVerify(t *testing.T) {
	store := newMemoryIdentityStore("user-1")
	manager := newTestManager(store)

	pair, err := manager.IssuePair(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens to be issued, got %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	userID, err := manager.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %s", userID)
	}

	if store.users["user-1"].RefreshToken != pair.RefreshToken {
		t.Fatal("expected refresh token to be persisted on the user record")
	}
}

func TestTokenManagerVerifyRejectsBadTokens(t *testing.T) {
	store := newMemoryIdentityStore("user-1")
	manager := newTestManager(store)

	pair, err := manager.IssuePair(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if _, err := manager.VerifyAccess(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}

	if _, err := manager.VerifyAccess("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage token, got %v", err)
	}

	// A refresh token is signed with a different secret and must not pass
	// access verification.
	if _, err := manager.VerifyAccess(pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for refresh token, got %v", err)
	}

	other := NewTokenManager("other-secret", "refresh-secret", time.Minute, time.Hour, store)
	if _, err := other.VerifyAccess(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid across secrets, got %v", err)
	}
}

func TestTokenManagerVerifyExpiredAccess(t *testing.T) {
	store := newMemoryIdentityStore("user-1")
	manager := newTestManager(store)

	issued := time.Now().UTC()
	manager.NowFunc = func() time.Time { return issued }

	pair, err := manager.IssuePair(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	manager.NowFunc = func() time.Time { return issued.Add(2 * time.Minute) }

	if _, err := manager.VerifyAccess(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after expiry, got %v", err)
	}
}

func TestTokenManagerRotate(t *testing.T) {
	store := newMemoryIdentityStore("user-1")
	manager := newTestManager(store)
	ctx := context.Background()

	first, err := manager.IssuePair(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	// Signing is deterministic per second, so advance the clock to force a
	// distinct rotated token.
	manager.NowFunc = func() time.Time { return time.Now().UTC().Add(time.Second) }

	second, err := manager.Rotate(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}

	if second.RefreshToken == first.RefreshToken {
		t.Fatal("expected rotation to mint a fresh refresh token")
	}
	if store.users["user-1"].RefreshToken != second.RefreshToken {
		t.Fatal("expected rotated token to replace the persisted one")
	}

	if _, err := manager.VerifyAccess(second.AccessToken); err != nil {
		t.Fatalf("verify rotated access token: %v", err)
	}

	// The consumed token must be rejected from now on.
	if _, err := manager.Rotate(ctx, first.RefreshToken); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused replaying old token, got %v", err)
	}

	// The rotation chain stays intact for the current token.
	if _, err := manager.Rotate(ctx, second.RefreshToken); err != nil {
		t.Fatalf("rotate current token: %v", err)
	}
}

func TestTokenManagerRotateUnknownIdentity(t *testing.T) {
	store := newMemoryIdentityStore("user-1")
	manager := newTestManager(store)
	ctx := context.Background()

	pair, err := manager.IssuePair(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	delete(store.users, "user-1")

	if _, err := manager.Rotate(ctx, pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for deleted identity, got %v", err)
	}
}

func TestTokenManagerRevoke(t *testing.T) {
	store := newMemoryIdentityStore("user-1")
	manager := newTestManager(store)
	ctx := context.Background()

	pair, err := manager.IssuePair(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	if err := manager.Revoke(ctx, "user-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if store.users["user-1"].RefreshToken != "" {
		t.Fatal("expected persisted refresh token to be cleared")
	}

	if _, err := manager.Rotate(ctx, pair.RefreshToken); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused after revoke, got %v", err)
	}
}
