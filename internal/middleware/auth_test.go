package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

type fakeVerifier struct {
	tokens map[string]string
}

func (f fakeVerifier) VerifyAccess(token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", auth.ErrTokenInvalid
	}
	return userID, nil
}

type fakeViewerLoader struct {
	users map[string]models.User
}

func (f fakeViewerLoader) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func requireAuthFixture() (func(http.HandlerFunc) http.HandlerFunc, models.User) {
	user := models.User{ID: "user-1", Username: "ada"}
	verifier := fakeVerifier{tokens: map[string]string{"valid-token": user.ID, "orphan-token": "ghost"}}
	loader := fakeViewerLoader{users: map[string]models.User{user.ID: user}}
	return RequireAuth(verifier, loader), user
}

func TestRequireAuthFromCookie(t *testing.T) {
	wrap, user := requireAuthFixture()

	var viewer models.User
	var attached bool
	handler := wrap(func(w http.ResponseWriter, r *http.Request) {
		viewer, attached = auth.ViewerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "valid-token"})
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d got %d", http.StatusNoContent, rec.Code)
	}
	if !attached || viewer.ID != user.ID {
		t.Fatalf("expected viewer %s on context, got %+v", user.ID, viewer)
	}
}

func TestRequireAuthFromBearerHeader(t *testing.T) {
	wrap, user := requireAuthFixture()

	var viewer models.User
	handler := wrap(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ = auth.ViewerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d got %d", http.StatusNoContent, rec.Code)
	}
	if viewer.ID != user.ID {
		t.Fatalf("expected viewer %s, got %+v", user.ID, viewer)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	wrap, _ := requireAuthFixture()

	handler := wrap(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for rejected requests")
	})

	cases := []struct {
		name    string
		prepare func(r *http.Request)
	}{
		{"missing token", func(*http.Request) {}},
		{"invalid token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer bogus")
		}},
		{"deleted identity", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "accessToken", Value: "orphan-token"})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets", nil)
			tc.prepare(req)
			rec := httptest.NewRecorder()

			handler(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Fatalf("expected json error envelope, got %s", got)
			}
		})
	}
}
