package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

const maxUploadBytes = 32 << 20

// AuthHandler implements registration, login, and token lifecycle endpoints.
type AuthHandler struct {
	Users   UserStore
	Tokens  TokenService
	Media   MediaStore
	Limiter RateLimiter
	Cookies CookieOptions
	NowFunc func() time.Time
}

// Register handles POST /api/v1/users/register requests. The body is
// multipart form data carrying the profile fields plus a required avatar
// file and an optional cover image.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, span := logging.StartSpan(r.Context(), "user.register")
	defer span.End()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many registration attempts")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid register payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("fullName"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	password := r.FormValue("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		logger.Warn("register missing fields", "username", username)
		respondError(ctx, w, http.StatusBadRequest, "fullName, email, username and password are required")
		return
	}

	if _, err := mail.ParseAddress(email); err != nil {
		logger.Warn("register invalid email", "email", email, "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid email address")
		return
	}

	for _, identifier := range []string{username, email} {
		if _, err := h.Users.FindByIdentifier(ctx, identifier); err == nil {
			logger.Warn("register existing account", "identifier", identifier)
			respondError(ctx, w, http.StatusConflict, "username or email already taken")
			return
		} else if !errors.Is(err, repositories.ErrNotFound) {
			logger.Error("register lookup failed", "error", err, "identifier", identifier)
			respondError(ctx, w, http.StatusInternalServerError, "unable to verify existing accounts")
			return
		}
	}

	avatarURL, err := h.uploadFormFile(r, "avatar", "avatars")
	if err != nil {
		logger.Warn("register avatar upload failed", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "avatar image is required")
		return
	}

	coverURL := ""
	if _, _, err := r.FormFile("coverImage"); err == nil {
		coverURL, err = h.uploadFormFile(r, "coverImage", "covers")
		if err != nil {
			logger.Warn("register cover upload failed", "error", err)
			respondError(ctx, w, http.StatusBadRequest, "cover image upload failed")
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("register failed to hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	now := h.now()
	user := models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
		Password:   string(hashed),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("register conflict", "username", username)
			respondError(ctx, w, http.StatusConflict, "username or email already taken")
			return
		}
		logger.Error("register failed to create user", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create account")
		return
	}

	respondData(ctx, w, http.StatusCreated, models.NewPublicUser(user), "user registered")
}

// Login handles POST /api/v1/users/login requests.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := strings.TrimSpace(strings.ToLower(req.Username))
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Email))
	}
	if identifier == "" {
		logger.Warn("login missing identifier")
		respondError(ctx, w, http.StatusBadRequest, "username or email is required")
		return
	}

	user, err := h.Users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("login unknown identity", "identifier", identifier)
			respondError(ctx, w, http.StatusNotFound, "user does not exist")
			return
		}
		logger.Error("login user lookup failed", "error", err, "identifier", identifier)
		respondError(ctx, w, http.StatusInternalServerError, "unable to look up account")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := h.Tokens.IssuePair(ctx, user.ID)
	if err != nil {
		logger.Error("login failed to issue tokens", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	setAuthCookies(w, h.Cookies, pair)
	respondData(ctx, w, http.StatusOK, loginResponse{
		User:   models.NewPublicUser(user),
		Tokens: pair,
	}, "logged in")
}

// Logout handles POST /api/v1/users/logout requests.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	if err := h.Tokens.Revoke(ctx, viewer.ID); err != nil {
		logging.FromContext(ctx).Error("logout failed to revoke tokens", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to log out")
		return
	}

	clearAuthCookies(w, h.Cookies)
	respondData(ctx, w, http.StatusOK, nil, "logged out")
}

// RefreshToken handles POST /api/v1/users/refresh-token requests. The
// refresh token is read from the transport cookie or the request body.
func (h AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "refresh") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many refresh attempts")
		return
	}

	presented := refreshTokenFromRequest(r)
	if presented == "" {
		logger.Warn("missing refresh token")
		respondError(ctx, w, http.StatusUnauthorized, "refresh token is required")
		return
	}

	pair, err := h.Tokens.Rotate(ctx, presented)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenReused):
			logger.Warn("refresh token reuse detected")
			respondError(ctx, w, http.StatusUnauthorized, "refresh token is expired or used")
		case errors.Is(err, auth.ErrTokenInvalid):
			logger.Warn("invalid refresh token")
			respondError(ctx, w, http.StatusUnauthorized, "invalid refresh token")
		default:
			logger.Error("refresh failed", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "unable to refresh session")
		}
		return
	}

	setAuthCookies(w, h.Cookies, pair)
	respondData(ctx, w, http.StatusOK, pair, "tokens refreshed")
}

// ChangePassword handles POST /api/v1/users/change-password requests.
func (h AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid change password payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.NewPassword == "" {
		respondError(ctx, w, http.StatusBadRequest, "new password is required")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(viewer.Password), []byte(req.OldPassword)); err != nil {
		logger.Warn("change password old mismatch", "userId", viewer.ID)
		respondError(ctx, w, http.StatusBadRequest, "old password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("change password failed to hash", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	if err := h.Users.UpdatePassword(ctx, viewer.ID, string(hashed)); err != nil {
		logger.Error("change password failed to persist", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to change password")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "password changed")
}

func (h AuthHandler) uploadFormFile(r *http.Request, field, prefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := prefix + "/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
	return h.Media.Save(r.Context(), key, file)
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.RefreshToken)
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User   models.PublicUser `json:"user"`
	Tokens models.TokenPair  `json:"tokens"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
