package handlers

import (
	"net/http"
	"time"

	"github.com/clipstream/backend/internal/models"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// CookieOptions controls the transport-level credential cookies.
type CookieOptions struct {
	Domain string
	Secure bool
}

func setAuthCookies(w http.ResponseWriter, opts CookieOptions, pair models.TokenPair) {
	http.SetCookie(w, authCookie(opts, accessCookieName, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, authCookie(opts, refreshCookieName, pair.RefreshToken, pair.RefreshExpiresAt))
}

func clearAuthCookies(w http.ResponseWriter, opts CookieOptions) {
	expired := time.Unix(0, 0)
	http.SetCookie(w, authCookie(opts, accessCookieName, "", expired))
	http.SetCookie(w, authCookie(opts, refreshCookieName, "", expired))
}

func authCookie(opts CookieOptions, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
