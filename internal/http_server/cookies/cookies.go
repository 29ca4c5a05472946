// Package cookies writes and clears the credential cookies.
package cookies

import (
	"net/http"
	"time"

	"session_auth/internal/models"
)

const (
	AccessToken  = "accessToken"
	RefreshToken = "refreshToken"
)

// Options controls how credential cookies are written. Secure should be set
// only in production where the service sits behind TLS.
type Options struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
}

// * SetTokens записывает оба токена в cookies
func SetTokens(w http.ResponseWriter, pair models.TokenPair, opts Options) {
	http.SetCookie(w, build(AccessToken, pair.AccessToken, opts.AccessTTL, opts.Secure))
	http.SetCookie(w, build(RefreshToken, pair.RefreshToken, opts.RefreshTTL, opts.Secure))
}

// * Clear перезаписывает оба cookie пустым истекшим значением
func Clear(w http.ResponseWriter, opts Options) {
	for _, name := range []string{AccessToken, RefreshToken} {
		c := build(name, "", 0, opts.Secure)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

// Value returns the named cookie or an empty string when it is absent.
func Value(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}

	return c.Value
}

func build(name, value string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
