package session

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Guard redirects visitors holding an unexpired session token away from
// guest-only pages.
type Guard struct {
	cookieName string
	redirectTo string
	now        func() time.Time
	logger     *zap.Logger
}

func NewGuard(cookieName, redirectTo string, logger *zap.Logger) *Guard {
	return &Guard{
		cookieName: cookieName,
		redirectTo: redirectTo,
		now:        time.Now,
		logger:     logger,
	}
}

// Token returns the session token carried by r, or "".
func (g *Guard) Token(r *http.Request) string {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	if v, err := url.QueryUnescape(cookie.Value); err == nil {
		return v
	}
	return cookie.Value
}

// SignedIn reports whether r carries a token that decodes and has not yet
// expired. Malformed tokens count as signed out.
func (g *Guard) SignedIn(r *http.Request) bool {
	token := g.Token(r)
	if token == "" {
		return false
	}
	ok, err := Unexpired(token, g.now())
	if err != nil {
		g.logger.Debug("Ignoring undecodable session token", zap.Error(err))
		return false
	}
	return ok
}

// GuestOnly wraps a handler for pages meant for signed-out visitors.
func (g *Guard) GuestOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.SignedIn(r) {
			http.Redirect(w, r, g.redirectTo, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
