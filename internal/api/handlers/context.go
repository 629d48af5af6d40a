package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/Noor7086/Obyyo-sub002/internal/auth"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/models"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "obyyo_session"

type contextKey struct{ name string }

var (
	userKey  = &contextKey{"user"}
	tokenKey = &contextKey{"token"}
)

// WithUser returns a context carrying the authenticated user and their token.
func WithUser(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// SessionToken reads the bearer token from the Authorization header, falling
// back to the session cookie.
func SessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// clientInfo describes the caller. RemoteAddr has already been rewritten by
// the RealIP middleware when a proxy header is present.
func clientInfo(r *http.Request) auth.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return auth.ClientInfo{IP: ip, UserAgent: r.UserAgent()}
}
