package handler

import (
	"context"
	"net"
	"net/http"

	"github.com/mvailles/inkwell/internal/service"
)

// sessionCookie is the cookie carrying the signed session token.
const sessionCookie = "token"

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext extracts the verified session claims from the request
// context. Returns the zero value and false if the request is
// unauthenticated.
func ClaimsFromContext(ctx context.Context) (service.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(service.Claims)
	return claims, ok
}

// RequireAuth protects routes requiring a valid session. It reads the token
// cookie, verifies it, and injects the decoded claims into the request
// context. A missing or unverifiable token yields 401, never a crash.
func RequireAuth(tokens *service.TokenService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}

		claims, err := tokens.Verify(cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimit rejects requests with 429 when the client IP has exhausted its
// token bucket. Used on the credential endpoints.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets baseline security response headers on every request.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
