package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mvailles/inkwell/internal/service"
)

// NewRouter constructs the HTTP handler serving the API. Read endpoints are
// public; mutating post endpoints require a valid session cookie; the
// credential endpoints sit behind a per-IP rate limit.
func NewRouter(
	auth *AuthHandler,
	posts *PostHandler,
	tokens *service.TokenService,
	authLimiter *service.TokenBucket,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(SecurityHeaders)

	r.Get("/healthz", HandleHealthz)

	// Credential endpoints, rate limited per client IP.
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return RateLimit(authLimiter, next)
		})
		r.Post("/register", auth.HandleRegister)
		r.Post("/login", auth.HandleLogin)
	})

	r.Post("/logout", auth.HandleLogout)

	// Public reads bypass the authorization guard entirely.
	r.Get("/posts", posts.HandleList)
	r.Get("/suggestions", posts.HandleSuggestions)
	r.Get("/post/{id}", posts.HandleGet)
	r.Get("/post/{id}/cover", posts.HandleCover)

	// Session-guarded endpoints.
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return RequireAuth(tokens, next)
		})
		r.Get("/profile", auth.HandleProfile)
		r.Post("/post", posts.HandleCreate)
		r.Put("/post", posts.HandleUpdate)
		r.Delete("/post/{id}", posts.HandleDelete)
	})

	return r
}
