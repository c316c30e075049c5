package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	requestIDContextKey contextKey = "request_id"

	authCookieName = "auth_token"
)

// PrincipalFromContext returns the principal resolved for the request, or
// the unauthenticated principal if no auth middleware ran.
func PrincipalFromContext(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(principalContextKey).(domain.Principal)
	return p
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := PrincipalFromContext(ctx).User()
	return user
}

// RequestIDFromContext returns the id RequestLogger assigned to the request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// RequireAuth protects API-style routes. Unauthenticated requests get a
// 401 JSON error.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return withPrincipal(auth, func(w http.ResponseWriter, r *http.Request, p domain.Principal) {
		if !p.IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "You must be logged in to do that.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage protects page routes. Unauthenticated requests are redirected
// to the login page.
func RequirePage(auth *service.AuthService, next http.Handler) http.Handler {
	return withPrincipal(auth, func(w http.ResponseWriter, r *http.Request, p domain.Principal) {
		if !p.IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth resolves the principal but lets anonymous requests through.
func OptionalAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return withPrincipal(auth, func(w http.ResponseWriter, r *http.Request, _ domain.Principal) {
		next.ServeHTTP(w, r)
	})
}

// withPrincipal resolves the auth cookie, stores the principal in the
// request context and hands both to fn. Store failures end the request
// with a 500.
func withPrincipal(auth *service.AuthService, fn func(http.ResponseWriter, *http.Request, domain.Principal)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(authCookieName); err == nil {
			token = cookie.Value
		}

		p, err := auth.Resolve(r.Context(), token)
		if err != nil {
			slog.Error("resolve session", "error", err, "request_id", RequestIDFromContext(r.Context()))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, p)
		fn(w, r.WithContext(ctx), p)
	})
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps SSE responses streaming through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger tags each request with an id (reusing a valid incoming
// X-Request-ID) and logs it once it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(rec, r.WithContext(ctx))

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		slog.Info("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	})
}

// clientIP returns the remote host used as the rate-limit key.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
