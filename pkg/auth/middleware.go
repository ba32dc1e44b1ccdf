package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates token validation to TokenService.
type Middleware struct {
	tokens   TokenService
	sessions *SessionStore
	logger   *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(tokens TokenService, sessions *SessionStore, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth validates the access token from the Bearer header or session
// cookie and sets claims in context for downstream handlers. Requests
// without a valid token get 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := m.sessions.TokenFromRequest(r)
		if tokenStr == "" {
			m.unauthorized(w, "Unauthorized: Please log in")
			return
		}

		claims, err := m.tokens.Parse(tokenStr)
		if err != nil {
			m.logger.Debug("Token validation failed", zap.Error(err))
			m.unauthorized(w, "Unauthorized: Please log in")
			return
		}

		next(w, r.WithContext(m.withClaims(r.Context(), claims, tokenStr)))
	}
}

// OptionalAuth sets claims in context when a valid token is present but lets
// anonymous requests through. Used on listing endpoints where the visibility
// policy depends on who is asking.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := m.sessions.TokenFromRequest(r)
		if tokenStr == "" {
			next(w, r)
			return
		}

		claims, err := m.tokens.Parse(tokenStr)
		if err != nil {
			// Expired or garbage token on an optional route: treat as guest.
			next(w, r)
			return
		}

		next(w, r.WithContext(m.withClaims(r.Context(), claims, tokenStr)))
	}
}

// RequireStaff validates the token and additionally requires a teacher or
// admin role. Authenticated non-staff callers get 403.
func (m *Middleware) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		viewer := GetViewer(r.Context())
		if !viewer.IsStaff() {
			m.logger.Warn("Non-staff user attempted staff-only operation",
				zap.String("path", r.URL.Path),
				zap.String("user_id", viewer.ID.String()))
			m.forbidden(w, "Staff role required")
			return
		}
		next(w, r)
	})
}

func (m *Middleware) withClaims(ctx context.Context, claims *Claims, token string) context.Context {
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return context.WithValue(ctx, TokenKey, token)
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": message,
	})
}
