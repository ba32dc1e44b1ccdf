package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/auth"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/services"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	users    services.UserService
	tokens   auth.TokenService
	sessions *auth.SessionStore
	mw       *auth.Middleware
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(users services.UserService, tokens auth.TokenService, sessions *auth.SessionStore, mw *auth.Middleware, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		mw:       mw,
		logger:   logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.mw.RequireAuth(h.Me))
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is returned by register and login. The token is also set in
// the session cookie for browser clients.
type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

// Logout handles POST /api/auth/logout. Clearing the cookie is all there is
// to do; tokens are short-lived and not tracked server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to log out")
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := auth.GetViewer(r.Context())

	user, err := h.users.Get(r.Context(), viewer.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to encode user response", zap.Error(err))
	}
}

// startSession mints a token for the user, sets the session cookie, and
// writes the session response.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("Failed to issue token", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to create session")
		return
	}

	if err := h.sessions.SetToken(w, r, token); err != nil {
		h.logger.Error("Failed to set session cookie", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to create session")
		return
	}

	if err := WriteJSON(w, status, sessionResponse{Token: token, User: user}); err != nil {
		h.logger.Error("Failed to encode session response", zap.Error(err))
	}
}
