package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/auth"
	"github.com/showcase-labs/showcase-engine/pkg/services"
)

// DashboardHandler serves the landing-page feed.
type DashboardHandler struct {
	dashboard services.DashboardService
	mw        *auth.Middleware
	logger    *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler with dependencies.
func NewDashboardHandler(dashboard services.DashboardService, mw *auth.Middleware, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, mw: mw, logger: logger}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.mw.OptionalAuth(h.Get))
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboard.Get(r.Context(), auth.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, dashboard); err != nil {
		h.logger.Error("Failed to encode dashboard response", zap.Error(err))
	}
}
