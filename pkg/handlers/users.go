package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/auth"
	"github.com/showcase-labs/showcase-engine/pkg/config"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/services"
	"github.com/showcase-labs/showcase-engine/pkg/storage"
)

// UsersHandler serves public user profiles, stats and resumes.
type UsersHandler struct {
	users   services.UserService
	files   *storage.FileStore
	uploads config.UploadsConfig
	mw      *auth.Middleware
	logger  *zap.Logger
}

// NewUsersHandler creates a new UsersHandler with dependencies.
func NewUsersHandler(users services.UserService, files *storage.FileStore, uploads config.UploadsConfig, mw *auth.Middleware, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		users:   users,
		files:   files,
		uploads: uploads,
		mw:      mw,
		logger:  logger,
	}
}

// RegisterRoutes registers the user handler's routes on the given mux.
// Resume upload and deletion are restricted to the profile's owner.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users/{id}/stats", h.mw.RequireAuth(h.Stats))
	mux.HandleFunc("GET /api/users/{id}/resume", h.mw.RequireAuth(h.GetResume))
	mux.HandleFunc("POST /api/users/{id}/resume", h.mw.RequireAuth(h.UploadResume))
	mux.HandleFunc("DELETE /api/users/{id}/resume", h.mw.RequireAuth(h.DeleteResume))
}

// Stats handles GET /api/users/{id}/stats.
func (h *UsersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := userPathID(w, r)
	if !ok {
		return
	}

	stats, err := h.users.Stats(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to encode stats response", zap.Error(err))
	}
}

// GetResume handles GET /api/users/{id}/resume. Responds with the resume
// metadata, or a JSON null when none is uploaded.
func (h *UsersHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	id, ok := userPathID(w, r)
	if !ok {
		return
	}

	resume, err := h.users.GetResume(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, resume); err != nil {
		h.logger.Error("Failed to encode resume response", zap.Error(err))
	}
}

// UploadResume handles POST /api/users/{id}/resume. Expects a multipart form
// with a single "resume" file. Replacing a resume removes the previous file.
func (h *UsersHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	id, ok := userPathID(w, r)
	if !ok {
		return
	}
	viewer := auth.GetViewer(r.Context())
	if viewer == nil || viewer.ID != id {
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "You may only manage your own resume")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes)
	if err := r.ParseMultipartForm(h.uploads.MaxBytes); err != nil {
		_ = ErrorResponse(w, http.StatusRequestEntityTooLarge, "too_large", "Upload exceeds the size limit")
		return
	}

	src, header, err := r.FormFile("resume")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Missing resume file")
		return
	}
	defer src.Close()

	previous, err := h.users.GetResume(r.Context(), viewer.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	stored, err := h.files.Save(src, header.Filename)
	if err != nil {
		h.logger.Error("Failed to store resume", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to store resume")
		return
	}

	resume := &models.ResumeFile{Name: stored.Name, Path: stored.Path, Size: stored.Size}
	if err := h.users.SetResume(r.Context(), viewer.ID, resume); err != nil {
		_ = h.files.Remove(stored.Path)
		writeServiceError(w, err)
		return
	}

	if previous != nil {
		if err := h.files.Remove(previous.Path); err != nil {
			h.logger.Warn("Failed to remove replaced resume", zap.String("path", previous.Path), zap.Error(err))
		}
	}

	if err := WriteJSON(w, http.StatusCreated, resume); err != nil {
		h.logger.Error("Failed to encode resume response", zap.Error(err))
	}
}

// DeleteResume handles DELETE /api/users/{id}/resume.
func (h *UsersHandler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	id, ok := userPathID(w, r)
	if !ok {
		return
	}
	viewer := auth.GetViewer(r.Context())
	if viewer == nil || viewer.ID != id {
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "You may only manage your own resume")
		return
	}

	resume, err := h.users.GetResume(r.Context(), viewer.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.users.SetResume(r.Context(), viewer.ID, nil); err != nil {
		writeServiceError(w, err)
		return
	}
	if resume != nil {
		if err := h.files.Remove(resume.Path); err != nil {
			h.logger.Warn("Failed to remove resume file", zap.String("path", resume.Path), zap.Error(err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// userPathID parses the {id} path segment as a UUID.
func userPathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
