package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/auth"
	"github.com/showcase-labs/showcase-engine/pkg/config"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/services"
	"github.com/showcase-labs/showcase-engine/pkg/storage"
)

// ProjectsHandler handles project submission, listing, moderation, voting and
// comments.
type ProjectsHandler struct {
	projects services.ProjectService
	votes    services.VoteService
	comments services.CommentService
	files    *storage.FileStore
	uploads  config.UploadsConfig
	mw       *auth.Middleware
	logger   *zap.Logger
}

// NewProjectsHandler creates a new ProjectsHandler with dependencies.
func NewProjectsHandler(
	projects services.ProjectService,
	votes services.VoteService,
	comments services.CommentService,
	files *storage.FileStore,
	uploads config.UploadsConfig,
	mw *auth.Middleware,
	logger *zap.Logger,
) *ProjectsHandler {
	return &ProjectsHandler{
		projects: projects,
		votes:    votes,
		comments: comments,
		files:    files,
		uploads:  uploads,
		mw:       mw,
		logger:   logger,
	}
}

// RegisterRoutes registers the project handler's routes on the given mux.
// Listing and reads are open to guests; writes require a login; moderation
// requires staff.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/projects", h.mw.OptionalAuth(h.List))
	mux.HandleFunc("POST /api/projects", h.mw.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects/{id}", h.mw.OptionalAuth(h.Get))
	mux.HandleFunc("PUT /api/projects/{id}", h.mw.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/projects/{id}", h.mw.RequireAuth(h.Delete))
	mux.HandleFunc("PATCH /api/projects/{id}", h.mw.RequireStaff(h.SetStatus))
	mux.HandleFunc("POST /api/projects/{id}/vote", h.mw.RequireAuth(h.Vote))
	mux.HandleFunc("GET /api/projects/{id}/comments", h.mw.OptionalAuth(h.ListComments))
	mux.HandleFunc("POST /api/projects/{id}/comments", h.mw.RequireAuth(h.AddComment))
}

// projectRequest is the JSON body for create.
type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Course      string   `json:"course"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
}

// projectUpdateRequest is the JSON body for update. Every field is optional;
// absent fields leave the stored values alone. The status field is only
// decoded so the handler can refuse moderation changes smuggled into an edit.
type projectUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Course      *string  `json:"course"`
	Author      *string  `json:"author"`
	Tags        []string `json:"tags"`
	Status      *string  `json:"status"`
}

// List handles GET /api/projects with optional course, tags, q, userId,
// status and limit query parameters.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ProjectFilter{
		Course: q.Get("course"),
		Query:  q.Get("q"),
		Status: q.Get("status"),
	}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = splitTags(tags)
	}
	if owner := q.Get("userId"); owner != "" {
		id, err := uuid.Parse(owner)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid user ID")
			return
		}
		filter.OwnerID = id
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid limit")
			return
		}
		filter.Limit = n
	}

	projects, err := h.projects.List(r.Context(), filter, auth.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to encode project list", zap.Error(err))
	}
}

// Create handles POST /api/projects. Browsers send multipart form data with
// attached files; API clients may send plain JSON instead.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, cleanup, ok := h.readProjectInput(w, r)
	if !ok {
		return
	}

	project, err := h.projects.Create(r.Context(), input, auth.GetViewer(r.Context()))
	if err != nil {
		cleanup()
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.projects.Get(r.Context(), id, auth.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Update handles PUT /api/projects/{id}. Fields left out of the body keep
// their stored values. Attached files are not editable here; moderation
// status is only reachable through the staff PATCH.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req projectUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	// Status changes are the moderation operation, not an edit.
	if req.Status != nil && *req.Status != "" {
		if !auth.GetViewer(r.Context()).IsStaff() {
			_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "Status changes require a staff role")
			return
		}
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Moderation status is changed via PATCH")
		return
	}

	project, err := h.projects.Update(r.Context(), id, services.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Course:      req.Course,
		Author:      req.Author,
		Tags:        req.Tags,
	}, auth.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.projects.Get(r.Context(), id, auth.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.projects.Delete(r.Context(), id, auth.GetViewer(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}

	// Database rows cascade; stored files need explicit cleanup.
	for _, f := range project.Files {
		if err := h.files.Remove(f.Path); err != nil {
			h.logger.Warn("Failed to remove stored file", zap.String("path", f.Path), zap.Error(err))
		}
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /api/projects/{id}. Staff only.
func (h *ProjectsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	project, err := h.projects.SetStatus(r.Context(), id, req.Status, auth.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

type voteRequest struct {
	Type string `json:"type"`
}

// Vote handles POST /api/projects/{id}/vote and returns the updated tally.
func (h *ProjectsHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}

	counts, err := h.votes.Cast(r.Context(), id, req.Type, auth.GetViewer(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, counts); err != nil {
		h.logger.Error("Failed to encode vote response", zap.Error(err))
	}
}

// ListComments handles GET /api/projects/{id}/comments.
func (h *ProjectsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	// Visibility of the log follows visibility of the project.
	if _, err := h.projects.Get(r.Context(), id, auth.GetViewer(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}

	comments, err := h.comments.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to encode comment list", zap.Error(err))
	}
}

type commentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// AddComment handles POST /api/projects/{id}/comments. The author field
// defaults to the logged-in user's name.
func (h *ProjectsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	viewer := auth.GetViewer(r.Context())
	if _, err := h.projects.Get(r.Context(), id, viewer); err != nil {
		writeServiceError(w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}
	if req.Author == "" && viewer != nil {
		req.Author = viewer.Name
	}

	comment, err := h.comments.Add(r.Context(), id, req.Author, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, comment); err != nil {
		h.logger.Error("Failed to encode comment response", zap.Error(err))
	}
}

// readProjectInput decodes a create request from either multipart form data
// or JSON. For multipart requests it streams each attached file into the
// store; the returned cleanup removes those files and is called when the
// submission is ultimately rejected.
func (h *ProjectsHandler) readProjectInput(w http.ResponseWriter, r *http.Request) (services.ProjectInput, func(), bool) {
	noop := func() {}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req projectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
			return services.ProjectInput{}, noop, false
		}
		return services.ProjectInput{
			Title:       req.Title,
			Description: req.Description,
			Course:      req.Course,
			Author:      req.Author,
			Tags:        req.Tags,
		}, noop, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes)
	if err := r.ParseMultipartForm(h.uploads.MaxBytes); err != nil {
		_ = ErrorResponse(w, http.StatusRequestEntityTooLarge, "too_large", "Upload exceeds the size limit")
		return services.ProjectInput{}, noop, false
	}

	input := services.ProjectInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Course:      r.FormValue("course"),
		Author:      r.FormValue("author"),
		Tags:        splitTags(r.FormValue("tags")),
	}

	uploads := r.MultipartForm.File["files"]
	if len(uploads) > h.uploads.MaxFiles {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Too many attached files")
		return services.ProjectInput{}, noop, false
	}

	var stored []models.ProjectFile
	cleanup := func() {
		for _, f := range stored {
			_ = h.files.Remove(f.Path)
		}
	}

	for _, header := range uploads {
		file, err := h.saveUpload(header)
		if err != nil {
			cleanup()
			h.logger.Error("Failed to store upload", zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to store upload")
			return services.ProjectInput{}, noop, false
		}
		stored = append(stored, *file)
	}
	input.Files = stored

	return input, cleanup, true
}

func (h *ProjectsHandler) saveUpload(header *multipart.FileHeader) (*models.ProjectFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	stored, err := h.files.Save(src, header.Filename)
	if err != nil {
		return nil, err
	}
	return &models.ProjectFile{Name: stored.Name, Path: stored.Path, Size: stored.Size}, nil
}

// pathID parses the {id} path segment as a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid project ID")
		return uuid.Nil, false
	}
	return id, true
}

// splitTags parses a comma-separated tag string.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
