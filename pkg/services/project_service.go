package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/logging"
	"github.com/showcase-labs/showcase-engine/pkg/metrics"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/repositories"
	"github.com/showcase-labs/showcase-engine/pkg/security"
)

// ProjectInput carries the caller-editable fields of a project. Status and
// ownership are never taken from input.
type ProjectInput struct {
	Title       string
	Description string
	Course      string
	Author      string
	Tags        []string
	Files       []models.ProjectFile
}

// ProjectUpdate carries a partial edit. Nil fields keep their stored values;
// a nil Tags slice keeps the existing tags while an empty one clears them.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Course      *string
	Author      *string
	Tags        []string
}

// ProjectService defines the interface for project submission, retrieval and
// moderation.
type ProjectService interface {
	// Create submits a new project for the viewer. It always enters the
	// pending state.
	Create(ctx context.Context, input ProjectInput, viewer *models.Viewer) (*models.Project, error)

	// Get returns a project the viewer is allowed to see.
	Get(ctx context.Context, id uuid.UUID, viewer *models.Viewer) (*models.Project, error)

	// List returns projects matching the filter, restricted to what the
	// viewer may see.
	List(ctx context.Context, filter models.ProjectFilter, viewer *models.Viewer) ([]*models.Project, error)

	// Update applies the supplied fields of a partial edit; omitted fields
	// keep their stored values. Only the owner or staff may update;
	// moderation status is untouched.
	Update(ctx context.Context, id uuid.UUID, update ProjectUpdate, viewer *models.Viewer) (*models.Project, error)

	// Delete removes a project along with its files, votes and comments.
	Delete(ctx context.Context, id uuid.UUID, viewer *models.Viewer) error

	// SetStatus applies a moderation decision. Staff only.
	SetStatus(ctx context.Context, id uuid.UUID, status string, viewer *models.Viewer) (*models.Project, error)
}

// projectService implements ProjectService.
type projectService struct {
	projects repositories.ProjectRepository
	logger   *zap.Logger
}

// NewProjectService creates a new project service with dependencies.
func NewProjectService(projects repositories.ProjectRepository, logger *zap.Logger) ProjectService {
	return &projectService{
		projects: projects,
		logger:   logger,
	}
}

func (s *projectService) Create(ctx context.Context, input ProjectInput, viewer *models.Viewer) (*models.Project, error) {
	if viewer == nil {
		return nil, apperrors.ErrForbidden
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Course:      input.Course,
		Author:      input.Author,
		Tags:        input.Tags,
		Files:       input.Files,
		OwnerID:     viewer.ID,
		Status:      models.StatusPending,
	}
	if project.Author == "" {
		project.Author = viewer.Name
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	metrics.ProjectsCreatedTotal.Inc()
	s.logger.Info("project submitted",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", viewer.ID.String()),
		zap.String("title", logging.SanitizeUserText(project.Title)))

	return project, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID, viewer *models.Viewer) (*models.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Unmoderated projects stay hidden from everyone but the owner and
	// staff; report not-found rather than leaking their existence.
	if !canSee(project, viewer) {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, filter models.ProjectFilter, viewer *models.Viewer) ([]*models.Project, error) {
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		return nil, apperrors.ErrInvalidStatus
	}
	return s.projects.List(ctx, filter, viewer)
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, update ProjectUpdate, viewer *models.Viewer) (*models.Project, error) {
	project, err := s.Get(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !canModify(project, viewer) {
		return nil, apperrors.ErrForbidden
	}

	if update.Title != nil {
		project.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.Course != nil {
		project.Course = *update.Course
	}
	if update.Author != nil {
		project.Author = *update.Author
	}
	if update.Tags != nil {
		project.Tags = update.Tags
	}

	// Validate the merged result so an edit cannot blank a required field
	// or slip an injection payload past the create-time screening.
	if err := s.validateInput(ProjectInput{
		Title:       project.Title,
		Description: project.Description,
		Course:      project.Course,
		Author:      project.Author,
		Tags:        project.Tags,
	}); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID, viewer *models.Viewer) error {
	project, err := s.Get(ctx, id, viewer)
	if err != nil {
		return err
	}
	if !canModify(project, viewer) {
		return apperrors.ErrForbidden
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		zap.String("project_id", id.String()),
		zap.String("deleted_by", viewer.ID.String()))
	return nil
}

func (s *projectService) SetStatus(ctx context.Context, id uuid.UUID, status string, viewer *models.Viewer) (*models.Project, error) {
	if !viewer.IsStaff() {
		return nil, apperrors.ErrForbidden
	}
	if !models.IsValidStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	project, err := s.projects.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.ModerationDecisionsTotal.WithLabelValues(status).Inc()
	s.logger.Info("moderation decision",
		zap.String("project_id", id.String()),
		zap.String("status", status),
		zap.String("moderator_id", viewer.ID.String()))

	return project, nil
}

// validateInput checks required fields and screens user-visible text for
// injection payloads.
func (s *projectService) validateInput(input ProjectInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.Course) == "" {
		return fmt.Errorf("%w: course is required", apperrors.ErrValidation)
	}

	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"author":      input.Author,
		"course":      input.Course,
	}
	for i, tag := range input.Tags {
		fields[fmt.Sprintf("tags[%d]", i)] = tag
	}
	if results := security.ScreenFields(fields); len(results) > 0 {
		metrics.ContentScreeningRejectionsTotal.Inc()
		s.logger.Warn("project content failed screening",
			zap.String("field", results[0].FieldName))
		return fmt.Errorf("%w: field %s", apperrors.ErrUnsafeContent, results[0].FieldName)
	}
	return nil
}

// canSee reports whether the viewer may read the project. Approved projects
// are public; everything else is owner-or-staff only.
func canSee(project *models.Project, viewer *models.Viewer) bool {
	if project.Status == models.StatusApproved {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.IsStaff() || viewer.ID == project.OwnerID
}

// canModify reports whether the viewer may edit or delete the project.
func canModify(project *models.Project, viewer *models.Viewer) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsStaff() || viewer.ID == project.OwnerID
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
