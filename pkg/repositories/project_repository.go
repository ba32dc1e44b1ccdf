// Package repositories implements PostgreSQL data access for
// showcase-engine. Vote tallies are always derived from the vote records at
// read time; nothing ever stores a counter that could drift.
package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/database"
	"github.com/showcase-labs/showcase-engine/pkg/models"
)

// projectColumns is the SELECT list shared by every project query. Thumb
// counts are computed from project_votes inline.
const projectColumns = `
	p.id, p.title, p.description, p.course, p.author, p.tags, p.owner_id,
	p.status, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM project_votes v WHERE v.project_id = p.id AND v.vote_type = 'up') AS thumbs_up,
	(SELECT COUNT(*) FROM project_votes v WHERE v.project_id = p.id AND v.vote_type = 'down') AS thumbs_down`

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	// List returns projects matching the filter that the viewer is allowed
	// to see, newest first.
	List(ctx context.Context, filter models.ProjectFilter, viewer *models.Viewer) ([]*models.Project, error)
	// ListTop returns the visible projects with the most thumbs-up votes.
	ListTop(ctx context.Context, viewer *models.Viewer, limit int) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetStatus persists a moderation decision and returns the updated record.
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Project, error)
	// OwnerStats returns the project count and total thumbs-up across one
	// owner's projects.
	OwnerStats(ctx context.Context, ownerID uuid.UUID) (*models.UserStats, error)
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts a new project together with its file metadata.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.StatusPending
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO projects (id, title, description, course, author, tags, owner_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = tx.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.Course,
		project.Author,
		project.Tags,
		project.OwnerID,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	for i, file := range project.Files {
		_, err = tx.Exec(ctx,
			`INSERT INTO project_files (project_id, name, path, size, position) VALUES ($1, $2, $3, $4, $5)`,
			project.ID, file.Name, file.Path, file.Size, i,
		)
		if err != nil {
			return fmt.Errorf("failed to create project file: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project create: %w", err)
	}

	return nil
}

// Get retrieves a project by ID, including file metadata and vote counts.
func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects p WHERE p.id = $1`, projectColumns)

	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	files, err := r.loadFiles(ctx, []uuid.UUID{project.ID})
	if err != nil {
		return nil, err
	}
	project.Files = files[project.ID]
	if project.Files == nil {
		project.Files = []models.ProjectFile{}
	}

	return project, nil
}

// List returns projects matching the filter, restricted by the viewer's
// visibility: guests see approved only, regular users additionally see their
// own projects in any state, staff see everything.
func (r *projectRepository) List(ctx context.Context, filter models.ProjectFilter, viewer *models.Viewer) ([]*models.Project, error) {
	where, args := buildProjectWhere(filter, viewer)

	limit := filter.Limit
	if limit <= 0 || limit > models.DefaultListLimit {
		limit = models.DefaultListLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM projects p %s ORDER BY p.created_at DESC LIMIT $%d`,
		projectColumns, where, len(args))

	return r.queryProjects(ctx, query, args)
}

// ListTop returns visible projects ordered by thumbs-up count.
func (r *projectRepository) ListTop(ctx context.Context, viewer *models.Viewer, limit int) ([]*models.Project, error) {
	where, args := buildProjectWhere(models.ProjectFilter{}, viewer)

	if limit <= 0 {
		limit = 3
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM projects p %s ORDER BY thumbs_up DESC, p.created_at DESC LIMIT $%d`,
		projectColumns, where, len(args))

	return r.queryProjects(ctx, query, args)
}

// Update persists edits to title, description, course, author, tags and
// status.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET title = $2, description = $3, course = $4, author = $5, tags = $6, status = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.Course,
		project.Author,
		project.Tags,
		project.Status,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a project by ID.
// Files, votes and comments are deleted via CASCADE.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetStatus updates the moderation status and returns the updated record.
func (r *projectRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Project, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE projects SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set project status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.Get(ctx, id)
}

// OwnerStats returns how many projects a user owns and the total thumbs-up
// across them.
func (r *projectRepository) OwnerStats(ctx context.Context, ownerID uuid.UUID) (*models.UserStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE((SELECT COUNT(*)
		                 FROM project_votes v
		                 JOIN projects p2 ON p2.id = v.project_id
		                 WHERE p2.owner_id = $1 AND v.vote_type = 'up'), 0)
		FROM projects p
		WHERE p.owner_id = $1`

	stats := &models.UserStats{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&stats.ProjectsCount, &stats.Rating)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner stats: %w", err)
	}

	return stats, nil
}

// queryProjects runs a multi-row project query and attaches file metadata.
func (r *projectRepository) queryProjects(ctx context.Context, query string, args []any) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	var ids []uuid.UUID
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
		ids = append(ids, project.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project rows: %w", err)
	}

	if len(ids) > 0 {
		files, err := r.loadFiles(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			p.Files = files[p.ID]
			if p.Files == nil {
				p.Files = []models.ProjectFile{}
			}
		}
	}

	return projects, nil
}

// loadFiles fetches file metadata for a set of projects in one query.
func (r *projectRepository) loadFiles(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID][]models.ProjectFile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT project_id, name, path, size
		 FROM project_files
		 WHERE project_id = ANY($1)
		 ORDER BY project_id, position`,
		projectIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load project files: %w", err)
	}
	defer rows.Close()

	files := make(map[uuid.UUID][]models.ProjectFile)
	for rows.Next() {
		var projectID uuid.UUID
		var file models.ProjectFile
		if err := rows.Scan(&projectID, &file.Name, &file.Path, &file.Size); err != nil {
			return nil, fmt.Errorf("failed to scan project file: %w", err)
		}
		files[projectID] = append(files[projectID], file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project file rows: %w", err)
	}

	return files, nil
}

// buildProjectWhere compiles the filter plus the viewer visibility policy
// into a WHERE clause. The policy lives here so every listing path applies
// it identically.
func buildProjectWhere(filter models.ProjectFilter, viewer *models.Viewer) (string, []any) {
	var clauses []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Course != "" {
		clauses = append(clauses, fmt.Sprintf("p.course = %s", arg(filter.Course)))
	}
	if len(filter.Tags) > 0 {
		clauses = append(clauses, fmt.Sprintf("p.tags && %s", arg(filter.Tags)))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		p := arg(pattern)
		clauses = append(clauses, fmt.Sprintf("(p.title ILIKE %s OR p.author ILIKE %s OR p.description ILIKE %s)", p, p, p))
	}
	if filter.OwnerID != uuid.Nil {
		clauses = append(clauses, fmt.Sprintf("p.owner_id = %s", arg(filter.OwnerID)))
	}
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("p.status = %s", arg(filter.Status)))
	}

	// Visibility policy: guests see approved only; authenticated non-staff
	// see approved plus their own projects in any state; staff see all.
	switch {
	case viewer == nil:
		clauses = append(clauses, fmt.Sprintf("p.status = %s", arg(models.StatusApproved)))
	case !viewer.IsStaff():
		s := arg(models.StatusApproved)
		o := arg(viewer.ID)
		clauses = append(clauses, fmt.Sprintf("(p.status = %s OR p.owner_id = %s)", s, o))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// scanProject reads one project row produced with projectColumns.
func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Course,
		&project.Author,
		&project.Tags,
		&project.OwnerID,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
		&project.ThumbsUp,
		&project.ThumbsDown,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
