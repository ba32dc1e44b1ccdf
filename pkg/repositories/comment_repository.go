package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/database"
	"github.com/showcase-labs/showcase-engine/pkg/models"
)

// CommentRepository defines the interface for the comment log. Comments are
// append-only and returned newest-first.
type CommentRepository interface {
	// Add appends a comment to a project's log and fills in its ID and
	// timestamp.
	Add(ctx context.Context, comment *models.Comment) error

	// ListByProject returns the full ordered log, most recent first.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error)
}

// commentRepository implements CommentRepository using PostgreSQL.
type commentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Add inserts the comment, verifying the parent project exists.
func (r *commentRepository) Add(ctx context.Context, comment *models.Comment) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, comment.ProjectID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}

	comment.CreatedAt = time.Now()

	err = r.db.QueryRow(ctx,
		`INSERT INTO project_comments (project_id, author, text, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		comment.ProjectID, comment.Author, comment.Text, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	return nil
}

// ListByProject returns all comments for a project, newest first. The ID
// tiebreak keeps ordering stable when timestamps collide.
func (r *commentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, project_id, author, text, created_at
		 FROM project_comments
		 WHERE project_id = $1
		 ORDER BY created_at DESC, id DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.ProjectID, &comment.Author, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comment rows: %w", err)
	}

	return comments, nil
}

// Ensure commentRepository implements CommentRepository at compile time.
var _ CommentRepository = (*commentRepository)(nil)
