package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/metrics"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/repositories"
	"github.com/showcase-labs/showcase-engine/pkg/security"
)

// CommentService defines the interface for the per-project comment log.
type CommentService interface {
	// Add appends an immutable comment to a project's log.
	Add(ctx context.Context, projectID uuid.UUID, author, text string) (*models.Comment, error)

	// List returns a project's comments, newest first.
	List(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error)
}

// commentService implements CommentService.
type commentService struct {
	comments repositories.CommentRepository
	logger   *zap.Logger
}

// NewCommentService creates a new comment service with dependencies.
func NewCommentService(comments repositories.CommentRepository, logger *zap.Logger) CommentService {
	return &commentService{
		comments: comments,
		logger:   logger,
	}
}

func (s *commentService) Add(ctx context.Context, projectID uuid.UUID, author, text string) (*models.Comment, error) {
	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)
	if author == "" {
		return nil, fmt.Errorf("%w: author is required", apperrors.ErrValidation)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", apperrors.ErrValidation)
	}

	if results := security.ScreenFields(map[string]string{
		"author": author,
		"text":   text,
	}); len(results) > 0 {
		metrics.ContentScreeningRejectionsTotal.Inc()
		s.logger.Warn("comment failed screening",
			zap.String("project_id", projectID.String()),
			zap.String("field", results[0].FieldName))
		return nil, fmt.Errorf("%w: field %s", apperrors.ErrUnsafeContent, results[0].FieldName)
	}

	comment := &models.Comment{
		ProjectID: projectID,
		Author:    author,
		Text:      text,
	}
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, err
	}

	metrics.CommentsAddedTotal.Inc()
	return comment, nil
}

func (s *commentService) List(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error) {
	return s.comments.ListByProject(ctx, projectID)
}

// Ensure commentService implements CommentService at compile time.
var _ CommentService = (*commentService)(nil)
