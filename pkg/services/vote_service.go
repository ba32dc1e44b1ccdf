package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/metrics"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/repositories"
)

// VoteService defines the interface for vote operations.
type VoteService interface {
	// Cast applies the viewer's vote to a project and returns the updated
	// tally. Repeating the same vote removes it; the opposite vote flips it.
	Cast(ctx context.Context, projectID uuid.UUID, voteType string, viewer *models.Viewer) (*models.VoteCounts, error)

	// Counts returns the current tally for a project.
	Counts(ctx context.Context, projectID uuid.UUID) (*models.VoteCounts, error)
}

// voteService implements VoteService.
type voteService struct {
	votes  repositories.VoteRepository
	logger *zap.Logger
}

// NewVoteService creates a new vote service with dependencies.
func NewVoteService(votes repositories.VoteRepository, logger *zap.Logger) VoteService {
	return &voteService{
		votes:  votes,
		logger: logger,
	}
}

func (s *voteService) Cast(ctx context.Context, projectID uuid.UUID, voteType string, viewer *models.Viewer) (*models.VoteCounts, error) {
	if viewer == nil {
		return nil, apperrors.ErrForbidden
	}
	if !models.IsValidVoteType(voteType) {
		return nil, apperrors.ErrInvalidVoteType
	}

	counts, err := s.votes.Cast(ctx, projectID, viewer.ID, voteType)
	if err != nil {
		return nil, err
	}

	metrics.VotesCastTotal.WithLabelValues(voteType).Inc()
	s.logger.Debug("vote cast",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", viewer.ID.String()),
		zap.String("type", voteType))

	return counts, nil
}

func (s *voteService) Counts(ctx context.Context, projectID uuid.UUID) (*models.VoteCounts, error) {
	return s.votes.Counts(ctx, projectID)
}

// Ensure voteService implements VoteService at compile time.
var _ VoteService = (*voteService)(nil)
