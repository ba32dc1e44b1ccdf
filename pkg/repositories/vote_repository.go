package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/database"
	"github.com/showcase-labs/showcase-engine/pkg/models"
)

// VoteRepository defines the interface for the vote ledger. At most one vote
// exists per (project, user); the table's primary key guarantees it.
type VoteRepository interface {
	// Cast applies one vote mutation: first vote inserts, repeating the
	// same type removes (toggle-off), the opposite type flips in place.
	// Returns the resulting tally.
	Cast(ctx context.Context, projectID, userID uuid.UUID, voteType string) (*models.VoteCounts, error)

	// Counts derives the current tally from the vote records.
	Counts(ctx context.Context, projectID uuid.UUID) (*models.VoteCounts, error)

	// ListByProject returns all vote records for a project.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Vote, error)
}

// voteRepository implements VoteRepository using PostgreSQL.
type voteRepository struct {
	db *database.DB
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *database.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Cast runs the vote mutation in a transaction. The existing vote row is
// locked with FOR UPDATE so two casts by the same user serialize; votes by
// different users touch different rows and do not contend.
func (r *voteRepository) Cast(ctx context.Context, projectID, userID uuid.UUID, voteType string) (*models.VoteCounts, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	var existingType string
	err = tx.QueryRow(ctx,
		`SELECT vote_type FROM project_votes WHERE project_id = $1 AND user_id = $2 FOR UPDATE`,
		projectID, userID,
	).Scan(&existingType)

	switch {
	case err == pgx.ErrNoRows:
		// First vote by this user
		_, err = tx.Exec(ctx,
			`INSERT INTO project_votes (project_id, user_id, vote_type) VALUES ($1, $2, $3)`,
			projectID, userID, voteType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert vote: %w", err)
		}

	case err != nil:
		return nil, fmt.Errorf("failed to read existing vote: %w", err)

	case existingType == voteType:
		// Same type again: toggle off
		_, err = tx.Exec(ctx,
			`DELETE FROM project_votes WHERE project_id = $1 AND user_id = $2`,
			projectID, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to remove vote: %w", err)
		}

	default:
		// Opposite type: flip in place
		_, err = tx.Exec(ctx,
			`UPDATE project_votes SET vote_type = $3 WHERE project_id = $1 AND user_id = $2`,
			projectID, userID, voteType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to flip vote: %w", err)
		}
	}

	counts, err := countsIn(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	return counts, nil
}

// Counts derives the tally from the vote records.
func (r *voteRepository) Counts(ctx context.Context, projectID uuid.UUID) (*models.VoteCounts, error) {
	return countsIn(ctx, r.db, projectID)
}

// ListByProject returns every vote record for a project.
func (r *voteRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Vote, error) {
	rows, err := r.db.Query(ctx,
		`SELECT project_id, user_id, vote_type, created_at
		 FROM project_votes
		 WHERE project_id = $1
		 ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*models.Vote
	for rows.Next() {
		var vote models.Vote
		if err := rows.Scan(&vote.ProjectID, &vote.UserID, &vote.Type, &vote.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, &vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote rows: %w", err)
	}

	return votes, nil
}

// queryRower is satisfied by both the pool and a transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func countsIn(ctx context.Context, q queryRower, projectID uuid.UUID) (*models.VoteCounts, error) {
	counts := &models.VoteCounts{}
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE vote_type = 'up'),
		        COUNT(*) FILTER (WHERE vote_type = 'down')
		 FROM project_votes
		 WHERE project_id = $1`,
		projectID,
	).Scan(&counts.ThumbsUp, &counts.ThumbsDown)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	return counts, nil
}

// Ensure voteRepository implements VoteRepository at compile time.
var _ VoteRepository = (*voteRepository)(nil)
