package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/database"
	"github.com/showcase-labs/showcase-engine/pkg/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// SetResume stores resume metadata; nil clears it.
	SetResume(ctx context.Context, userID uuid.UUID, resume *models.ResumeFile) error
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. A duplicate email returns ErrEmailTaken.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = models.RoleStudent
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, resume_name, resume_path, resume_size, created_at
		FROM users ` + where

	var user models.User
	var resumeName, resumePath *string
	var resumeSize *int64

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&resumeName,
		&resumePath,
		&resumeSize,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if resumeName != nil && resumePath != nil {
		user.Resume = &models.ResumeFile{
			Name: *resumeName,
			Path: *resumePath,
		}
		if resumeSize != nil {
			user.Resume.Size = *resumeSize
		}
	}

	return &user, nil
}

// SetResume stores resume metadata for a user; passing nil clears it.
func (r *userRepository) SetResume(ctx context.Context, userID uuid.UUID, resume *models.ResumeFile) error {
	var name, path *string
	var size *int64
	if resume != nil {
		name, path, size = &resume.Name, &resume.Path, &resume.Size
	}

	result, err := r.db.Exec(ctx,
		`UPDATE users SET resume_name = $2, resume_path = $3, resume_size = $4 WHERE id = $1`,
		userID, name, path, size,
	)
	if err != nil {
		return fmt.Errorf("failed to set resume: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
