package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/apperrors"
	"github.com/showcase-labs/showcase-engine/pkg/auth"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/repositories"
)

// RegisterInput carries the fields of a signup request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService defines the interface for account operations.
type UserService interface {
	// Register creates a new account. The admin role cannot be
	// self-assigned.
	Register(ctx context.Context, input RegisterInput) (*models.User, error)

	// Login verifies credentials and returns the account.
	Login(ctx context.Context, email, password string) (*models.User, error)

	// Get returns an account by ID.
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Stats returns the user's project count and accumulated rating.
	Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)

	// SetResume stores resume metadata for the user; nil clears it.
	SetResume(ctx context.Context, userID uuid.UUID, resume *models.ResumeFile) error

	// GetResume returns the user's resume metadata, or nil when none is
	// uploaded.
	GetResume(ctx context.Context, userID uuid.UUID) (*models.ResumeFile, error)
}

// userService implements UserService.
type userService struct {
	users    repositories.UserRepository
	projects repositories.ProjectRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(users repositories.UserRepository, projects repositories.ProjectRepository, logger *zap.Logger) UserService {
	return &userService{
		users:    users,
		projects: projects,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", apperrors.ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", apperrors.ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.IsValidRole(role) || role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, input.Role)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", role))

	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// A missing account and a bad password look the same to the
		// caller.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.projects.OwnerStats(ctx, userID)
}

func (s *userService) SetResume(ctx context.Context, userID uuid.UUID, resume *models.ResumeFile) error {
	return s.users.SetResume(ctx, userID, resume)
}

func (s *userService) GetResume(ctx context.Context, userID uuid.UUID) (*models.ResumeFile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Resume, nil
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
