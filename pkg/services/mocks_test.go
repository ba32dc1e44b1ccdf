package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/showcase-labs/showcase-engine/pkg/models"
)

// mockProjectRepository is a configurable mock for testing services that
// depend on ProjectRepository.
type mockProjectRepository struct {
	project  *models.Project
	projects []*models.Project
	stats    *models.UserStats

	createErr    error
	getErr       error
	listErr      error
	updateErr    error
	deleteErr    error
	setStatusErr error
	statsErr     error

	capturedProject *models.Project
	capturedFilter  models.ProjectFilter
	capturedStatus  string
	capturedID      uuid.UUID
}

func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	m.capturedProject = project
	if m.createErr != nil {
		return m.createErr
	}
	project.ID = uuid.New()
	return nil
}

func (m *mockProjectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	m.capturedID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.project, nil
}

func (m *mockProjectRepository) List(ctx context.Context, filter models.ProjectFilter, viewer *models.Viewer) ([]*models.Project, error) {
	m.capturedFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.projects, nil
}

func (m *mockProjectRepository) ListTop(ctx context.Context, viewer *models.Viewer, limit int) ([]*models.Project, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.projects, nil
}

func (m *mockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	m.capturedProject = project
	return m.updateErr
}

func (m *mockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.capturedID = id
	return m.deleteErr
}

func (m *mockProjectRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.Project, error) {
	m.capturedID = id
	m.capturedStatus = status
	if m.setStatusErr != nil {
		return nil, m.setStatusErr
	}
	updated := *m.project
	updated.Status = status
	return &updated, nil
}

func (m *mockProjectRepository) OwnerStats(ctx context.Context, ownerID uuid.UUID) (*models.UserStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

// mockVoteRepository is a configurable mock for testing VoteService.
type mockVoteRepository struct {
	counts *models.VoteCounts
	votes  []*models.Vote

	castErr   error
	countsErr error
	listErr   error

	capturedProject uuid.UUID
	capturedUser    uuid.UUID
	capturedType    string
}

func (m *mockVoteRepository) Cast(ctx context.Context, projectID, userID uuid.UUID, voteType string) (*models.VoteCounts, error) {
	m.capturedProject = projectID
	m.capturedUser = userID
	m.capturedType = voteType
	if m.castErr != nil {
		return nil, m.castErr
	}
	return m.counts, nil
}

func (m *mockVoteRepository) Counts(ctx context.Context, projectID uuid.UUID) (*models.VoteCounts, error) {
	if m.countsErr != nil {
		return nil, m.countsErr
	}
	return m.counts, nil
}

func (m *mockVoteRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Vote, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.votes, nil
}

// mockCommentRepository is a configurable mock for testing CommentService.
type mockCommentRepository struct {
	comments []*models.Comment

	addErr  error
	listErr error

	capturedComment *models.Comment
}

func (m *mockCommentRepository) Add(ctx context.Context, comment *models.Comment) error {
	m.capturedComment = comment
	if m.addErr != nil {
		return m.addErr
	}
	comment.ID = 1
	return nil
}

func (m *mockCommentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.comments, nil
}

// mockUserRepository is a configurable mock for testing UserService.
type mockUserRepository struct {
	user *models.User

	createErr    error
	getErr       error
	getByMailErr error
	setResumeErr error

	capturedUser   *models.User
	capturedResume *models.ResumeFile
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.capturedUser = user
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = uuid.New()
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByMailErr != nil {
		return nil, m.getByMailErr
	}
	return m.user, nil
}

func (m *mockUserRepository) SetResume(ctx context.Context, userID uuid.UUID, resume *models.ResumeFile) error {
	m.capturedResume = resume
	return m.setResumeErr
}
