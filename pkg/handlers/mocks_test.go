package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/auth"
	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/services"
)

// testAuth bundles real token and session plumbing for handler tests. Mocking
// the middleware would just re-test the mocks.
type testAuth struct {
	tokens   auth.TokenService
	sessions *auth.SessionStore
	mw       *auth.Middleware
}

func newTestAuth(t *testing.T) *testAuth {
	t.Helper()
	tokens := auth.NewTokenService("handler-test-secret", time.Hour)
	sessions := auth.NewSessionStore("handler-test-secret", 3600, false)
	return &testAuth{
		tokens:   tokens,
		sessions: sessions,
		mw:       auth.NewMiddleware(tokens, sessions, zap.NewNop()),
	}
}

// bearer returns an Authorization header value for the given user.
func (a *testAuth) bearer(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := a.tokens.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return "Bearer " + token
}

func testStudent() *models.User {
	return &models.User{ID: uuid.New(), Name: "Student", Email: "student@example.edu", Role: models.RoleStudent}
}

func testTeacher() *models.User {
	return &models.User{ID: uuid.New(), Name: "Teacher", Email: "teacher@example.edu", Role: models.RoleTeacher}
}

// mockProjectService is a configurable mock for handler tests.
type mockProjectService struct {
	project  *models.Project
	projects []*models.Project

	createErr    error
	getErr       error
	listErr      error
	updateErr    error
	deleteErr    error
	setStatusErr error

	capturedInput  services.ProjectInput
	capturedUpdate services.ProjectUpdate
	capturedStatus string
	capturedViewer *models.Viewer
}

func (m *mockProjectService) Create(ctx context.Context, input services.ProjectInput, viewer *models.Viewer) (*models.Project, error) {
	m.capturedInput = input
	m.capturedViewer = viewer
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.project, nil
}

func (m *mockProjectService) Get(ctx context.Context, id uuid.UUID, viewer *models.Viewer) (*models.Project, error) {
	m.capturedViewer = viewer
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.project, nil
}

func (m *mockProjectService) List(ctx context.Context, filter models.ProjectFilter, viewer *models.Viewer) ([]*models.Project, error) {
	m.capturedViewer = viewer
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.projects, nil
}

func (m *mockProjectService) Update(ctx context.Context, id uuid.UUID, update services.ProjectUpdate, viewer *models.Viewer) (*models.Project, error) {
	m.capturedUpdate = update
	m.capturedViewer = viewer
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.project, nil
}

func (m *mockProjectService) Delete(ctx context.Context, id uuid.UUID, viewer *models.Viewer) error {
	m.capturedViewer = viewer
	return m.deleteErr
}

func (m *mockProjectService) SetStatus(ctx context.Context, id uuid.UUID, status string, viewer *models.Viewer) (*models.Project, error) {
	m.capturedStatus = status
	m.capturedViewer = viewer
	if m.setStatusErr != nil {
		return nil, m.setStatusErr
	}
	updated := *m.project
	updated.Status = status
	return &updated, nil
}

// mockVoteService is a configurable mock for handler tests.
type mockVoteService struct {
	counts  *models.VoteCounts
	castErr error

	capturedType   string
	capturedViewer *models.Viewer
}

func (m *mockVoteService) Cast(ctx context.Context, projectID uuid.UUID, voteType string, viewer *models.Viewer) (*models.VoteCounts, error) {
	m.capturedType = voteType
	m.capturedViewer = viewer
	if m.castErr != nil {
		return nil, m.castErr
	}
	return m.counts, nil
}

func (m *mockVoteService) Counts(ctx context.Context, projectID uuid.UUID) (*models.VoteCounts, error) {
	return m.counts, nil
}

// mockCommentService is a configurable mock for handler tests.
type mockCommentService struct {
	comment  *models.Comment
	comments []*models.Comment

	addErr  error
	listErr error

	capturedAuthor string
	capturedText   string
}

func (m *mockCommentService) Add(ctx context.Context, projectID uuid.UUID, author, text string) (*models.Comment, error) {
	m.capturedAuthor = author
	m.capturedText = text
	if m.addErr != nil {
		return nil, m.addErr
	}
	return m.comment, nil
}

func (m *mockCommentService) List(ctx context.Context, projectID uuid.UUID) ([]*models.Comment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.comments, nil
}

// mockUserService is a configurable mock for handler tests.
type mockUserService struct {
	user   *models.User
	stats  *models.UserStats
	resume *models.ResumeFile

	registerErr  error
	loginErr     error
	getErr       error
	statsErr     error
	setResumeErr error
	getResumeErr error

	capturedRegister services.RegisterInput
	capturedResume   *models.ResumeFile
}

func (m *mockUserService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	m.capturedRegister = input
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return m.user, nil
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.user, nil
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserService) Stats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

func (m *mockUserService) SetResume(ctx context.Context, userID uuid.UUID, resume *models.ResumeFile) error {
	m.capturedResume = resume
	if m.setResumeErr == nil {
		m.resume = resume
	}
	return m.setResumeErr
}

func (m *mockUserService) GetResume(ctx context.Context, userID uuid.UUID) (*models.ResumeFile, error) {
	if m.getResumeErr != nil {
		return nil, m.getResumeErr
	}
	return m.resume, nil
}

// mockDashboardService is a configurable mock for handler tests.
type mockDashboardService struct {
	dashboard *services.Dashboard
	getErr    error
}

func (m *mockDashboardService) Get(ctx context.Context, viewer *models.Viewer) (*services.Dashboard, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.dashboard, nil
}
