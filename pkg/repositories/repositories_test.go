//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/showcase-labs/showcase-engine/pkg/models"
	"github.com/showcase-labs/showcase-engine/pkg/testhelpers"
)

// repoTestContext holds shared dependencies for repository tests.
type repoTestContext struct {
	t        *testing.T
	testDB   *testhelpers.TestDB
	users    UserRepository
	projects ProjectRepository
	votes    VoteRepository
	comments CommentRepository
}

// setupRepoTest initializes the test context with the shared testcontainer
// and a clean database.
func setupRepoTest(t *testing.T) *repoTestContext {
	testDB := testhelpers.GetTestDB(t)
	testDB.TruncateAll(t)

	return &repoTestContext{
		t:        t,
		testDB:   testDB,
		users:    NewUserRepository(testDB.DB),
		projects: NewProjectRepository(testDB.DB),
		votes:    NewVoteRepository(testDB.DB),
		comments: NewCommentRepository(testDB.DB),
	}
}

// createTestUser inserts a user with the given role.
func (tc *repoTestContext) createTestUser(ctx context.Context, email, role string) *models.User {
	tc.t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := tc.users.Create(ctx, user); err != nil {
		tc.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestProject inserts a project owned by the given user.
func (tc *repoTestContext) createTestProject(ctx context.Context, owner *models.User, title, status string) *models.Project {
	tc.t.Helper()
	project := &models.Project{
		Title:       title,
		Description: "description for " + title,
		Course:      "CS-101",
		Author:      owner.Name,
		Tags:        []string{"go", "testing"},
		OwnerID:     owner.ID,
		Status:      status,
	}
	if err := tc.projects.Create(ctx, project); err != nil {
		tc.t.Fatalf("failed to create test project: %v", err)
	}
	return project
}
