package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses {
		assert.True(t, IsValidStatus(s), "expected %q to be valid", s)
	}

	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("archived"))
	assert.False(t, IsValidStatus("Approved"))
}

func TestIsValidVoteType(t *testing.T) {
	assert.True(t, IsValidVoteType(VoteUp))
	assert.True(t, IsValidVoteType(VoteDown))
	assert.False(t, IsValidVoteType(""))
	assert.False(t, IsValidVoteType("sideways"))
}

func TestViewerIsStaff(t *testing.T) {
	var anon *Viewer
	assert.False(t, anon.IsStaff())

	student := &Viewer{ID: uuid.New(), Role: RoleStudent}
	assert.False(t, student.IsStaff())

	teacher := &Viewer{ID: uuid.New(), Role: RoleTeacher}
	assert.True(t, teacher.IsStaff())

	admin := &Viewer{ID: uuid.New(), Role: RoleAdmin}
	assert.True(t, admin.IsStaff())
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleStudent))
	assert.True(t, IsValidRole(RoleTeacher))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("superuser"))
}
