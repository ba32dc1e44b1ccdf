package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	Resume       *ResumeFile `json:"resume,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ResumeFile holds metadata for an uploaded resume. The file itself lives in
// blob storage; only the descriptor is persisted.
type ResumeFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Role constants.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Viewer identifies who is making a request: user ID plus role. A nil *Viewer
// means an unauthenticated caller. Queries and authorization checks take a
// Viewer explicitly rather than reading ambient session state.
type Viewer struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

// IsStaff reports whether the viewer holds an elevated role. Staff see every
// project regardless of status and may moderate.
func (v *Viewer) IsStaff() bool {
	return v != nil && (v.Role == RoleTeacher || v.Role == RoleAdmin)
}

// UserStats aggregates a user's portfolio activity.
type UserStats struct {
	ProjectsCount int `json:"projectsCount"`
	Rating        int `json:"rating"`
}
