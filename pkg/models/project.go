// Package models contains domain types for showcase-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a student submission in the showcase.
type Project struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Course      string        `json:"course"`
	Author      string        `json:"author,omitempty"`
	Tags        []string      `json:"tags"`
	Files       []ProjectFile `json:"files"`
	OwnerID     uuid.UUID     `json:"uploadedBy"`
	Status      string        `json:"status"`
	ThumbsUp    int           `json:"thumbsUp"`
	ThumbsDown  int           `json:"thumbsDown"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProjectFile holds metadata for one uploaded file attached to a project.
type ProjectFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Moderation status constants. Every project starts as pending; staff move it
// to approved or rejected and may reopen it to pending again.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatuses contains all valid moderation states.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// IsValidStatus checks if the given status is a known moderation state.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Vote type constants.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// IsValidVoteType checks if the given vote type is known.
func IsValidVoteType(voteType string) bool {
	return voteType == VoteUp || voteType == VoteDown
}

// Vote records a single user's thumbs-up or thumbs-down on a project. At most
// one vote exists per (project, user); repeating the same type removes it and
// casting the opposite type flips it.
type Vote struct {
	ProjectID uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"userId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoteCounts is the aggregate tally for a project, always derived from the
// vote records rather than stored counters.
type VoteCounts struct {
	ThumbsUp   int `json:"thumbsUp"`
	ThumbsDown int `json:"thumbsDown"`
}

// Comment is a single remark on a project. Comments are immutable once
// created and are returned newest-first.
type Comment struct {
	ID        int64     `json:"id"`
	ProjectID uuid.UUID `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectFilter narrows a project listing. Zero values mean "no constraint".
type ProjectFilter struct {
	Course  string
	Tags    []string
	Query   string
	OwnerID uuid.UUID
	Status  string
	Limit   int
}

// DefaultListLimit caps listing results when the filter does not set one.
const DefaultListLimit = 50
