package models

import (
	"time"

	"github.com/google/uuid"
)

// MentorshipStatus is the lifecycle state of a mentor-mentee relationship.
type MentorshipStatus string

const (
	MentorshipInvited MentorshipStatus = "invited"
	MentorshipActive  MentorshipStatus = "active"
	MentorshipPaused  MentorshipStatus = "paused"
	MentorshipEnded   MentorshipStatus = "ended"
)

// Mentorship is the canonical mentor-mentee relationship, independent of
// any single session. The mentee is identified by external id once
// registered, by lowercased email before that; at least one is always set.
type Mentorship struct {
	ID            uuid.UUID        `json:"id"`
	MentorID      string           `json:"mentorId"`
	MenteeClerkID string           `json:"menteeClerkId,omitempty"`
	MenteeEmail   string           `json:"menteeEmail,omitempty"`
	MenteeName    string           `json:"menteeName"`
	Goal          string           `json:"goal"`
	Status        MentorshipStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Defaults applied when a mentorship is first derived from session history.
const (
	DefaultMenteeName = "Mentee"
	DefaultGoal       = "Career development"
)

// AddMenteeRequest is the payload for a mentor explicitly adding a mentee.
type AddMenteeRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email,max=254"`
	Goal  string `json:"goal" binding:"omitempty,max=500"`
}
