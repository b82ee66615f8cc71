package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrMissingLinkage is returned when a plan or message references neither
// a mentorship nor a legacy session.
var ErrMissingLinkage = errors.New("missing linkage: mentorship or session reference required")

// Linkage ties a plan or message to its parent: a mentorship (preferred)
// or a legacy session. At least one reference must be set; rows carrying
// both are tolerated on read but never produced by new writes.
type Linkage struct {
	MentorshipID *uuid.UUID `json:"mentorshipId,omitempty"`
	SessionID    *uuid.UUID `json:"sessionId,omitempty"`
}

// LinkMentorship builds a linkage to a mentorship.
func LinkMentorship(id uuid.UUID) Linkage {
	return Linkage{MentorshipID: &id}
}

// LinkSession builds a legacy linkage to a session.
func LinkSession(id uuid.UUID) Linkage {
	return Linkage{SessionID: &id}
}

// Validate enforces the at-least-one-reference invariant at write time.
func (l Linkage) Validate() error {
	if l.MentorshipID == nil && l.SessionID == nil {
		return ErrMissingLinkage
	}
	return nil
}

// Plan is the per-relationship progress tracker.
type Plan struct {
	ID        uuid.UUID   `json:"id"`
	MentorID  string      `json:"mentorId"`
	Linkage   Linkage     `json:"linkage"`
	Progress  int         `json:"progress"` // 0..100
	Notes     string      `json:"notes,omitempty"`
	Milestones []Milestone `json:"milestones"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Milestone is one trackable step inside a plan.
type Milestone struct {
	ID          uuid.UUID  `json:"id"`
	PlanID      uuid.UUID  `json:"planId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// MessageSender identifies who authored a message.
type MessageSender string

const (
	SenderMentor MessageSender = "mentor"
	SenderMentee MessageSender = "mentee"
	SenderSystem MessageSender = "system"
)

// Message is a timestamped note on a mentorship (or legacy session).
type Message struct {
	ID        uuid.UUID     `json:"id"`
	MentorID  string        `json:"mentorId"`
	Linkage   Linkage       `json:"linkage"`
	Sender    MessageSender `json:"sender"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"createdAt"`
}

// UpdatePlanRequest patches notes and/or progress on a plan.
type UpdatePlanRequest struct {
	Notes    *string `json:"notes" binding:"omitempty,max=10000"`
	Progress *int    `json:"progress" binding:"omitempty,min=0,max=100"`
}

// AddMilestoneRequest is the payload for adding a milestone.
type AddMilestoneRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateMilestoneRequest patches a milestone.
type UpdateMilestoneRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
}

// AddMessageRequest is the payload for posting a message.
type AddMessageRequest struct {
	Sender MessageSender `json:"sender" binding:"required,oneof=mentor mentee system"`
	Body   string        `json:"body" binding:"required,max=10000"`
}
