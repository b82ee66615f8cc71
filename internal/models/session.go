package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a booked session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// PaymentStatus is the payment state of a session.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFree    PaymentStatus = "free"
)

// BookingType distinguishes how a session came to exist.
type BookingType string

const (
	BookingManual BookingType = "manual"
	BookingPaid   BookingType = "paid"
)

// Session is one scheduled meeting between a mentor and a mentee.
// Mentor and student are referenced by their external identity ids;
// a pre-registration mentee is referenced by lowercased email instead.
type Session struct {
	ID            uuid.UUID     `json:"id"`
	MentorID      string        `json:"mentorId"`
	StudentID     string        `json:"studentId,omitempty"`
	StudentEmail  string        `json:"studentEmail,omitempty"`
	StudentName   string        `json:"studentName"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       time.Time     `json:"endTime"`
	DurationMins  int           `json:"durationMinutes"`
	Status        SessionStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	BookingType   BookingType   `json:"bookingType"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency,omitempty"`
	MeetingLink   string        `json:"meetingLink,omitempty"`
	ChannelName   string        `json:"channelName,omitempty"`
	PaymentID     string        `json:"paymentId,omitempty"`
	OrderID       string        `json:"orderId,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	RecordingURL  string        `json:"recordingUrl,omitempty"`
	StartedAt     *time.Time    `json:"startedAt,omitempty"`
	EndedAt       *time.Time    `json:"endedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// DurationMinutes derives the session length in whole minutes,
// rounding half-up the way the booking flow always has.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// MenteeKey returns the identity key used for relationship reconciliation:
// external id when the mentee is registered, lowercased email otherwise.
// The second return is true when the key is an external id.
func (s *Session) MenteeKey() (string, bool) {
	if s.StudentID != "" {
		return s.StudentID, true
	}
	return s.StudentEmail, false
}

// CreateSessionRequest is the payload for a manual booking.
type CreateSessionRequest struct {
	MentorID     string    `json:"mentorId" binding:"required,max=100"`
	StudentID    string    `json:"studentId" binding:"omitempty,max=100"`
	StudentEmail string    `json:"studentEmail" binding:"omitempty,email,max=254"`
	StudentName  string    `json:"studentName" binding:"required,max=100"`
	Title        string    `json:"title" binding:"required,max=200"`
	Description  string    `json:"description" binding:"omitempty,max=5000"`
	StartTime    time.Time `json:"startTime" binding:"required"`
	EndTime      time.Time `json:"endTime" binding:"required"`
	Amount       int64     `json:"amount" binding:"omitempty,min=0"`
	Currency     string    `json:"currency" binding:"omitempty,max=10"`
	MeetingLink  string    `json:"meetingLink" binding:"omitempty,url,max=500"`
}

// UpdateSessionRequest is the payload for session patches. Reschedule
// requires both StartTime and EndTime.
type UpdateSessionRequest struct {
	StartTime    *time.Time     `json:"startTime"`
	EndTime      *time.Time     `json:"endTime"`
	Status       *SessionStatus `json:"status"`
	Notes        *string        `json:"notes" binding:"omitempty,max=10000"`
	MeetingLink  *string        `json:"meetingLink" binding:"omitempty,max=500"`
	RecordingURL *string        `json:"recordingUrl" binding:"omitempty,max=500"`
}

// ConfirmPaymentRequest is the payload for the paid-booking finalization.
// Field names are part of the wire contract with the payment flow.
type ConfirmPaymentRequest struct {
	MentorID          string    `json:"mentorId" binding:"required,max=100"`
	StudentID         string    `json:"studentId" binding:"omitempty,max=100"`
	StudentEmail      string    `json:"studentEmail" binding:"omitempty,email,max=254"`
	StudentName       string    `json:"studentName" binding:"required,max=100"`
	Title             string    `json:"title" binding:"required,max=200"`
	StartTime         time.Time `json:"startTime" binding:"required"`
	EndTime           time.Time `json:"endTime" binding:"required"`
	Amount            int64     `json:"amount" binding:"omitempty,min=0"`
	Currency          string    `json:"currency" binding:"omitempty,max=10"`
	PaymentID         string    `json:"paymentId" binding:"required,max=100"`
	OrderID           string    `json:"orderId" binding:"required,max=100"`
	RazorpaySignature string    `json:"razorpaySignature" binding:"required,max=200"`
}

// SessionListResponse splits a mentor's sessions around now.
type SessionListResponse struct {
	Upcoming []*Session `json:"upcoming"`
	Past     []*Session `json:"past"`
	Total    int        `json:"total"`
}

// JoinVerification is the join-gate result for a session.
type JoinVerification struct {
	CanJoin          bool   `json:"canJoin"`
	Reason           string `json:"reason,omitempty"`
	MinutesUntilJoin int    `json:"minutesUntilJoin,omitempty"`
	MeetingLink      string `json:"meetingLink,omitempty"`
	ChannelName      string `json:"channelName,omitempty"`
}
