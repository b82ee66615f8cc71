package models

import (
	"time"

	"github.com/google/uuid"
)

// MenteeActivity is the computed engagement state of a mentee.
type MenteeActivity string

const (
	MenteeActive MenteeActivity = "Active" // has a future session
	MenteePaused MenteeActivity = "Paused" // completed sessions but nothing upcoming
	MenteeNew    MenteeActivity = "New"    // neither
)

// DashboardStats is the mentor dashboard headline view.
type DashboardStats struct {
	Earnings struct {
		Total         int64   `json:"total"`
		ThisMonth     int64   `json:"thisMonth"`
		LastMonth     int64   `json:"lastMonth"`
		ChangePercent float64 `json:"changePercent"`
	} `json:"earnings"`
	Mentees struct {
		Total  int `json:"total"`
		Active int `json:"active"`
		Paused int `json:"paused"`
		New    int `json:"new"`
	} `json:"mentees"`
	Sessions struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Upcoming  int `json:"upcoming"`
	} `json:"sessions"`
	NewRequests int `json:"newRequests"`
}

// PendingRequest is one actionable item on the mentor dashboard.
type PendingRequest struct {
	SessionID    uuid.UUID `json:"sessionId"`
	Type         string    `json:"type"` // "booking" or "feedback"
	StudentName  string    `json:"studentName"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"startTime"`
	RelativeTime string    `json:"relativeTime"`
}

// EarningsMonth is one bucket of the trailing six-month earnings window.
type EarningsMonth struct {
	Month  string `json:"month"` // "Jan" .. "Dec"
	Year   int    `json:"year"`
	Amount int64  `json:"amount"`
}

// EarningsReport is the mentor earnings view, computed per request.
type EarningsReport struct {
	Months        []EarningsMonth `json:"months"`
	Total         int64           `json:"total"`
	AvgHourlyRate float64         `json:"avgHourlyRate"`
	GrowthPercent float64         `json:"growthPercent"`
	Currency      string          `json:"currency"`
}

// MenteeSummary is one roster entry joining mentorship, sessions and plan.
type MenteeSummary struct {
	MentorshipID  uuid.UUID        `json:"mentorshipId"`
	Name          string           `json:"name"`
	Email         string           `json:"email,omitempty"`
	MenteeClerkID string           `json:"menteeClerkId,omitempty"`
	Goal          string           `json:"goal"`
	Status        MenteeActivity   `json:"status"`
	Relationship  MentorshipStatus `json:"relationshipStatus"`
	Progress      int              `json:"progress"`
	SessionsTotal int              `json:"sessionsTotal"`
	SessionsDone  int              `json:"sessionsDone"`
	NextSession   *time.Time       `json:"nextSession,omitempty"`
	LastSession   *time.Time       `json:"lastSession,omitempty"`
}

// MenteeRosterResponse wraps the roster list.
type MenteeRosterResponse struct {
	Mentees []MenteeSummary `json:"mentees"`
	Total   int             `json:"total"`
}

// MenteeDetail is the full view of one mentee.
type MenteeDetail struct {
	MenteeSummary
	Plan     *Plan      `json:"plan,omitempty"`
	Sessions []*Session `json:"sessions"`
	Messages []*Message `json:"messages"`
}

// AvailabilitySlot is one generated slot in a requested window.
type AvailabilitySlot struct {
	Date        string    `json:"date"` // "2006-01-02"
	Day         string    `json:"day"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	IsAvailable bool      `json:"isAvailable"`
	IsBooked    bool      `json:"isBooked"`
}

// DirectoryMentor is one public directory entry with derived stats.
type DirectoryMentor struct {
	ClerkID         string   `json:"clerkId"`
	Name            string   `json:"name"`
	CurrentRole     string   `json:"currentRole"`
	Company         string   `json:"company"`
	Domain          string   `json:"domain"`
	ExperienceYears int      `json:"experienceYears"`
	Specializations []string `json:"specializations"`
	AvatarURL       string   `json:"avatarUrl,omitempty"`
	AvgPrice        int64    `json:"avgPrice"`
	Currency        string   `json:"currency"`
	SessionsDone    int      `json:"sessionsDone"`
	Availability    string   `json:"availability"`
}

// DirectoryResponse wraps the public mentor directory.
type DirectoryResponse struct {
	Mentors []DirectoryMentor `json:"mentors"`
	Stats   struct {
		TotalMentors  int `json:"totalMentors"`
		TotalSessions int `json:"totalSessions"`
	} `json:"stats"`
}

// MyMentor is one entry of a student's mentor list.
type MyMentor struct {
	MentorshipID uuid.UUID        `json:"mentorshipId"`
	MentorID     string           `json:"mentorId"`
	Name         string           `json:"name"`
	CurrentRole  string           `json:"currentRole,omitempty"`
	Company      string           `json:"company,omitempty"`
	AvatarURL    string           `json:"avatarUrl,omitempty"`
	Goal         string           `json:"goal"`
	Status       MentorshipStatus `json:"status"`
	NextSession  *time.Time       `json:"nextSession,omitempty"`
}

// MyMentorsResponse wraps a student's mentor list.
type MyMentorsResponse struct {
	Mentors []MyMentor `json:"mentors"`
	Total   int        `json:"total"`
}
