package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklySlot is one recurring availability window on a weekday.
type WeeklySlot struct {
	Day       string `json:"day" binding:"omitempty,max=10"` // "Monday" .. "Sunday"
	StartTime string `json:"startTime"`                      // "15:04"
	EndTime   string `json:"endTime"`
	Active    bool   `json:"active"`
}

// DateOverride blocks availability on a specific calendar date.
type DateOverride struct {
	Date    string `json:"date"` // "2006-01-02"
	Blocked bool   `json:"blocked"`
}

// Pricing holds a mentor's session rates.
type Pricing struct {
	HourlyRate   int64  `json:"hourlyRate"`
	HalfHourRate int64  `json:"halfHourRate"`
	Currency     string `json:"currency"`
}

// MentorProfile is the mentor role document, keyed by user.
type MentorProfile struct {
	ID                   uuid.UUID      `json:"id"`
	UserID               uuid.UUID      `json:"userId"`
	ClerkID              string         `json:"clerkId"`
	Name                 string         `json:"name"`
	Email                string         `json:"email"`
	CurrentRole          string         `json:"currentRole"`
	Company              string         `json:"company"`
	LinkedinURL          string         `json:"linkedinUrl,omitempty"`
	ResumeURL            string         `json:"resumeUrl,omitempty"`
	AvatarURL            string         `json:"avatarUrl,omitempty"`
	ExperienceYears      int            `json:"experienceYears"`
	Education            string         `json:"education,omitempty"`
	Specializations      []string       `json:"specializations"`
	Pricing              Pricing        `json:"pricing"`
	Timezone             string         `json:"timezone,omitempty"`
	WeeklyAvailability   []WeeklySlot   `json:"weeklyAvailability"`
	OverrideAvailability []DateOverride `json:"overrideAvailability"`
	IsOnboarded          bool           `json:"isOnboarded"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// StudentProfile is the student role document, keyed by user.
type StudentProfile struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"userId"`
	ClerkID     string            `json:"clerkId"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Headline    string            `json:"headline,omitempty"`
	AvatarURL   string            `json:"avatarUrl,omitempty"`
	Educations  []Education       `json:"educations"`
	Experiences []Experience      `json:"experiences"`
	Projects    []Project         `json:"projects"`
	Links       map[string]string `json:"links"`
	Interests   []string          `json:"interests"`
	IsOnboarded bool              `json:"isOnboarded"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Education is one entry of a student's education history.
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree,omitempty"`
	Field     string `json:"field,omitempty"`
	StartYear int    `json:"startYear,omitempty"`
	EndYear   int    `json:"endYear,omitempty"`
}

// Experience is one entry of a student's work history.
type Experience struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// Project is one entry of a student's project list.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// FounderProfile is the founder role document, keyed by user.
type FounderProfile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	ClerkID     string    `json:"clerkId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Headline    string    `json:"headline,omitempty"`
	Idea        string    `json:"idea,omitempty"`
	Stage       string    `json:"stage,omitempty"`
	Needs       []string  `json:"needs"`
	Website     string    `json:"website,omitempty"`
	Location    string    `json:"location,omitempty"`
	IsOnboarded bool      `json:"isOnboarded"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MentorOnboardingRequest is the payload for mentor onboarding upserts.
// SECURITY: Max length validation to prevent resource exhaustion attacks
type MentorOnboardingRequest struct {
	Name                 string         `json:"name" binding:"required,max=100"`
	CurrentRole          string         `json:"currentRole" binding:"omitempty,max=200"`
	Company              string         `json:"company" binding:"omitempty,max=200"`
	LinkedinURL          string         `json:"linkedinUrl" binding:"omitempty,url,max=500"`
	Resume               string         `json:"resume"` // base64, optional
	Avatar               string         `json:"avatar"` // base64, optional
	ExperienceYears      int            `json:"experienceYears" binding:"omitempty,min=0,max=80"`
	Education            string         `json:"education" binding:"omitempty,max=500"`
	Specializations      []string       `json:"specializations" binding:"omitempty,max=20,dive,max=50"`
	Pricing              Pricing        `json:"pricing"`
	Timezone             string         `json:"timezone" binding:"omitempty,max=64"`
	WeeklyAvailability   []WeeklySlot   `json:"weeklyAvailability" binding:"omitempty,max=21"`
	OverrideAvailability []DateOverride `json:"overrideAvailability" binding:"omitempty,max=100"`
}

// StudentOnboardingRequest is the payload for student onboarding upserts.
type StudentOnboardingRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Headline    string            `json:"headline" binding:"omitempty,max=200"`
	Avatar      string            `json:"avatar"` // base64, optional
	Educations  []Education       `json:"educations" binding:"omitempty,max=20"`
	Experiences []Experience      `json:"experiences" binding:"omitempty,max=20"`
	Projects    []Project         `json:"projects" binding:"omitempty,max=20"`
	Links       map[string]string `json:"links"`
	Interests   []string          `json:"interests" binding:"omitempty,max=20,dive,max=50"`
}

// FounderOnboardingRequest is the payload for founder onboarding upserts.
type FounderOnboardingRequest struct {
	Name     string   `json:"name" binding:"required,max=100"`
	Company  string   `json:"company" binding:"omitempty,max=200"`
	Headline string   `json:"headline" binding:"omitempty,max=200"`
	Idea     string   `json:"idea" binding:"omitempty,max=5000"`
	Stage    string   `json:"stage" binding:"omitempty,max=50"`
	Needs    []string `json:"needs" binding:"omitempty,max=20,dive,max=50"`
	Website  string   `json:"website" binding:"omitempty,url,max=500"`
	Location string   `json:"location" binding:"omitempty,max=200"`
}

// OnboardingStatus reports whether a role profile exists and is complete.
type OnboardingStatus struct {
	Exists      bool `json:"exists"`
	IsOnboarded bool `json:"isOnboarded"`
}
