package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aureeture/aureeture-api/internal/models"
)

// UserStore defines identity-backed user persistence
type UserStore interface {
	GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, clerkID, email, name string) (*models.User, error)
	UpdateUserRole(ctx context.Context, clerkID string, role models.Role) error
}

// ProfileStore defines role-profile persistence for all three roles
type ProfileStore interface {
	GetMentorByClerkID(ctx context.Context, clerkID string) (*models.MentorProfile, error)
	ListOnboardedMentors(ctx context.Context) ([]*models.MentorProfile, error)
	UpsertMentor(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.MentorOnboardingRequest, resumeURL, avatarURL string) (*models.MentorProfile, error)

	GetStudentByClerkID(ctx context.Context, clerkID string) (*models.StudentProfile, error)
	UpsertStudent(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.StudentOnboardingRequest, avatarURL string) (*models.StudentProfile, error)

	GetFounderByClerkID(ctx context.Context, clerkID string) (*models.FounderProfile, error)
	UpsertFounder(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.FounderOnboardingRequest) (*models.FounderProfile, error)
}

// SessionStore defines session persistence and the join-gate side effects
type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) (*models.Session, error)
	GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ListSessionsByMentor(ctx context.Context, mentorID string) ([]*models.Session, error)
	ListSessionsByStudent(ctx context.Context, studentID, email string) ([]*models.Session, error)
	ListOverlappingSessions(ctx context.Context, mentorID string, from, to time.Time) ([]*models.Session, error)
	CountCompletedSessionsByMentors(ctx context.Context) (map[string]int, error)
	UpdateSession(ctx context.Context, id uuid.UUID, req *models.UpdateSessionRequest) (*models.Session, error)
	MarkSessionOngoing(ctx context.Context, id uuid.UUID, channelName string) (*models.Session, error)
	AssignChannelName(ctx context.Context, id uuid.UUID, channelName string) (*models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID, mentorID string) error
}

// MentorshipStore defines relationship persistence and reconciliation writes
type MentorshipStore interface {
	GetMentorshipByID(ctx context.Context, id uuid.UUID) (*models.Mentorship, error)
	GetMentorshipByMenteeClerkID(ctx context.Context, mentorID, menteeClerkID string) (*models.Mentorship, error)
	UpsertMentorshipByClerkID(ctx context.Context, mentorID, menteeClerkID, name, goal string, status models.MentorshipStatus, forceStatus bool) (*models.Mentorship, bool, error)
	UpsertMentorshipByEmail(ctx context.Context, mentorID, email, name, goal string, status models.MentorshipStatus, forceStatus bool) (*models.Mentorship, bool, error)
	ClaimMentorshipsByEmail(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error)
	ListMentorshipsByMentor(ctx context.Context, mentorID string) ([]*models.Mentorship, error)
	ListMentorshipsByMentee(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error)
	UpdateMentorshipStatus(ctx context.Context, id uuid.UUID, mentorID string, status models.MentorshipStatus) (*models.Mentorship, error)
}

// PlanStore defines plan and milestone persistence
type PlanStore interface {
	GetOrCreatePlanByMentorship(ctx context.Context, mentorID string, mentorshipID uuid.UUID) (*models.Plan, error)
	GetPlanByMentorship(ctx context.Context, mentorshipID uuid.UUID) (*models.Plan, error)
	LinkLegacyPlans(ctx context.Context, mentorshipID uuid.UUID, sessionIDs []uuid.UUID) (int, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, mentorID string, req *models.UpdatePlanRequest) (*models.Plan, error)
	AddMilestone(ctx context.Context, planID uuid.UUID, mentorID string, req *models.AddMilestoneRequest) (*models.Milestone, error)
	UpdateMilestone(ctx context.Context, milestoneID uuid.UUID, mentorID string, req *models.UpdateMilestoneRequest) (*models.Milestone, error)
	DeleteMilestone(ctx context.Context, milestoneID uuid.UUID, mentorID string) error
}

// MessageStore defines conversation persistence
type MessageStore interface {
	AddMessage(ctx context.Context, mentorID string, linkage models.Linkage, sender models.MessageSender, body string) (*models.Message, error)
	ListMessages(ctx context.Context, mentorID string, linkage models.Linkage) ([]*models.Message, error)
}

// Store aggregates every persistence concern backed by one database client
type Store interface {
	UserStore
	ProfileStore
	SessionStore
	MentorshipStore
	PlanStore
	MessageStore
}
