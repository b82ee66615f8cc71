package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aureeture/aureeture-api/internal/models"
)

// AuthServiceInterface defines the post-login handshake
type AuthServiceInterface interface {
	Verify(ctx context.Context, clerkID, email, name string) (*VerifyResult, error)
}

// SessionServiceInterface defines session lifecycle operations
type SessionServiceInterface interface {
	CreateManualBooking(ctx context.Context, mentorID string, req *models.CreateSessionRequest) (*models.Session, error)
	ListMentorSessions(ctx context.Context, mentorID, scope string) (*models.SessionListResponse, error)
	ListStudentSessions(ctx context.Context, studentID, email, scope string) (*models.SessionListResponse, error)
	GetSession(ctx context.Context, id uuid.UUID, callerID string) (*models.Session, error)
	UpdateSession(ctx context.Context, id uuid.UUID, mentorID string, req *models.UpdateSessionRequest) (*models.Session, error)
	CompleteSession(ctx context.Context, id uuid.UUID, mentorID string, notes string) (*models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID, mentorID string) error
	VerifyJoin(ctx context.Context, id uuid.UUID, callerID string) (*models.JoinVerification, error)
}

// PaymentServiceInterface defines paid-booking finalization
type PaymentServiceInterface interface {
	ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.Session, error)
}

// MenteeServiceInterface defines roster and per-mentee sub-resources
type MenteeServiceInterface interface {
	Roster(ctx context.Context, mentorID string) (*models.MenteeRosterResponse, error)
	Detail(ctx context.Context, mentorID string, mentorshipID uuid.UUID) (*models.MenteeDetail, error)
	UpdatePlan(ctx context.Context, mentorID string, mentorshipID uuid.UUID, req *models.UpdatePlanRequest) (*models.Plan, error)
	AddMilestone(ctx context.Context, mentorID string, mentorshipID uuid.UUID, req *models.AddMilestoneRequest) (*models.Milestone, error)
	UpdateMilestone(ctx context.Context, mentorID string, milestoneID uuid.UUID, req *models.UpdateMilestoneRequest) (*models.Milestone, error)
	DeleteMilestone(ctx context.Context, mentorID string, milestoneID uuid.UUID) error
	AddMessage(ctx context.Context, mentorID string, mentorshipID uuid.UUID, req *models.AddMessageRequest) (*models.Message, error)
	UpdateStatus(ctx context.Context, mentorID string, mentorshipID uuid.UUID, status models.MentorshipStatus) (*models.Mentorship, error)
}

// MentorshipServiceInterface defines relationship reconciliation operations
type MentorshipServiceInterface interface {
	EnsureFromSessions(ctx context.Context, mentorID string) error
	UpsertFromBooking(ctx context.Context, session *models.Session) (*models.Mentorship, error)
	ClaimForMentee(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error)
	AddMentee(ctx context.Context, mentorID string, req *models.AddMenteeRequest) (*models.Mentorship, error)
}

// DashboardServiceInterface defines the mentor aggregation views
type DashboardServiceInterface interface {
	Stats(ctx context.Context, mentorID string) (*models.DashboardStats, error)
	PendingRequests(ctx context.Context, mentorID string) ([]models.PendingRequest, error)
	Earnings(ctx context.Context, mentorID string) (*models.EarningsReport, error)
	AvailabilitySlots(ctx context.Context, mentorID string, from, to time.Time) ([]models.AvailabilitySlot, error)
}

// OnboardingServiceInterface defines role-profile onboarding operations
type OnboardingServiceInterface interface {
	OnboardMentor(ctx context.Context, user *models.User, req *models.MentorOnboardingRequest) (*models.MentorProfile, error)
	OnboardStudent(ctx context.Context, user *models.User, req *models.StudentOnboardingRequest) (*models.StudentProfile, error)
	OnboardFounder(ctx context.Context, user *models.User, req *models.FounderOnboardingRequest) (*models.FounderProfile, error)
	Status(ctx context.Context, clerkID string, role models.Role) (*models.OnboardingStatus, error)
}

// DirectoryServiceInterface defines public directory and my-mentors views
type DirectoryServiceInterface interface {
	ListMentors(ctx context.Context) (*models.DirectoryResponse, error)
	MyMentors(ctx context.Context, studentID, email string) (*models.MyMentorsResponse, error)
}
