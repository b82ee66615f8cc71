package services_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/aureeture/aureeture-api/internal/models"
)

// MockSessionStore is a mock implementation of repository.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, s *models.Session) (*models.Session, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) ListSessionsByMentor(ctx context.Context, mentorID string) ([]*models.Session, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionStore) ListSessionsByStudent(ctx context.Context, studentID, email string) ([]*models.Session, error) {
	args := m.Called(ctx, studentID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionStore) ListOverlappingSessions(ctx context.Context, mentorID string, from, to time.Time) ([]*models.Session, error) {
	args := m.Called(ctx, mentorID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionStore) CountCompletedSessionsByMentors(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockSessionStore) UpdateSession(ctx context.Context, id uuid.UUID, req *models.UpdateSessionRequest) (*models.Session, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) MarkSessionOngoing(ctx context.Context, id uuid.UUID, channelName string) (*models.Session, error) {
	args := m.Called(ctx, id, channelName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) AssignChannelName(ctx context.Context, id uuid.UUID, channelName string) (*models.Session, error) {
	args := m.Called(ctx, id, channelName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, id uuid.UUID, mentorID string) error {
	args := m.Called(ctx, id, mentorID)
	return args.Error(0)
}

// MockMentorshipStore is a mock implementation of repository.MentorshipStore
type MockMentorshipStore struct {
	mock.Mock
}

func (m *MockMentorshipStore) GetMentorshipByID(ctx context.Context, id uuid.UUID) (*models.Mentorship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipStore) GetMentorshipByMenteeClerkID(ctx context.Context, mentorID, menteeClerkID string) (*models.Mentorship, error) {
	args := m.Called(ctx, mentorID, menteeClerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipStore) UpsertMentorshipByClerkID(ctx context.Context, mentorID, menteeClerkID, name, goal string, status models.MentorshipStatus, forceStatus bool) (*models.Mentorship, bool, error) {
	args := m.Called(ctx, mentorID, menteeClerkID, name, goal, status, forceStatus)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Mentorship), args.Bool(1), args.Error(2)
}

func (m *MockMentorshipStore) UpsertMentorshipByEmail(ctx context.Context, mentorID, email, name, goal string, status models.MentorshipStatus, forceStatus bool) (*models.Mentorship, bool, error) {
	args := m.Called(ctx, mentorID, email, name, goal, status, forceStatus)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Mentorship), args.Bool(1), args.Error(2)
}

func (m *MockMentorshipStore) ClaimMentorshipsByEmail(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error) {
	args := m.Called(ctx, menteeClerkID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipStore) ListMentorshipsByMentor(ctx context.Context, mentorID string) ([]*models.Mentorship, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipStore) ListMentorshipsByMentee(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error) {
	args := m.Called(ctx, menteeClerkID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mentorship), args.Error(1)
}

func (m *MockMentorshipStore) UpdateMentorshipStatus(ctx context.Context, id uuid.UUID, mentorID string, status models.MentorshipStatus) (*models.Mentorship, error) {
	args := m.Called(ctx, id, mentorID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentorship), args.Error(1)
}

// MockPlanStore is a mock implementation of repository.PlanStore
type MockPlanStore struct {
	mock.Mock
}

func (m *MockPlanStore) GetOrCreatePlanByMentorship(ctx context.Context, mentorID string, mentorshipID uuid.UUID) (*models.Plan, error) {
	args := m.Called(ctx, mentorID, mentorshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanStore) GetPlanByMentorship(ctx context.Context, mentorshipID uuid.UUID) (*models.Plan, error) {
	args := m.Called(ctx, mentorshipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanStore) LinkLegacyPlans(ctx context.Context, mentorshipID uuid.UUID, sessionIDs []uuid.UUID) (int, error) {
	args := m.Called(ctx, mentorshipID, sessionIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockPlanStore) UpdatePlan(ctx context.Context, planID uuid.UUID, mentorID string, req *models.UpdatePlanRequest) (*models.Plan, error) {
	args := m.Called(ctx, planID, mentorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanStore) AddMilestone(ctx context.Context, planID uuid.UUID, mentorID string, req *models.AddMilestoneRequest) (*models.Milestone, error) {
	args := m.Called(ctx, planID, mentorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Milestone), args.Error(1)
}

func (m *MockPlanStore) UpdateMilestone(ctx context.Context, milestoneID uuid.UUID, mentorID string, req *models.UpdateMilestoneRequest) (*models.Milestone, error) {
	args := m.Called(ctx, milestoneID, mentorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Milestone), args.Error(1)
}

func (m *MockPlanStore) DeleteMilestone(ctx context.Context, milestoneID uuid.UUID, mentorID string) error {
	args := m.Called(ctx, milestoneID, mentorID)
	return args.Error(0)
}

// MockMessageStore is a mock implementation of repository.MessageStore
type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) AddMessage(ctx context.Context, mentorID string, linkage models.Linkage, sender models.MessageSender, body string) (*models.Message, error) {
	args := m.Called(ctx, mentorID, linkage, sender, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageStore) ListMessages(ctx context.Context, mentorID string, linkage models.Linkage) ([]*models.Message, error) {
	args := m.Called(ctx, mentorID, linkage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

// MockUserStore is a mock implementation of repository.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	args := m.Called(ctx, clerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UpsertUser(ctx context.Context, clerkID, email, name string) (*models.User, error) {
	args := m.Called(ctx, clerkID, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UpdateUserRole(ctx context.Context, clerkID string, role models.Role) error {
	args := m.Called(ctx, clerkID, role)
	return args.Error(0)
}

// MockProfileStore is a mock implementation of repository.ProfileStore
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) GetMentorByClerkID(ctx context.Context, clerkID string) (*models.MentorProfile, error) {
	args := m.Called(ctx, clerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorProfile), args.Error(1)
}

func (m *MockProfileStore) ListOnboardedMentors(ctx context.Context) ([]*models.MentorProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MentorProfile), args.Error(1)
}

func (m *MockProfileStore) UpsertMentor(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.MentorOnboardingRequest, resumeURL, avatarURL string) (*models.MentorProfile, error) {
	args := m.Called(ctx, userID, clerkID, email, req, resumeURL, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorProfile), args.Error(1)
}

func (m *MockProfileStore) GetStudentByClerkID(ctx context.Context, clerkID string) (*models.StudentProfile, error) {
	args := m.Called(ctx, clerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProfile), args.Error(1)
}

func (m *MockProfileStore) UpsertStudent(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.StudentOnboardingRequest, avatarURL string) (*models.StudentProfile, error) {
	args := m.Called(ctx, userID, clerkID, email, req, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProfile), args.Error(1)
}

func (m *MockProfileStore) GetFounderByClerkID(ctx context.Context, clerkID string) (*models.FounderProfile, error) {
	args := m.Called(ctx, clerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FounderProfile), args.Error(1)
}

func (m *MockProfileStore) UpsertFounder(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.FounderOnboardingRequest) (*models.FounderProfile, error) {
	args := m.Called(ctx, userID, clerkID, email, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FounderProfile), args.Error(1)
}
