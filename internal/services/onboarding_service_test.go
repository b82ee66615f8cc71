package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

func newOnboardingService() (*services.OnboardingService, *MockUserStore, *MockProfileStore) {
	users := new(MockUserStore)
	profiles := new(MockProfileStore)
	// No object storage configured: uploads are skipped, not failed.
	return services.NewOnboardingService(users, profiles, nil), users, profiles
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), ClerkID: "user_a", Email: "asha@example.com", Name: "Asha"}
}

func TestOnboardingService_OnboardMentor(t *testing.T) {
	service, users, profiles := newOnboardingService()
	ctx := context.Background()
	user := testUser()

	req := &models.MentorOnboardingRequest{Name: "Asha", CurrentRole: "Staff Engineer"}
	profile := &models.MentorProfile{ID: uuid.New(), ClerkID: "user_a", Name: "Asha", IsOnboarded: true}

	profiles.On("UpsertMentor", ctx, user.ID, "user_a", "asha@example.com", req, "", "").Return(profile, nil).Once()
	users.On("UpdateUserRole", ctx, "user_a", models.RoleMentor).Return(nil).Once()

	result, err := service.OnboardMentor(ctx, user, req)
	assert.NoError(t, err)
	assert.Equal(t, profile, result)
	profiles.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestOnboardingService_OnboardMentor_RoleUpdateFailureIsNonFatal(t *testing.T) {
	service, users, profiles := newOnboardingService()
	ctx := context.Background()
	user := testUser()

	req := &models.MentorOnboardingRequest{Name: "Asha"}
	profile := &models.MentorProfile{ID: uuid.New(), ClerkID: "user_a"}

	profiles.On("UpsertMentor", ctx, user.ID, "user_a", "asha@example.com", req, "", "").Return(profile, nil).Once()
	users.On("UpdateUserRole", ctx, "user_a", models.RoleMentor).Return(errors.New("db down")).Once()

	result, err := service.OnboardMentor(ctx, user, req)
	assert.NoError(t, err)
	assert.Equal(t, profile, result)
}

func TestOnboardingService_OnboardStudent(t *testing.T) {
	service, users, profiles := newOnboardingService()
	ctx := context.Background()
	user := testUser()

	req := &models.StudentOnboardingRequest{Name: "Asha", Interests: []string{"Backend"}}
	profile := &models.StudentProfile{ID: uuid.New(), ClerkID: "user_a", IsOnboarded: true}

	profiles.On("UpsertStudent", ctx, user.ID, "user_a", "asha@example.com", req, "").Return(profile, nil).Once()
	users.On("UpdateUserRole", ctx, "user_a", models.RoleStudent).Return(nil).Once()

	result, err := service.OnboardStudent(ctx, user, req)
	assert.NoError(t, err)
	assert.Equal(t, profile, result)
}

func TestOnboardingService_OnboardFounder(t *testing.T) {
	service, users, profiles := newOnboardingService()
	ctx := context.Background()
	user := testUser()

	req := &models.FounderOnboardingRequest{Name: "Asha", Company: "Startly"}
	profile := &models.FounderProfile{ID: uuid.New(), ClerkID: "user_a", IsOnboarded: true}

	profiles.On("UpsertFounder", ctx, user.ID, "user_a", "asha@example.com", req).Return(profile, nil).Once()
	users.On("UpdateUserRole", ctx, "user_a", models.RoleFounder).Return(nil).Once()

	result, err := service.OnboardFounder(ctx, user, req)
	assert.NoError(t, err)
	assert.Equal(t, profile, result)
}

func TestOnboardingService_Status(t *testing.T) {
	service, _, profiles := newOnboardingService()
	ctx := context.Background()

	profiles.On("GetMentorByClerkID", ctx, "user_a").
		Return(&models.MentorProfile{ClerkID: "user_a", IsOnboarded: true}, nil).Once()

	status, err := service.Status(ctx, "user_a", models.RoleMentor)
	assert.NoError(t, err)
	assert.True(t, status.Exists)
	assert.True(t, status.IsOnboarded)
}

func TestOnboardingService_Status_MissingProfile(t *testing.T) {
	service, _, profiles := newOnboardingService()
	ctx := context.Background()

	profiles.On("GetStudentByClerkID", ctx, "user_a").Return(nil, pgx.ErrNoRows).Once()

	status, err := service.Status(ctx, "user_a", models.RoleStudent)
	assert.NoError(t, err)
	assert.False(t, status.Exists)
	assert.False(t, status.IsOnboarded)
}

func TestOnboardingService_Status_UnknownRole(t *testing.T) {
	service, _, _ := newOnboardingService()

	status, err := service.Status(context.Background(), "user_a", models.Role("admin"))
	assert.Error(t, err)
	assert.Nil(t, status)
}
