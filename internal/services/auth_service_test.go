package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

func newAuthService() (*services.AuthService, *MockUserStore, *MockMentorshipStore) {
	users := new(MockUserStore)
	mentorships := new(MockMentorshipStore)
	reconciler := services.NewMentorshipService(mentorships, new(MockSessionStore), new(MockPlanStore))
	return services.NewAuthService(users, reconciler), users, mentorships
}

func TestAuthService_Verify(t *testing.T) {
	service, users, mentorships := newAuthService()
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), ClerkID: "user_a", Email: "asha@example.com", Name: "Asha", Role: models.RoleStudent}
	claimed := []*models.Mentorship{
		{ID: uuid.New(), MentorID: "mentor_1", MenteeClerkID: "user_a", Status: models.MentorshipActive},
	}

	users.On("UpsertUser", ctx, "user_a", "asha@example.com", "Asha").Return(user, nil).Once()
	mentorships.On("ClaimMentorshipsByEmail", ctx, "user_a", "asha@example.com").Return(claimed, nil).Once()

	result, err := service.Verify(ctx, "user_a", "asha@example.com", "Asha")
	assert.NoError(t, err)
	assert.Equal(t, user, result.User)
	assert.Equal(t, models.RoleStudent, result.Role)
	assert.Equal(t, 1, result.ClaimedMentorships)
	users.AssertExpectations(t)
	mentorships.AssertExpectations(t)
}

func TestAuthService_Verify_ClaimFailureIsNonFatal(t *testing.T) {
	service, users, mentorships := newAuthService()
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), ClerkID: "user_a", Email: "asha@example.com", Role: models.RoleUnassigned}

	users.On("UpsertUser", ctx, "user_a", "asha@example.com", "Asha").Return(user, nil).Once()
	mentorships.On("ClaimMentorshipsByEmail", ctx, "user_a", "asha@example.com").
		Return(nil, errors.New("db down")).Once()

	result, err := service.Verify(ctx, "user_a", "asha@example.com", "Asha")
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ClaimedMentorships)
}

func TestAuthService_Verify_UpsertError(t *testing.T) {
	service, users, _ := newAuthService()
	ctx := context.Background()

	users.On("UpsertUser", ctx, "user_a", "asha@example.com", "Asha").
		Return(nil, errors.New("db down")).Once()

	result, err := service.Verify(ctx, "user_a", "asha@example.com", "Asha")
	assert.Error(t, err)
	assert.Nil(t, result)
}
