package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

func newDirectoryService() (*services.DirectoryService, *MockProfileStore, *MockSessionStore, *MockMentorshipStore) {
	profiles := new(MockProfileStore)
	sessions := new(MockSessionStore)
	mentorships := new(MockMentorshipStore)
	return services.NewDirectoryService(profiles, sessions, mentorships), profiles, sessions, mentorships
}

func TestDirectoryService_ListMentors(t *testing.T) {
	service, profiles, sessions, _ := newDirectoryService()
	ctx := context.Background()

	mentors := []*models.MentorProfile{
		{
			ClerkID:         "mentor_1",
			Name:            "Priya",
			CurrentRole:     "Staff Engineer",
			Company:         "Acme",
			Specializations: []string{"Backend", "System Design"},
			Pricing:         models.Pricing{HourlyRate: 2000, HalfHourRate: 1200, Currency: "INR"},
			WeeklyAvailability: []models.WeeklySlot{
				{Day: "Monday", Active: true},
				{Day: "Tuesday", Active: true},
				{Day: "Wednesday", Active: true},
			},
		},
		{
			ClerkID: "mentor_2",
			Name:    "Ravi",
			Pricing: models.Pricing{Currency: "INR"},
		},
	}

	profiles.On("ListOnboardedMentors", ctx).Return(mentors, nil).Once()
	sessions.On("CountCompletedSessionsByMentors", ctx).Return(map[string]int{"mentor_1": 12}, nil).Once()

	resp, err := service.ListMentors(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Stats.TotalMentors)
	assert.Equal(t, 12, resp.Stats.TotalSessions)

	first := resp.Mentors[0]
	assert.Equal(t, "Backend", first.Domain)
	assert.Equal(t, int64((2000+2400)/2), first.AvgPrice)
	assert.Equal(t, 12, first.SessionsDone)
	assert.Equal(t, "3 days/week", first.Availability)

	second := resp.Mentors[1]
	assert.Equal(t, "", second.Domain)
	assert.Equal(t, int64(0), second.AvgPrice)
	assert.Equal(t, "Unavailable", second.Availability)
}

func TestDirectoryService_MyMentors(t *testing.T) {
	service, profiles, sessions, mentorships := newDirectoryService()
	ctx := context.Background()
	now := time.Now()

	m := &models.Mentorship{
		ID:            uuid.New(),
		MentorID:      "mentor_1",
		MenteeClerkID: "user_a",
		Goal:          "System design",
		Status:        models.MentorshipActive,
	}
	orphan := &models.Mentorship{
		ID:            uuid.New(),
		MentorID:      "mentor_gone",
		MenteeClerkID: "user_a",
		Status:        models.MentorshipInvited,
	}

	soon := &models.Session{ID: uuid.New(), MentorID: "mentor_1", StudentID: "user_a", StartTime: now.Add(24 * time.Hour), Status: models.SessionScheduled}
	later := &models.Session{ID: uuid.New(), MentorID: "mentor_1", StudentID: "user_a", StartTime: now.Add(72 * time.Hour), Status: models.SessionScheduled}

	mentorships.On("ListMentorshipsByMentee", ctx, "user_a", "asha@example.com").
		Return([]*models.Mentorship{m, orphan}, nil).Once()
	sessions.On("ListSessionsByStudent", ctx, "user_a", "asha@example.com").
		Return([]*models.Session{later, soon}, nil).Once()
	profiles.On("GetMentorByClerkID", ctx, "mentor_1").
		Return(&models.MentorProfile{ClerkID: "mentor_1", Name: "Priya", Company: "Acme"}, nil).Once()
	profiles.On("GetMentorByClerkID", ctx, "mentor_gone").Return(nil, pgx.ErrNoRows).Once()

	resp, err := service.MyMentors(ctx, "user_a", "asha@example.com")
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	first := resp.Mentors[0]
	assert.Equal(t, "Priya", first.Name)
	assert.NotNil(t, first.NextSession)
	assert.WithinDuration(t, soon.StartTime, *first.NextSession, time.Second)

	// A missing mentor profile still yields an entry from relationship data.
	second := resp.Mentors[1]
	assert.Equal(t, "mentor_gone", second.MentorID)
	assert.Equal(t, "", second.Name)
	assert.Nil(t, second.NextSession)
}
