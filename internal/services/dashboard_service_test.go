package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

func newDashboardService() (*services.DashboardService, *MockSessionStore, *MockMentorshipStore, *MockProfileStore, *MockPlanStore) {
	sessions := new(MockSessionStore)
	mentorships := new(MockMentorshipStore)
	profiles := new(MockProfileStore)
	plans := new(MockPlanStore)
	reconciler := services.NewMentorshipService(mentorships, sessions, plans)
	return services.NewDashboardService(sessions, mentorships, profiles, reconciler), sessions, mentorships, profiles, plans
}

func TestDashboardService_Stats(t *testing.T) {
	service, sessions, mentorships, _, plans := newDashboardService()
	ctx := context.Background()
	now := time.Now()

	completed := &models.Session{
		ID:            uuid.New(),
		MentorID:      "mentor_1",
		StudentID:     "user_a",
		StudentName:   "Asha",
		Title:         "Mock interview",
		Status:        models.SessionCompleted,
		PaymentStatus: models.PaymentPaid,
		Amount:        1500,
		StartTime:     now.Add(-48 * time.Hour),
		EndTime:       now.Add(-47 * time.Hour),
	}

	mentorship := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_1", MenteeClerkID: "user_a", Status: models.MentorshipActive}

	// Backfill runs first, then the stats read.
	sessions.On("ListSessionsByMentor", ctx, "mentor_1").Return([]*models.Session{completed}, nil).Twice()
	mentorships.On("UpsertMentorshipByClerkID", ctx, "mentor_1", "user_a", "Asha", "Mock interview", models.MentorshipActive, false).
		Return(mentorship, true, nil).Once()
	plans.On("LinkLegacyPlans", ctx, mentorship.ID, []uuid.UUID{completed.ID}).Return(0, nil).Once()
	mentorships.On("ListMentorshipsByMentor", ctx, "mentor_1").Return([]*models.Mentorship{mentorship}, nil).Once()

	stats, err := service.Stats(ctx, "mentor_1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), stats.Earnings.Total)
	assert.Equal(t, 1, stats.Mentees.Total)
	// One completed session with nothing upcoming reads as paused, not active.
	assert.Equal(t, 0, stats.Mentees.Active)
	assert.Equal(t, 1, stats.Mentees.Paused)
	assert.Equal(t, 0, stats.Mentees.New)
	assert.Equal(t, 1, stats.Sessions.Total)
	assert.Equal(t, 1, stats.Sessions.Completed)
	assert.Equal(t, 0, stats.Sessions.Upcoming)
	assert.Equal(t, 0, stats.NewRequests)
	sessions.AssertExpectations(t)
	mentorships.AssertExpectations(t)
}

func TestDashboardService_Stats_NewRequestWindow(t *testing.T) {
	service, sessions, mentorships, _, plans := newDashboardService()
	ctx := context.Background()
	now := time.Now()

	recent := &models.Session{
		ID:            uuid.New(),
		MentorID:      "mentor_1",
		StudentID:     "user_a",
		Status:        models.SessionScheduled,
		PaymentStatus: models.PaymentPaid,
		StartTime:     now.Add(24 * time.Hour),
		EndTime:       now.Add(25 * time.Hour),
		CreatedAt:     now.Add(-time.Hour),
	}
	stale := &models.Session{
		ID:            uuid.New(),
		MentorID:      "mentor_1",
		StudentID:     "user_a",
		Status:        models.SessionScheduled,
		PaymentStatus: models.PaymentPaid,
		StartTime:     now.Add(48 * time.Hour),
		EndTime:       now.Add(49 * time.Hour),
		CreatedAt:     now.AddDate(0, 0, -10),
	}

	mentorship := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_1", MenteeClerkID: "user_a"}

	sessions.On("ListSessionsByMentor", ctx, "mentor_1").Return([]*models.Session{recent, stale}, nil).Twice()
	mentorships.On("UpsertMentorshipByClerkID", ctx, "mentor_1", "user_a", "", "", models.MentorshipActive, false).
		Return(mentorship, false, nil).Once()
	plans.On("LinkLegacyPlans", ctx, mentorship.ID, mock.Anything).Return(0, nil).Once()
	mentorships.On("ListMentorshipsByMentor", ctx, "mentor_1").Return([]*models.Mentorship{mentorship}, nil).Once()

	stats, err := service.Stats(ctx, "mentor_1")
	assert.NoError(t, err)
	// Only the booking created within the last seven days counts.
	assert.Equal(t, 1, stats.NewRequests)
	assert.Equal(t, 2, stats.Sessions.Upcoming)
	assert.Equal(t, 1, stats.Mentees.Active)
}

func TestDashboardService_PendingRequests(t *testing.T) {
	service, sessions, _, _, _ := newDashboardService()
	ctx := context.Background()
	now := time.Now()

	booking := &models.Session{
		ID:            uuid.New(),
		StudentName:   "Asha",
		Title:         "Mock interview",
		PaymentStatus: models.PaymentPaid,
		Status:        models.SessionScheduled,
		StartTime:     now.Add(24 * time.Hour),
		CreatedAt:     now.Add(-30 * time.Minute),
	}
	feedback := &models.Session{
		ID:          uuid.New(),
		StudentName: "Bea",
		Title:       "Resume review",
		Status:      models.SessionCompleted,
		StartTime:   now.Add(-50 * time.Hour),
		EndTime:     now.Add(-49 * time.Hour),
	}
	ignored := &models.Session{
		ID:          uuid.New(),
		StudentName: "Cal",
		Status:      models.SessionCompleted,
		Notes:       "went well",
		StartTime:   now.Add(-72 * time.Hour),
		EndTime:     now.Add(-71 * time.Hour),
	}

	sessions.On("ListSessionsByMentor", ctx, "mentor_1").
		Return([]*models.Session{booking, feedback, ignored}, nil).Once()

	pending, err := service.PendingRequests(ctx, "mentor_1")
	assert.NoError(t, err)
	assert.Len(t, pending, 2)
	assert.Equal(t, "booking", pending[0].Type)
	assert.Equal(t, "30 min ago", pending[0].RelativeTime)
	assert.Equal(t, "feedback", pending[1].Type)
	assert.Equal(t, "Today", pending[1].RelativeTime)
}

func TestDashboardService_PendingRequests_CappedAtTen(t *testing.T) {
	service, sessions, _, _, _ := newDashboardService()
	ctx := context.Background()
	now := time.Now()

	many := make([]*models.Session, 0, 15)
	for i := 0; i < 15; i++ {
		many = append(many, &models.Session{
			ID:            uuid.New(),
			StudentName:   fmt.Sprintf("Mentee %d", i),
			PaymentStatus: models.PaymentPaid,
			Status:        models.SessionScheduled,
			StartTime:     now.Add(24 * time.Hour),
			CreatedAt:     now.Add(-time.Minute),
		})
	}
	sessions.On("ListSessionsByMentor", ctx, "mentor_1").Return(many, nil).Once()

	pending, err := service.PendingRequests(ctx, "mentor_1")
	assert.NoError(t, err)
	assert.Len(t, pending, 10)
}

func TestDashboardService_Earnings(t *testing.T) {
	service, sessions, _, _, _ := newDashboardService()
	ctx := context.Background()
	now := time.Now()

	thisMonth := &models.Session{
		ID:            uuid.New(),
		Status:        models.SessionCompleted,
		PaymentStatus: models.PaymentPaid,
		Amount:        3000,
		DurationMins:  60,
		Currency:      "INR",
		StartTime:     now.Add(-2 * time.Hour),
		EndTime:       now.Add(-time.Hour),
	}
	unpaid := &models.Session{
		ID:           uuid.New(),
		Status:       models.SessionCompleted,
		Amount:       9999,
		DurationMins: 60,
		StartTime:    now.Add(-3 * time.Hour),
		EndTime:      now.Add(-2 * time.Hour),
	}

	sessions.On("ListSessionsByMentor", ctx, "mentor_1").
		Return([]*models.Session{thisMonth, unpaid}, nil).Once()

	report, err := service.Earnings(ctx, "mentor_1")
	assert.NoError(t, err)
	assert.Len(t, report.Months, 6)
	assert.Equal(t, int64(3000), report.Total)
	assert.Equal(t, int64(3000), report.Months[5].Amount)
	assert.Equal(t, now.Format("Jan"), report.Months[5].Month)
	assert.InDelta(t, 3000.0, report.AvgHourlyRate, 0.01)
	// Nothing last month, so any current earnings read as 100% growth.
	assert.Equal(t, 100.0, report.GrowthPercent)
	assert.Equal(t, "INR", report.Currency)
}

func TestDashboardService_Earnings_Empty(t *testing.T) {
	service, sessions, _, _, _ := newDashboardService()
	ctx := context.Background()

	sessions.On("ListSessionsByMentor", ctx, "mentor_1").Return([]*models.Session{}, nil).Once()

	report, err := service.Earnings(ctx, "mentor_1")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), report.Total)
	assert.Equal(t, 0.0, report.AvgHourlyRate)
	assert.Equal(t, 0.0, report.GrowthPercent)
}

func TestDashboardService_AvailabilitySlots(t *testing.T) {
	service, sessions, _, profiles, _ := newDashboardService()
	ctx := context.Background()

	mentor := &models.MentorProfile{
		ClerkID:  "mentor_1",
		Timezone: "UTC",
		WeeklyAvailability: []models.WeeklySlot{
			{Day: "Monday", StartTime: "10:00", EndTime: "11:00", Active: true},
			{Day: "Monday", StartTime: "15:00", EndTime: "16:00", Active: false},
		},
	}

	// A fortnight window guarantees two Mondays.
	from := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // a Monday
	to := from.AddDate(0, 0, 13)

	booked := &models.Session{
		ID:        uuid.New(),
		StartTime: time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 8, 24, 11, 30, 0, 0, time.UTC),
	}

	profiles.On("GetMentorByClerkID", ctx, "mentor_1").Return(mentor, nil).Once()
	sessions.On("ListOverlappingSessions", ctx, "mentor_1", from, to).
		Return([]*models.Session{booked}, nil).Once()

	slots, err := service.AvailabilitySlots(ctx, "mentor_1", from, to)
	assert.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.Equal(t, "2026-08-24", slots[0].Date)
	assert.True(t, slots[0].IsBooked)
	assert.Equal(t, "2026-08-31", slots[1].Date)
	assert.False(t, slots[1].IsBooked)
}

func TestDashboardService_AvailabilitySlots_BlockedDate(t *testing.T) {
	service, sessions, _, profiles, _ := newDashboardService()
	ctx := context.Background()

	mentor := &models.MentorProfile{
		ClerkID: "mentor_1",
		WeeklyAvailability: []models.WeeklySlot{
			{Day: "Monday", StartTime: "10:00", EndTime: "11:00", Active: true},
		},
		OverrideAvailability: []models.DateOverride{
			{Date: "2026-08-24", Blocked: true},
		},
	}

	from := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	profiles.On("GetMentorByClerkID", ctx, "mentor_1").Return(mentor, nil).Once()
	sessions.On("ListOverlappingSessions", ctx, "mentor_1", from, to).
		Return([]*models.Session{}, nil).Once()

	slots, err := service.AvailabilitySlots(ctx, "mentor_1", from, to)
	assert.NoError(t, err)
	assert.Empty(t, slots)
}

func TestDashboardService_AvailabilitySlots_NoProfile(t *testing.T) {
	service, _, _, profiles, _ := newDashboardService()
	ctx := context.Background()

	profiles.On("GetMentorByClerkID", ctx, "mentor_1").Return(nil, pgx.ErrNoRows).Once()

	slots, err := service.AvailabilitySlots(ctx, "mentor_1", time.Now(), time.Now().Add(24*time.Hour))
	assert.ErrorIs(t, err, services.ErrMentorProfileNotFound)
	assert.Nil(t, slots)
}
