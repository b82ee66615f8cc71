package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

func newMenteeService() (*services.MenteeService, *MockMentorshipStore, *MockSessionStore, *MockPlanStore, *MockMessageStore) {
	mentorships := new(MockMentorshipStore)
	sessions := new(MockSessionStore)
	plans := new(MockPlanStore)
	messages := new(MockMessageStore)
	reconciler := services.NewMentorshipService(mentorships, sessions, plans)
	return services.NewMenteeService(mentorships, sessions, plans, messages, reconciler), mentorships, sessions, plans, messages
}

func TestMenteeService_Roster(t *testing.T) {
	service, mentorships, sessions, plans, _ := newMenteeService()
	ctx := context.Background()
	now := time.Now()

	done := &models.Session{
		ID:        uuid.New(),
		MentorID:  "mentor_1",
		StudentID: "user_a",
		Status:    models.SessionCompleted,
		StartTime: now.Add(-48 * time.Hour),
		EndTime:   now.Add(-47 * time.Hour),
	}
	next := &models.Session{
		ID:        uuid.New(),
		MentorID:  "mentor_1",
		StudentID: "user_a",
		Status:    models.SessionScheduled,
		StartTime: now.Add(24 * time.Hour),
		EndTime:   now.Add(25 * time.Hour),
	}
	m := &models.Mentorship{
		ID:            uuid.New(),
		MentorID:      "mentor_1",
		MenteeClerkID: "user_a",
		MenteeName:    "Asha",
		Goal:          "Career development",
		Status:        models.MentorshipActive,
	}

	sessions.On("ListSessionsByMentor", ctx, "mentor_1").Return([]*models.Session{done, next}, nil).Twice()
	mentorships.On("UpsertMentorshipByClerkID", ctx, "mentor_1", "user_a", "", "", models.MentorshipActive, false).
		Return(m, false, nil).Once()
	plans.On("LinkLegacyPlans", ctx, m.ID, mock.Anything).Return(0, nil).Once()
	mentorships.On("ListMentorshipsByMentor", ctx, "mentor_1").Return([]*models.Mentorship{m}, nil).Once()
	plans.On("GetPlanByMentorship", ctx, m.ID).Return(nil, pgx.ErrNoRows).Once()

	roster, err := service.Roster(ctx, "mentor_1")
	assert.NoError(t, err)
	assert.Equal(t, 1, roster.Total)

	summary := roster.Mentees[0]
	assert.Equal(t, "Asha", summary.Name)
	assert.Equal(t, models.MenteeActive, summary.Status)
	assert.Equal(t, 2, summary.SessionsTotal)
	assert.Equal(t, 1, summary.SessionsDone)
	assert.Equal(t, 50, summary.Progress)
	assert.NotNil(t, summary.NextSession)
	assert.NotNil(t, summary.LastSession)
}

func TestMenteeService_Roster_PlanProgressWins(t *testing.T) {
	service, mentorships, sessions, plans, _ := newMenteeService()
	ctx := context.Background()
	now := time.Now()

	done := &models.Session{
		ID:        uuid.New(),
		MentorID:  "mentor_1",
		StudentID: "user_a",
		Status:    models.SessionCompleted,
		StartTime: now.Add(-48 * time.Hour),
		EndTime:   now.Add(-47 * time.Hour),
	}
	m := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_1", MenteeClerkID: "user_a"}

	sessions.On("ListSessionsByMentor", ctx, "mentor_1").Return([]*models.Session{done}, nil).Twice()
	mentorships.On("UpsertMentorshipByClerkID", ctx, "mentor_1", "user_a", "", "", models.MentorshipActive, false).
		Return(m, false, nil).Once()
	plans.On("LinkLegacyPlans", ctx, m.ID, mock.Anything).Return(0, nil).Once()
	mentorships.On("ListMentorshipsByMentor", ctx, "mentor_1").Return([]*models.Mentorship{m}, nil).Once()
	plans.On("GetPlanByMentorship", ctx, m.ID).Return(&models.Plan{ID: uuid.New(), Progress: 80}, nil).Once()

	roster, err := service.Roster(ctx, "mentor_1")
	assert.NoError(t, err)
	assert.Equal(t, 80, roster.Mentees[0].Progress)
	assert.Equal(t, models.MenteePaused, roster.Mentees[0].Status)
}

func TestMenteeService_Detail(t *testing.T) {
	service, mentorships, sessions, plans, messages := newMenteeService()
	ctx := context.Background()
	now := time.Now()

	m := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_1", MenteeEmail: "bee@example.com", MenteeName: "Bea"}
	own := &models.Session{
		ID:           uuid.New(),
		MentorID:     "mentor_1",
		StudentEmail: "bee@example.com",
		Status:       models.SessionCompleted,
		StartTime:    now.Add(-24 * time.Hour),
		EndTime:      now.Add(-23 * time.Hour),
	}
	other := &models.Session{
		ID:        uuid.New(),
		MentorID:  "mentor_1",
		StudentID: "user_z",
		Status:    models.SessionCompleted,
		StartTime: now.Add(-24 * time.Hour),
		EndTime:   now.Add(-23 * time.Hour),
	}
	plan := &models.Plan{ID: uuid.New(), MentorID: "mentor_1", Linkage: models.LinkMentorship(m.ID)}
	msgs := []*models.Message{{ID: uuid.New(), Sender: models.SenderMentor, Body: "Welcome"}}

	mentorships.On("GetMentorshipByID", ctx, m.ID).Return(m, nil).Once()
	sessions.On("ListSessionsByMentor", ctx, "mentor_1").Return([]*models.Session{own, other}, nil).Once()
	plans.On("GetPlanByMentorship", ctx, m.ID).Return(plan, nil).Once()
	plans.On("GetOrCreatePlanByMentorship", ctx, "mentor_1", m.ID).Return(plan, nil).Once()
	messages.On("ListMessages", ctx, "mentor_1", mock.MatchedBy(func(l models.Linkage) bool {
		return l.MentorshipID != nil && *l.MentorshipID == m.ID
	})).Return(msgs, nil).Once()

	detail, err := service.Detail(ctx, "mentor_1", m.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Bea", detail.Name)
	// Only the mentee's own sessions appear in the detail history.
	assert.Len(t, detail.Sessions, 1)
	assert.Equal(t, own.ID, detail.Sessions[0].ID)
	assert.Equal(t, plan, detail.Plan)
	assert.Equal(t, msgs, detail.Messages)
}

func TestMenteeService_Detail_WrongMentor(t *testing.T) {
	service, mentorships, _, _, _ := newMenteeService()
	ctx := context.Background()

	m := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_2", MenteeClerkID: "user_a"}
	mentorships.On("GetMentorshipByID", ctx, m.ID).Return(m, nil).Once()

	detail, err := service.Detail(ctx, "mentor_1", m.ID)
	assert.ErrorIs(t, err, services.ErrMenteeNotFound)
	assert.Nil(t, detail)
}

func TestMenteeService_Detail_NotFound(t *testing.T) {
	service, mentorships, _, _, _ := newMenteeService()
	ctx := context.Background()
	id := uuid.New()

	mentorships.On("GetMentorshipByID", ctx, id).Return(nil, pgx.ErrNoRows).Once()

	detail, err := service.Detail(ctx, "mentor_1", id)
	assert.ErrorIs(t, err, services.ErrMenteeNotFound)
	assert.Nil(t, detail)
}

func TestMenteeService_UpdatePlan(t *testing.T) {
	service, mentorships, _, plans, _ := newMenteeService()
	ctx := context.Background()

	m := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_1", MenteeClerkID: "user_a"}
	plan := &models.Plan{ID: uuid.New(), MentorID: "mentor_1"}
	progress := 60
	req := &models.UpdatePlanRequest{Progress: &progress}
	updated := &models.Plan{ID: plan.ID, MentorID: "mentor_1", Progress: 60}

	mentorships.On("GetMentorshipByID", ctx, m.ID).Return(m, nil).Once()
	plans.On("GetOrCreatePlanByMentorship", ctx, "mentor_1", m.ID).Return(plan, nil).Once()
	plans.On("UpdatePlan", ctx, plan.ID, "mentor_1", req).Return(updated, nil).Once()

	result, err := service.UpdatePlan(ctx, "mentor_1", m.ID, req)
	assert.NoError(t, err)
	assert.Equal(t, 60, result.Progress)
}

func TestMenteeService_AddMilestone(t *testing.T) {
	service, mentorships, _, plans, _ := newMenteeService()
	ctx := context.Background()

	m := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_1", MenteeClerkID: "user_a"}
	plan := &models.Plan{ID: uuid.New(), MentorID: "mentor_1"}
	req := &models.AddMilestoneRequest{Title: "Finish portfolio"}
	milestone := &models.Milestone{ID: uuid.New(), PlanID: plan.ID, Title: "Finish portfolio"}

	mentorships.On("GetMentorshipByID", ctx, m.ID).Return(m, nil).Once()
	plans.On("GetOrCreatePlanByMentorship", ctx, "mentor_1", m.ID).Return(plan, nil).Once()
	plans.On("AddMilestone", ctx, plan.ID, "mentor_1", req).Return(milestone, nil).Once()

	result, err := service.AddMilestone(ctx, "mentor_1", m.ID, req)
	assert.NoError(t, err)
	assert.Equal(t, milestone, result)
}

func TestMenteeService_UpdateMilestone_NotFound(t *testing.T) {
	service, _, _, plans, _ := newMenteeService()
	ctx := context.Background()
	id := uuid.New()

	req := &models.UpdateMilestoneRequest{}
	plans.On("UpdateMilestone", ctx, id, "mentor_1", req).Return(nil, pgx.ErrNoRows).Once()

	result, err := service.UpdateMilestone(ctx, "mentor_1", id, req)
	assert.ErrorIs(t, err, services.ErrMilestoneNotFound)
	assert.Nil(t, result)
}

func TestMenteeService_DeleteMilestone_NotFound(t *testing.T) {
	service, _, _, plans, _ := newMenteeService()
	ctx := context.Background()
	id := uuid.New()

	plans.On("DeleteMilestone", ctx, id, "mentor_1").Return(pgx.ErrNoRows).Once()

	err := service.DeleteMilestone(ctx, "mentor_1", id)
	assert.ErrorIs(t, err, services.ErrMilestoneNotFound)
}

func TestMenteeService_AddMessage(t *testing.T) {
	service, mentorships, _, _, messages := newMenteeService()
	ctx := context.Background()

	m := &models.Mentorship{ID: uuid.New(), MentorID: "mentor_1", MenteeClerkID: "user_a"}
	req := &models.AddMessageRequest{Sender: models.SenderMentor, Body: "See you Monday"}
	msg := &models.Message{ID: uuid.New(), Sender: models.SenderMentor, Body: "See you Monday"}

	mentorships.On("GetMentorshipByID", ctx, m.ID).Return(m, nil).Once()
	messages.On("AddMessage", ctx, "mentor_1", mock.MatchedBy(func(l models.Linkage) bool {
		return l.MentorshipID != nil && *l.MentorshipID == m.ID
	}), models.SenderMentor, "See you Monday").Return(msg, nil).Once()

	result, err := service.AddMessage(ctx, "mentor_1", m.ID, req)
	assert.NoError(t, err)
	assert.Equal(t, msg, result)
}

func TestMenteeService_UpdateStatus_NotFound(t *testing.T) {
	service, mentorships, _, _, _ := newMenteeService()
	ctx := context.Background()
	id := uuid.New()

	mentorships.On("UpdateMentorshipStatus", ctx, id, "mentor_1", models.MentorshipPaused).
		Return(nil, pgx.ErrNoRows).Once()

	result, err := service.UpdateStatus(ctx, "mentor_1", id, models.MentorshipPaused)
	assert.ErrorIs(t, err, services.ErrMenteeNotFound)
	assert.Nil(t, result)
}
