package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
)

var (
	ErrMenteeNotFound    = errors.New("mentee not found")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
)

// MenteeService serves a mentor's roster, per-mentee detail and the plan,
// milestone and message sub-resources hanging off each relationship.
type MenteeService struct {
	mentorships repository.MentorshipStore
	sessions    repository.SessionStore
	plans       repository.PlanStore
	messages    repository.MessageStore
	reconciler  *MentorshipService
}

// NewMenteeService creates a new MenteeService
func NewMenteeService(mentorships repository.MentorshipStore, sessions repository.SessionStore, plans repository.PlanStore, messages repository.MessageStore, reconciler *MentorshipService) *MenteeService {
	return &MenteeService{
		mentorships: mentorships,
		sessions:    sessions,
		plans:       plans,
		messages:    messages,
		reconciler:  reconciler,
	}
}

// Roster returns the mentor's mentee list with computed activity and
// progress. Backfill runs first so pre-relationship sessions surface too.
func (s *MenteeService) Roster(ctx context.Context, mentorID string) (*models.MenteeRosterResponse, error) {
	if err := s.reconciler.EnsureFromSessions(ctx, mentorID); err != nil {
		return nil, err
	}

	mentorships, err := s.mentorships.ListMentorshipsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentorships: %w", err)
	}
	sessions, err := s.sessions.ListSessionsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := time.Now()
	mentees := make([]models.MenteeSummary, 0, len(mentorships))
	for _, m := range mentorships {
		summary := s.summarize(ctx, m, sessions, now)
		mentees = append(mentees, summary)
	}

	return &models.MenteeRosterResponse{Mentees: mentees, Total: len(mentees)}, nil
}

// Detail returns the full view of one mentee: summary, plan, session
// history and the conversation.
func (s *MenteeService) Detail(ctx context.Context, mentorID string, mentorshipID uuid.UUID) (*models.MenteeDetail, error) {
	m, err := s.getOwnedMentorship(ctx, mentorID, mentorshipID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListSessionsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := time.Now()
	detail := &models.MenteeDetail{
		MenteeSummary: s.summarize(ctx, m, sessions, now),
		Sessions:      menteeSessions(m, sessions),
	}

	plan, err := s.plans.GetOrCreatePlanByMentorship(ctx, mentorID, m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	detail.Plan = plan

	messages, err := s.messages.ListMessages(ctx, mentorID, models.LinkMentorship(m.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	detail.Messages = messages

	return detail, nil
}

// UpdatePlan patches the relationship's plan
func (s *MenteeService) UpdatePlan(ctx context.Context, mentorID string, mentorshipID uuid.UUID, req *models.UpdatePlanRequest) (*models.Plan, error) {
	m, err := s.getOwnedMentorship(ctx, mentorID, mentorshipID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetOrCreatePlanByMentorship(ctx, mentorID, m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	updated, err := s.plans.UpdatePlan(ctx, plan.ID, mentorID, req)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return updated, nil
}

// AddMilestone appends a milestone to the relationship's plan
func (s *MenteeService) AddMilestone(ctx context.Context, mentorID string, mentorshipID uuid.UUID, req *models.AddMilestoneRequest) (*models.Milestone, error) {
	m, err := s.getOwnedMentorship(ctx, mentorID, mentorshipID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetOrCreatePlanByMentorship(ctx, mentorID, m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	milestone, err := s.plans.AddMilestone(ctx, plan.ID, mentorID, req)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add milestone: %w", err)
	}

	return milestone, nil
}

// UpdateMilestone patches one milestone
func (s *MenteeService) UpdateMilestone(ctx context.Context, mentorID string, milestoneID uuid.UUID, req *models.UpdateMilestoneRequest) (*models.Milestone, error) {
	milestone, err := s.plans.UpdateMilestone(ctx, milestoneID, mentorID, req)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMilestoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	return milestone, nil
}

// DeleteMilestone removes one milestone
func (s *MenteeService) DeleteMilestone(ctx context.Context, mentorID string, milestoneID uuid.UUID) error {
	err := s.plans.DeleteMilestone(ctx, milestoneID, mentorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMilestoneNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	return nil
}

// AddMessage posts a message on the relationship
func (s *MenteeService) AddMessage(ctx context.Context, mentorID string, mentorshipID uuid.UUID, req *models.AddMessageRequest) (*models.Message, error) {
	m, err := s.getOwnedMentorship(ctx, mentorID, mentorshipID)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.AddMessage(ctx, mentorID, models.LinkMentorship(m.ID), req.Sender, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	return msg, nil
}

// UpdateStatus patches the relationship lifecycle state
func (s *MenteeService) UpdateStatus(ctx context.Context, mentorID string, mentorshipID uuid.UUID, status models.MentorshipStatus) (*models.Mentorship, error) {
	m, err := s.mentorships.UpdateMentorshipStatus(ctx, mentorshipID, mentorID, status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenteeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update mentorship status: %w", err)
	}
	return m, nil
}

func (s *MenteeService) getOwnedMentorship(ctx context.Context, mentorID string, mentorshipID uuid.UUID) (*models.Mentorship, error) {
	m, err := s.mentorships.GetMentorshipByID(ctx, mentorshipID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenteeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mentorship: %w", err)
	}
	if m.MentorID != mentorID {
		return nil, ErrMenteeNotFound
	}
	return m, nil
}

// summarize joins one mentorship against the mentor's session history
func (s *MenteeService) summarize(ctx context.Context, m *models.Mentorship, sessions []*models.Session, now time.Time) models.MenteeSummary {
	summary := models.MenteeSummary{
		MentorshipID:  m.ID,
		Name:          m.MenteeName,
		Email:         m.MenteeEmail,
		MenteeClerkID: m.MenteeClerkID,
		Goal:          m.Goal,
		Status:        models.MenteeNew,
		Relationship:  m.Status,
	}

	own := menteeSessions(m, sessions)
	for _, sess := range own {
		summary.SessionsTotal++
		if sess.Status == models.SessionCompleted {
			summary.SessionsDone++
			if summary.LastSession == nil || sess.EndTime.After(*summary.LastSession) {
				end := sess.EndTime
				summary.LastSession = &end
			}
		}
		if sess.StartTime.After(now) && sess.Status != models.SessionCancelled {
			if summary.NextSession == nil || sess.StartTime.Before(*summary.NextSession) {
				start := sess.StartTime
				summary.NextSession = &start
			}
		}
	}

	switch {
	case summary.NextSession != nil:
		summary.Status = models.MenteeActive
	case summary.SessionsDone > 0:
		summary.Status = models.MenteePaused
	}

	// The explicit plan value wins over the computed session ratio.
	if plan, err := s.plans.GetPlanByMentorship(ctx, m.ID); err == nil && plan.Progress > 0 {
		summary.Progress = plan.Progress
	} else if summary.SessionsTotal > 0 {
		summary.Progress = summary.SessionsDone * 100 / summary.SessionsTotal
	}

	return summary
}

// menteeSessions filters a mentor's sessions to those belonging to one mentee
func menteeSessions(m *models.Mentorship, sessions []*models.Session) []*models.Session {
	own := make([]*models.Session, 0)
	for _, sess := range sessions {
		key, isClerkID := sess.MenteeKey()
		if key == "" {
			continue
		}
		if (isClerkID && key == m.MenteeClerkID) ||
			(!isClerkID && m.MenteeEmail != "" && key == m.MenteeEmail) {
			own = append(own, sess)
		}
	}
	return own
}
