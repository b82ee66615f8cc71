package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

var (
	ErrMentorshipNotFound = errors.New("mentorship not found")
)

// MentorshipService derives and maintains canonical mentor-mentee
// relationships from session history, explicit invites and paid bookings.
type MentorshipService struct {
	mentorships repository.MentorshipStore
	sessions    repository.SessionStore
	plans       repository.PlanStore
}

// NewMentorshipService creates a new MentorshipService
func NewMentorshipService(mentorships repository.MentorshipStore, sessions repository.SessionStore, plans repository.PlanStore) *MentorshipService {
	return &MentorshipService{
		mentorships: mentorships,
		sessions:    sessions,
		plans:       plans,
	}
}

// menteeGroup collects one mentee's sessions during a backfill scan
type menteeGroup struct {
	key        string
	isClerkID  bool
	name       string
	goal       string
	sessionIDs []uuid.UUID
}

// EnsureFromSessions backfills relationship rows from a mentor's session
// history. Sessions are grouped per mentee identity (external id preferred,
// lowercased email otherwise) and replayed in startTime order, so the most
// recent session's name and title win. Safe to run on every roster read:
// the unique indexes make the upserts idempotent.
func (s *MentorshipService) EnsureFromSessions(ctx context.Context, mentorID string) error {
	start := time.Now()

	sessions, err := s.sessions.ListSessionsByMentor(ctx, mentorID)
	if err != nil {
		return fmt.Errorf("failed to list sessions for backfill: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})

	groups := make(map[string]*menteeGroup)
	order := make([]string, 0)
	for _, sess := range sessions {
		key, isClerkID := sess.MenteeKey()
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &menteeGroup{key: key, isClerkID: isClerkID}
			groups[key] = g
			order = append(order, key)
		}
		// Later sessions overwrite earlier values; empty values never
		// erase known ones.
		if sess.StudentName != "" {
			g.name = sess.StudentName
		}
		if sess.Title != "" {
			g.goal = sess.Title
		}
		g.sessionIDs = append(g.sessionIDs, sess.ID)
	}

	for _, key := range order {
		g := groups[key]

		var mentorship *models.Mentorship
		var inserted bool
		var upsertErr error
		if g.isClerkID {
			mentorship, inserted, upsertErr = s.mentorships.UpsertMentorshipByClerkID(
				ctx, mentorID, g.key, g.name, g.goal, models.MentorshipActive, false)
		} else {
			mentorship, inserted, upsertErr = s.mentorships.UpsertMentorshipByEmail(
				ctx, mentorID, g.key, g.name, g.goal, models.MentorshipActive, false)
		}
		if upsertErr != nil {
			metrics.MentorshipUpserts.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to backfill mentorship: %w", upsertErr)
		}

		outcome := "updated"
		if inserted {
			outcome = "created"
		}
		metrics.MentorshipUpserts.WithLabelValues(outcome).Inc()

		// Adopt plan rows that still hang off individual sessions.
		linked, err := s.plans.LinkLegacyPlans(ctx, mentorship.ID, g.sessionIDs)
		if err != nil {
			logger.Warn("Legacy plan linking failed",
				zap.String("mentor_id", mentorID),
				zap.String("mentorship_id", mentorship.ID.String()),
				zap.Error(err))
		} else if linked > 0 {
			logger.Info("Linked legacy plans to mentorship",
				zap.String("mentorship_id", mentorship.ID.String()),
				zap.Int("linked", linked))
		}
	}

	metrics.MentorshipBackfills.Inc()
	logger.Info("Mentorship backfill completed",
		zap.String("mentor_id", mentorID),
		zap.Int("mentees", len(order)),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// UpsertFromBooking records the relationship implied by a paid booking.
// Unlike the backfill path this forces status to active.
func (s *MentorshipService) UpsertFromBooking(ctx context.Context, session *models.Session) (*models.Mentorship, error) {
	key, isClerkID := session.MenteeKey()
	if key == "" {
		return nil, fmt.Errorf("session %s has no mentee identity", session.ID)
	}

	var mentorship *models.Mentorship
	var inserted bool
	var err error
	if isClerkID {
		mentorship, inserted, err = s.mentorships.UpsertMentorshipByClerkID(
			ctx, session.MentorID, key, session.StudentName, session.Title, models.MentorshipActive, true)
	} else {
		mentorship, inserted, err = s.mentorships.UpsertMentorshipByEmail(
			ctx, session.MentorID, key, session.StudentName, session.Title, models.MentorshipActive, true)
	}
	if err != nil {
		metrics.MentorshipUpserts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to upsert mentorship from booking: %w", err)
	}

	outcome := "updated"
	if inserted {
		outcome = "created"
	}
	metrics.MentorshipUpserts.WithLabelValues(outcome).Inc()

	return mentorship, nil
}

// ClaimForMentee attaches a freshly registered mentee's external id to any
// relationship that was waiting on their email, advancing invited rows to
// active. The only invited-to-active transition that needs no session.
func (s *MentorshipService) ClaimForMentee(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error) {
	if email == "" {
		return nil, nil
	}

	claimed, err := s.mentorships.ClaimMentorshipsByEmail(ctx, menteeClerkID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to claim mentorships: %w", err)
	}

	if len(claimed) > 0 {
		logger.Info("Mentorships claimed on registration",
			zap.String("mentee_clerk_id", menteeClerkID),
			zap.Int("claimed", len(claimed)))
	}

	return claimed, nil
}

// AddMentee records an explicit invite from a mentor and provisions the
// relationship's plan immediately.
func (s *MentorshipService) AddMentee(ctx context.Context, mentorID string, req *models.AddMenteeRequest) (*models.Mentorship, error) {
	mentorship, inserted, err := s.mentorships.UpsertMentorshipByEmail(
		ctx, mentorID, req.Email, req.Name, req.Goal, models.MentorshipInvited, false)
	if err != nil {
		metrics.MentorshipUpserts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to add mentee: %w", err)
	}

	outcome := "updated"
	if inserted {
		outcome = "created"
	}
	metrics.MentorshipUpserts.WithLabelValues(outcome).Inc()

	if _, err := s.plans.GetOrCreatePlanByMentorship(ctx, mentorID, mentorship.ID); err != nil {
		logger.Warn("Plan provisioning failed for new mentee",
			zap.String("mentorship_id", mentorship.ID.String()),
			zap.Error(err))
	}

	return mentorship, nil
}
