package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/config"
	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("session access denied")
	ErrInvalidTimeRange    = errors.New("end time must be after start time")
	ErrRescheduleIncomplete = errors.New("reschedule requires both start and end time")
)

// joinWindow is how early a participant may enter before the scheduled start
const joinWindow = 15 * time.Minute

// SessionService handles booking lifecycle and the join gate
type SessionService struct {
	sessions repository.SessionStore
	config   *config.Config
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionStore, cfg *config.Config) *SessionService {
	return &SessionService{sessions: sessions, config: cfg}
}

// CreateManualBooking records a session the mentor scheduled directly,
// outside the payment flow.
func (s *SessionService) CreateManualBooking(ctx context.Context, mentorID string, req *models.CreateSessionRequest) (*models.Session, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.MentorID != "" && req.MentorID != mentorID {
		return nil, ErrSessionAccessDenied
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	session := &models.Session{
		MentorID:      mentorID,
		StudentID:     req.StudentID,
		StudentEmail:  strings.ToLower(req.StudentEmail),
		StudentName:   req.StudentName,
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationMins:  models.DurationMinutes(req.StartTime, req.EndTime),
		Status:        models.SessionScheduled,
		PaymentStatus: models.PaymentFree,
		BookingType:   models.BookingManual,
		Amount:        req.Amount,
		Currency:      currency,
		MeetingLink:   req.MeetingLink,
	}

	created, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.SessionBookings.WithLabelValues(string(models.BookingManual)).Inc()
	logger.Info("Manual session booked",
		zap.String("session_id", created.ID.String()),
		zap.String("mentor_id", mentorID),
		zap.Int("duration_minutes", created.DurationMins))

	return created, nil
}

// ListMentorSessions returns a mentor's sessions split around now.
// Scope narrows the result to "upcoming" or "past"; anything else means all.
func (s *SessionService) ListMentorSessions(ctx context.Context, mentorID, scope string) (*models.SessionListResponse, error) {
	sessions, err := s.sessions.ListSessionsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return splitSessions(sessions, scope), nil
}

// ListStudentSessions returns the sessions a student participates in
func (s *SessionService) ListStudentSessions(ctx context.Context, studentID, email, scope string) (*models.SessionListResponse, error) {
	sessions, err := s.sessions.ListSessionsByStudent(ctx, studentID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return splitSessions(sessions, scope), nil
}

func splitSessions(sessions []*models.Session, scope string) *models.SessionListResponse {
	now := time.Now()
	resp := &models.SessionListResponse{
		Upcoming: make([]*models.Session, 0),
		Past:     make([]*models.Session, 0),
		Total:    len(sessions),
	}

	for _, sess := range sessions {
		upcoming := sess.EndTime.After(now) && sess.Status != models.SessionCancelled && sess.Status != models.SessionCompleted
		switch {
		case upcoming && scope != "past":
			resp.Upcoming = append(resp.Upcoming, sess)
		case !upcoming && scope != "upcoming":
			resp.Past = append(resp.Past, sess)
		}
	}

	return resp
}

// GetSession fetches one session, scoped to a participant
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID, callerID string) (*models.Session, error) {
	session, err := s.sessions.GetSessionByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.MentorID != callerID && session.StudentID != callerID {
		return nil, ErrSessionAccessDenied
	}

	return session, nil
}

// UpdateSession applies a mentor's patch. A reschedule must move both ends
// of the time range together.
func (s *SessionService) UpdateSession(ctx context.Context, id uuid.UUID, mentorID string, req *models.UpdateSessionRequest) (*models.Session, error) {
	if (req.StartTime == nil) != (req.EndTime == nil) {
		return nil, ErrRescheduleIncomplete
	}
	if req.StartTime != nil && !req.EndTime.After(*req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	session, err := s.sessions.GetSessionByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.MentorID != mentorID {
		return nil, ErrSessionAccessDenied
	}

	updated, err := s.sessions.UpdateSession(ctx, id, req)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return updated, nil
}

// CompleteSession marks a session completed, optionally attaching notes
func (s *SessionService) CompleteSession(ctx context.Context, id uuid.UUID, mentorID string, notes string) (*models.Session, error) {
	completed := models.SessionCompleted
	req := &models.UpdateSessionRequest{Status: &completed}
	if notes != "" {
		req.Notes = &notes
	}
	return s.UpdateSession(ctx, id, mentorID, req)
}

// DeleteSession removes a session owned by the mentor
func (s *SessionService) DeleteSession(ctx context.Context, id uuid.UUID, mentorID string) error {
	err := s.sessions.DeleteSession(ctx, id, mentorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// VerifyJoin runs the join gate for one participant. A successful check
// within the pre-window lazily flips scheduled sessions to ongoing and
// assigns a channel identifier when none exists yet.
func (s *SessionService) VerifyJoin(ctx context.Context, id uuid.UUID, callerID string) (*models.JoinVerification, error) {
	session, err := s.GetSession(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if session.PaymentStatus != models.PaymentPaid && session.PaymentStatus != models.PaymentFree {
		metrics.JoinAttempts.WithLabelValues("unpaid").Inc()
		return &models.JoinVerification{CanJoin: false, Reason: "Payment not completed"}, nil
	}
	if session.Status != models.SessionScheduled && session.Status != models.SessionOngoing {
		metrics.JoinAttempts.WithLabelValues("wrong_status").Inc()
		return &models.JoinVerification{CanJoin: false, Reason: "Session is " + string(session.Status)}, nil
	}
	if now.After(session.EndTime) {
		metrics.JoinAttempts.WithLabelValues("ended").Inc()
		return &models.JoinVerification{CanJoin: false, Reason: "Session has ended"}, nil
	}
	if earliest := session.StartTime.Add(-joinWindow); now.Before(earliest) {
		minutes := int(math.Ceil(earliest.Sub(now).Minutes()))
		metrics.JoinAttempts.WithLabelValues("too_early").Inc()
		return &models.JoinVerification{
			CanJoin:          false,
			Reason:           "Session has not opened yet",
			MinutesUntilJoin: minutes,
		}, nil
	}

	if session.Status == models.SessionScheduled {
		session, err = s.sessions.MarkSessionOngoing(ctx, id, newChannelName(id))
		if err != nil {
			return nil, fmt.Errorf("failed to open session: %w", err)
		}
	} else if session.ChannelName == "" {
		session, err = s.sessions.AssignChannelName(ctx, id, newChannelName(id))
		if err != nil {
			return nil, fmt.Errorf("failed to assign channel: %w", err)
		}
	}

	link := session.MeetingLink
	if link == "" {
		link = s.meetingLink(session.ChannelName)
	}

	metrics.JoinAttempts.WithLabelValues("allowed").Inc()
	return &models.JoinVerification{
		CanJoin:     true,
		MeetingLink: link,
		ChannelName: session.ChannelName,
	}, nil
}

func (s *SessionService) meetingLink(channelName string) string {
	base := strings.TrimSuffix(s.config.Server.MeetingBaseURL, "/")
	if base == "" {
		return ""
	}
	return base + "/" + channelName
}

func newChannelName(sessionID uuid.UUID) string {
	return "session-" + strings.ReplaceAll(sessionID.String(), "-", "")[:16]
}
