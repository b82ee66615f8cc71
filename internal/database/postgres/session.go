package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

const sessionColumns = `id, mentor_id, student_id, student_email, student_name, title, description,
	start_time, end_time, duration_minutes, status, payment_status, booking_type,
	amount, currency, meeting_link, channel_name, payment_id, order_id,
	notes, recording_url, started_at, ended_at, created_at, updated_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	var studentID, studentEmail *string
	err := row.Scan(&s.ID, &s.MentorID, &studentID, &studentEmail, &s.StudentName, &s.Title,
		&s.Description, &s.StartTime, &s.EndTime, &s.DurationMins, &s.Status, &s.PaymentStatus,
		&s.BookingType, &s.Amount, &s.Currency, &s.MeetingLink, &s.ChannelName, &s.PaymentID,
		&s.OrderID, &s.Notes, &s.RecordingURL, &s.StartedAt, &s.EndedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.StudentID = deref(studentID)
	s.StudentEmail = deref(studentEmail)
	return &s, nil
}

func (c *Client) querySessions(ctx context.Context, operation, where, orderBy string, args ...any) ([]*models.Session, error) {
	start := time.Now()

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE ` + where + ` ORDER BY ` + orderBy

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		sessions = append(sessions, s)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration, zap.Int("count", len(sessions)))

	return sessions, nil
}

// CreateSession inserts a new session row
func (c *Client) CreateSession(ctx context.Context, s *models.Session) (*models.Session, error) {
	start := time.Now()
	operation := "createSession"

	query := `
		INSERT INTO sessions (mentor_id, student_id, student_email, student_name, title, description,
			start_time, end_time, duration_minutes, status, payment_status, booking_type,
			amount, currency, meeting_link, channel_name, payment_id, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + sessionColumns

	created, err := scanSession(c.pool.QueryRow(ctx, query,
		s.MentorID, nilIfEmpty(s.StudentID), nilIfEmpty(strings.ToLower(s.StudentEmail)),
		s.StudentName, s.Title, s.Description,
		s.StartTime, s.EndTime, s.DurationMins, s.Status, s.PaymentStatus, s.BookingType,
		s.Amount, s.Currency, s.MeetingLink, s.ChannelName, s.PaymentID, s.OrderID))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return created, nil
}

// GetSessionByID fetches one session
func (c *Client) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	start := time.Now()
	operation := "getSessionByID"

	session, err := scanSession(c.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return session, nil
}

// ListSessionsByMentor returns all of a mentor's sessions ordered by start time.
// The ascending order is what makes backfill reconciliation deterministic:
// the latest session's name/goal win.
func (c *Client) ListSessionsByMentor(ctx context.Context, mentorID string) ([]*models.Session, error) {
	return c.querySessions(ctx, "listSessionsByMentor",
		"mentor_id = $1", "start_time ASC", mentorID)
}

// ListSessionsByStudent returns sessions booked by a student, matched by
// external id or pre-registration email.
func (c *Client) ListSessionsByStudent(ctx context.Context, studentID, email string) ([]*models.Session, error) {
	return c.querySessions(ctx, "listSessionsByStudent",
		"(student_id = $1 OR ($2 <> '' AND lower(student_email) = lower($2)))",
		"start_time ASC", studentID, email)
}

// ListOverlappingSessions returns scheduled/ongoing sessions of a mentor
// overlapping [from, to)
func (c *Client) ListOverlappingSessions(ctx context.Context, mentorID string, from, to time.Time) ([]*models.Session, error) {
	return c.querySessions(ctx, "listOverlappingSessions",
		"mentor_id = $1 AND status IN ('scheduled', 'ongoing') AND start_time < $3 AND end_time > $2",
		"start_time ASC", mentorID, from, to)
}

// CountCompletedSessionsByMentors returns completed-session counts for the
// public directory, keyed by mentor external id.
func (c *Client) CountCompletedSessionsByMentors(ctx context.Context) (map[string]int, error) {
	start := time.Now()
	operation := "countCompletedSessionsByMentors"

	rows, err := c.pool.Query(ctx,
		`SELECT mentor_id, count(*) FROM sessions WHERE status = 'completed' GROUP BY mentor_id`)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mentorID string
		var n int
		if err := rows.Scan(&mentorID, &n); err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		counts[mentorID] = n
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return counts, nil
}

// UpdateSession applies a patch to a session. Only provided fields change;
// a reschedule recomputes the stored duration.
func (c *Client) UpdateSession(ctx context.Context, id uuid.UUID, req *models.UpdateSessionRequest) (*models.Session, error) {
	start := time.Now()
	operation := "updateSession"

	sets := []string{"updated_at = now()"}
	args := []any{id}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.StartTime != nil && req.EndTime != nil {
		addSet("start_time", *req.StartTime)
		addSet("end_time", *req.EndTime)
		addSet("duration_minutes", models.DurationMinutes(*req.StartTime, *req.EndTime))
	}
	if req.Status != nil {
		addSet("status", *req.Status)
		if *req.Status == models.SessionCompleted {
			addSet("ended_at", time.Now())
		}
	}
	if req.Notes != nil {
		addSet("notes", *req.Notes)
	}
	if req.MeetingLink != nil {
		addSet("meeting_link", *req.MeetingLink)
	}
	if req.RecordingURL != nil {
		addSet("recording_url", *req.RecordingURL)
	}

	query := `UPDATE sessions SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + sessionColumns

	session, err := scanSession(c.pool.QueryRow(ctx, query, args...))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return session, nil
}

// MarkSessionOngoing flips scheduled -> ongoing and lazily assigns a
// channel name. Used by the join gate; no-op on rows already ongoing.
func (c *Client) MarkSessionOngoing(ctx context.Context, id uuid.UUID, channelName string) (*models.Session, error) {
	start := time.Now()
	operation := "markSessionOngoing"

	query := `
		UPDATE sessions SET
			status = 'ongoing',
			started_at = COALESCE(started_at, now()),
			channel_name = CASE WHEN channel_name = '' THEN $2 ELSE channel_name END,
			updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
		RETURNING ` + sessionColumns

	session, err := scanSession(c.pool.QueryRow(ctx, query, id, channelName))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race to another join check; re-read the current row.
		recordMetrics(operation, "noop", duration)
		return c.GetSessionByID(ctx, id)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to mark session ongoing: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return session, nil
}

// AssignChannelName lazily sets a channel identifier on an ongoing session
func (c *Client) AssignChannelName(ctx context.Context, id uuid.UUID, channelName string) (*models.Session, error) {
	start := time.Now()
	operation := "assignChannelName"

	query := `
		UPDATE sessions SET
			channel_name = CASE WHEN channel_name = '' THEN $2 ELSE channel_name END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + sessionColumns

	session, err := scanSession(c.pool.QueryRow(ctx, query, id, channelName))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to assign channel name: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return session, nil
}

// DeleteSession removes a session owned by the given mentor
func (c *Client) DeleteSession(ctx context.Context, id uuid.UUID, mentorID string) error {
	start := time.Now()
	operation := "deleteSession"

	tag, err := c.pool.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1 AND mentor_id = $2`, id, mentorID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return pgx.ErrNoRows
	}

	recordMetrics(operation, "success", duration)
	return nil
}
