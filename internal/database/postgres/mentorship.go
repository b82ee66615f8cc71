package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

const mentorshipColumns = `id, mentor_id, mentee_clerk_id, mentee_email, mentee_name, goal, status, created_at, updated_at`

func scanMentorship(row pgx.Row) (*models.Mentorship, error) {
	var m models.Mentorship
	var clerkID, email *string
	err := row.Scan(&m.ID, &m.MentorID, &clerkID, &email, &m.MenteeName, &m.Goal,
		&m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.MenteeClerkID = deref(clerkID)
	m.MenteeEmail = deref(email)
	return &m, nil
}

// GetMentorshipByMenteeClerkID finds the relationship between one mentor and
// one registered mentee.
func (c *Client) GetMentorshipByMenteeClerkID(ctx context.Context, mentorID, menteeClerkID string) (*models.Mentorship, error) {
	start := time.Now()
	operation := "getMentorshipByMenteeClerkID"

	m, err := scanMentorship(c.pool.QueryRow(ctx,
		`SELECT `+mentorshipColumns+` FROM mentorships WHERE mentor_id = $1 AND mentee_clerk_id = $2`,
		mentorID, menteeClerkID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentorship: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return m, nil
}

// GetMentorshipByID fetches one relationship row
func (c *Client) GetMentorshipByID(ctx context.Context, id uuid.UUID) (*models.Mentorship, error) {
	start := time.Now()
	operation := "getMentorshipByID"

	m, err := scanMentorship(c.pool.QueryRow(ctx,
		`SELECT `+mentorshipColumns+` FROM mentorships WHERE id = $1`, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentorship: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return m, nil
}

// UpsertMentorshipByClerkID creates or refreshes a relationship keyed on the
// registered mentee's external id. Name and goal only change when the new
// value is non-empty, so later sessions can improve on the defaults without
// ever blanking real data. Status is only written when forceStatus is set;
// the backfill path leaves existing lifecycle state alone.
func (c *Client) UpsertMentorshipByClerkID(ctx context.Context, mentorID, menteeClerkID, name, goal string, status models.MentorshipStatus, forceStatus bool) (*models.Mentorship, bool, error) {
	return c.upsertMentorship(ctx, "upsertMentorshipByClerkID", `
		INSERT INTO mentorships (mentor_id, mentee_clerk_id, mentee_name, goal, status)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'Mentee'), COALESCE(NULLIF($4, ''), 'Career development'), $5)
		ON CONFLICT (mentor_id, mentee_clerk_id) WHERE mentee_clerk_id IS NOT NULL
		DO UPDATE SET
			mentee_name = CASE WHEN $3 <> '' THEN $3 ELSE mentorships.mentee_name END,
			goal        = CASE WHEN $4 <> '' THEN $4 ELSE mentorships.goal END,
			status      = CASE WHEN $6 THEN $5::text ELSE mentorships.status END,
			updated_at  = now()
		RETURNING `+mentorshipColumns+`, (xmax = 0) AS inserted`,
		mentorID, menteeClerkID, name, goal, status, forceStatus)
}

// UpsertMentorshipByEmail creates or refreshes a relationship keyed on the
// pre-registration mentee's lowercased email.
func (c *Client) UpsertMentorshipByEmail(ctx context.Context, mentorID, email, name, goal string, status models.MentorshipStatus, forceStatus bool) (*models.Mentorship, bool, error) {
	return c.upsertMentorship(ctx, "upsertMentorshipByEmail", `
		INSERT INTO mentorships (mentor_id, mentee_email, mentee_name, goal, status)
		VALUES ($1, lower($2), COALESCE(NULLIF($3, ''), 'Mentee'), COALESCE(NULLIF($4, ''), 'Career development'), $5)
		ON CONFLICT (mentor_id, mentee_email) WHERE mentee_email IS NOT NULL
		DO UPDATE SET
			mentee_name = CASE WHEN $3 <> '' THEN $3 ELSE mentorships.mentee_name END,
			goal        = CASE WHEN $4 <> '' THEN $4 ELSE mentorships.goal END,
			status      = CASE WHEN $6 THEN $5::text ELSE mentorships.status END,
			updated_at  = now()
		RETURNING `+mentorshipColumns+`, (xmax = 0) AS inserted`,
		mentorID, email, name, goal, status, forceStatus)
}

func (c *Client) upsertMentorship(ctx context.Context, operation, query string, args ...any) (*models.Mentorship, bool, error) {
	start := time.Now()

	var m models.Mentorship
	var clerkID, email *string
	var inserted bool
	err := c.pool.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.MentorID, &clerkID, &email, &m.MenteeName, &m.Goal,
		&m.Status, &m.CreatedAt, &m.UpdatedAt, &inserted)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, false, fmt.Errorf("failed to upsert mentorship: %w", err)
	}

	m.MenteeClerkID = deref(clerkID)
	m.MenteeEmail = deref(email)

	recordMetrics(operation, "success", duration)
	return &m, inserted, nil
}

// ClaimMentorshipsByEmail attaches a newly registered mentee's external id to
// every relationship previously keyed only by their email, activating invited
// rows along the way. Returns the claimed relationships.
func (c *Client) ClaimMentorshipsByEmail(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error) {
	start := time.Now()
	operation := "claimMentorshipsByEmail"

	rows, err := c.pool.Query(ctx, `
		UPDATE mentorships SET
			mentee_clerk_id = $1,
			status = CASE WHEN status = 'invited' THEN 'active' ELSE status END,
			updated_at = now()
		WHERE mentee_clerk_id IS NULL AND lower(mentee_email) = lower($2)
		RETURNING `+mentorshipColumns, menteeClerkID, email)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to claim mentorships: %w", err)
	}
	defer rows.Close()

	claimed := make([]*models.Mentorship, 0)
	for rows.Next() {
		m, err := scanMentorship(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		claimed = append(claimed, m)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	if len(claimed) > 0 {
		logger.LogAPICall(ctx, "postgres", operation, "success", duration,
			zap.Int("claimed", len(claimed)))
	}

	return claimed, nil
}

// ListMentorshipsByMentor returns a mentor's relationships, newest first
func (c *Client) ListMentorshipsByMentor(ctx context.Context, mentorID string) ([]*models.Mentorship, error) {
	return c.listMentorships(ctx, "listMentorshipsByMentor",
		"mentor_id = $1", mentorID)
}

// ListMentorshipsByMentee returns a registered mentee's relationships that
// have not ended, matched by external id or pre-registration email.
func (c *Client) ListMentorshipsByMentee(ctx context.Context, menteeClerkID, email string) ([]*models.Mentorship, error) {
	return c.listMentorships(ctx, "listMentorshipsByMentee",
		"(mentee_clerk_id = $1 OR ($2 <> '' AND lower(mentee_email) = lower($2))) AND status <> 'ended'",
		menteeClerkID, email)
}

func (c *Client) listMentorships(ctx context.Context, operation, where string, args ...any) ([]*models.Mentorship, error) {
	start := time.Now()

	query := `SELECT ` + mentorshipColumns + ` FROM mentorships WHERE ` + where + ` ORDER BY created_at DESC`

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to list mentorships: %w", err)
	}
	defer rows.Close()

	mentorships := make([]*models.Mentorship, 0)
	for rows.Next() {
		m, err := scanMentorship(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		mentorships = append(mentorships, m)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return mentorships, nil
}

// UpdateMentorshipStatus patches a relationship's lifecycle state, scoped to
// the owning mentor.
func (c *Client) UpdateMentorshipStatus(ctx context.Context, id uuid.UUID, mentorID string, status models.MentorshipStatus) (*models.Mentorship, error) {
	start := time.Now()
	operation := "updateMentorshipStatus"

	m, err := scanMentorship(c.pool.QueryRow(ctx, `
		UPDATE mentorships SET status = $3, updated_at = now()
		WHERE id = $1 AND mentor_id = $2
		RETURNING `+mentorshipColumns, id, mentorID, status))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to update mentorship status: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return m, nil
}
