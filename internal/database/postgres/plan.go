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

const planColumns = `id, mentor_id, mentorship_id, session_id, progress, notes, created_at, updated_at`

func scanPlan(row pgx.Row) (*models.Plan, error) {
	var p models.Plan
	err := row.Scan(&p.ID, &p.MentorID, &p.Linkage.MentorshipID, &p.Linkage.SessionID,
		&p.Progress, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreatePlanByMentorship returns the single plan of a mentorship,
// creating an empty one on first access. Milestones are always loaded.
func (c *Client) GetOrCreatePlanByMentorship(ctx context.Context, mentorID string, mentorshipID uuid.UUID) (*models.Plan, error) {
	start := time.Now()
	operation := "getOrCreatePlanByMentorship"

	// DO NOTHING + re-select keeps this safe under concurrent first access
	// on the partial unique mentorship index.
	_, err := c.pool.Exec(ctx, `
		INSERT INTO plans (mentor_id, mentorship_id)
		VALUES ($1, $2)
		ON CONFLICT (mentorship_id) WHERE mentorship_id IS NOT NULL DO NOTHING`,
		mentorID, mentorshipID)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to ensure plan: %w", err)
	}

	plan, err := scanPlan(c.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE mentorship_id = $1`, mentorshipID))
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	if err := c.loadMilestones(ctx, plan); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, err
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return plan, nil
}

// GetPlanByMentorship returns the plan of a mentorship without creating one
func (c *Client) GetPlanByMentorship(ctx context.Context, mentorshipID uuid.UUID) (*models.Plan, error) {
	start := time.Now()
	operation := "getPlanByMentorship"

	plan, err := scanPlan(c.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE mentorship_id = $1`, mentorshipID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	if err := c.loadMilestones(ctx, plan); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return plan, nil
}

// LinkLegacyPlans attaches session-scoped plans to the mentorship that now
// owns those sessions. Only the first unlinked plan can take the mentorship
// slot; the rest keep their session linkage.
func (c *Client) LinkLegacyPlans(ctx context.Context, mentorshipID uuid.UUID, sessionIDs []uuid.UUID) (int, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}

	start := time.Now()
	operation := "linkLegacyPlans"

	tag, err := c.pool.Exec(ctx, `
		UPDATE plans SET mentorship_id = $1, updated_at = now()
		WHERE id = (
			SELECT id FROM plans
			WHERE mentorship_id IS NULL AND session_id = ANY($2)
			ORDER BY created_at ASC
			LIMIT 1
		)
		AND NOT EXISTS (SELECT 1 FROM plans WHERE mentorship_id = $1)`,
		mentorshipID, sessionIDs)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return 0, fmt.Errorf("failed to link legacy plans: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return int(tag.RowsAffected()), nil
}

// UpdatePlan patches notes and/or progress, scoped to the owning mentor
func (c *Client) UpdatePlan(ctx context.Context, planID uuid.UUID, mentorID string, req *models.UpdatePlanRequest) (*models.Plan, error) {
	start := time.Now()
	operation := "updatePlan"

	plan, err := scanPlan(c.pool.QueryRow(ctx, `
		UPDATE plans SET
			notes      = COALESCE($3, notes),
			progress   = COALESCE($4, progress),
			updated_at = now()
		WHERE id = $1 AND mentor_id = $2
		RETURNING `+planColumns, planID, mentorID, req.Notes, req.Progress))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	if err := c.loadMilestones(ctx, plan); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, err
	}

	recordMetrics(operation, "success", duration)
	return plan, nil
}

func (c *Client) loadMilestones(ctx context.Context, plan *models.Plan) error {
	rows, err := c.pool.Query(ctx, `
		SELECT id, plan_id, title, description, completed, due_date, created_at
		FROM milestones WHERE plan_id = $1 ORDER BY created_at ASC`, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to load milestones: %w", err)
	}
	defer rows.Close()

	plan.Milestones = make([]models.Milestone, 0)
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.PlanID, &m.Title, &m.Description,
			&m.Completed, &m.DueDate, &m.CreatedAt); err != nil {
			return err
		}
		plan.Milestones = append(plan.Milestones, m)
	}
	return nil
}

// AddMilestone appends a milestone to a plan owned by the mentor
func (c *Client) AddMilestone(ctx context.Context, planID uuid.UUID, mentorID string, req *models.AddMilestoneRequest) (*models.Milestone, error) {
	start := time.Now()
	operation := "addMilestone"

	var m models.Milestone
	err := c.pool.QueryRow(ctx, `
		INSERT INTO milestones (plan_id, title, description, due_date)
		SELECT p.id, $3, $4, $5 FROM plans p WHERE p.id = $1 AND p.mentor_id = $2
		RETURNING id, plan_id, title, description, completed, due_date, created_at`,
		planID, mentorID, req.Title, req.Description, req.DueDate).Scan(
		&m.ID, &m.PlanID, &m.Title, &m.Description, &m.Completed, &m.DueDate, &m.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to add milestone: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &m, nil
}

// UpdateMilestone patches a milestone on a plan owned by the mentor
func (c *Client) UpdateMilestone(ctx context.Context, milestoneID uuid.UUID, mentorID string, req *models.UpdateMilestoneRequest) (*models.Milestone, error) {
	start := time.Now()
	operation := "updateMilestone"

	var m models.Milestone
	err := c.pool.QueryRow(ctx, `
		UPDATE milestones SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			completed   = COALESCE($5, completed),
			due_date    = COALESCE($6, due_date),
			updated_at  = now()
		WHERE id = $1
		  AND plan_id IN (SELECT id FROM plans WHERE mentor_id = $2)
		RETURNING id, plan_id, title, description, completed, due_date, created_at`,
		milestoneID, mentorID, req.Title, req.Description, req.Completed, req.DueDate).Scan(
		&m.ID, &m.PlanID, &m.Title, &m.Description, &m.Completed, &m.DueDate, &m.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &m, nil
}

// DeleteMilestone removes a milestone from a plan owned by the mentor
func (c *Client) DeleteMilestone(ctx context.Context, milestoneID uuid.UUID, mentorID string) error {
	start := time.Now()
	operation := "deleteMilestone"

	tag, err := c.pool.Exec(ctx, `
		DELETE FROM milestones
		WHERE id = $1
		  AND plan_id IN (SELECT id FROM plans WHERE mentor_id = $2)`,
		milestoneID, mentorID)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return pgx.ErrNoRows
	}

	recordMetrics(operation, "success", duration)
	return nil
}
