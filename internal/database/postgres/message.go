package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

const messageColumns = `id, mentor_id, mentorship_id, session_id, sender, body, created_at`

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.MentorID, &m.Linkage.MentorshipID, &m.Linkage.SessionID,
		&m.Sender, &m.Body, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMessage appends a message under a mentorship or legacy session
func (c *Client) AddMessage(ctx context.Context, mentorID string, linkage models.Linkage, sender models.MessageSender, body string) (*models.Message, error) {
	if err := linkage.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	operation := "addMessage"

	msg, err := scanMessage(c.pool.QueryRow(ctx, `
		INSERT INTO messages (mentor_id, mentorship_id, session_id, sender, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		mentorID, linkage.MentorshipID, linkage.SessionID, sender, body))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to add message: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return msg, nil
}

// ListMessages returns a conversation's messages, oldest first. Rows linked
// through either the mentorship or any of its legacy sessions are included.
func (c *Client) ListMessages(ctx context.Context, mentorID string, linkage models.Linkage) ([]*models.Message, error) {
	if err := linkage.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	operation := "listMessages"

	rows, err := c.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE mentor_id = $1
		  AND (($2::uuid IS NOT NULL AND mentorship_id = $2)
		    OR ($3::uuid IS NOT NULL AND session_id = $3))
		ORDER BY created_at ASC`,
		mentorID, linkage.MentorshipID, linkage.SessionID)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		messages = append(messages, m)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return messages, nil
}
