package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

const userColumns = `id, clerk_id, email, name, role, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.Name, &u.Role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByClerkID fetches a user by external identity id
func (c *Client) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	start := time.Now()
	operation := "getUserByClerkID"

	user, err := scanUser(c.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE clerk_id = $1`, clerkID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// GetUserByEmail fetches a user by lowercased email
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	operation := "getUserByEmail"

	user, err := scanUser(c.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) ORDER BY created_at LIMIT 1`,
		email))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// UpsertUser finds or creates a user by external id, refreshing email and
// name on every call. A duplicate-key race on insert is retried as an
// update rather than surfaced.
func (c *Client) UpsertUser(ctx context.Context, clerkID, email, name string) (*models.User, error) {
	start := time.Now()
	operation := "upsertUser"

	email = strings.ToLower(strings.TrimSpace(email))

	query := `
		INSERT INTO users (clerk_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (clerk_id) DO UPDATE SET
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE users.email END,
			name  = CASE WHEN EXCLUDED.name  <> '' THEN EXCLUDED.name  ELSE users.name  END,
			updated_at = now()
		RETURNING ` + userColumns

	// ON CONFLICT turns the create/create race into an update; no retry
	// loop is needed on the unique clerk_id index.
	user, err := scanUser(c.pool.QueryRow(ctx, query, clerkID, email, name))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return user, nil
}

// UpdateUserRole sets the derived role tag on a user
func (c *Client) UpdateUserRole(ctx context.Context, clerkID string, role models.Role) error {
	start := time.Now()
	operation := "updateUserRole"

	_, err := c.pool.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE clerk_id = $1`,
		clerkID, role)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to update user role: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}
