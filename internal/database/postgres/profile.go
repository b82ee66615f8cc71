package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/pkg/metrics"
)

const mentorColumns = `id, user_id, clerk_id, name, email, current_position, company, linkedin_url,
	resume_url, avatar_url, experience_years, education, specializations,
	hourly_rate, half_hour_rate, currency, timezone,
	weekly_availability, override_availability, is_onboarded, created_at, updated_at`

func scanMentor(row pgx.Row) (*models.MentorProfile, error) {
	var m models.MentorProfile
	var weekly, override []byte
	err := row.Scan(&m.ID, &m.UserID, &m.ClerkID, &m.Name, &m.Email, &m.CurrentRole, &m.Company,
		&m.LinkedinURL, &m.ResumeURL, &m.AvatarURL, &m.ExperienceYears, &m.Education,
		&m.Specializations, &m.Pricing.HourlyRate, &m.Pricing.HalfHourRate, &m.Pricing.Currency,
		&m.Timezone, &weekly, &override, &m.IsOnboarded, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weekly, &m.WeeklyAvailability); err != nil {
		return nil, fmt.Errorf("failed to decode weekly availability: %w", err)
	}
	if err := json.Unmarshal(override, &m.OverrideAvailability); err != nil {
		return nil, fmt.Errorf("failed to decode override availability: %w", err)
	}
	return &m, nil
}

// GetMentorByClerkID fetches a mentor profile by external identity id
func (c *Client) GetMentorByClerkID(ctx context.Context, clerkID string) (*models.MentorProfile, error) {
	start := time.Now()
	operation := "getMentorByClerkID"

	mentor, err := scanMentor(c.pool.QueryRow(ctx,
		`SELECT `+mentorColumns+` FROM mentors WHERE clerk_id = $1`, clerkID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentor, nil
}

// ListOnboardedMentors returns all mentors visible in the public directory
func (c *Client) ListOnboardedMentors(ctx context.Context) ([]*models.MentorProfile, error) {
	start := time.Now()
	operation := "listOnboardedMentors"

	rows, err := c.pool.Query(ctx,
		`SELECT `+mentorColumns+` FROM mentors WHERE is_onboarded ORDER BY created_at`)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	defer rows.Close()

	mentors := make([]*models.MentorProfile, 0)
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			recordMetrics(operation, "error", metrics.MeasureDuration(start))
			return nil, err
		}
		mentors = append(mentors, m)
	}

	recordMetrics(operation, "success", metrics.MeasureDuration(start))
	return mentors, nil
}

// UpsertMentor creates or updates the mentor profile for a user
func (c *Client) UpsertMentor(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.MentorOnboardingRequest, resumeURL, avatarURL string) (*models.MentorProfile, error) {
	start := time.Now()
	operation := "upsertMentor"

	weekly, err := json.Marshal(orEmptyAny(req.WeeklyAvailability))
	if err != nil {
		return nil, fmt.Errorf("failed to encode weekly availability: %w", err)
	}
	override, err := json.Marshal(orEmptyAny(req.OverrideAvailability))
	if err != nil {
		return nil, fmt.Errorf("failed to encode override availability: %w", err)
	}

	query := `
		INSERT INTO mentors (user_id, clerk_id, name, email, current_position, company, linkedin_url,
			resume_url, avatar_url, experience_years, education, specializations,
			hourly_rate, half_hour_rate, currency, timezone,
			weekly_availability, override_availability, is_onboarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, true)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			current_position = EXCLUDED.current_position,
			company = EXCLUDED.company,
			linkedin_url = EXCLUDED.linkedin_url,
			resume_url = CASE WHEN EXCLUDED.resume_url <> '' THEN EXCLUDED.resume_url ELSE mentors.resume_url END,
			avatar_url = CASE WHEN EXCLUDED.avatar_url <> '' THEN EXCLUDED.avatar_url ELSE mentors.avatar_url END,
			experience_years = EXCLUDED.experience_years,
			education = EXCLUDED.education,
			specializations = EXCLUDED.specializations,
			hourly_rate = EXCLUDED.hourly_rate,
			half_hour_rate = EXCLUDED.half_hour_rate,
			currency = EXCLUDED.currency,
			timezone = EXCLUDED.timezone,
			weekly_availability = EXCLUDED.weekly_availability,
			override_availability = EXCLUDED.override_availability,
			is_onboarded = true,
			updated_at = now()
		RETURNING ` + mentorColumns

	currency := req.Pricing.Currency
	if currency == "" {
		currency = "INR"
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "Asia/Kolkata"
	}

	mentor, err := scanMentor(c.pool.QueryRow(ctx, query,
		userID, clerkID, req.Name, email, req.CurrentRole, req.Company, req.LinkedinURL,
		resumeURL, avatarURL, req.ExperienceYears, req.Education, orEmptyAny(req.Specializations),
		req.Pricing.HourlyRate, req.Pricing.HalfHourRate, currency, timezone,
		weekly, override))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to upsert mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentor, nil
}

const studentColumns = `id, user_id, clerk_id, name, email, headline, avatar_url,
	educations, experiences, projects, links, interests, is_onboarded, created_at, updated_at`

func scanStudent(row pgx.Row) (*models.StudentProfile, error) {
	var s models.StudentProfile
	var educations, experiences, projects, links []byte
	err := row.Scan(&s.ID, &s.UserID, &s.ClerkID, &s.Name, &s.Email, &s.Headline, &s.AvatarURL,
		&educations, &experiences, &projects, &links, &s.Interests, &s.IsOnboarded,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{educations, &s.Educations},
		{experiences, &s.Experiences},
		{projects, &s.Projects},
		{links, &s.Links},
	} {
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("failed to decode student profile field: %w", err)
		}
	}
	return &s, nil
}

// GetStudentByClerkID fetches a student profile by external identity id
func (c *Client) GetStudentByClerkID(ctx context.Context, clerkID string) (*models.StudentProfile, error) {
	start := time.Now()
	operation := "getStudentByClerkID"

	student, err := scanStudent(c.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE clerk_id = $1`, clerkID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return student, nil
}

// UpsertStudent creates or updates the student profile for a user
func (c *Client) UpsertStudent(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.StudentOnboardingRequest, avatarURL string) (*models.StudentProfile, error) {
	start := time.Now()
	operation := "upsertStudent"

	educations, err := json.Marshal(orEmptyAny(req.Educations))
	if err != nil {
		return nil, fmt.Errorf("failed to encode educations: %w", err)
	}
	experiences, err := json.Marshal(orEmptyAny(req.Experiences))
	if err != nil {
		return nil, fmt.Errorf("failed to encode experiences: %w", err)
	}
	projects, err := json.Marshal(orEmptyAny(req.Projects))
	if err != nil {
		return nil, fmt.Errorf("failed to encode projects: %w", err)
	}
	links, err := json.Marshal(orEmptyMap(req.Links))
	if err != nil {
		return nil, fmt.Errorf("failed to encode links: %w", err)
	}

	query := `
		INSERT INTO students (user_id, clerk_id, name, email, headline, avatar_url,
			educations, experiences, projects, links, interests, is_onboarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			headline = EXCLUDED.headline,
			avatar_url = CASE WHEN EXCLUDED.avatar_url <> '' THEN EXCLUDED.avatar_url ELSE students.avatar_url END,
			educations = EXCLUDED.educations,
			experiences = EXCLUDED.experiences,
			projects = EXCLUDED.projects,
			links = EXCLUDED.links,
			interests = EXCLUDED.interests,
			is_onboarded = true,
			updated_at = now()
		RETURNING ` + studentColumns

	student, err := scanStudent(c.pool.QueryRow(ctx, query,
		userID, clerkID, req.Name, email, req.Headline, avatarURL,
		educations, experiences, projects, links, orEmptyAny(req.Interests)))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to upsert student: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return student, nil
}

const founderColumns = `id, user_id, clerk_id, name, email, company, headline, idea,
	stage, needs, website, location, is_onboarded, created_at, updated_at`

func scanFounder(row pgx.Row) (*models.FounderProfile, error) {
	var f models.FounderProfile
	err := row.Scan(&f.ID, &f.UserID, &f.ClerkID, &f.Name, &f.Email, &f.Company, &f.Headline,
		&f.Idea, &f.Stage, &f.Needs, &f.Website, &f.Location, &f.IsOnboarded,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFounderByClerkID fetches a founder profile by external identity id
func (c *Client) GetFounderByClerkID(ctx context.Context, clerkID string) (*models.FounderProfile, error) {
	start := time.Now()
	operation := "getFounderByClerkID"

	founder, err := scanFounder(c.pool.QueryRow(ctx,
		`SELECT `+founderColumns+` FROM founders WHERE clerk_id = $1`, clerkID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, err
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get founder: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return founder, nil
}

// UpsertFounder creates or updates the founder profile for a user
func (c *Client) UpsertFounder(ctx context.Context, userID uuid.UUID, clerkID, email string, req *models.FounderOnboardingRequest) (*models.FounderProfile, error) {
	start := time.Now()
	operation := "upsertFounder"

	query := `
		INSERT INTO founders (user_id, clerk_id, name, email, company, headline, idea,
			stage, needs, website, location, is_onboarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			headline = EXCLUDED.headline,
			idea = EXCLUDED.idea,
			stage = EXCLUDED.stage,
			needs = EXCLUDED.needs,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			is_onboarded = true,
			updated_at = now()
		RETURNING ` + founderColumns

	founder, err := scanFounder(c.pool.QueryRow(ctx, query,
		userID, clerkID, req.Name, email, req.Company, req.Headline, req.Idea,
		req.Stage, orEmptyAny(req.Needs), req.Website, req.Location))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to upsert founder: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return founder, nil
}

func orEmptyAny[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
