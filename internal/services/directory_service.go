package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
)

// DirectoryService serves the public mentor directory and a student's
// personal mentor list.
type DirectoryService struct {
	profiles    repository.ProfileStore
	sessions    repository.SessionStore
	mentorships repository.MentorshipStore
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(profiles repository.ProfileStore, sessions repository.SessionStore, mentorships repository.MentorshipStore) *DirectoryService {
	return &DirectoryService{profiles: profiles, sessions: sessions, mentorships: mentorships}
}

// ListMentors returns all onboarded mentors with derived directory stats
func (s *DirectoryService) ListMentors(ctx context.Context) (*models.DirectoryResponse, error) {
	mentors, err := s.profiles.ListOnboardedMentors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	counts, err := s.sessions.CountCompletedSessionsByMentors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	resp := &models.DirectoryResponse{Mentors: make([]models.DirectoryMentor, 0, len(mentors))}
	for _, m := range mentors {
		entry := models.DirectoryMentor{
			ClerkID:         m.ClerkID,
			Name:            m.Name,
			CurrentRole:     m.CurrentRole,
			Company:         m.Company,
			ExperienceYears: m.ExperienceYears,
			Specializations: m.Specializations,
			AvatarURL:       m.AvatarURL,
			Currency:        m.Pricing.Currency,
			SessionsDone:    counts[m.ClerkID],
			Availability:    summarizeAvailability(m.WeeklyAvailability),
		}
		if len(m.Specializations) > 0 {
			entry.Domain = m.Specializations[0]
		}
		entry.AvgPrice = avgPrice(m.Pricing)

		resp.Mentors = append(resp.Mentors, entry)
		resp.Stats.TotalSessions += entry.SessionsDone
	}
	resp.Stats.TotalMentors = len(resp.Mentors)

	return resp, nil
}

// MyMentors returns a student's mentors joined with next-session times
func (s *DirectoryService) MyMentors(ctx context.Context, studentID, email string) (*models.MyMentorsResponse, error) {
	mentorships, err := s.mentorships.ListMentorshipsByMentee(ctx, studentID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentorships: %w", err)
	}

	sessions, err := s.sessions.ListSessionsByStudent(ctx, studentID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := time.Now()
	resp := &models.MyMentorsResponse{Mentors: make([]models.MyMentor, 0, len(mentorships))}
	for _, m := range mentorships {
		entry := models.MyMentor{
			MentorshipID: m.ID,
			MentorID:     m.MentorID,
			Goal:         m.Goal,
			Status:       m.Status,
		}

		if profile, perr := s.profiles.GetMentorByClerkID(ctx, m.MentorID); perr == nil {
			entry.Name = profile.Name
			entry.CurrentRole = profile.CurrentRole
			entry.Company = profile.Company
			entry.AvatarURL = profile.AvatarURL
		} else if !errors.Is(perr, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to load mentor profile: %w", perr)
		}

		for _, sess := range sessions {
			if sess.MentorID != m.MentorID || !sess.StartTime.After(now) || sess.Status == models.SessionCancelled {
				continue
			}
			if entry.NextSession == nil || sess.StartTime.Before(*entry.NextSession) {
				start := sess.StartTime
				entry.NextSession = &start
			}
		}

		resp.Mentors = append(resp.Mentors, entry)
	}
	resp.Total = len(resp.Mentors)

	return resp, nil
}

func avgPrice(p models.Pricing) int64 {
	switch {
	case p.HourlyRate > 0 && p.HalfHourRate > 0:
		return (p.HourlyRate + p.HalfHourRate*2) / 2
	case p.HourlyRate > 0:
		return p.HourlyRate
	case p.HalfHourRate > 0:
		return p.HalfHourRate * 2
	default:
		return 0
	}
}

func summarizeAvailability(slots []models.WeeklySlot) string {
	days := 0
	for _, s := range slots {
		if s.Active {
			days++
		}
	}
	switch {
	case days == 0:
		return "Unavailable"
	case days >= 5:
		return "Most days"
	default:
		return fmt.Sprintf("%d days/week", days)
	}
}
