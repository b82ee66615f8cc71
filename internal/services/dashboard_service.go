package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
)

var ErrMentorProfileNotFound = errors.New("mentor profile not found")

// DashboardService computes the mentor-facing aggregation views. Every view
// is a pure, request-scoped projection over session and relationship state;
// nothing here is cached or persisted, so concurrent mentors can never see
// each other's numbers.
type DashboardService struct {
	sessions    repository.SessionStore
	mentorships repository.MentorshipStore
	profiles    repository.ProfileStore
	reconciler  *MentorshipService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(sessions repository.SessionStore, mentorships repository.MentorshipStore, profiles repository.ProfileStore, reconciler *MentorshipService) *DashboardService {
	return &DashboardService{
		sessions:    sessions,
		mentorships: mentorships,
		profiles:    profiles,
		reconciler:  reconciler,
	}
}

// Stats computes the dashboard headline numbers
func (s *DashboardService) Stats(ctx context.Context, mentorID string) (*models.DashboardStats, error) {
	if err := s.reconciler.EnsureFromSessions(ctx, mentorID); err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListSessionsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	mentorships, err := s.mentorships.ListMentorshipsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentorships: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	stats := &models.DashboardStats{}
	stats.Mentees.Total = len(mentorships)

	activity := menteeActivity(sessions, now)
	for _, state := range activity {
		switch state {
		case models.MenteeActive:
			stats.Mentees.Active++
		case models.MenteePaused:
			stats.Mentees.Paused++
		}
	}
	// Invited mentees with no session history count as new.
	stats.Mentees.New = stats.Mentees.Total - stats.Mentees.Active - stats.Mentees.Paused
	if stats.Mentees.New < 0 {
		stats.Mentees.New = 0
	}

	for _, sess := range sessions {
		stats.Sessions.Total++
		switch {
		case sess.Status == models.SessionCompleted:
			stats.Sessions.Completed++
		case sess.StartTime.After(now) && sess.Status == models.SessionScheduled:
			stats.Sessions.Upcoming++
		}

		if sess.Status == models.SessionCompleted && sess.PaymentStatus == models.PaymentPaid {
			stats.Earnings.Total += sess.Amount
			earned := earningTime(sess)
			switch {
			case !earned.Before(monthStart):
				stats.Earnings.ThisMonth += sess.Amount
			case !earned.Before(lastMonthStart):
				stats.Earnings.LastMonth += sess.Amount
			}
		}

		if sess.Status == models.SessionScheduled &&
			sess.StartTime.After(now) &&
			sess.CreatedAt.After(now.AddDate(0, 0, -7)) {
			stats.NewRequests++
		}
	}

	stats.Earnings.ChangePercent = growthPercent(stats.Earnings.ThisMonth, stats.Earnings.LastMonth)

	return stats, nil
}

// PendingRequests returns recent paid bookings plus completed sessions that
// still owe feedback, capped at ten entries combined.
func (s *DashboardService) PendingRequests(ctx context.Context, mentorID string) ([]models.PendingRequest, error) {
	sessions, err := s.sessions.ListSessionsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := time.Now()
	pending := make([]models.PendingRequest, 0, 10)

	for _, sess := range sessions {
		if len(pending) >= 10 {
			break
		}
		switch {
		case sess.PaymentStatus == models.PaymentPaid &&
			now.Sub(sess.CreatedAt) <= 2*time.Hour:
			pending = append(pending, models.PendingRequest{
				SessionID:    sess.ID,
				Type:         "booking",
				StudentName:  sess.StudentName,
				Title:        sess.Title,
				StartTime:    sess.StartTime,
				RelativeTime: relativeTime(now.Sub(sess.CreatedAt)),
			})
		case sess.Status == models.SessionCompleted &&
			sess.Notes == "" &&
			now.Sub(sess.EndTime) > 24*time.Hour:
			pending = append(pending, models.PendingRequest{
				SessionID:    sess.ID,
				Type:         "feedback",
				StudentName:  sess.StudentName,
				Title:        sess.Title,
				StartTime:    sess.StartTime,
				RelativeTime: relativeTime(now.Sub(sess.EndTime)),
			})
		}
	}

	return pending, nil
}

// Earnings builds the trailing six-calendar-month earnings report
func (s *DashboardService) Earnings(ctx context.Context, mentorID string) (*models.EarningsReport, error) {
	sessions, err := s.sessions.ListSessionsByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := time.Now()
	report := &models.EarningsReport{
		Months:   make([]models.EarningsMonth, 6),
		Currency: "INR",
	}

	// Oldest bucket first; index 5 is the current month.
	buckets := make(map[string]int, 6)
	for i := 0; i < 6; i++ {
		m := now.AddDate(0, i-5, 0)
		key := fmt.Sprintf("%d-%02d", m.Year(), int(m.Month()))
		buckets[key] = i
		report.Months[i] = models.EarningsMonth{Month: m.Format("Jan"), Year: m.Year()}
	}

	var totalMinutes int
	for _, sess := range sessions {
		if sess.Status != models.SessionCompleted || sess.PaymentStatus != models.PaymentPaid {
			continue
		}
		report.Total += sess.Amount
		totalMinutes += sess.DurationMins
		if sess.Currency != "" {
			report.Currency = sess.Currency
		}

		earned := earningTime(sess)
		key := fmt.Sprintf("%d-%02d", earned.Year(), int(earned.Month()))
		if i, ok := buckets[key]; ok {
			report.Months[i].Amount += sess.Amount
		}
	}

	if totalMinutes > 0 {
		report.AvgHourlyRate = float64(report.Total) / (float64(totalMinutes) / 60)
	}
	report.GrowthPercent = growthPercent(report.Months[5].Amount, report.Months[4].Amount)

	return report, nil
}

// AvailabilitySlots expands a mentor's weekly availability over a calendar
// window, dropping blocked dates and flagging windows an existing session
// overlaps.
func (s *DashboardService) AvailabilitySlots(ctx context.Context, mentorID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	mentor, err := s.profiles.GetMentorByClerkID(ctx, mentorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMentorProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor profile: %w", err)
	}

	loc := time.UTC
	if mentor.Timezone != "" {
		if l, lerr := time.LoadLocation(mentor.Timezone); lerr == nil {
			loc = l
		}
	}

	weekly := make(map[string][]models.WeeklySlot)
	for _, slot := range mentor.WeeklyAvailability {
		if slot.Active {
			weekly[slot.Day] = append(weekly[slot.Day], slot)
		}
	}
	blocked := make(map[string]bool)
	for _, o := range mentor.OverrideAvailability {
		if o.Blocked {
			blocked[o.Date] = true
		}
	}

	booked, err := s.sessions.ListOverlappingSessions(ctx, mentorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked sessions: %w", err)
	}

	slots := make([]models.AvailabilitySlot, 0)
	for day := from.In(loc); !day.After(to); day = day.AddDate(0, 0, 1) {
		dateKey := day.Format("2006-01-02")
		daySlots, ok := weekly[day.Weekday().String()]
		if !ok || blocked[dateKey] {
			continue
		}

		for _, slot := range daySlots {
			startClock, serr := time.Parse("15:04", slot.StartTime)
			endClock, eerr := time.Parse("15:04", slot.EndTime)
			if serr != nil || eerr != nil {
				continue
			}

			slotStart := time.Date(day.Year(), day.Month(), day.Day(),
				startClock.Hour(), startClock.Minute(), 0, 0, loc)
			slotEnd := time.Date(day.Year(), day.Month(), day.Day(),
				endClock.Hour(), endClock.Minute(), 0, 0, loc)
			if !slotEnd.After(slotStart) {
				continue
			}

			isBooked := false
			for _, sess := range booked {
				if sess.StartTime.Before(slotEnd) && sess.EndTime.After(slotStart) {
					isBooked = true
					break
				}
			}

			slots = append(slots, models.AvailabilitySlot{
				Date:        dateKey,
				Day:         day.Weekday().String(),
				StartTime:   slotStart,
				EndTime:     slotEnd,
				IsAvailable: true,
				IsBooked:    isBooked,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
	return slots, nil
}

// menteeActivity classifies each mentee identity from session history
func menteeActivity(sessions []*models.Session, now time.Time) map[string]models.MenteeActivity {
	activity := make(map[string]models.MenteeActivity)
	for _, sess := range sessions {
		key, _ := sess.MenteeKey()
		if key == "" {
			continue
		}
		if _, ok := activity[key]; !ok {
			activity[key] = models.MenteeNew
		}
		switch {
		case sess.StartTime.After(now) && sess.Status != models.SessionCancelled:
			activity[key] = models.MenteeActive
		case sess.Status == models.SessionCompleted && activity[key] != models.MenteeActive:
			activity[key] = models.MenteePaused
		}
	}
	return activity
}

// earningTime picks the timestamp an amount is attributed to:
// endedAt when recorded, else the scheduled end, else the start.
func earningTime(sess *models.Session) time.Time {
	switch {
	case sess.EndedAt != nil && !sess.EndedAt.IsZero():
		return *sess.EndedAt
	case !sess.EndTime.IsZero():
		return sess.EndTime
	default:
		return sess.StartTime
	}
}

func growthPercent(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := float64(current-previous) / float64(previous) * 100
	return math.Round(pct*100) / 100
}

func relativeTime(ago time.Duration) string {
	switch {
	case ago < time.Minute:
		return "Just now"
	case ago < time.Hour:
		return fmt.Sprintf("%d min ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(ago.Hours()))
	default:
		return "Today"
	}
}
