package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/config"
	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/mailer"
	"github.com/aureeture/aureeture-api/pkg/metrics"
	"github.com/aureeture/aureeture-api/pkg/payments"
)

var (
	ErrMissingPaymentFields = errors.New("missing required payment fields")
	ErrInvalidSignature     = errors.New("payment signature verification failed")
)

// PaymentService finalizes paid bookings. The session write is the unit of
// user-visible success; relationship reconciliation and notifications ride
// behind it and may fail independently.
type PaymentService struct {
	sessions   repository.SessionStore
	profiles   repository.ProfileStore
	verifier   *payments.Verifier
	reconciler *MentorshipService
	mail       *mailer.Mailer
	config     *config.Config
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(sessions repository.SessionStore, profiles repository.ProfileStore, verifier *payments.Verifier, reconciler *MentorshipService, mail *mailer.Mailer, cfg *config.Config) *PaymentService {
	return &PaymentService{
		sessions:   sessions,
		profiles:   profiles,
		verifier:   verifier,
		reconciler: reconciler,
		mail:       mail,
		config:     cfg,
	}
}

// ConfirmPayment verifies the gateway signature and creates the paid session
func (s *PaymentService) ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.Session, error) {
	start := time.Now()

	if req.MentorID == "" || req.StudentName == "" || req.Title == "" ||
		req.StartTime.IsZero() || req.EndTime.IsZero() ||
		req.PaymentID == "" || req.OrderID == "" || req.RazorpaySignature == "" {
		return nil, ErrMissingPaymentFields
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.verifier.VerifySignature(req.OrderID, req.PaymentID, req.RazorpaySignature); err != nil {
		metrics.PaymentVerifications.WithLabelValues("rejected").Inc()
		logger.Warn("Payment signature rejected",
			zap.String("order_id", req.OrderID),
			zap.String("mentor_id", req.MentorID))
		return nil, ErrInvalidSignature
	}
	metrics.PaymentVerifications.WithLabelValues("verified").Inc()

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	session := &models.Session{
		MentorID:      req.MentorID,
		StudentID:     req.StudentID,
		StudentEmail:  strings.ToLower(req.StudentEmail),
		StudentName:   req.StudentName,
		Title:         req.Title,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DurationMins:  models.DurationMinutes(req.StartTime, req.EndTime),
		Status:        models.SessionScheduled,
		PaymentStatus: models.PaymentPaid,
		BookingType:   models.BookingPaid,
		Amount:        req.Amount,
		Currency:      currency,
		PaymentID:     req.PaymentID,
		OrderID:       req.OrderID,
	}

	created, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create paid session: %w", err)
	}

	// Meeting coordinates are synthesized up front so both parties see the
	// same link immediately.
	channel := newChannelName(created.ID)
	link := s.meetingLink(channel)
	if link != "" {
		updated, err := s.sessions.UpdateSession(ctx, created.ID, &models.UpdateSessionRequest{MeetingLink: &link})
		if err != nil {
			logger.Warn("Failed to attach meeting link", zap.String("session_id", created.ID.String()), zap.Error(err))
		} else {
			created = updated
		}
	}
	if _, err := s.sessions.AssignChannelName(ctx, created.ID, channel); err != nil {
		logger.Warn("Failed to assign channel", zap.String("session_id", created.ID.String()), zap.Error(err))
	} else {
		created.ChannelName = channel
	}

	// Non-fatal: the session is the source of truth, the reconciler
	// self-heals on the next roster read.
	if _, err := s.reconciler.UpsertFromBooking(ctx, created); err != nil {
		logger.Warn("Mentorship upsert after booking failed",
			zap.String("session_id", created.ID.String()),
			zap.Error(err))
	}

	s.sendBookingEmails(ctx, created)

	metrics.SessionBookings.WithLabelValues(string(models.BookingPaid)).Inc()
	logger.Info("Paid booking confirmed",
		zap.String("session_id", created.ID.String()),
		zap.String("mentor_id", created.MentorID),
		zap.String("order_id", created.OrderID),
		zap.Duration("duration", time.Since(start)))

	return created, nil
}

func (s *PaymentService) sendBookingEmails(ctx context.Context, session *models.Session) {
	if s.mail == nil || !s.mail.Enabled() {
		return
	}

	when := session.StartTime.Format("Mon, 2 Jan 2006 15:04 MST")

	if session.StudentEmail != "" {
		s.mail.SendAsync("booking_confirmed_mentee", mailer.Message{
			To:      session.StudentEmail,
			Subject: "Your session is booked: " + session.Title,
			HTML: fmt.Sprintf("<p>Hi %s,</p><p>Your session <b>%s</b> is confirmed for %s.</p><p><a href=%q>Join your session</a></p>",
				session.StudentName, session.Title, when, session.MeetingLink),
		})
	}

	mentor, err := s.profiles.GetMentorByClerkID(ctx, session.MentorID)
	if err != nil || mentor.Email == "" {
		logger.Debug("Skipping mentor booking email, no address",
			zap.String("mentor_id", session.MentorID))
		return
	}

	s.mail.SendAsync("booking_confirmed_mentor", mailer.Message{
		To:      mentor.Email,
		Subject: "New booking: " + session.Title,
		HTML: fmt.Sprintf("<p>%s booked <b>%s</b> for %s.</p>",
			session.StudentName, session.Title, when),
	})
}

func (s *PaymentService) meetingLink(channelName string) string {
	base := strings.TrimSuffix(s.config.Server.MeetingBaseURL, "/")
	if base == "" {
		return ""
	}
	return base + "/" + channelName
}
