package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aureeture/aureeture-api/config"
	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
	"github.com/aureeture/aureeture-api/pkg/payments"
)

const testKeySecret = "test_key_secret"

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newPaymentService(sessions *MockSessionStore, profiles *MockProfileStore, mentorships *MockMentorshipStore, plans *MockPlanStore) *services.PaymentService {
	cfg := &config.Config{}
	cfg.Server.MeetingBaseURL = "https://meet.example.com"
	reconciler := services.NewMentorshipService(mentorships, sessions, plans)
	return services.NewPaymentService(sessions, profiles, payments.NewVerifier(testKeySecret), reconciler, nil, cfg)
}

func confirmRequest() *models.ConfirmPaymentRequest {
	start := time.Now().Add(48 * time.Hour)
	return &models.ConfirmPaymentRequest{
		MentorID:          "mentor_1",
		StudentID:         "user_a",
		StudentName:       "Asha",
		Title:             "Mock interview",
		StartTime:         start,
		EndTime:           start.Add(time.Hour),
		Amount:            1500,
		PaymentID:         "pay_123",
		OrderID:           "order_456",
		RazorpaySignature: signPayment("order_456", "pay_123"),
	}
}

func TestPaymentService_ConfirmPayment(t *testing.T) {
	sessions := new(MockSessionStore)
	profiles := new(MockProfileStore)
	mentorships := new(MockMentorshipStore)
	service := newPaymentService(sessions, profiles, mentorships, new(MockPlanStore))
	ctx := context.Background()
	req := confirmRequest()

	created := &models.Session{
		ID:            uuid.New(),
		MentorID:      "mentor_1",
		StudentID:     "user_a",
		StudentName:   "Asha",
		Title:         "Mock interview",
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        models.SessionScheduled,
		PaymentStatus: models.PaymentPaid,
		BookingType:   models.BookingPaid,
		Amount:        1500,
	}

	sessions.On("CreateSession", ctx, mock.MatchedBy(func(s *models.Session) bool {
		return s.PaymentStatus == models.PaymentPaid &&
			s.BookingType == models.BookingPaid &&
			s.Currency == "INR" &&
			s.PaymentID == "pay_123" &&
			s.OrderID == "order_456"
	})).Return(created, nil).Once()
	sessions.On("UpdateSession", ctx, created.ID, mock.MatchedBy(func(r *models.UpdateSessionRequest) bool {
		return r.MeetingLink != nil && *r.MeetingLink != ""
	})).Return(created, nil).Once()
	sessions.On("AssignChannelName", ctx, created.ID, mock.AnythingOfType("string")).Return(created, nil).Once()
	mentorships.On("UpsertMentorshipByClerkID", ctx, "mentor_1", "user_a", "Asha", "Mock interview", models.MentorshipActive, true).
		Return(&models.Mentorship{ID: uuid.New()}, true, nil).Once()

	session, err := service.ConfirmPayment(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, session.ID)
	assert.NotEmpty(t, session.ChannelName)
	sessions.AssertExpectations(t)
	mentorships.AssertExpectations(t)
}

func TestPaymentService_ConfirmPayment_InvalidSignature(t *testing.T) {
	sessions := new(MockSessionStore)
	service := newPaymentService(sessions, new(MockProfileStore), new(MockMentorshipStore), new(MockPlanStore))

	req := confirmRequest()
	req.RazorpaySignature = "deadbeef"

	session, err := service.ConfirmPayment(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrInvalidSignature)
	assert.Nil(t, session)
	sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmPayment_MissingFields(t *testing.T) {
	service := newPaymentService(new(MockSessionStore), new(MockProfileStore), new(MockMentorshipStore), new(MockPlanStore))

	req := confirmRequest()
	req.OrderID = ""

	session, err := service.ConfirmPayment(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrMissingPaymentFields)
	assert.Nil(t, session)
}

func TestPaymentService_ConfirmPayment_InvalidTimeRange(t *testing.T) {
	service := newPaymentService(new(MockSessionStore), new(MockProfileStore), new(MockMentorshipStore), new(MockPlanStore))

	req := confirmRequest()
	req.EndTime = req.StartTime

	session, err := service.ConfirmPayment(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrInvalidTimeRange)
	assert.Nil(t, session)
}

func TestPaymentService_ConfirmPayment_ReconcilerFailureIsNonFatal(t *testing.T) {
	sessions := new(MockSessionStore)
	mentorships := new(MockMentorshipStore)
	service := newPaymentService(sessions, new(MockProfileStore), mentorships, new(MockPlanStore))
	ctx := context.Background()
	req := confirmRequest()

	created := &models.Session{ID: uuid.New(), MentorID: "mentor_1", StudentID: "user_a", StudentName: "Asha", Title: "Mock interview"}

	sessions.On("CreateSession", ctx, mock.Anything).Return(created, nil).Once()
	sessions.On("UpdateSession", ctx, created.ID, mock.Anything).Return(created, nil).Once()
	sessions.On("AssignChannelName", ctx, created.ID, mock.AnythingOfType("string")).Return(created, nil).Once()
	mentorships.On("UpsertMentorshipByClerkID", ctx, "mentor_1", "user_a", "Asha", "Mock interview", models.MentorshipActive, true).
		Return(nil, false, assert.AnError).Once()

	session, err := service.ConfirmPayment(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, session.ID)
}
