package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

// SessionHandler handles mentor session endpoints including the paid-booking
// finalization and the join gate
type SessionHandler struct {
	sessions services.SessionServiceInterface
	payments services.PaymentServiceInterface
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions services.SessionServiceInterface, payments services.PaymentServiceInterface) *SessionHandler {
	return &SessionHandler{sessions: sessions, payments: payments}
}

// ListSessions handles GET /api/v1/mentor-sessions?scope=all|upcoming|past
func (h *SessionHandler) ListSessions(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	scope := c.DefaultQuery("scope", "all")
	if scope != "all" && scope != "upcoming" && scope != "past" {
		respondError(c, http.StatusBadRequest, "Invalid scope. Must be 'all', 'upcoming' or 'past'", nil)
		return
	}

	response, err := h.sessions.ListMentorSessions(c.Request.Context(), user.ClerkID, scope)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateSession handles POST /api/v1/mentor-sessions (manual booking)
func (h *SessionHandler) CreateSession(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	session, err := h.sessions.CreateManualBooking(c.Request.Context(), user.ClerkID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTimeRange):
			respondError(c, http.StatusBadRequest, "End time must be after start time", err)
		case errors.Is(err, services.ErrSessionAccessDenied):
			respondError(c, http.StatusForbidden, "Access denied", err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to create session", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "session": session})
}

// GetSession handles GET /api/v1/mentor-sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(c.Request.Context(), id, user.ClerkID)
	if err != nil {
		respondSessionError(c, err, "Failed to get session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// UpdateSession handles PATCH /api/v1/mentor-sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req models.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	session, err := h.sessions.UpdateSession(c.Request.Context(), id, user.ClerkID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRescheduleIncomplete):
			respondError(c, http.StatusBadRequest, "Reschedule requires both start and end time", err)
		case errors.Is(err, services.ErrInvalidTimeRange):
			respondError(c, http.StatusBadRequest, "End time must be after start time", err)
		default:
			respondSessionError(c, err, "Failed to update session")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// CompleteSession handles POST /api/v1/mentor-sessions/:id/complete
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes" binding:"omitempty,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	session, err := h.sessions.CompleteSession(c.Request.Context(), id, user.ClerkID, req.Notes)
	if err != nil {
		respondSessionError(c, err, "Failed to complete session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// DeleteSession handles DELETE /api/v1/mentor-sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.sessions.DeleteSession(c.Request.Context(), id, user.ClerkID); err != nil {
		respondSessionError(c, err, "Failed to delete session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ConfirmPayment handles POST /api/v1/sessions/confirm-payment
func (h *SessionHandler) ConfirmPayment(c *gin.Context) {
	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	session, err := h.payments.ConfirmPayment(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingPaymentFields):
			respondError(c, http.StatusBadRequest, "Missing required payment fields", err)
		case errors.Is(err, services.ErrInvalidTimeRange):
			respondError(c, http.StatusBadRequest, "End time must be after start time", err)
		case errors.Is(err, services.ErrInvalidSignature):
			respondError(c, http.StatusBadRequest, "Payment verification failed", err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to confirm payment", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session, "message": "Booking confirmed"})
}

// VerifyJoin handles POST /api/v1/sessions/:id/verify-join
func (h *SessionHandler) VerifyJoin(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.sessions.VerifyJoin(c.Request.Context(), id, user.ClerkID)
	if err != nil {
		respondSessionError(c, err, "Failed to verify join")
		return
	}

	if !result.CanJoin {
		c.JSON(http.StatusForbidden, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListStudentSessions handles GET /api/v1/student/sessions
func (h *SessionHandler) ListStudentSessions(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	scope := c.DefaultQuery("scope", "all")
	response, err := h.sessions.ListStudentSessions(c.Request.Context(), user.ClerkID, user.Email, scope)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid session ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func respondSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, services.ErrSessionAccessDenied):
		respondError(c, http.StatusForbidden, "Access denied", err)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}
