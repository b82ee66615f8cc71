package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/services"
)

// DashboardHandler serves the mentor dashboard aggregation endpoints
type DashboardHandler struct {
	service services.DashboardServiceInterface
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service services.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats handles GET /api/v1/mentor/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), user.ClerkID)
	if err != nil {
		respondDashboardError(c, err, "Failed to load dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetPendingRequests handles GET /api/v1/mentor/dashboard/pending-requests
func (h *DashboardHandler) GetPendingRequests(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	requests, err := h.service.PendingRequests(c.Request.Context(), user.ClerkID)
	if err != nil {
		respondDashboardError(c, err, "Failed to load pending requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GetEarnings handles GET /api/v1/mentor/dashboard/earnings
func (h *DashboardHandler) GetEarnings(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	report, err := h.service.Earnings(c.Request.Context(), user.ClerkID)
	if err != nil {
		respondDashboardError(c, err, "Failed to load earnings")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAvailability handles GET /api/v1/mentor/dashboard/availability
func (h *DashboardHandler) GetAvailability(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	now := time.Now().UTC()
	from := now
	to := now.AddDate(0, 0, 7)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid 'from' date", err)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid 'to' date", err)
			return
		}
		to = parsed
	}
	if !to.After(from) {
		respondError(c, http.StatusBadRequest, "Invalid date range", nil)
		return
	}

	slots, err := h.service.AvailabilitySlots(c.Request.Context(), user.ClerkID, from, to)
	if err != nil {
		respondDashboardError(c, err, "Failed to load availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func respondDashboardError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrMentorProfileNotFound) {
		respondError(c, http.StatusNotFound, "Mentor profile not found", err)
		return
	}
	respondError(c, http.StatusInternalServerError, fallback, err)
}
