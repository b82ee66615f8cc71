package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

// MenteeHandler handles the mentor's mentee-management endpoints
type MenteeHandler struct {
	mentees     services.MenteeServiceInterface
	mentorships services.MentorshipServiceInterface
}

// NewMenteeHandler creates a new MenteeHandler
func NewMenteeHandler(mentees services.MenteeServiceInterface, mentorships services.MentorshipServiceInterface) *MenteeHandler {
	return &MenteeHandler{mentees: mentees, mentorships: mentorships}
}

// GetRoster handles GET /api/v1/mentor-mentees
func (h *MenteeHandler) GetRoster(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	roster, err := h.mentees.Roster(c.Request.Context(), user.ClerkID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load mentees", err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// AddMentee handles POST /api/v1/mentor-mentees
func (h *MenteeHandler) AddMentee(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.AddMenteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	mentorship, err := h.mentorships.AddMentee(c.Request.Context(), user.ClerkID, &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to add mentee", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "mentee": mentorship})
}

// GetMentee handles GET /api/v1/mentor-mentees/:id
func (h *MenteeHandler) GetMentee(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseMentorshipID(c)
	if !ok {
		return
	}

	detail, err := h.mentees.Detail(c.Request.Context(), user.ClerkID, id)
	if err != nil {
		respondMenteeError(c, err, "Failed to load mentee")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateStatus handles PATCH /api/v1/mentor-mentees/:id/status
func (h *MenteeHandler) UpdateStatus(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseMentorshipID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.MentorshipStatus `json:"status" binding:"required,oneof=invited active paused ended"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	mentorship, err := h.mentees.UpdateStatus(c.Request.Context(), user.ClerkID, id, req.Status)
	if err != nil {
		respondMenteeError(c, err, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "mentee": mentorship})
}

// UpdatePlan handles PATCH /api/v1/mentor-mentees/:id/plan
func (h *MenteeHandler) UpdatePlan(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseMentorshipID(c)
	if !ok {
		return
	}

	var req models.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	plan, err := h.mentees.UpdatePlan(c.Request.Context(), user.ClerkID, id, &req)
	if err != nil {
		respondMenteeError(c, err, "Failed to update plan")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": plan})
}

// AddMilestone handles POST /api/v1/mentor-mentees/:id/milestones
func (h *MenteeHandler) AddMilestone(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseMentorshipID(c)
	if !ok {
		return
	}

	var req models.AddMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	milestone, err := h.mentees.AddMilestone(c.Request.Context(), user.ClerkID, id, &req)
	if err != nil {
		respondMenteeError(c, err, "Failed to add milestone")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "milestone": milestone})
}

// UpdateMilestone handles PATCH /api/v1/mentor-mentees/milestones/:milestoneId
func (h *MenteeHandler) UpdateMilestone(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	milestoneID, err := uuid.Parse(c.Param("milestoneId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid milestone ID", err)
		return
	}

	var req models.UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	milestone, err := h.mentees.UpdateMilestone(c.Request.Context(), user.ClerkID, milestoneID, &req)
	if err != nil {
		respondMenteeError(c, err, "Failed to update milestone")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "milestone": milestone})
}

// DeleteMilestone handles DELETE /api/v1/mentor-mentees/milestones/:milestoneId
func (h *MenteeHandler) DeleteMilestone(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	milestoneID, err := uuid.Parse(c.Param("milestoneId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid milestone ID", err)
		return
	}

	if err := h.mentees.DeleteMilestone(c.Request.Context(), user.ClerkID, milestoneID); err != nil {
		respondMenteeError(c, err, "Failed to delete milestone")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddMessage handles POST /api/v1/mentor-mentees/:id/messages
func (h *MenteeHandler) AddMessage(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, ok := parseMentorshipID(c)
	if !ok {
		return
	}

	var req models.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	message, err := h.mentees.AddMessage(c.Request.Context(), user.ClerkID, id, &req)
	if err != nil {
		if errors.Is(err, models.ErrMissingLinkage) {
			respondError(c, http.StatusBadRequest, "Missing linkage", err)
			return
		}
		respondMenteeError(c, err, "Failed to add message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message})
}

func parseMentorshipID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid mentee ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func respondMenteeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrMenteeNotFound):
		respondError(c, http.StatusNotFound, "Mentee not found", err)
	case errors.Is(err, services.ErrPlanNotFound):
		respondError(c, http.StatusNotFound, "Plan not found", err)
	case errors.Is(err, services.ErrMilestoneNotFound):
		respondError(c, http.StatusNotFound, "Milestone not found", err)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}
