package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/services"
)

// OnboardingHandler handles role-profile onboarding endpoints
type OnboardingHandler struct {
	service services.OnboardingServiceInterface
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(service services.OnboardingServiceInterface) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// OnboardMentor handles POST /api/v1/onboarding/mentor
func (h *OnboardingHandler) OnboardMentor(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.MentorOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	profile, err := h.service.OnboardMentor(c.Request.Context(), user, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUpload) {
			respondError(c, http.StatusBadRequest, "Invalid upload payload", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to save mentor profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// OnboardStudent handles POST /api/v1/onboarding/student
func (h *OnboardingHandler) OnboardStudent(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.StudentOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	profile, err := h.service.OnboardStudent(c.Request.Context(), user, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUpload) {
			respondError(c, http.StatusBadRequest, "Invalid upload payload", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to save student profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// OnboardFounder handles POST /api/v1/onboarding/founder
func (h *OnboardingHandler) OnboardFounder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.FounderOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	profile, err := h.service.OnboardFounder(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save founder profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// Profile handles GET /api/v1/onboarding/:role. The role resolver has
// already loaded the caller's profiles, so this is a context read.
func (h *OnboardingHandler) Profile(c *gin.Context) {
	rc, err := middleware.GetRoleContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var profile any
	switch models.Role(c.Param("role")) {
	case models.RoleMentor:
		if rc.Mentor != nil {
			profile = rc.Mentor
		}
	case models.RoleStudent:
		if rc.Student != nil {
			profile = rc.Student
		}
	case models.RoleFounder:
		if rc.Founder != nil {
			profile = rc.Founder
		}
	default:
		respondError(c, http.StatusBadRequest, "Invalid role", nil)
		return
	}

	if profile == nil {
		respondError(c, http.StatusNotFound, "Profile not found", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// Status handles GET /api/v1/onboarding/status/:role
func (h *OnboardingHandler) Status(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	role := models.Role(c.Param("role"))
	if role != models.RoleMentor && role != models.RoleStudent && role != models.RoleFounder {
		respondError(c, http.StatusBadRequest, "Invalid role", nil)
		return
	}

	status, err := h.service.Status(c.Request.Context(), user.ClerkID, role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load onboarding status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}
