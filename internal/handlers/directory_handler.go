package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/services"
)

// DirectoryHandler serves the public mentor directory and the
// student-side my-mentors view.
type DirectoryHandler struct {
	service services.DirectoryServiceInterface
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(service services.DirectoryServiceInterface) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// ListMentors handles GET /api/v1/mentors (public)
func (h *DirectoryHandler) ListMentors(c *gin.Context) {
	mentors, err := h.service.ListMentors(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load mentors", err)
		return
	}

	c.JSON(http.StatusOK, mentors)
}

// MyMentors handles GET /api/v1/student/my-mentors
func (h *DirectoryHandler) MyMentors(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	mentors, err := h.service.MyMentors(c.Request.Context(), user.ClerkID, user.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load mentors", err)
		return
	}

	c.JSON(http.StatusOK, mentors)
}
