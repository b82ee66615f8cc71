package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/services"
)

// AuthHandler handles the post-login handshake
type AuthHandler struct {
	service services.AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Verify handles POST /api/v1/auth/verify
// Syncs the local user row and claims any mentorships waiting on this email
func (h *AuthHandler) Verify(c *gin.Context) {
	claims, err := middleware.GetAuthClaims(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	result, err := h.service.Verify(c.Request.Context(), claims.UserID, claims.Email, claims.Name)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Verification failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
