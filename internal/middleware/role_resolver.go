package middleware

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
	"github.com/aureeture/aureeture-api/pkg/logger"
)

const (
	// RoleContextKey is the key used to store the resolved role context
	RoleContextKey = "role_context"

	// ActiveRoleHeader lets a multi-role user pin which hat they are wearing
	ActiveRoleHeader = "x-active-role"
)

var ErrRoleContextNotFound = errors.New("role context not found in context")

// RoleResolverMiddleware loads the caller's role profiles and stores a
// RoleContext in the request context. Profile lookups fail open: a lookup
// error leaves that profile nil rather than failing the request, so a
// database blip degrades capability instead of locking everyone out.
func RoleResolverMiddleware(profiles repository.ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		rc := &models.RoleContext{User: user}
		ctx := c.Request.Context()

		var wg sync.WaitGroup
		wg.Add(3)

		go func() {
			defer wg.Done()
			mentor, err := profiles.GetMentorByClerkID(ctx, user.ClerkID)
			if err == nil {
				rc.Mentor = mentor
			} else if !isNotFound(err) {
				logger.Debug("Mentor profile lookup failed",
					zap.String("clerk_id", user.ClerkID), zap.Error(err))
			}
		}()
		go func() {
			defer wg.Done()
			student, err := profiles.GetStudentByClerkID(ctx, user.ClerkID)
			if err == nil {
				rc.Student = student
			} else if !isNotFound(err) {
				logger.Debug("Student profile lookup failed",
					zap.String("clerk_id", user.ClerkID), zap.Error(err))
			}
		}()
		go func() {
			defer wg.Done()
			founder, err := profiles.GetFounderByClerkID(ctx, user.ClerkID)
			if err == nil {
				rc.Founder = founder
			} else if !isNotFound(err) {
				logger.Debug("Founder profile lookup failed",
					zap.String("clerk_id", user.ClerkID), zap.Error(err))
			}
		}()

		wg.Wait()

		c.Set(RoleContextKey, rc)
		c.Next()
	}
}

// GetRoleContext extracts the resolved role context from context
func GetRoleContext(c *gin.Context) (*models.RoleContext, error) {
	val, exists := c.Get(RoleContextKey)
	if !exists {
		return nil, ErrRoleContextNotFound
	}

	rc, ok := val.(*models.RoleContext)
	if !ok {
		return nil, ErrRoleContextNotFound
	}

	return rc, nil
}

// RequireRole gates a route group on the caller holding the given role.
// When the x-active-role header is present it must also name this role,
// which stops a multi-role client from accidentally crossing surfaces.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, err := GetRoleContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !rc.HasRole(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		if active := c.GetHeader(ActiveRoleHeader); active != "" && active != string(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
