package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aureeture/aureeture-api/internal/middleware"
	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/pkg/jwt"
	"github.com/aureeture/aureeture-api/pkg/logger"
)

func init() {
	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	_ = logger.Initialize(logger.Config{
		Level:       "info",
		Environment: "test",
		ServiceName: "aureeture-api-test",
	})
}

func newAuthRouter(tm *jwt.TokenManager, handlerCalled *bool) *gin.Engine {
	router := gin.New()
	router.Use(middleware.SessionAuthMiddleware(tm))
	router.GET("/test", func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestSessionAuthMiddleware_ValidToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "clerk", 1)
	token, err := tm.GenerateToken("user_1", "asha@example.com", "Asha K")
	assert.NoError(t, err)

	handlerCalled := false
	router := newAuthRouter(tm, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled, "Handler should be called for valid token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionAuthMiddleware_StoresClaims(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "clerk", 1)
	token, err := tm.GenerateTokenWithRole("user_1", "asha@example.com", "Asha K", "mentor")
	assert.NoError(t, err)

	var claims *jwt.SessionClaims
	router := gin.New()
	router.Use(middleware.SessionAuthMiddleware(tm))
	router.GET("/test", func(c *gin.Context) {
		claims, _ = middleware.GetAuthClaims(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, claims)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "mentor", claims.Role)
}

func TestSessionAuthMiddleware_MissingToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "clerk", 1)

	handlerCalled := false
	router := newAuthRouter(tm, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called without a token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestSessionAuthMiddleware_InvalidToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "clerk", 1)

	handlerCalled := false
	router := newAuthRouter(tm, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called for invalid token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuthMiddleware_WrongSecret(t *testing.T) {
	issuing := jwt.NewTokenManager("other-secret", "clerk", 1)
	token, err := issuing.GenerateToken("user_1", "asha@example.com", "Asha K")
	assert.NoError(t, err)

	tm := jwt.NewTokenManager("test-secret", "clerk", 1)
	handlerCalled := false
	router := newAuthRouter(tm, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called for a foreign token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuthMiddleware_ExpiredToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "clerk", 0)
	token, err := tm.GenerateToken("user_1", "asha@example.com", "Asha K")
	assert.NoError(t, err)

	// Zero TTL tokens expire at issue time; give the clock a beat.
	time.Sleep(10 * time.Millisecond)

	handlerCalled := false
	router := newAuthRouter(tm, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Session expired"}`, w.Body.String())
}

func withRoleContext(rc *models.RoleContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.RoleContextKey, rc)
		c.Next()
	}
}

func TestRequireRole_AllowsHolder(t *testing.T) {
	rc := &models.RoleContext{
		User:   &models.User{ClerkID: "mentor_1"},
		Mentor: &models.MentorProfile{},
	}

	router := gin.New()
	router.Use(withRoleContext(rc))
	router.GET("/mentor", middleware.RequireRole(models.RoleMentor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentor", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_RejectsNonHolder(t *testing.T) {
	rc := &models.RoleContext{
		User:    &models.User{ClerkID: "student_1"},
		Student: &models.StudentProfile{},
	}

	router := gin.New()
	router.Use(withRoleContext(rc))
	router.GET("/mentor", middleware.RequireRole(models.RoleMentor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentor", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied"}`, w.Body.String())
}

func TestRequireRole_ActiveRoleHeaderMismatch(t *testing.T) {
	rc := &models.RoleContext{
		User:    &models.User{ClerkID: "both_1"},
		Mentor:  &models.MentorProfile{},
		Student: &models.StudentProfile{},
	}

	router := gin.New()
	router.Use(withRoleContext(rc))
	router.GET("/mentor", middleware.RequireRole(models.RoleMentor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// The caller holds both roles but has pinned the student surface.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentor", http.NoBody)
	req.Header.Set(middleware.ActiveRoleHeader, "student")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_MissingRoleContext(t *testing.T) {
	router := gin.New()
	router.GET("/mentor", middleware.RequireRole(models.RoleMentor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mentor", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
