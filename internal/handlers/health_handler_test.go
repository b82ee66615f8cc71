package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	handler := NewHealthHandler(func(ctx context.Context) error { return nil })
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_HealthcheckDatabaseDown(t *testing.T) {
	handler := NewHealthHandler(func(ctx context.Context) error {
		return errors.New("connection refused")
	})
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","reason":"database unreachable"}`, w.Body.String())
}
