package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/studenthub/marketplace-service/internal/utils"
)

func newRateLimitRouter(t *testing.T, limiter *RateLimiter, max int64, window time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/auth/register", limiter.Limit(max, window), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func discardLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRateLimiter_BlocksAboveWindowBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, discardLogger())
	router := newRateLimitRouter(t, limiter, 5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
		assert.Equal(t, http.StatusCreated, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := NewRateLimiter(client, discardLogger())
	router := newRateLimitRouter(t, limiter, 1, time.Minute)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	mr.FastForward(time.Minute)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRateLimiter_WithoutRedisAllowsEverything(t *testing.T) {
	limiter := NewRateLimiter(nil, discardLogger())
	router := newRateLimitRouter(t, limiter, 1, time.Minute)

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
}
