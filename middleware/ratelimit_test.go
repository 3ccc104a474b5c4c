package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nutriscan-health/nutriscan-api/config"
)

func TestRateLimiterWithoutRedisAllowsRequests(t *testing.T) {
	t.Setenv("APPENV", "test")
	config.SetRedisClientForTest(nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/login", RateLimiter(RateLimitConfig{Limit: 2, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Without Redis the limiter must not reject anything.
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterDefaultsApplied(t *testing.T) {
	// Zero-value config must not panic and must fall back to defaults.
	handler := RateLimiter(RateLimitConfig{})
	assert.NotNil(t, handler)
}

func TestResetRateLimitWithoutRedis(t *testing.T) {
	config.SetRedisClientForTest(nil)
	err := ResetRateLimit("127.0.0.1", "/login")
	assert.Error(t, err)
}
