package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisAlshanov/stickerGallery/internal/config"
	"github.com/denisAlshanov/stickerGallery/internal/services/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := &rateLimiter{
		requests: map[string][]time.Time{},
		limit:    2,
		window:   time.Minute,
		now:      func() time.Time { return now },
	}

	assert.True(t, rl.isAllowed("a"))
	assert.True(t, rl.isAllowed("a"))
	assert.False(t, rl.isAllowed("a"))
	assert.True(t, rl.isAllowed("b"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.isAllowed("a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(CorrelationIDMiddleware())
	engine.POST("/submit", RateLimitMiddleware(&config.APIConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	first := serve(engine, httptest.NewRequest(http.MethodPost, "/submit", nil))
	assert.Equal(t, http.StatusCreated, first.Code)

	second := serve(engine, httptest.NewRequest(http.MethodPost, "/submit", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestCorrelationIDMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(CorrelationIDMiddleware())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "corr-1")
	w := serve(engine, req)

	assert.Equal(t, "corr-1", w.Header().Get("X-Correlation-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminAuthMiddleware(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "s3cret", Issuer: "stickergallery", TokenDuration: time.Hour})
	token, err := svc.GenerateAdminToken("ops")
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/admin", AdminAuthMiddleware(svc), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("admin_subject"))
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops", w.Body.String())

	for name, header := range map[string]string{
		"missing": "",
		"garbage": "Bearer nope",
		"basic":   "Basic b3BzOnB3",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := serve(engine, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
		})
	}
}

func TestAdminAuthMiddlewareDisabled(t *testing.T) {
	engine := gin.New()
	engine.GET("/admin", AdminAuthMiddleware(auth.NewJWTService(auth.JWTConfig{})), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	engine := gin.New()
	engine.Use(MetricsMiddleware())
	engine.GET("/api/v1/packs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/packs/65a1b2c3d4e5f60718293a4b", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	counter, err := httpRequestsTotal.GetMetricWithLabelValues(http.MethodGet, "/api/v1/packs/:id", "200")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(counter))
}
