package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

// Pinger is anything whose reachability can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db          Pinger
	storage     Pinger
	botEnabled  bool
	triggerMode string
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Version   string                   `json:"version"`
	Services  map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

func NewHealthHandler(db Pinger, storage Pinger, botEnabled bool, triggerMode string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		storage:     storage,
		botEnabled:  botEnabled,
		triggerMode: triggerMode,
	}
}

// Health godoc
// @Summary Health check endpoint
// @Description Check the health of the service and its dependencies
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Success 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
		Services:  make(map[string]ServiceHealth),
	}

	response.Services["mongodb"] = h.check(ctx, "MongoDB", h.db)
	response.Services["storage"] = h.check(ctx, "Object storage", h.storage)

	overallHealthy := true
	for _, service := range response.Services {
		if service.Status != "healthy" {
			overallHealthy = false
			break
		}
	}

	// The gallery still serves without a bot, so this never fails the check.
	telegram := ServiceHealth{Status: "disabled"}
	if h.botEnabled {
		telegram.Status = "enabled"
	}
	response.Services["telegram"] = telegram
	response.Services["ingest_trigger"] = ServiceHealth{Status: h.triggerMode}

	if !overallHealthy {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Readiness godoc
// @Summary Readiness check endpoint
// @Description Check if the service is ready to accept requests
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Success 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()

	ready := true
	checks := make(map[string]interface{})

	if err := h.db.Ping(ctx); err != nil {
		ready = false
		checks["mongodb"] = map[string]interface{}{
			"ready": false,
			"error": err.Error(),
		}
	} else {
		checks["mongodb"] = map[string]interface{}{
			"ready": true,
		}
	}

	response := map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	if ready {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// Liveness godoc
// @Summary Liveness check endpoint
// @Description Check if the service is alive
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /live [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) check(ctx context.Context, name string, target Pinger) ServiceHealth {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := target.Ping(checkCtx)
	responseTime := time.Since(start).String()

	if err != nil {
		utils.LogError(ctx, name+" health check failed", err)
		return ServiceHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ServiceHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
