package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lpscout/internal/service"
)

type HealthHandler struct {
	Refresh *service.PoolRefreshService
	Query   *service.PoolQueryService
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness check
// @Description Ready once a refresh has succeeded and the pool cache holds data.
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.Refresh == nil || h.Query == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_configured"})
		return
	}
	st := h.Refresh.Status()
	if st.LastSuccessAt == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no_refresh"})
		return
	}
	if st.LastError != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "refresh_failing"})
		return
	}
	if h.Query.Snapshot().Empty() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "cache_empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
