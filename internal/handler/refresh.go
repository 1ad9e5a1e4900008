package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lpscout/internal/service"
)

type RefreshHandler struct {
	Service *service.PoolRefreshService
	Logger  *zap.Logger
}

func (h *RefreshHandler) Register(r *gin.Engine) {
	group := r.Group("/api/refresh")
	group.POST("", h.refresh)
	group.GET("/status", h.status)
}

// @Summary Refresh the pool cache now
// @Description Joins the in-flight cycle when one is already running.
// @Tags refresh
// @Produce json
// @Success 200 {object} apiResponse
// @Failure 502 {object} apiResponse
// @Router /api/refresh [post]
func (h *RefreshHandler) refresh(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	// A client disconnect must not cancel the shared cycle.
	result, err := h.Service.Refresh(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("manual refresh failed", zap.String("cycle_id", result.CycleID), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), map[string]any{"cycle_id": result.CycleID})
		return
	}
	Ok(c, result, nil)
}

// @Summary Refresh status
// @Tags refresh
// @Produce json
// @Success 200 {object} apiResponse
// @Router /api/refresh/status [get]
func (h *RefreshHandler) status(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	Ok(c, h.Service.Status(), nil)
}
