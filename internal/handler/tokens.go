package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lpscout/internal/service"
	"lpscout/internal/strategy"
)

type TokenHandler struct {
	Query  *service.PoolQueryService
	Logger *zap.Logger
}

func (h *TokenHandler) Register(r *gin.Engine) {
	group := r.Group("/api/tokens")
	group.GET("", h.listTokens)
	group.GET("/:address/strategy", h.getStrategy)
}

// @Summary List cached pools
// @Description Top pools by 24h volume from the latest refresh. Returns a bare array.
// @Tags tokens
// @Produce json
// @Success 200 {array} models.Pool
// @Failure 503 {object} errorResponse
// @Router /api/tokens [get]
func (h *TokenHandler) listTokens(c *gin.Context) {
	if h.Query == nil {
		bareError(c, http.StatusInternalServerError, "service unavailable")
		return
	}
	pools, err := h.Query.GetPools()
	if err != nil {
		var unavailable *service.UnavailableError
		if errors.As(err, &unavailable) {
			bareError(c, http.StatusServiceUnavailable, unavailable.Error())
			return
		}
		bareError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, pools)
}

// @Summary Strategy recommendation for a cached pool
// @Tags tokens
// @Produce json
// @Param address path string true "pool address"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/tokens/{address}/strategy [get]
func (h *TokenHandler) getStrategy(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	address := strings.TrimSpace(c.Param("address"))
	pool, err := h.Query.FindPool(address)
	if err != nil {
		var unavailable *service.UnavailableError
		switch {
		case errors.As(err, &unavailable):
			Error(c, http.StatusServiceUnavailable, unavailable.Error(), map[string]any{
				"last_update": unavailable.LastUpdateText(),
			})
		case errors.Is(err, service.ErrPoolNotFound):
			Error(c, http.StatusNotFound, err.Error(), map[string]any{"address": address})
		default:
			Error(c, http.StatusInternalServerError, err.Error(), nil)
		}
		return
	}
	rec := strategy.Derive(pool)
	if h.Logger != nil {
		h.Logger.Debug("strategy derived",
			zap.String("address", pool.Address),
			zap.String("regime", string(rec.Regime)),
			zap.Int("num_bins", rec.StrategyCard.NumBins),
		)
	}
	Ok(c, rec, map[string]any{"pool": pool})
}
