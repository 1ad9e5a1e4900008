package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"lpscout/internal/logger"
	"lpscout/internal/models"
	"lpscout/internal/service"
	"lpscout/internal/stream"
)

type StreamHandler struct {
	Hub            *stream.Hub
	Query          *service.PoolQueryService
	Logger         *zap.Logger
	OriginPatterns []string
	Buffer         int
	WriteTimeout   time.Duration
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/tokens/stream", h.stream)
}

// @Summary Stream pool snapshots
// @Description Websocket. Sends the current snapshot on connect, then one message per refresh.
// @Tags tokens
// @Success 101 {object} models.PoolSnapshot
// @Router /api/tokens/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	if h.Hub == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.OriginPatterns,
	})
	if err != nil {
		h.log().Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	updates, cancel := h.Hub.Subscribe(h.Buffer)
	defer cancel()

	// Incoming frames are ignored; ctx ends when the peer goes away.
	ctx := conn.CloseRead(c.Request.Context())

	if err := h.write(ctx, conn, h.Query.Snapshot()); err != nil {
		h.log().Debug("stream initial write failed", zap.Error(err))
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case snap, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "hub closed")
				return
			}
			if err := h.write(ctx, conn, snap); err != nil {
				if !errors.Is(err, context.Canceled) {
					h.log().Info("stream client dropped", zap.Error(err))
				}
				return
			}
		}
	}
}

func (h *StreamHandler) write(ctx context.Context, conn *websocket.Conn, snap models.PoolSnapshot) error {
	timeout := h.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if snap.Pools == nil {
		snap.Pools = []models.Pool{}
	}
	return wsjson.Write(ctx, conn, snap)
}

func (h *StreamHandler) log() *zap.Logger {
	return logger.OrNop(h.Logger)
}
