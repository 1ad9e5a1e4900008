package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# lpscout

Polls Meteora DLMM pools every 20 minutes (:00, :20, :40) and serves the
top pools by 24h volume from memory.

## Routes

- GET /api/tokens
  Bare JSON array of pools. 503 with {"error": "..."} when nothing is cached.
- GET /api/tokens/{address}/strategy
  LP strategy recommendation for a cached pool.
- GET /api/tokens/stream
  Websocket. Current snapshot on connect, then one message per refresh.
- POST /api/refresh
  Runs a refresh now, joining the in-flight cycle if there is one.
- GET /api/refresh/status
- GET /healthz
- GET /readyz
- GET /swagger/index.html

## Pool fields

name, address, price (6 decimals or "N/A"), volume24h, liquidity
(grouped or "N/A"), priceChange24h (percent, simulated history).
`)
	})
}
