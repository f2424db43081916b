package paas

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Market Events Service (SaaS)

Collects US market events, enriches them and publishes them to Notion.
This service is intended to be accessed via easyweb3 PaaS Gateway.

## Access via PaaS

Base path (through gateway):
- /api/v1/services/market-events/

Examples:
- GET /api/v1/services/market-events/healthz
- GET /api/v1/services/market-events/api/v1/events
- POST /api/v1/services/market-events/api/v1/tasks/daily/run

## Auth

All /api/* routes require a Bearer token (validated by the PaaS gateway).
Health endpoints and /metrics are public.

## Notable Routes (upstream)

- GET /healthz
- GET /readyz
- GET /metrics
- GET /swagger/index.html
- GET /api/v1/events
- GET /api/v1/events/stream (websocket)
- GET /api/v1/runs
- POST /api/v1/tasks/{task}/run (daily, weekly, breaking, earnings, sentiment)
`)
	})
}
