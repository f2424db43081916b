package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketevents/internal/repository"
)

type RunHandler struct {
	Repo repository.Repository
}

func (h *RunHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/runs", h.listRuns)
}

// @Summary List collection runs
// @Tags runs
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param task query string false "task"
// @Param status query string false "running|succeeded|failed"
// @Param since query string false "RFC3339"
// @Success 200 {object} apiResponse
// @Router /api/v1/runs [get]
func (h *RunHandler) listRuns(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusServiceUnavailable, "ledger disabled", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			parsed = parsed.UTC()
			since = &parsed
		}
	}
	params := repository.ListCollectionRunsParams{
		Limit:   limit,
		Offset:  offset,
		Task:    strQueryPtr(c, "task"),
		Status:  strQueryPtr(c, "status"),
		Since:   since,
		OrderBy: "started_at",
		Asc:     boolPtr(false),
	}
	ctx := c.Request.Context()
	items, err := h.Repo.ListCollectionRuns(ctx, params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountCollectionRuns(ctx, params)
	if err != nil {
		total = int64(len(items))
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}
