package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketevents/internal/feed"
	"marketevents/internal/repository"
)

type EventHandler struct {
	Repo   repository.Repository
	Feed   *feed.Hub
	Logger *zap.Logger
}

func (h *EventHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/events")
	group.GET("", h.listEvents)
	group.GET("/stream", h.stream)
}

// @Summary List published events
// @Tags events
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param task query string false "daily|weekly|breaking|earnings|sentiment"
// @Param kind query string false "general|earnings"
// @Param sentiment query string false "bullish|bearish|neutral|unknown"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param order_by query string false "event_date|created_at|event_time|sentiment"
// @Param asc query bool false "ascending order"
// @Success 200 {object} apiResponse
// @Router /api/v1/events [get]
func (h *EventHandler) listEvents(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusServiceUnavailable, "ledger disabled", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	asc := boolQueryPtr(c, "asc")
	if asc == nil {
		asc = boolPtr(false)
	}
	params := repository.ListPublishedEventsParams{
		Limit:     limit,
		Offset:    offset,
		Task:      strQueryPtr(c, "task"),
		Kind:      strQueryPtr(c, "kind"),
		Sentiment: strQueryPtr(c, "sentiment"),
		DateFrom:  strQueryPtr(c, "date_from"),
		DateTo:    strQueryPtr(c, "date_to"),
		OrderBy:   c.Query("order_by"),
		Asc:       asc,
	}
	ctx := c.Request.Context()
	items, err := h.Repo.ListPublishedEvents(ctx, params)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list published events failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountPublishedEvents(ctx, params)
	if err != nil {
		total = int64(len(items))
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Stream newly published events (websocket)
// @Tags events
// @Success 101 {object} feed.Message
// @Router /api/v1/events/stream [get]
func (h *EventHandler) stream(c *gin.Context) {
	if h.Feed == nil {
		Error(c, http.StatusServiceUnavailable, "feed disabled", nil)
		return
	}
	h.Feed.ServeWS(c.Writer, c.Request)
}

func boolPtr(v bool) *bool { return &v }
