package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketevents/internal/collector"
	cronrunner "marketevents/internal/cron"
	"marketevents/internal/paas"
)

// TaskRunner runs one collection task to completion.
type TaskRunner interface {
	Run(ctx context.Context, task collector.Task, trigger string) collector.Result
}

type TaskHandler struct {
	Runner   TaskRunner
	Schedule *cronrunner.Runner
	// BaseCtx outlives the request; async runs use it.
	BaseCtx context.Context
	Logger  *zap.Logger
}

func (h *TaskHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/tasks")
	group.GET("", h.listTasks)
	group.POST("/:task/run", h.runTask)
}

// @Summary List tasks and their schedule
// @Tags tasks
// @Success 200 {object} apiResponse
// @Router /api/v1/tasks [get]
func (h *TaskHandler) listTasks(c *gin.Context) {
	var entries []cronrunner.Entry
	if h.Schedule != nil {
		entries = h.Schedule.Entries()
	}
	Ok(c, gin.H{"tasks": collector.Tasks(), "schedule": entries}, nil)
}

// @Summary Run a collection task now
// @Description Waits for any running task first. With async=true it returns 202 immediately.
// @Tags tasks
// @Param task path string true "daily|weekly|breaking|earnings|sentiment"
// @Param async query bool false "run in background"
// @Success 200 {object} apiResponse
// @Success 202 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/v1/tasks/{task}/run [post]
func (h *TaskHandler) runTask(c *gin.Context) {
	if h.Runner == nil {
		Error(c, http.StatusServiceUnavailable, "collector unavailable", nil)
		return
	}
	task, err := collector.ParseTask(c.Param("task"))
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if async := boolQueryPtr(c, "async"); async != nil && *async {
		base := h.BaseCtx
		if base == nil {
			base = context.Background()
		}
		// The request context ends with the response; keep only its audit client.
		if paas.ClientFromContext(base) == nil {
			base = paas.WithClient(base, paas.ClientFromContext(c.Request.Context()))
		}
		go h.Runner.Run(base, task, collector.TriggerManual)
		Accepted(c, gin.H{"task": task, "trigger": collector.TriggerManual})
		return
	}

	res := h.Runner.Run(c.Request.Context(), task, collector.TriggerManual)
	if res.Error != "" {
		if h.Logger != nil {
			h.Logger.Warn("manual task failed", zap.String("task", string(task)), zap.String("error", res.Error))
		}
		Failed(c, http.StatusBadGateway, res.Error, res, runMeta(res))
		return
	}
	Ok(c, res, runMeta(res))
}

// runMeta summarizes a run for the response envelope.
func runMeta(res collector.Result) map[string]any {
	return map[string]any{
		"run_id":      res.RunID,
		"duration_ms": res.Duration.Milliseconds(),
	}
}
