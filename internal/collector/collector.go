// Package collector runs the collection tasks: acquire prose from the
// completion service, extract, validate, clean and enrich records, then
// publish the new ones.
package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketevents/internal/clean"
	"marketevents/internal/enrich"
	"marketevents/internal/event"
	"marketevents/internal/extract"
	"marketevents/internal/llm"
	"marketevents/internal/metrics"
	"marketevents/internal/models"
	"marketevents/internal/paas"
	"marketevents/internal/prompts"
	"marketevents/internal/publish"
	"marketevents/internal/repository"
	"marketevents/internal/validate"
)

// SentimentTitle prefixes the description of the sentiment record.
const SentimentTitle = "市场情绪和关注焦点分析"

// SentimentDescription names one sentiment sweep. The clock time keeps the
// sweeps of one day distinct under date plus description deduplication.
func SentimentDescription(now time.Time) string {
	return SentimentTitle + "（" + now.Format("15:04") + "）"
}

// Collector serializes task runs; a scheduled run and a manual trigger never
// overlap within one process.
type Collector struct {
	LLM       llm.Asker
	Prompts   *prompts.Store
	Extractor *extract.Extractor
	Enricher  *enrich.Enricher
	Publisher *publish.Publisher
	Repo      repository.Repository
	Logger    *zap.Logger
	Location  *time.Location
	Now       func() time.Time

	mu sync.Mutex
}

// Result reports one task run. Zero created is a valid outcome.
type Result struct {
	RunID         string        `json:"run_id"`
	Task          Task          `json:"task"`
	Extracted     int           `json:"extracted"`
	ExtractMethod string        `json:"extract_method,omitempty"`
	Rejected      int           `json:"rejected"`
	Processed     int           `json:"processed"`
	Duplicates    int           `json:"duplicates"`
	Created       int           `json:"created"`
	Duration      time.Duration `json:"duration"`
	Error         string        `json:"error,omitempty"`
}

func (c *Collector) now() time.Time {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return now
}

// Run executes task to completion. It never panics on upstream failures;
// they surface in Result.Error with zero records created.
func (c *Collector) Run(ctx context.Context, task Task, trigger string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	res := Result{RunID: uuid.NewString(), Task: task}
	run := c.startRun(ctx, res.RunID, task, trigger)

	err := c.run(ctx, task, &res)
	res.Duration = time.Since(start)

	status := models.RunStatusSucceeded
	if err != nil {
		status = models.RunStatusFailed
		res.Error = err.Error()
	}
	metrics.TaskRuns.WithLabelValues(string(task), status).Inc()
	metrics.TaskDuration.WithLabelValues(string(task)).Observe(res.Duration.Seconds())
	c.finishRun(ctx, run, status, res)

	if c.Logger != nil {
		fields := []zap.Field{
			zap.String("task", string(task)),
			zap.String("run_id", res.RunID),
			zap.String("trigger", trigger),
			zap.Int("extracted", res.Extracted),
			zap.Int("rejected", res.Rejected),
			zap.Int("processed", res.Processed),
			zap.Int("created", res.Created),
			zap.Duration("duration", res.Duration),
		}
		if err != nil {
			c.Logger.Error("collection task failed", append(fields, zap.Error(err))...)
		} else {
			c.Logger.Info("collection task finished", fields...)
		}
	}
	return res
}

func (c *Collector) run(ctx context.Context, task Task, res *Result) error {
	spec, ok := taskSpecs[task]
	if !ok {
		_, err := ParseTask(string(task))
		return err
	}
	now := c.now()
	today := now.Format(event.DateLayout)

	raw, err := c.acquire(ctx, spec.search, prompts.Data{Date: today, DateRange: NextWeek(now)})
	if err != nil {
		return err
	}

	var records []event.Record
	if task == TaskSentiment {
		records = []event.Record{SentimentRecord(raw, now)}
		res.Extracted = 1
	} else {
		records = c.process(ctx, raw, spec.kind, today, res)
	}
	if len(records) == 0 {
		return nil
	}

	if c.Publisher == nil {
		return errors.New("publisher not configured")
	}
	pub, err := c.Publisher.Publish(ctx, publish.Batch{
		Task:    string(task),
		Title:   spec.title,
		RunID:   res.RunID,
		Records: records,
	})
	res.Processed = pub.Processed
	res.Duplicates = pub.Duplicates
	res.Created = pub.Created
	return err
}

// acquire renders the search prompt and returns the model's prose.
func (c *Collector) acquire(ctx context.Context, key string, data prompts.Data) (string, error) {
	if c.LLM == nil {
		return "", errors.New("completion client not configured")
	}
	user, err := c.Prompts.Render(key, data)
	if err != nil {
		return "", err
	}
	system, err := c.Prompts.Render(prompts.KeyAnalystSystem, prompts.Data{})
	if err != nil {
		return "", err
	}
	return c.LLM.Ask(ctx, "search", system, user, llm.AskOptions{})
}

// process runs extraction, validation, cleaning and enrichment in order.
func (c *Collector) process(ctx context.Context, raw string, kind event.Kind, today string, res *Result) []event.Record {
	var candidates []event.Candidate
	if c.Extractor != nil {
		candidates, res.ExtractMethod = c.Extractor.Extract(ctx, raw, kind)
	} else {
		candidates, res.ExtractMethod = extract.Fallback(raw, today), extract.MethodFallback
	}
	res.Extracted = len(candidates)

	records := make([]event.Record, 0, len(candidates))
	for i, cand := range candidates {
		if err := validate.Candidate(cand); err != nil {
			res.Rejected++
			field := "unknown"
			var verr *validate.ValidationError
			if errors.As(err, &verr) {
				field = verr.Field
			}
			metrics.RecordsRejected.WithLabelValues(field).Inc()
			if c.Logger != nil {
				c.Logger.Warn("candidate rejected", zap.Int("index", i), zap.String("field", field), zap.Error(err))
			}
			continue
		}
		records = append(records, clean.Normalize(cand, kind, today))
	}
	if c.Enricher != nil && len(records) > 0 {
		records = c.Enricher.Enrich(ctx, records)
	}
	return records
}

// SentimentRecord wraps the sentiment prose as one market-analysis record.
// The prose is the market impact; sentiment is inferred from it, else neutral.
func SentimentRecord(prose string, now time.Time) event.Record {
	sentiment := clean.SentimentFromImpact(prose)
	if sentiment == event.SentimentUnknown {
		sentiment = event.SentimentNeutral
	}
	today := now.Format(event.DateLayout)
	return clean.Clean(event.Record{
		Kind:            event.KindGeneral,
		Date:            today,
		Time:            now.Format("15:04"),
		Description:     SentimentDescription(now),
		Type:            event.TypeMarketAnalysis,
		MarketPhase:     event.PhaseOther,
		MarketImpact:    prose,
		Sentiment:       sentiment,
		ConfidenceLevel: event.ConfidenceMedium,
	}, today)
}

func (c *Collector) startRun(ctx context.Context, id string, task Task, trigger string) *models.CollectionRun {
	if c.Repo == nil {
		return nil
	}
	run := &models.CollectionRun{
		ID:        id,
		Task:      string(task),
		Trigger:   trigger,
		Status:    models.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := c.Repo.CreateCollectionRun(ctx, run); err != nil {
		if c.Logger != nil {
			c.Logger.Warn("create collection run failed", zap.String("run_id", id), zap.Error(err))
		}
		return nil
	}
	return run
}

func (c *Collector) finishRun(ctx context.Context, run *models.CollectionRun, status string, res Result) {
	// The audit client, if any, rides on the run's context.
	paas.ClientFromContext(ctx).LogBestEffort("market_events_collection", levelFromStatus(status), map[string]any{
		"run_id":    res.RunID,
		"task":      string(res.Task),
		"status":    status,
		"processed": res.Processed,
		"created":   res.Created,
		"error":     res.Error,
	}, c.Logger)

	if run == nil {
		return
	}
	finished := time.Now().UTC()
	run.Status = status
	run.Extracted = res.Extracted
	run.ExtractMethod = res.ExtractMethod
	run.Rejected = res.Rejected
	run.Processed = res.Processed
	run.Duplicates = res.Duplicates
	run.Created = res.Created
	run.Error = res.Error
	run.FinishedAt = &finished
	// The caller's context may already be cancelled; the audit row should still land.
	uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.Repo.UpdateCollectionRun(uctx, run); err != nil && c.Logger != nil {
		c.Logger.Warn("update collection run failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func levelFromStatus(status string) string {
	if status == models.RunStatusFailed {
		return "error"
	}
	return "info"
}
