package llm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketevents/internal/metrics"
)

// Asker is the narrow view pipeline stages depend on.
type Asker interface {
	Ask(ctx context.Context, op, system, user string, opts AskOptions) (string, error)
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(ctx context.Context, op, system, user string, opts AskOptions) (string, error)

func (f AskerFunc) Ask(ctx context.Context, op, system, user string, opts AskOptions) (string, error) {
	return f(ctx, op, system, user, opts)
}

// Client is what pipeline stages use to query the model: it fills in the
// configured model and sampling settings, bounds each attempt with Timeout and
// retries failures through Retrier.
type Client struct {
	Completer   Completer
	Retrier     *Retrier
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// AskOptions overrides per-call sampling settings. Zero values keep the
// client defaults.
type AskOptions struct {
	Temperature *float64
	MaxTokens   int
}

// Ask sends a system + user prompt pair and returns the raw completion text.
func (c *Client) Ask(ctx context.Context, op, system, user string, opts AskOptions) (string, error) {
	req := Request{
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if strings.TrimSpace(system) != "" {
		req.Messages = append(req.Messages, Message{Role: RoleSystem, Content: system})
	}
	req.Messages = append(req.Messages, Message{Role: RoleUser, Content: user})

	call := func(ctx context.Context) (string, error) {
		return c.completeOnce(ctx, op, req)
	}
	if c.Retrier == nil {
		return call(ctx)
	}
	return c.Retrier.Do(ctx, op, call)
}

func (c *Client) completeOnce(ctx context.Context, op string, req Request) (string, error) {
	callCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	provider := c.Provider
	if provider == "" {
		provider = "unknown"
	}
	start := time.Now()
	out, err := c.Completer.Complete(callCtx, req)
	metrics.CompletionDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompletionCalls.WithLabelValues(provider, "error").Inc()
		return "", err
	}
	metrics.CompletionCalls.WithLabelValues(provider, "ok").Inc()
	if c.Logger != nil {
		c.Logger.Debug("completion ok",
			zap.String("op", op),
			zap.Int("response_length", len(out)),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return out, nil
}

// Float returns a pointer for AskOptions.Temperature.
func Float(v float64) *float64 { return &v }
