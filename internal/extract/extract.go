// Package extract turns free-form model prose into candidate event records.
//
// The structured path asks the model to restate the prose as a JSON list and
// decodes the embedded payload. When that fails for any reason the prose is
// split on line boundaries instead, so non-empty input always yields records.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketevents/internal/event"
	"marketevents/internal/llm"
	"marketevents/internal/metrics"
	"marketevents/internal/prompts"
)

const (
	MethodStructured = "structured"
	MethodFallback   = "fallback"
)

type Extractor struct {
	LLM     llm.Asker
	Prompts *prompts.Store
	Logger  *zap.Logger
	Now     func() time.Time
}

// Extract returns the candidates found in raw and the method that produced
// them. Empty input yields no candidates.
func (e *Extractor) Extract(ctx context.Context, raw string, kind event.Kind) ([]event.Candidate, string) {
	if strings.TrimSpace(raw) == "" {
		return nil, MethodStructured
	}

	out, err := e.structured(ctx, raw, kind)
	if err == nil {
		metrics.RecordsExtracted.WithLabelValues(MethodStructured).Add(float64(len(out)))
		if e.Logger != nil {
			e.Logger.Info("records extracted", zap.String("method", MethodStructured), zap.Int("records", len(out)))
		}
		return out, MethodStructured
	}

	out = Fallback(raw, e.today())
	metrics.RecordsExtracted.WithLabelValues(MethodFallback).Add(float64(len(out)))
	if e.Logger != nil {
		e.Logger.Warn("structured extraction failed, using line split",
			zap.Error(err),
			zap.Int("records", len(out)),
		)
	}
	return out, MethodFallback
}

func (e *Extractor) structured(ctx context.Context, raw string, kind event.Kind) ([]event.Candidate, error) {
	if e.LLM == nil {
		return nil, &ParseError{Reason: "no completion client"}
	}
	systemKey := prompts.KeyExtractSystem
	if kind == event.KindEarnings {
		systemKey = prompts.KeyEarningsSystem
	}
	system, err := e.Prompts.Render(systemKey, prompts.Data{Date: e.today()})
	if err != nil {
		return nil, err
	}
	user, err := e.Prompts.Render(prompts.KeyExtractUser, prompts.Data{Text: raw, Date: e.today()})
	if err != nil {
		return nil, err
	}

	resp, err := e.LLM.Ask(ctx, "extract", system, user, llm.AskOptions{Temperature: llm.Float(0.1)})
	if err != nil {
		return nil, err
	}
	return Parse(resp)
}

func (e *Extractor) today() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().Format(event.DateLayout)
}

var (
	listMarker  = regexp.MustCompile(`^(?:[-*•]+|\d{1,2}[.)、])\s*`)
	leadingTime = regexp.MustCompile(`^(\d{1,2})[:：](\d{2})(?:\s*([AaPp][Mm])\b)?(?:\s*(?:ET|EST|EDT)\b)?\s*[-–—:：|]?\s*`)
)

// Fallback splits raw on line boundaries. Each non-blank line becomes one
// minimal candidate dated today. A leading clock time on the line is kept as
// the candidate's time; otherwise the time is unspecified and the phase other.
func Fallback(raw, today string) []event.Candidate {
	var out []event.Candidate
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		out = append(out, fallbackCandidate(line, today))
	}
	if len(out) == 0 {
		out = append(out, fallbackCandidate(strings.TrimSpace(raw), today))
	}
	return out
}

func fallbackCandidate(line, today string) event.Candidate {
	c := event.Candidate{
		"date":          today,
		"description":   line,
		"time":          event.TimeUnspecified,
		"type":          event.TypeOther,
		"market_phase":  event.PhaseOther,
		"market_impact": event.DefaultMarketImpact,
		"sentiment":     event.SentimentUnknown,
	}
	body := listMarker.ReplaceAllString(line, "")
	if m := leadingTime.FindStringSubmatch(body); m != nil {
		rest := strings.TrimSpace(body[len(m[0]):])
		if rest != "" {
			c["time"] = clock(m[1], m[2], m[3])
			c["description"] = rest
			delete(c, "market_phase")
		}
	}
	if line == "" {
		c["description"] = event.DefaultDescription
	}
	return c
}

// clock renders an HH:MM string, folding a 12-hour AM/PM suffix.
func clock(hour, minute, meridiem string) string {
	h, _ := strconv.Atoi(hour)
	switch strings.ToLower(meridiem) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%s", h, minute)
}
