// Package enrich attaches source attribution and impact analysis to cleaned
// records.
//
// Records are analysed in fixed-size batches: one combined prompt per batch,
// with the response split back per item by its "事件N分析" header. Batches
// never mix record kinds and output order always equals input order. Any
// failure degrades the affected fields to fixed defaults; a record is never
// dropped here.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketevents/internal/cache"
	"marketevents/internal/clean"
	"marketevents/internal/event"
	"marketevents/internal/llm"
	"marketevents/internal/metrics"
	"marketevents/internal/prompts"
)

const DefaultBatchSize = 5

type Enricher struct {
	LLM            llm.Asker
	Prompts        *prompts.Store
	Cache          cache.Store
	SourceLookup   bool
	SourceCacheTTL time.Duration
	BatchSize      int
	Logger         *zap.Logger
}

// Enrich returns enriched copies of records in the same order.
func (e *Enricher) Enrich(ctx context.Context, records []event.Record) []event.Record {
	out := make([]event.Record, len(records))
	copy(out, records)
	if len(out) == 0 {
		return out
	}

	for i := range out {
		if out[i].SourceName != "" {
			continue
		}
		s := unknownSource
		if e.SourceLookup {
			s = e.attribute(ctx, out[i].Description)
		}
		out[i].SourceName, out[i].SourceURL, out[i].SourceType = s.Name, s.URL, s.Type
	}

	size := e.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	for _, kind := range []event.Kind{event.KindGeneral, event.KindEarnings} {
		var idx []int
		for i := range out {
			if out[i].Kind == kind || (kind == event.KindGeneral && out[i].Kind == "") {
				idx = append(idx, i)
			}
		}
		for start := 0; start < len(idx); start += size {
			end := start + size
			if end > len(idx) {
				end = len(idx)
			}
			e.analyseBatch(ctx, kind, out, idx[start:end])
		}
	}

	for i := range out {
		out[i] = clean.Clean(out[i], out[i].Date)
	}
	return out
}

func (e *Enricher) analyseBatch(ctx context.Context, kind event.Kind, records []event.Record, idx []int) {
	items := make([]string, len(idx))
	for n, i := range idx {
		items[n] = itemText(records[i])
	}

	key := prompts.KeyBatchAnalysis
	if kind == event.KindEarnings {
		key = prompts.KeyEarningsAnalysis
	}

	resp, err := e.ask(ctx, key, items)
	if err != nil {
		metrics.EnrichDefaults.WithLabelValues("analysis").Add(float64(len(idx)))
		if e.Logger != nil {
			e.Logger.Warn("batch analysis failed, applying defaults",
				zap.String("kind", string(kind)),
				zap.Int("records", len(idx)),
				zap.Error(err),
			)
		}
		for _, i := range idx {
			applyDefaults(&records[i])
		}
		return
	}

	sections := SplitSections(resp)
	for n, i := range idx {
		section, ok := sections[n+1]
		if !ok {
			metrics.EnrichDefaults.WithLabelValues("analysis").Inc()
			if e.Logger != nil {
				e.Logger.Warn("batch analysis missing item", zap.Int("item", n+1), zap.String("description", records[i].Description))
			}
			applyDefaults(&records[i])
			continue
		}
		Apply(&records[i], ParseAnalysis(section))
	}
}

func (e *Enricher) ask(ctx context.Context, key string, items []string) (string, error) {
	if e.LLM == nil {
		return "", fmt.Errorf("enrich: no completion client")
	}
	system, err := e.Prompts.Render(prompts.KeyAnalystSystem, prompts.Data{})
	if err != nil {
		return "", err
	}
	user, err := e.Prompts.Render(key, prompts.Data{Items: items})
	if err != nil {
		return "", err
	}
	return e.LLM.Ask(ctx, "analysis", system, user, llm.AskOptions{})
}

func itemText(r event.Record) string {
	if !r.IsEarnings() || r.Earnings == nil {
		return r.Description
	}
	e := r.Earnings
	parts := []string{}
	name := strings.TrimSpace(e.CompanyName)
	if e.StockCode != "" {
		name = strings.TrimSpace(name + " (" + e.StockCode + ")")
	}
	if name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, e.ReportDate+" "+r.Time)
	if e.EPSForecast != "" {
		parts = append(parts, "EPS预期 "+e.EPSForecast)
	}
	if e.RevenueForecast != "" {
		parts = append(parts, "营收预期 "+e.RevenueForecast)
	}
	parts = append(parts, r.Description)
	return strings.Join(parts, "，")
}

// applyDefaults sets the values used when analysis is unavailable.
func applyDefaults(r *event.Record) {
	r.MarketImpact = event.DefaultMarketImpact
	r.Sentiment = event.SentimentUnknown
	r.ConfidenceLevel = event.ConfidenceMedium
}

// Apply copies an analysis onto r. Earnings records take only market impact,
// confidence and sentiment. A missing or unrecognised sentiment is inferred
// from the market impact text.
func Apply(r *event.Record, a Analysis) {
	r.MarketImpact = a.MarketImpact
	if r.MarketImpact == "" {
		r.MarketImpact = event.DefaultMarketImpact
	}
	if !r.IsEarnings() {
		r.SectorImpact = a.SectorImpact
		r.RelatedStocks = clean.Stocks(a.RelatedStocks)
	}
	r.ConfidenceLevel = clean.Confidence(a.Confidence)

	sentiment := clean.Sentiment(a.Sentiment)
	if !isSentiment(sentiment) || sentiment == event.SentimentUnknown {
		sentiment = clean.SentimentFromImpact(a.MarketImpact)
	}
	r.Sentiment = sentiment
}

func isSentiment(s string) bool {
	switch s {
	case event.SentimentBullish, event.SentimentBearish, event.SentimentNeutral, event.SentimentUnknown:
		return true
	}
	return false
}
