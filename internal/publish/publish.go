// Package publish deduplicates enriched records and writes the new ones to
// the document store as one page per record kind, then records them in the
// local ledger.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"marketevents/internal/dedup"
	"marketevents/internal/event"
	"marketevents/internal/llm"
	"marketevents/internal/metrics"
	"marketevents/internal/models"
	"marketevents/internal/notion"
	"marketevents/internal/prompts"
	"marketevents/internal/repository"
)

// LedgerWindow bounds how far back ledger keys are loaded for deduplication.
const LedgerWindow = 45 * 24 * time.Hour

// DocumentStore is the subset of the Notion client the publisher needs.
type DocumentStore interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error)
	CreatePage(ctx context.Context, req notion.CreatePageRequest) (*notion.Page, error)
}

// Broadcaster receives records right after they are published.
type Broadcaster interface {
	Broadcast(task string, records []event.Record)
}

type Publisher struct {
	Store        DocumentStore
	ParentPageID string
	DatabaseID   string
	Repo         repository.Repository
	LLM          llm.Asker
	Prompts      *prompts.Store
	Feed         Broadcaster
	Logger       *zap.Logger
	Now          func() time.Time
}

// Batch is one publish cycle.
type Batch struct {
	Task    string
	Title   string
	RunID   string
	Records []event.Record
}

type Result struct {
	Processed  int
	Duplicates int
	Created    int
	PageIDs    []string
}

// Publish deduplicates b.Records against the store and the ledger and
// publishes the rest. A failed page reports zero created for its records and
// its error is returned after the remaining kinds are attempted.
func (p *Publisher) Publish(ctx context.Context, b Batch) (Result, error) {
	res := Result{Processed: len(b.Records)}
	if len(b.Records) == 0 {
		return res, nil
	}

	seen := p.ExistingKeys(ctx)
	fresh, dups := seen.Filter(b.Records)
	res.Duplicates = dups
	metrics.RecordsDuplicate.Add(float64(dups))
	if p.Logger != nil && dups > 0 {
		p.Logger.Info("skipping duplicate records", zap.String("task", b.Task), zap.Int("duplicates", dups))
	}
	if len(fresh) == 0 {
		return res, nil
	}

	var errs []error
	for _, group := range groupByKind(fresh) {
		page, err := p.publishGroup(ctx, b, group.kind, group.records)
		if err != nil {
			errs = append(errs, err)
			if p.Logger != nil {
				p.Logger.Error("publish page failed",
					zap.String("task", b.Task),
					zap.String("kind", string(group.kind)),
					zap.Int("records", len(group.records)),
					zap.Error(err),
				)
			}
			continue
		}
		res.Created += len(group.records)
		res.PageIDs = append(res.PageIDs, page.ID)
		metrics.RecordsPublished.WithLabelValues(b.Task).Add(float64(len(group.records)))

		p.appendDatabaseRows(ctx, group.records)
		p.writeLedger(ctx, b, page.ID, group.records)
		if p.Feed != nil {
			p.Feed.Broadcast(b.Task, group.records)
		}
	}
	if p.Logger != nil {
		p.Logger.Info("publish finished",
			zap.String("task", b.Task),
			zap.Int("processed", res.Processed),
			zap.Int("created", res.Created),
		)
	}
	return res, errors.Join(errs...)
}

type kindGroup struct {
	kind    event.Kind
	records []event.Record
}

func groupByKind(records []event.Record) []kindGroup {
	var general, earnings []event.Record
	for _, r := range records {
		if r.IsEarnings() {
			earnings = append(earnings, r)
		} else {
			general = append(general, r)
		}
	}
	var out []kindGroup
	if len(general) > 0 {
		out = append(out, kindGroup{kind: event.KindGeneral, records: general})
	}
	if len(earnings) > 0 {
		out = append(out, kindGroup{kind: event.KindEarnings, records: earnings})
	}
	return out
}

func (p *Publisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// ExistingKeys loads the published set once: database rows from the document
// store plus recent ledger keys. Either source failing is logged and skipped.
func (p *Publisher) ExistingKeys(ctx context.Context) *dedup.Set {
	set := dedup.NewSet()
	if p.Store != nil && p.DatabaseID != "" {
		pages, err := p.Store.QueryDatabase(ctx, p.DatabaseID)
		if err != nil {
			if p.Logger != nil {
				p.Logger.Warn("query existing events failed", zap.Error(err))
			}
		}
		for _, page := range pages {
			date := page.Properties["日期"]
			desc := notion.Plain(page.Properties["事件描述"].Title)
			if date.Date == nil || desc == "" {
				continue
			}
			start := date.Date.Start
			if len(start) > len(event.DateLayout) {
				start = start[:len(event.DateLayout)]
			}
			set.Add(event.NewKey(start, desc))
		}
	}
	if p.Repo != nil {
		since := p.now().Add(-LedgerWindow).Format(event.DateLayout)
		keys, err := p.Repo.ListPublishedKeys(ctx, since)
		if err != nil && p.Logger != nil {
			p.Logger.Warn("load ledger keys failed", zap.Error(err))
		}
		for _, k := range keys {
			set.Add(event.Key{Date: k.EventDate, Description: k.DescriptionKey})
		}
	}
	return set
}

func (p *Publisher) publishGroup(ctx context.Context, b Batch, kind event.Kind, records []event.Record) (*notion.Page, error) {
	if p.Store == nil || p.ParentPageID == "" {
		return nil, fmt.Errorf("document store not configured")
	}
	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = "美股市场事件"
	}
	if kind == event.KindEarnings && !strings.Contains(title, "财报") {
		title += " · 财报"
	}
	title = title + " " + p.now().Format(event.DateLayout)

	children := []notion.Block{notion.Heading1(title)}
	if summary := p.summarize(ctx, records); summary != "" {
		children = append(children, notion.ParagraphBlock(summary))
	}
	children = append(children, notion.Heading2("事件列表"), EventTable(kind, records))

	return p.Store.CreatePage(ctx, notion.CreatePageRequest{
		Parent:     notion.Parent{PageID: p.ParentPageID},
		Properties: map[string]notion.Property{"title": notion.TitleProperty(title)},
		Children:   children,
	})
}

// summarize asks for a short overview paragraph. Failure omits it.
func (p *Publisher) summarize(ctx context.Context, records []event.Record) string {
	if p.LLM == nil {
		return ""
	}
	items := make([]string, 0, len(records))
	for _, r := range records {
		items = append(items, fmt.Sprintf("%s %s（%s）", r.Time, r.Description, SentimentDisplay(r.Sentiment)))
	}
	user, err := p.Prompts.Render(prompts.KeySummary, prompts.Data{Items: items})
	if err != nil {
		return ""
	}
	system, err := p.Prompts.Render(prompts.KeyAnalystSystem, prompts.Data{})
	if err != nil {
		return ""
	}
	out, err := p.LLM.Ask(ctx, "summary", system, user, llm.AskOptions{MaxTokens: 500})
	if err != nil {
		metrics.EnrichDefaults.WithLabelValues("summary").Inc()
		if p.Logger != nil {
			p.Logger.Warn("summary generation failed", zap.Error(err))
		}
		return ""
	}
	return strings.TrimSpace(out)
}

// appendDatabaseRows mirrors records into the event database so
// later cycles see them when querying it.
func (p *Publisher) appendDatabaseRows(ctx context.Context, records []event.Record) {
	if p.Store == nil || p.DatabaseID == "" {
		return
	}
	for _, r := range records {
		_, err := p.Store.CreatePage(ctx, notion.CreatePageRequest{
			Parent:     notion.Parent{DatabaseID: p.DatabaseID},
			Properties: DatabaseProperties(r),
		})
		if err != nil && p.Logger != nil {
			p.Logger.Warn("append database row failed", zap.String("description", r.Description), zap.Error(err))
		}
	}
}

func (p *Publisher) writeLedger(ctx context.Context, b Batch, pageID string, records []event.Record) {
	if p.Repo == nil {
		return
	}
	items := make([]models.PublishedEvent, 0, len(records))
	for _, r := range records {
		items = append(items, LedgerRow(b.Task, b.RunID, pageID, r))
	}
	if err := p.Repo.InsertPublishedEvents(ctx, items); err != nil && p.Logger != nil {
		p.Logger.Error("write ledger failed", zap.String("task", b.Task), zap.Error(err))
	}
}

// maxLedgerEPS is the numeric(12,4) column bound.
var maxLedgerEPS = decimal.New(1, 8)

// LedgerRow converts a published record into its ledger row.
func LedgerRow(task, runID, pageID string, r event.Record) models.PublishedEvent {
	key := r.Key()
	row := models.PublishedEvent{
		Task:            task,
		Kind:            string(r.Kind),
		EventDate:       key.Date,
		DescriptionKey:  key.Description,
		Description:     r.Description,
		EventTime:       r.Time,
		EventType:       r.Type,
		MarketPhase:     r.MarketPhase,
		Sentiment:       r.Sentiment,
		ConfidenceLevel: r.ConfidenceLevel,
		SourceName:      r.SourceName,
		SourceURL:       r.SourceURL,
		NotionPageID:    pageID,
		RunID:           runID,
	}
	if raw, err := json.Marshal(r); err == nil {
		row.Record = datatypes.JSON(raw)
	}
	if r.Earnings != nil {
		if code := strings.TrimSpace(r.Earnings.StockCode); code != "" {
			row.StockCode = &code
		}
		eps, err := decimal.NewFromString(strings.TrimPrefix(r.Earnings.EPSForecast, "$"))
		if err == nil && eps.Abs().LessThan(maxLedgerEPS) {
			row.EPSForecast = &eps
		}
	}
	return row
}
