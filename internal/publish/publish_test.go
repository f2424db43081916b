package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketevents/internal/event"
	"marketevents/internal/llm"
	"marketevents/internal/models"
	"marketevents/internal/notion"
	"marketevents/internal/repository"
)

type stubStore struct {
	existing []notion.Page
	created  []notion.CreatePageRequest
	failPage bool
}

func (s *stubStore) QueryDatabase(context.Context, string) ([]notion.Page, error) {
	return s.existing, nil
}

func (s *stubStore) CreatePage(_ context.Context, req notion.CreatePageRequest) (*notion.Page, error) {
	if s.failPage && req.Parent.PageID != "" {
		return nil, &notion.APIError{Status: 500, Body: "boom"}
	}
	s.created = append(s.created, req)
	return &notion.Page{ID: "page-" + string(rune('0'+len(s.created)))}, nil
}

type stubRepo struct {
	repository.Repository
	keys     []repository.PublishedKey
	inserted []models.PublishedEvent
}

func (r *stubRepo) ListPublishedKeys(context.Context, string) ([]repository.PublishedKey, error) {
	return r.keys, nil
}

func (r *stubRepo) InsertPublishedEvents(_ context.Context, items []models.PublishedEvent) error {
	r.inserted = append(r.inserted, items...)
	return nil
}

type stubFeed struct {
	got []event.Record
}

func (f *stubFeed) Broadcast(_ string, records []event.Record) {
	f.got = append(f.got, records...)
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 17, 0, 0, 0, time.UTC)
}

func record(desc string) event.Record {
	return event.Record{
		Kind: event.KindGeneral, Date: "2026-10-19", Time: "09:30", Description: desc, Type: event.TypePolicy,
		MarketPhase: event.PhaseIntraday, Sentiment: event.SentimentUnknown, ConfidenceLevel: event.ConfidenceMedium,
		MarketImpact: event.DefaultMarketImpact,
	}
}

func TestPublish_EmptyPriorSet(t *testing.T) {
	store := &stubStore{}
	repo := &stubRepo{}
	feed := &stubFeed{}
	p := &Publisher{Store: store, ParentPageID: "parent", Repo: repo, Feed: feed, Now: fixedNow}

	res, err := p.Publish(context.Background(), Batch{Task: "daily", Title: "美股盘后事件", Records: []event.Record{
		record("Fed raises rates by 25bps"),
		record("Company X reports record revenue"),
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Processed != 2 || res.Created != 2 || res.Duplicates != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one page, got %d", len(store.created))
	}
	page := store.created[0]
	if got := notion.Plain(page.Properties["title"].Title); got != "美股盘后事件 2026-10-19" {
		t.Fatalf("unexpected title %q", got)
	}
	// heading_1, heading_2, table (no summary without a completion client).
	if len(page.Children) != 3 || page.Children[2].Type != "table" {
		t.Fatalf("unexpected children: %+v", page.Children)
	}
	table := page.Children[2].Table
	if table.TableWidth != 9 || len(table.Children) != 3 {
		t.Fatalf("expected 9 columns and header + 2 rows, got %d and %d", table.TableWidth, len(table.Children))
	}
	if len(repo.inserted) != 2 || repo.inserted[0].DescriptionKey != "fed raises rates by 25bps" {
		t.Fatalf("unexpected ledger rows: %+v", repo.inserted)
	}
	if len(feed.got) != 2 {
		t.Fatalf("expected 2 broadcast records, got %d", len(feed.got))
	}
}

func TestPublish_SkipsKnownKeys(t *testing.T) {
	store := &stubStore{existing: []notion.Page{{
		ID: "old",
		Properties: map[string]notion.Property{
			"日期":   notion.DateProperty("2026-10-19"),
			"事件描述": notion.TitleProperty("FED RAISES RATES BY 25BPS"),
		},
	}}}
	repo := &stubRepo{keys: []repository.PublishedKey{{EventDate: "2026-10-19", DescriptionKey: "company x reports record revenue"}}}
	p := &Publisher{Store: store, ParentPageID: "parent", DatabaseID: "db", Repo: repo, Now: fixedNow}

	res, err := p.Publish(context.Background(), Batch{Task: "daily", Records: []event.Record{
		record("Fed raises rates by 25bps"),
		record("Company X reports record revenue"),
		record("New ISM services index release"),
		record("new ism services index release"),
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Created != 1 || res.Duplicates != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	// One summary page plus one database row.
	if len(store.created) != 2 || store.created[1].Parent.DatabaseID != "db" {
		t.Fatalf("unexpected created pages: %+v", store.created)
	}
}

func TestPublish_CreateFailureReportsZero(t *testing.T) {
	store := &stubStore{failPage: true}
	repo := &stubRepo{}
	p := &Publisher{Store: store, ParentPageID: "parent", Repo: repo, Now: fixedNow}

	res, err := p.Publish(context.Background(), Batch{Task: "breaking", Records: []event.Record{record("Breaking headline text")}})
	var apiErr *notion.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if res.Created != 0 || res.Processed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("ledger written despite failure")
	}
}

func TestPublish_SummaryAndEarningsPage(t *testing.T) {
	store := &stubStore{}
	p := &Publisher{
		Store: store, ParentPageID: "parent", Now: fixedNow,
		LLM: llm.AskerFunc(func(_ context.Context, op, _, _ string, _ llm.AskOptions) (string, error) {
			if op != "summary" {
				t.Errorf("unexpected op %s", op)
			}
			return "市场整体偏谨慎。", nil
		}),
	}
	earn := record("Apple fiscal Q4 earnings release")
	earn.Kind = event.KindEarnings
	earn.Earnings = &event.Earnings{ReportDate: "2026-10-30", CompanyName: "Apple", StockCode: "AAPL", EPSForecast: "$1.50"}

	res, err := p.Publish(context.Background(), Batch{Task: "earnings", Title: "财报日历", Records: []event.Record{earn, record("Fed chair speech at noon")}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Created != 2 || len(store.created) != 2 {
		t.Fatalf("expected two pages, got %+v", res)
	}
	earnPage := store.created[1]
	if len(earnPage.Children) != 4 || earnPage.Children[1].Type != "paragraph" {
		t.Fatalf("expected summary paragraph: %+v", earnPage.Children)
	}
	header := earnPage.Children[3].Table.Children[0].TableRow.Cells
	if notion.Plain(header[0]) != "报告日期" || len(header) != 9 {
		t.Fatalf("unexpected earnings header: %+v", header)
	}
}

func TestSourceCell_LinksOnlyHTTP(t *testing.T) {
	r := record("x")
	r.SourceName, r.SourceURL = "reuters.com", "https://www.reuters.com/a"
	if c := sourceCell(r); c[0].Text.Link == nil || c[0].Text.Link.URL != "https://www.reuters.com/a" {
		t.Fatalf("expected link, got %+v", c[0].Text)
	}
	r.SourceName, r.SourceURL = event.UnknownSource, ""
	if c := sourceCell(r); c[0].Text.Link != nil || c[0].Text.Content != event.UnknownSource {
		t.Fatalf("expected plain text, got %+v", c[0].Text)
	}
}

func TestDisplayMappings(t *testing.T) {
	if SentimentDisplay("bullish") != "利好" || SentimentDisplay("weird") != "未知" {
		t.Fatalf("unexpected sentiment display")
	}
	if ConfidenceDisplay("low") != "低" || ConfidenceDisplay("") != "中" {
		t.Fatalf("unexpected confidence display")
	}
}

func TestLedgerRow_EarningsEPS(t *testing.T) {
	r := record("Apple fiscal Q4 earnings release")
	r.Kind = event.KindEarnings
	r.Earnings = &event.Earnings{StockCode: "AAPL", EPSForecast: "$1.50"}
	row := LedgerRow("earnings", "run-1", "page-1", r)
	if row.EPSForecast == nil || row.EPSForecast.String() != "1.5" {
		t.Fatalf("unexpected eps: %v", row.EPSForecast)
	}
	if row.StockCode == nil || *row.StockCode != "AAPL" || len(row.Record) == 0 {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestLedgerRow_LongModelText(t *testing.T) {
	r := record("Two chipmakers announce a merger agreement")
	r.Type = "Corporate merger announcement between two large semiconductor manufacturers"
	r.Kind = event.KindEarnings
	r.Earnings = &event.Earnings{StockCode: "NVDA (NASDAQ GLOBAL SELECT MARKET)", EPSForecast: "$123456789.00"}
	row := LedgerRow("earnings", "run-1", "page-1", r)
	if row.EventType != r.Type || row.StockCode == nil || *row.StockCode != r.Earnings.StockCode {
		t.Fatalf("model text altered: %+v", row)
	}
	if row.EPSForecast != nil {
		t.Fatalf("expected out-of-range eps dropped, got %v", row.EPSForecast)
	}
}
