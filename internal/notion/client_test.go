package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQueryDatabase_FollowsCursor(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/databases/db1/query" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" || r.Header.Get("Notion-Version") != DefaultVersion {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		var req queryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.StartCursor == "" {
			_, _ = io.WriteString(w, `{"results":[{"id":"p1","properties":{"事件描述":{"type":"title","title":[{"plain_text":"Fed decision"}]},"日期":{"type":"date","date":{"start":"2026-10-19"}}}}],"has_more":true,"next_cursor":"c2"}`)
			return
		}
		if req.StartCursor != "c2" {
			t.Errorf("unexpected cursor %q", req.StartCursor)
		}
		_, _ = io.WriteString(w, `{"results":[{"id":"p2"}],"has_more":false,"next_cursor":null}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "secret", "")
	pages, err := c.QueryDatabase(context.Background(), "db1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if calls != 2 || len(pages) != 2 {
		t.Fatalf("expected 2 calls and 2 pages, got %d and %d", calls, len(pages))
	}
	if got := Plain(pages[0].Properties["事件描述"].Title); got != "Fed decision" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := pages[0].Properties["日期"].Date.Start; got != "2026-10-19" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestCreatePage_SendsBlocks(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"id":"new-page","url":"https://notion.so/new-page"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "secret", "")
	page, err := c.CreatePage(context.Background(), CreatePageRequest{
		Parent:     Parent{PageID: "parent"},
		Properties: map[string]Property{"title": TitleProperty("美股市场事件 2026-10-19")},
		Children: []Block{
			Heading1("美股市场事件"),
			TableBlock([]string{"a", "b"}, [][][]RichText{{{Text("1")}, {LinkText("src", "https://x.test")}}}),
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.ID != "new-page" {
		t.Fatalf("unexpected page id %q", page.ID)
	}
	children, _ := body["children"].([]any)
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %v", body["children"])
	}
	table := children[1].(map[string]any)["table"].(map[string]any)
	if table["table_width"].(float64) != 2 || table["has_column_header"] != true {
		t.Fatalf("unexpected table: %v", table)
	}
	if rows := table["children"].([]any); len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
}

func TestCreatePage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"body failed validation"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "secret", "")
	_, err := c.CreatePage(context.Background(), CreatePageRequest{Parent: Parent{PageID: "p"}})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected APIError 400, got %v", err)
	}

	if _, err := c.CreatePage(context.Background(), CreatePageRequest{}); err == nil {
		t.Fatalf("expected error without parent")
	}
}

func TestText_Truncates(t *testing.T) {
	rt := Text(strings.Repeat("事", MaxTextLength+10))
	if n := len([]rune(rt.Text.Content)); n != MaxTextLength {
		t.Fatalf("expected %d runes, got %d", MaxTextLength, n)
	}
}
