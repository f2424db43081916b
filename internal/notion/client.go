// Package notion is a minimal client for the Notion REST API: database
// queries and page creation with block children.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
)

type Client struct {
	baseURL    string
	apiKey     string
	version    string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion API error (%d): %s", e.Status, e.Body)
}

// Retryable reports whether a failed request may succeed if repeated:
// rate limits, server errors and transport failures. Client errors and
// cancellation are final.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	return true
}

func NewClient(httpClient *http.Client, baseURL, apiKey, version string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(version) == "" {
		version = DefaultVersion
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		version:    version,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(b)}
	}
	return b, nil
}

// QueryDatabase returns every page of a database, following cursors.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	if strings.TrimSpace(databaseID) == "" {
		return nil, fmt.Errorf("database_id is required")
	}
	var out []Page
	cursor := ""
	for {
		b, err := c.doRequest(ctx, http.MethodPost, "/databases/"+databaseID+"/query", queryRequest{StartCursor: cursor, PageSize: 100})
		if err != nil {
			return nil, err
		}
		var resp queryResponse
		if err := json.Unmarshal(b, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode query response: %w", err)
		}
		out = append(out, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return out, nil
		}
		cursor = resp.NextCursor
	}
}

// CreatePage creates a page under a page or database parent.
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if req.Parent.PageID == "" && req.Parent.DatabaseID == "" {
		return nil, fmt.Errorf("parent page_id or database_id is required")
	}
	b, err := c.doRequest(ctx, http.MethodPost, "/pages", req)
	if err != nil {
		return nil, err
	}
	var page Page
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return &page, nil
}

// TitleProperty builds a title property value.
func TitleProperty(s string) Property {
	return Property{Title: []RichText{Text(s)}}
}

func RichTextProperty(spans ...RichText) Property {
	return Property{RichText: spans}
}

func DateProperty(start string) Property {
	return Property{Date: &DateValue{Start: start}}
}

func SelectProperty(name string) Property {
	// Select option names may not contain commas.
	return Property{Select: &SelectValue{Name: strings.ReplaceAll(name, ",", " ")}}
}
