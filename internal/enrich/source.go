package enrich

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"marketevents/internal/event"
	"marketevents/internal/llm"
	"marketevents/internal/metrics"
	"marketevents/internal/prompts"
)

// Source type vocabulary.
const (
	SourceTypeOfficial = "official"
	SourceTypeNews     = "news"
	SourceTypeWeb      = "web"
	SourceTypeText     = "text"
)

const maxSourceTextRunes = 200

var urlPattern = regexp.MustCompile(`https?://[^\s()<>"\\\[\]]+`)

// Source is the attribution attached to one record.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Type string `json:"type"`
}

var unknownSource = Source{Name: event.UnknownSource, Type: event.SourceTypeUnknown}

var officialHosts = []string{
	".gov", "federalreserve", "sec.gov", "bls.gov", "bea.gov", "treasury", "census.gov", "nasdaq.com", "nyse.com",
}

var newsHosts = []string{
	"reuters", "bloomberg", "wsj", "cnbc", "ft.com", "marketwatch", "yahoo", "barrons", "investing.com", "seekingalpha",
	"apnews", "nytimes", "xinhua", "caixin", "wallstreetcn", "jin10", "eastmoney", "sina",
}

// ParseSource turns an attribution response into a Source. The first URL in
// the text wins; without one the whole response is kept as the source name.
func ParseSource(text string) Source {
	text = strings.TrimSpace(text)
	if text == "" {
		return unknownSource
	}
	raw := urlPattern.FindString(text)
	if raw == "" {
		return Source{Name: truncate(text, maxSourceTextRunes), Type: SourceTypeText}
	}
	raw = strings.TrimRight(raw, ".,;:!?，。；：）)'")
	s := Source{Name: raw, URL: raw, Type: SourceTypeWeb}
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		s.Name = host
		switch {
		case hostMatches(host, officialHosts):
			s.Type = SourceTypeOfficial
		case hostMatches(host, newsHosts):
			s.Type = SourceTypeNews
		}
	}
	return s
}

func hostMatches(host string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(host, n) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

func sourceCacheKey(description string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(description))))
	return "source:" + hex.EncodeToString(sum[:16])
}

// attribute looks up the source of r, consulting the cache first. Failures
// leave the unknown-source sentinel and are not cached.
func (e *Enricher) attribute(ctx context.Context, description string) Source {
	key := sourceCacheKey(description)
	if e.Cache != nil {
		if raw, ok, err := e.Cache.Get(ctx, key); err == nil && ok {
			var s Source
			if json.Unmarshal(raw, &s) == nil && s.Name != "" {
				return s
			}
		} else if err != nil && e.Logger != nil {
			e.Logger.Warn("source cache get failed", zap.Error(err))
		}
	}

	if e.LLM == nil {
		return e.sourceDefault(fmt.Errorf("enrich: no completion client"))
	}
	system, err := e.Prompts.Render(prompts.KeySourceSystem, prompts.Data{})
	if err != nil {
		return e.sourceDefault(err)
	}
	user, err := e.Prompts.Render(prompts.KeySourceLookup, prompts.Data{Text: description})
	if err != nil {
		return e.sourceDefault(err)
	}
	resp, err := e.LLM.Ask(ctx, "source", system, user, llm.AskOptions{MaxTokens: 500})
	if err != nil {
		return e.sourceDefault(err)
	}
	s := ParseSource(resp)

	if e.Cache != nil && s.Type != event.SourceTypeUnknown {
		if raw, err := json.Marshal(s); err == nil {
			if err := e.Cache.Set(ctx, key, raw, e.SourceCacheTTL); err != nil && e.Logger != nil {
				e.Logger.Warn("source cache set failed", zap.Error(err))
			}
		}
	}
	return s
}

func (e *Enricher) sourceDefault(err error) Source {
	metrics.EnrichDefaults.WithLabelValues("source").Inc()
	if e.Logger != nil {
		e.Logger.Warn("source attribution failed", zap.Error(err))
	}
	return unknownSource
}
