package enrich

import (
	"regexp"
	"strconv"
	"strings"
)

// Analysis is what the model said about one item of a batch. Empty fields
// were absent from the response.
type Analysis struct {
	MarketImpact  string
	SectorImpact  string
	RelatedStocks string
	Confidence    string
	Sentiment     string
}

var sectionHeader = regexp.MustCompile(`(?:\*\*|#+\s*)?事件\s*(\d+)\s*分析\s*(?:\*\*)?\s*[:：]?`)

// SplitSections cuts a batch response into per-item sections keyed by the
// 1-based item number in their "事件N分析:" header. Text before the first
// header is ignored; a repeated number keeps its first section.
func SplitSections(text string) map[int]string {
	locs := sectionHeader.FindAllStringSubmatchIndex(text, -1)
	out := make(map[int]string, len(locs))
	for i, loc := range locs {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, dup := out[n]; dup {
			continue
		}
		out[n] = strings.TrimSpace(text[loc[1]:end])
	}
	return out
}

type field int

const (
	fieldNone field = iota
	fieldMarket
	fieldSector
	fieldStocks
	fieldConfidence
	fieldSentiment
)

// labels are matched against the lowercased start of a line, longest first
// within each field.
var labels = []struct {
	f     field
	names []string
}{
	{fieldMarket, []string{"对整体美股市场的影响", "整体市场影响", "市场影响", "market impact"}},
	{fieldSector, []string{"行业板块影响", "行业影响", "板块影响", "sector impact", "industry impact"}},
	{fieldStocks, []string{"相关个股", "受影响个股", "related stocks", "stocks affected"}},
	{fieldConfidence, []string{"确信度", "置信度", "confidence level", "confidence"}},
	{fieldSentiment, []string{"市场情绪", "情绪判断", "sentiment"}},
}

var linePrefix = regexp.MustCompile(`^\s*(?:[-*•]\s*)?(?:\d+\s*[.、)]\s*)?`)

// ParseAnalysis reads labelled fields from one section. A field's value runs
// from its label to the next labelled line.
func ParseAnalysis(section string) Analysis {
	values := map[field][]string{}
	current := fieldNone
	for _, line := range strings.Split(section, "\n") {
		body := strings.TrimSpace(linePrefix.ReplaceAllString(strings.ReplaceAll(line, "**", ""), ""))
		if f, rest, ok := matchLabel(body); ok {
			current = f
			values[f] = nil
			if rest != "" {
				values[f] = append(values[f], rest)
			}
			continue
		}
		if current != fieldNone && body != "" {
			values[current] = append(values[current], body)
		}
	}
	join := func(f field) string {
		return strings.TrimSpace(strings.Trim(strings.Join(values[f], " "), "[]"))
	}
	return Analysis{
		MarketImpact:  join(fieldMarket),
		SectorImpact:  join(fieldSector),
		RelatedStocks: join(fieldStocks),
		Confidence:    join(fieldConfidence),
		Sentiment:     join(fieldSentiment),
	}
}

func matchLabel(line string) (field, string, bool) {
	lower := strings.ToLower(line)
	for _, l := range labels {
		for _, name := range l.names {
			if !strings.HasPrefix(lower, name) {
				continue
			}
			rest := strings.TrimSpace(line[len(name):])
			if !strings.HasPrefix(rest, ":") && !strings.HasPrefix(rest, "：") {
				continue
			}
			rest = strings.TrimPrefix(strings.TrimPrefix(rest, ":"), "：")
			return l.f, strings.TrimSpace(rest), true
		}
	}
	return fieldNone, "", false
}
