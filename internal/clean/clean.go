// Package clean canonicalizes validated candidates into event records. Every
// function here is total and idempotent: cleaning a clean record returns it
// unchanged.
package clean

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketevents/internal/event"
)

// Normalize builds a record of the given kind from a validated candidate and
// cleans it. today fills a missing or unreadable date.
func Normalize(c event.Candidate, kind event.Kind, today string) event.Record {
	r := event.Record{
		Kind:            kind,
		Date:            c.Text("date", "report_date"),
		Time:            c.Text("time"),
		Description:     c.Text("description"),
		Type:            c.Text("type", "event_type"),
		MarketPhase:     c.Text("market_phase", "phase"),
		MarketImpact:    c.Text("market_impact"),
		SectorImpact:    c.Text("sector_impact", "industry_impact"),
		ConfidenceLevel: c.Text("confidence_level", "confidence"),
		Sentiment:       c.Text("sentiment"),
		SourceName:      c.Text("source_name", "source"),
		SourceURL:       c.Text("source_url", "url"),
		SourceType:      c.Text("source_type"),
	}
	r.RelatedStocks = Stocks(firstValue(c, "related_stocks", "stocks_affected", "stocks"))
	if kind == event.KindEarnings {
		r.Earnings = &event.Earnings{
			ReportDate:      c.Text("report_date", "date"),
			CompanyName:     c.Text("company_name", "company"),
			StockCode:       c.Text("stock_code", "ticker", "symbol"),
			EPSForecast:     c.Text("eps_forecast", "eps"),
			RevenueForecast: c.Text("revenue_forecast", "revenue"),
			LastQuarter:     c.Text("last_quarter", "last_quarter_performance"),
			FocusPoints:     c.Text("focus_points", "analyst_focus"),
		}
	}
	return Clean(r, today)
}

func firstValue(c event.Candidate, keys ...string) any {
	for _, k := range keys {
		if v, ok := c[k]; ok && v != nil {
			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				continue
			}
			return v
		}
	}
	return nil
}

// Clean canonicalizes every field of r.
func Clean(r event.Record, today string) event.Record {
	if r.Kind == "" {
		r.Kind = event.KindGeneral
	}
	r.Date = Date(r.Date, today)
	r.Time = Time(r.Time)
	r.Description = Whitespace(r.Description)
	if r.Description == "" {
		r.Description = event.DefaultDescription
	}
	r.Type = Type(r.Type)
	if r.Type == "" {
		r.Type = event.TypeOther
		if r.Kind == event.KindEarnings {
			r.Type = event.TypeEarnings
		}
	}
	r.MarketPhase = Phase(r.MarketPhase, r.Time)
	r.MarketImpact = strings.TrimSpace(r.MarketImpact)
	r.SectorImpact = strings.TrimSpace(r.SectorImpact)
	r.RelatedStocks = Stocks(r.RelatedStocks)
	r.Sentiment = Sentiment(r.Sentiment)
	r.ConfidenceLevel = Confidence(r.ConfidenceLevel)
	r.SourceName = strings.TrimSpace(r.SourceName)
	r.SourceURL = strings.TrimSpace(r.SourceURL)
	r.SourceType = strings.TrimSpace(r.SourceType)

	if r.Kind != event.KindEarnings {
		r.Earnings = nil
		return r
	}
	e := event.Earnings{}
	if r.Earnings != nil {
		e = *r.Earnings
	}
	if strings.TrimSpace(e.ReportDate) == "" {
		e.ReportDate = r.Date
	} else {
		e.ReportDate = Date(e.ReportDate, r.Date)
	}
	e.CompanyName = Whitespace(e.CompanyName)
	e.StockCode = strings.ToUpper(strings.Trim(strings.TrimSpace(e.StockCode), "$()（）"))
	e.EPSForecast = EPS(e.EPSForecast)
	e.RevenueForecast = Whitespace(e.RevenueForecast)
	e.LastQuarter = Whitespace(e.LastQuarter)
	e.FocusPoints = Whitespace(e.FocusPoints)
	r.Earnings = &e
	return r
}

// Whitespace collapses every whitespace run to one space and trims.
func Whitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var timeTokens = map[string]string{
	"pre-market":  "09:00",
	"premarket":   "09:00",
	"盘前":          "09:00",
	"intraday":    "13:30",
	"盘中":          "13:30",
	"post-market": "16:00",
	"postmarket":  "16:00",
	"after-hours": "16:00",
	"盘后":          "16:00",
	"open":        "09:30",
	"开盘":          "09:30",
	"close":       "16:00",
	"收盘":          "16:00",
	"未指定时间":       event.TimeUnspecified,
	"unspecified": event.TimeUnspecified,
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})[:：](\d{2})$`)

// Time maps phase keywords to their representative clock time and pads
// H:MM to HH:MM. Anything else is returned trimmed.
func Time(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return event.TimeUnspecified
	}
	if t, ok := timeTokens[strings.ToLower(s)]; ok {
		return t
	}
	if c, ok := Clock(s); ok {
		return c
	}
	return s
}

// Clock returns the HH:MM form of an H:MM or HH:MM clock time, with either
// colon width. Hours past 23 or minutes past 59 are not clock times.
func Clock(s string) (string, bool) {
	m, ok := minuteOfDay(strings.TrimSpace(s))
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60), true
}

// minuteOfDay returns the minutes since midnight of an HH:MM string.
func minuteOfDay(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if h >= 24 || minute >= 60 {
		return 0, false
	}
	return h*60 + minute, true
}

var phaseAliases = map[string]string{
	"盘前":          event.PhasePreMarket,
	"pre-market":  event.PhasePreMarket,
	"premarket":   event.PhasePreMarket,
	"盘中":          event.PhaseIntraday,
	"intraday":    event.PhaseIntraday,
	"盘后":          event.PhasePostMarket,
	"post-market": event.PhasePostMarket,
	"postmarket":  event.PhasePostMarket,
	"after-hours": event.PhasePostMarket,
	"其他":          event.PhaseOther,
	"其它":          event.PhaseOther,
	"other":       event.PhaseOther,
}

// Phase normalizes a given phase, or derives one from the clock time when
// the phase is absent or unrecognised. Eastern time thresholds:
// 04:00-09:29 pre-market, 09:30-15:59 intraday, 16:00-19:59 post-market.
func Phase(phase, clock string) string {
	if p, ok := phaseAliases[strings.ToLower(strings.TrimSpace(phase))]; ok {
		return p
	}
	m, ok := minuteOfDay(clock)
	if !ok {
		return event.PhaseOther
	}
	switch {
	case m >= 4*60 && m < 9*60+30:
		return event.PhasePreMarket
	case m >= 9*60+30 && m < 16*60:
		return event.PhaseIntraday
	case m >= 16*60 && m < 20*60:
		return event.PhasePostMarket
	default:
		return event.PhaseOther
	}
}

var (
	stockSeparators = regexp.MustCompile(`\s*[,，、;；]\s*`)
	stockStrip      = strings.NewReplacer("**", "", "{", "", "}", "")
	listQuotes      = strings.NewReplacer("[", "", "]", "", "'", "", `"`, "")
)

// Stocks renders a related-stocks value as a ", " separated list. Native
// lists are joined; list-looking strings are decoded, or stripped of their
// brackets and quotes when they do not decode.
func Stocks(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = strings.TrimSpace(x)
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			var list []any
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				s = event.Stringify(list)
			} else {
				s = listQuotes.Replace(s)
			}
		}
	default:
		s = event.Stringify(x)
	}

	s = stockStrip.Replace(s)
	parts := stockSeparators.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = Whitespace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

var (
	isoDate      = regexp.MustCompile(`(\d{4})\s*[-/.年]\s*(\d{1,2})\s*[-/.月]\s*(\d{1,2})`)
	monthDayDate = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	usDate       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	textLayouts  = []string{"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "Mon, Jan 2, 2006", time.RFC3339}
)

// Date renders s as YYYY-MM-DD. Empty or unreadable dates become today; a
// month and day without a year take today's year.
func Date(s, today string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return today
	}
	if m := isoDate.FindStringSubmatch(s); m != nil {
		if d, ok := ymd(m[1], m[2], m[3]); ok {
			return d
		}
	}
	if m := usDate.FindStringSubmatch(s); m != nil {
		if d, ok := ymd(m[3], m[1], m[2]); ok {
			return d
		}
	}
	if m := monthDayDate.FindStringSubmatch(s); m != nil {
		year := "0"
		if len(today) >= 4 {
			year = today[:4]
		}
		if d, ok := ymd(year, m[1], m[2]); ok {
			return d
		}
	}
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(event.DateLayout)
		}
	}
	return today
}

func ymd(y, m, d string) (string, bool) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	if year < 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return "", false
	}
	return t.Format(event.DateLayout), true
}

var epsNumber = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)

// EPS renders a numeric per-share forecast as $x.xx. Non-numeric text is
// returned trimmed.
func EPS(s string) string {
	s = strings.TrimSpace(s)
	n := strings.TrimSpace(strings.NewReplacer("$", "", "USD", "", "美元", "", "每股", "").Replace(s))
	if !epsNumber.MatchString(n) {
		return s
	}
	d, err := decimal.NewFromString(n)
	if err != nil {
		return s
	}
	return "$" + d.StringFixed(2)
}
