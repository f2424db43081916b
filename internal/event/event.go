// Package event defines the market event record that flows through the
// collection pipeline and the controlled vocabularies its fields resolve to.
package event

import (
	"strings"
)

// Kind tags a Record as a general market event or an earnings release.
type Kind string

const (
	KindGeneral  Kind = "general"
	KindEarnings Kind = "earnings"
)

// Event type vocabulary.
const (
	TypeEconomicData   = "economic-data"
	TypeEarnings       = "earnings"
	TypePolicy         = "policy"
	TypeBreakingNews   = "breaking-news"
	TypeMarketAnalysis = "market-analysis"
	TypeOther          = "other"
)

// Market phase vocabulary.
const (
	PhasePreMarket  = "pre-market"
	PhaseIntraday   = "intraday"
	PhasePostMarket = "post-market"
	PhaseOther      = "other"
)

// TimeUnspecified is the placeholder time of records whose clock time is unknown.
const TimeUnspecified = "unspecified"

// Sentiment vocabulary.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
	SentimentUnknown = "unknown"
)

// Confidence vocabulary.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Defaults applied when enrichment cannot produce a value.
const (
	DefaultMarketImpact = "影响不确定"
	UnknownSource       = "未知来源"
	SourceTypeUnknown   = "unknown"
	DefaultDescription  = "无描述"
)

// DateLayout is the canonical record date format.
const DateLayout = "2006-01-02"

// Record is one structured market event.
//
// General records carry MarketImpact, SectorImpact, RelatedStocks, ConfidenceLevel,
// Sentiment and the Source* fields after enrichment. Earnings records carry
// Earnings plus MarketImpact, ConfidenceLevel, Sentiment and the Source* fields;
// their SectorImpact and RelatedStocks stay empty.
type Record struct {
	Kind        Kind   `json:"kind"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Type        string `json:"type"`
	MarketPhase string `json:"market_phase"`

	MarketImpact    string `json:"market_impact,omitempty"`
	SectorImpact    string `json:"sector_impact,omitempty"`
	RelatedStocks   string `json:"related_stocks,omitempty"`
	ConfidenceLevel string `json:"confidence_level"`
	Sentiment       string `json:"sentiment"`
	SourceName      string `json:"source_name,omitempty"`
	SourceURL       string `json:"source_url,omitempty"`
	SourceType      string `json:"source_type,omitempty"`

	Earnings *Earnings `json:"earnings,omitempty"`
}

// Earnings holds the fields specific to an earnings release.
type Earnings struct {
	ReportDate      string `json:"report_date"`
	CompanyName     string `json:"company_name"`
	StockCode       string `json:"stock_code"`
	EPSForecast     string `json:"eps_forecast,omitempty"`
	RevenueForecast string `json:"revenue_forecast,omitempty"`
	LastQuarter     string `json:"last_quarter,omitempty"`
	FocusPoints     string `json:"focus_points,omitempty"`
}

func (r Record) IsEarnings() bool {
	return r.Kind == KindEarnings
}

func (r Record) Key() Key {
	return NewKey(r.Date, r.Description)
}

// Key identifies a published record: exact date plus case-insensitive description.
type Key struct {
	Date        string
	Description string
}

func NewKey(date, description string) Key {
	return Key{Date: date, Description: strings.ToLower(description)}
}
