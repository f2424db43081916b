package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketevents/internal/event"
)

const today = "2026-10-19"

func TestTime_Tokens(t *testing.T) {
	cases := map[string]string{
		"盘前":          "09:00",
		"pre-market":  "09:00",
		"Pre-Market":  "09:00",
		"盘中":          "13:30",
		"post-market": "16:00",
		"open":        "09:30",
		"收盘":          "16:00",
		"16:45":       "16:45",
		"9:05":        "09:05",
		"未指定时间":       event.TimeUnspecified,
		"":            event.TimeUnspecified,
		"tbd":         "tbd",
	}
	for in, want := range cases {
		assert.Equal(t, want, Time(in), "input %q", in)
	}
}

func TestClock(t *testing.T) {
	got, ok := Clock("9：30")
	assert.True(t, ok)
	assert.Equal(t, "09:30", got)
	for _, in := range []string{"25:99", "24:00", "12:60", "0930", "open"} {
		_, ok := Clock(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestPhase_Thresholds(t *testing.T) {
	cases := []struct {
		phase, clock, want string
	}{
		{"", "03:59", event.PhaseOther},
		{"", "04:00", event.PhasePreMarket},
		{"", "09:00", event.PhasePreMarket},
		{"", "09:29", event.PhasePreMarket},
		{"", "09:30", event.PhaseIntraday},
		{"", "14:00", event.PhaseIntraday},
		{"", "15:59", event.PhaseIntraday},
		{"", "16:00", event.PhasePostMarket},
		{"", "19:59", event.PhasePostMarket},
		{"", "20:00", event.PhaseOther},
		{"", event.TimeUnspecified, event.PhaseOther},
		{"盘前", "14:00", event.PhasePreMarket},
		{"盘后", "", event.PhasePostMarket},
		{"其他", "10:00", event.PhaseOther},
		{"sometime", "10:00", event.PhaseIntraday},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Phase(tc.phase, tc.clock), "phase=%q clock=%q", tc.phase, tc.clock)
	}
}

func TestType_Vocabulary(t *testing.T) {
	cases := map[string]string{
		"经济数据":            event.TypeEconomicData,
		"Economic Data":   event.TypeEconomicData,
		"CPI":             event.TypeEconomicData,
		"财报":              event.TypeEarnings,
		"Earnings":        event.TypeEarnings,
		"美联储":             event.TypePolicy,
		"FOMC":            event.TypePolicy,
		"政策":              event.TypePolicy,
		"突发新闻":            event.TypeBreakingNews,
		"市场分析":            event.TypeMarketAnalysis,
		"其他":              event.TypeOther,
		"IPO":             "IPO",
		"  公司公告 ":         "公司公告",
		"economic-data":   event.TypeEconomicData,
		"earnings":        event.TypeEarnings,
		"policy":          event.TypePolicy,
		"breaking-news":   event.TypeBreakingNews,
		"market-analysis": event.TypeMarketAnalysis,
		"other":           event.TypeOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, Type(in), "input %q", in)
	}
}

func TestStocks(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{`["AAPL", "MSFT"]`, "AAPL, MSFT"},
		{`['AAPL', 'MSFT']`, "AAPL, MSFT"},
		{[]any{"NVDA", "AMD"}, "NVDA, AMD"},
		{"AAPL，MSFT、GOOGL;TSLA；AMZN", "AAPL, MSFT, GOOGL, TSLA, AMZN"},
		{"**JPM**, {BAC}", "JPM, BAC"},
		{"  ", ""},
		{nil, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Stocks(tc.in), "input %v", tc.in)
	}
}

func TestSentimentAndConfidence(t *testing.T) {
	assert.Equal(t, event.SentimentBullish, Sentiment("利好"))
	assert.Equal(t, event.SentimentBullish, Sentiment("Bullish for tech"))
	assert.Equal(t, event.SentimentBearish, Sentiment("短期利空"))
	assert.Equal(t, event.SentimentNeutral, Sentiment("中性"))
	assert.Equal(t, event.SentimentUnknown, Sentiment(""))
	assert.Equal(t, "mixed", Sentiment("  Mixed "))

	assert.Equal(t, event.ConfidenceMedium, Confidence(""))
	assert.Equal(t, event.ConfidenceHigh, Confidence("High"))
	assert.Equal(t, event.ConfidenceHigh, Confidence("高"))
	assert.Equal(t, event.ConfidenceMedium, Confidence("中等"))
	assert.Equal(t, event.ConfidenceLow, Confidence("不确定"))
}

func TestSentimentFromImpact(t *testing.T) {
	assert.Equal(t, event.SentimentBullish, SentimentFromImpact("预计提振科技股上涨"))
	assert.Equal(t, event.SentimentBearish, SentimentFromImpact("可能导致大盘下跌"))
	assert.Equal(t, event.SentimentNeutral, SentimentFromImpact("影响有限"))
	assert.Equal(t, event.SentimentUnknown, SentimentFromImpact("影响不确定"))
}

func TestDate(t *testing.T) {
	cases := map[string]string{
		"":               today,
		"2026-10-20":     "2026-10-20",
		"2026/10/21":     "2026-10-21",
		"2026年10月22日":    "2026-10-22",
		"10月23日（周五）":     "2026-10-23",
		"10/26/2026":     "2026-10-26",
		"Oct 27, 2026":   "2026-10-27",
		"2026-02-30":     today,
		"next week":      today,
		"2026-10-28 周三": "2026-10-28",
	}
	for in, want := range cases {
		assert.Equal(t, want, Date(in, today), "input %q", in)
	}
}

func TestEPS(t *testing.T) {
	assert.Equal(t, "$1.50", EPS("1.5"))
	assert.Equal(t, "$2.34", EPS("$2.34"))
	assert.Equal(t, "$-0.12", EPS("-0.12 美元"))
	assert.Equal(t, "约1.2至1.3美元", EPS("约1.2至1.3美元"))
	assert.Equal(t, "", EPS(""))
}

func TestNormalize_GeneralRecord(t *testing.T) {
	c := event.Candidate{
		"time":            "盘前",
		"description":     "美国9月  CPI\n数据公布",
		"type":            "经济数据",
		"stocks_affected": []any{"SPY", "QQQ"},
		"sentiment":       "利空",
	}
	r := Normalize(c, event.KindGeneral, today)
	assert.Equal(t, event.KindGeneral, r.Kind)
	assert.Equal(t, today, r.Date)
	assert.Equal(t, "09:00", r.Time)
	assert.Equal(t, "美国9月 CPI 数据公布", r.Description)
	assert.Equal(t, event.TypeEconomicData, r.Type)
	assert.Equal(t, event.PhasePreMarket, r.MarketPhase)
	assert.Equal(t, "SPY, QQQ", r.RelatedStocks)
	assert.Equal(t, event.SentimentBearish, r.Sentiment)
	assert.Equal(t, event.ConfidenceMedium, r.ConfidenceLevel)
	assert.Nil(t, r.Earnings)
}

func TestNormalize_EarningsRecord(t *testing.T) {
	c := event.Candidate{
		"report_date":      "2026-10-28",
		"time":             "盘后",
		"description":      "微软公布2026财年第一季度财报",
		"company_name":     "Microsoft",
		"stock_code":       "$msft",
		"eps_forecast":     3.1,
		"revenue_forecast": "645亿美元",
	}
	r := Normalize(c, event.KindEarnings, today)
	require.NotNil(t, r.Earnings)
	assert.Equal(t, "2026-10-28", r.Date)
	assert.Equal(t, "2026-10-28", r.Earnings.ReportDate)
	assert.Equal(t, "MSFT", r.Earnings.StockCode)
	assert.Equal(t, "$3.10", r.Earnings.EPSForecast)
	assert.Equal(t, event.TypeEarnings, r.Type)
	assert.Equal(t, "16:00", r.Time)
	assert.Equal(t, event.PhasePostMarket, r.MarketPhase)
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []event.Candidate{
		{"time": "盘中", "description": " Fed   官员讲话 ", "type": "美联储", "related_stocks": "['JPM', 'GS']", "sentiment": "偏正面", "confidence_level": "高"},
		{"time": "9:45", "description": "Retail sales data release", "type": "IPO", "sentiment": "Mixed", "market_phase": "盘前"},
		{"time": "unspecified", "description": "Something happened today", "type": "other", "date": "10月30日"},
	}
	for _, c := range inputs {
		once := Normalize(c, event.KindGeneral, today)
		twice := Clean(once, today)
		assert.Equal(t, once, twice)
	}

	earn := Normalize(event.Candidate{"time": "盘前", "description": "Apple quarterly earnings", "stock_code": " aapl ", "eps_forecast": "1.5"}, event.KindEarnings, today)
	assert.Equal(t, earn, Clean(earn, today))
}
