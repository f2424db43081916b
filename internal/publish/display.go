package publish

import (
	"strings"

	"marketevents/internal/event"
	"marketevents/internal/notion"
)

var sentimentDisplay = map[string]string{
	event.SentimentBullish: "利好",
	event.SentimentBearish: "利空",
	event.SentimentNeutral: "中性",
	event.SentimentUnknown: "未知",
}

var confidenceDisplay = map[string]string{
	event.ConfidenceHigh:   "高",
	event.ConfidenceMedium: "中",
	event.ConfidenceLow:    "低",
}

var phaseDisplay = map[string]string{
	event.PhasePreMarket:  "盘前",
	event.PhaseIntraday:   "盘中",
	event.PhasePostMarket: "盘后",
	event.PhaseOther:      "其他",
}

func SentimentDisplay(s string) string {
	if v, ok := sentimentDisplay[strings.ToLower(s)]; ok {
		return v
	}
	return "未知"
}

func ConfidenceDisplay(s string) string {
	if v, ok := confidenceDisplay[strings.ToLower(s)]; ok {
		return v
	}
	return "中"
}

func PhaseDisplay(s string) string {
	if v, ok := phaseDisplay[s]; ok {
		return v
	}
	return s
}

// GeneralColumns and EarningsColumns are the table headers per record kind.
var (
	GeneralColumns  = []string{"时间", "事件描述", "事件类型", "市场阶段", "市场影响", "行业影响", "相关个股", "市场情绪", "信息来源"}
	EarningsColumns = []string{"报告日期", "时间", "公司", "股票代码", "EPS预期", "营收预期", "上季度表现", "关注点", "市场影响"}
)

func cell(s string) []notion.RichText {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "-"
	}
	return []notion.RichText{notion.Text(s)}
}

// sourceCell links the source only when its URL is an http(s) address.
func sourceCell(r event.Record) []notion.RichText {
	name := strings.TrimSpace(r.SourceName)
	url := strings.TrimSpace(r.SourceURL)
	if url == "" && strings.HasPrefix(name, "http") {
		url = name
	}
	if name == "" {
		name = url
	}
	if strings.HasPrefix(url, "http") {
		return []notion.RichText{notion.LinkText(name, url)}
	}
	return cell(name)
}

func impactText(r event.Record) string {
	impact := strings.TrimSpace(r.MarketImpact)
	if impact == "" {
		impact = event.DefaultMarketImpact
	}
	return impact + "（确信度：" + ConfidenceDisplay(r.ConfidenceLevel) + "）"
}

func generalRow(r event.Record) [][]notion.RichText {
	return [][]notion.RichText{
		cell(r.Time),
		cell(r.Description),
		cell(r.Type),
		cell(PhaseDisplay(r.MarketPhase)),
		cell(impactText(r)),
		cell(r.SectorImpact),
		cell(r.RelatedStocks),
		cell(SentimentDisplay(r.Sentiment)),
		sourceCell(r),
	}
}

func earningsRow(r event.Record) [][]notion.RichText {
	e := r.Earnings
	if e == nil {
		e = &event.Earnings{ReportDate: r.Date}
	}
	return [][]notion.RichText{
		cell(e.ReportDate),
		cell(r.Time),
		cell(e.CompanyName),
		cell(e.StockCode),
		cell(e.EPSForecast),
		cell(e.RevenueForecast),
		cell(e.LastQuarter),
		cell(e.FocusPoints),
		cell(impactText(r) + " " + SentimentDisplay(r.Sentiment)),
	}
}

// EventTable renders records of one kind as a table block.
func EventTable(kind event.Kind, records []event.Record) notion.Block {
	header := GeneralColumns
	row := generalRow
	if kind == event.KindEarnings {
		header = EarningsColumns
		row = earningsRow
	}
	rows := make([][][]notion.RichText, 0, len(records))
	for _, r := range records {
		rows = append(rows, row(r))
	}
	return notion.TableBlock(header, rows)
}

// DatabaseProperties maps a record onto the event database columns.
func DatabaseProperties(r event.Record) map[string]notion.Property {
	props := map[string]notion.Property{
		"事件描述":   notion.TitleProperty(r.Description),
		"日期":     notion.DateProperty(r.Date),
		"时间":     notion.RichTextProperty(notion.Text(r.Time)),
		"事件类型":   notion.SelectProperty(r.Type),
		"市场阶段":   notion.SelectProperty(PhaseDisplay(r.MarketPhase)),
		"市场影响分析": notion.RichTextProperty(notion.Text(r.MarketImpact)),
		"市场情绪":   notion.SelectProperty(SentimentDisplay(r.Sentiment)),
		"分析确信度":  notion.SelectProperty(ConfidenceDisplay(r.ConfidenceLevel)),
	}
	if r.SectorImpact != "" {
		props["行业影响"] = notion.RichTextProperty(notion.Text(r.SectorImpact))
	}
	if r.RelatedStocks != "" {
		props["相关个股"] = notion.RichTextProperty(notion.Text(r.RelatedStocks))
	}
	if src := sourceCell(r); r.SourceName != "" || r.SourceURL != "" {
		props["信息来源"] = notion.RichTextProperty(src...)
	}
	return props
}
