package clean

import (
	"regexp"
	"strings"

	"marketevents/internal/event"
)

// TypeRule maps free-form type text onto one vocabulary value when any of its
// patterns match. Rules are tried in order.
type TypeRule struct {
	Type     string
	Patterns []string

	compiled []*regexp.Regexp
}

func DefaultTypeRules() []TypeRule {
	return []TypeRule{
		{
			Type: event.TypeEarnings,
			Patterns: []string{
				`(?i)(财报|业绩|季报|年报|财务报告)`,
				`(?i)(earnings|\beps\b|quarterly results)`,
			},
		},
		{
			Type: event.TypePolicy,
			Patterns: []string{
				`(?i)(美联储|联储|央行|利率决议|议息|政策|监管|关税|白宫|国会)`,
				`(?i)(\bfed\b|fomc|federal reserve|policy|regulat|tariff|central bank)`,
			},
		},
		{
			Type: event.TypeEconomicData,
			Patterns: []string{
				`(?i)(经济数据|经济指标|非农|就业|失业|通胀|零售销售|消费者信心|褐皮书|数据)`,
				`(?i)(economic|\bcpi\b|\bppi\b|\bgdp\b|payroll|non-?farm|jobless|inflation|retail sales|\bpmi\b|\bism\b|beige book)`,
			},
		},
		{
			Type: event.TypeBreakingNews,
			Patterns: []string{
				`(?i)(突发|快讯|黑天鹅|新闻)`,
				`(?i)(breaking|\bnews\b|black swan)`,
			},
		},
		{
			Type: event.TypeMarketAnalysis,
			Patterns: []string{
				`(?i)(市场分析|市场情绪|分析|展望)`,
				`(?i)(analysis|sentiment|outlook)`,
			},
		},
		{
			Type:     event.TypeOther,
			Patterns: []string{`(?i)^(其他|其它|other|others|misc)$`},
		},
	}
}

var typeRules = compileRules(DefaultTypeRules())

func compileRules(rules []TypeRule) []TypeRule {
	for i := range rules {
		for _, raw := range rules[i].Patterns {
			rules[i].compiled = append(rules[i].compiled, regexp.MustCompile(raw))
		}
	}
	return rules
}

// Type maps s onto the type vocabulary. Unmatched text passes through
// trimmed but otherwise verbatim.
func Type(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, rule := range typeRules {
		for _, re := range rule.compiled {
			if re.MatchString(s) {
				return rule.Type
			}
		}
	}
	return s
}

var (
	bullishWords = []string{"bullish", "positive", "利好", "正面", "积极", "看涨", "乐观"}
	bearishWords = []string{"bearish", "negative", "利空", "负面", "消极", "看跌", "悲观"}
	neutralWords = []string{"neutral", "中性"}
	unknownWords = []string{"unknown", "未知"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Sentiment classifies s. Text without a sentiment keyword is returned
// lowercased; empty text is unknown.
func Sentiment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return event.SentimentUnknown
	case containsAny(s, bullishWords):
		return event.SentimentBullish
	case containsAny(s, bearishWords):
		return event.SentimentBearish
	case containsAny(s, neutralWords):
		return event.SentimentNeutral
	case containsAny(s, unknownWords):
		return event.SentimentUnknown
	default:
		return s
	}
}

// SentimentFromImpact infers a sentiment from market impact prose, or
// returns unknown.
func SentimentFromImpact(impact string) string {
	s := strings.ToLower(impact)
	switch {
	case containsAny(s, []string{"利好", "正面", "积极", "上涨", "提振", "bullish", "positive"}):
		return event.SentimentBullish
	case containsAny(s, []string{"利空", "负面", "消极", "下跌", "拖累", "bearish", "negative"}):
		return event.SentimentBearish
	case containsAny(s, []string{"中性", "有限", "轻微", "neutral", "limited"}):
		return event.SentimentNeutral
	default:
		return event.SentimentUnknown
	}
}

// Confidence classifies s into high, medium or low. Empty text is medium;
// text naming no level is low.
func Confidence(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return event.ConfidenceMedium
	case strings.Contains(s, "high") || strings.Contains(s, "高"):
		return event.ConfidenceHigh
	case strings.Contains(s, "medium") || strings.Contains(s, "moderate") || strings.Contains(s, "中"):
		return event.ConfidenceMedium
	default:
		return event.ConfidenceLow
	}
}
