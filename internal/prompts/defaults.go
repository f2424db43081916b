package prompts

// Keys of the prompt set. Each key names one template.
const (
	KeyDailySearch      = "daily_search"
	KeyWeeklySearch     = "weekly_search"
	KeyBreakingSearch   = "breaking_search"
	KeyEarningsSearch   = "earnings_search"
	KeySentimentSearch  = "sentiment_search"
	KeyExtractSystem    = "extract_system"
	KeyExtractUser      = "extract_user"
	KeyEarningsSystem   = "extract_earnings_system"
	KeySourceSystem     = "source_system"
	KeySourceLookup     = "source_lookup"
	KeyAnalystSystem    = "analyst_system"
	KeyBatchAnalysis    = "batch_analysis"
	KeyEarningsAnalysis = "earnings_analysis"
	KeySummary          = "summary"
)

var defaults = map[string]string{
	KeyDailySearch: `详细列出今天美股市场的所有重大事件，包括但不限于：重要经济数据发布（如非农、CPI、PPI、GDP、消费者信心指数、褐皮书等）、美联储官员讲话、财报发布、IPO、分红除息、重大政策变动、突发新闻和公司公告。按时间顺序排列，并注明每个事件的具体时间（美东时间，HH:MM）。每条事件必须单独成行，每行只包含一个事件，不要将多个事件合并在一起。
日期: {{.Date}}`,

	KeyWeeklySearch: `详细列出下周美股市场重大事件，包括但不限于：重要经济数据发布（如非农、CPI、PPI、GDP、消费者信心指数、褐皮书经济报告等）、美联储决议及讲话、财报发布（特别关注大型科技公司和重要行业龙头）、IPO、分红除息、重大政策变动、地缘政治事件等。按时间顺序排列，并注明具体日期和时间。每条事件必须单独列出，每行只包含一个事件，不要将多个事件合并在一起。
日期范围: {{.DateRange}}`,

	KeyBreakingSearch: `列出过去6小时内美股市场的重要突发新闻，包括但不限于：重大公司公告、突发事件、重要人物讲话、市场异常波动等。每条新闻必须单独列出，并分析该新闻对美股市场的潜在影响。特别关注可能对市场产生重大影响的黑天鹅事件。
当前日期: {{.Date}}`,

	KeyEarningsSearch: `详细列出今天和未来一周将发布财报的重要公司，特别关注标普500成分股和大型科技公司。对于每家公司，提供以下信息：
1. 公司名称和股票代码
2. 财报发布的具体日期和时间（盘前/盘后）
3. 市场对该公司财报的预期（EPS和营收预期）
4. 该公司上一季度的表现
5. 分析师对该公司的关注点
6. 该财报可能对整体市场和相关行业的影响
今天: {{.Date}}`,

	KeySentimentSearch: `分析当前美股市场的整体情绪和投资者关注焦点，包括：
1. 市场主流情绪（贪婪/恐惧/中性）
2. 当前市场最关注的热点话题和板块
3. 机构投资者的主要观点和立场
4. 技术面和基本面的关键指标状态
5. 可能影响市场的潜在风险因素
请提供详细分析，并说明依据。`,

	KeyExtractSystem: `你是一个专业的金融分析师和数据解析专家。你的任务是将美股市场事件文本解析为JSON格式的事件列表。每个事件必须作为单独的对象，每个对象必须包含以下字段：
1. date: 事件日期（YYYY-MM-DD）
2. time: 事件时间（HH:MM，或 盘前/盘中/盘后）
3. description: 事件描述
4. type: 事件类型（经济数据、财报、美联储、政策、突发新闻、市场分析等）
5. market_phase: 市场阶段（'盘前'、'盘中'、'盘后'或'其他'）
只输出JSON数组，不要输出其他内容。`,

	KeyEarningsSystem: `你是一个专业的金融分析师和数据解析专家。你的任务是将美股财报日历文本解析为JSON格式的列表。每家公司作为单独的对象，每个对象必须包含以下字段：
report_date（YYYY-MM-DD）、time（盘前/盘后或HH:MM）、type（固定为“财报”）、company_name、stock_code、eps_forecast、revenue_forecast、last_quarter、focus_points、description（一句话概述）。
只输出JSON数组，不要输出其他内容。`,

	KeyExtractUser: `请将以下文本解析为JSON格式的列表，确保每个条目都是单独的一个对象，包含所有必要字段:

{{.Text}}`,

	KeySourceSystem: `你是一个专业的金融信息检索专家，擅长查找市场事件的原始信息来源。请提供准确、权威的来源链接。`,

	KeySourceLookup: `请查找以下美股市场事件的信息来源：

事件：{{.Text}}

请提供该事件的官方来源网址或新闻报道链接。如果有多个来源，请提供最权威的一个。`,

	KeyAnalystSystem: `你是一个专业的金融分析师，擅长分析事件对美股市场的影响。请提供简洁、准确的分析，并严格按照指定格式回答。`,

	KeyBatchAnalysis: `请对以下多个美股市场事件进行批量分析，为每个事件提供市场影响、行业影响、相关个股、确信度评估和市场情绪判断。

{{range $i, $d := .Items}}事件{{inc $i}}: {{$d}}
{{end}}
请按照以下格式回答，为每个事件提供分析：
{{range $i, $d := .Items}}事件{{inc $i}}分析:
1. 市场影响: [分析]
2. 行业影响: [分析]
3. 相关个股: [股票代码，逗号分隔]
4. 确信度: [high/medium/low]
5. 市场情绪: [bullish/bearish/neutral]

{{end}}`,

	KeyEarningsAnalysis: `请对以下即将发布的财报进行批量分析，评估每份财报对美股市场的影响。

{{range $i, $d := .Items}}事件{{inc $i}}: {{$d}}
{{end}}
请按照以下格式回答：
{{range $i, $d := .Items}}事件{{inc $i}}分析:
1. 市场影响: [分析]
2. 确信度: [high/medium/low]
3. 市场情绪: [bullish/bearish/neutral]

{{end}}`,

	KeySummary: `请用三到五句话总结以下美股市场事件的整体影响，突出最重要的事件和市场情绪倾向：

{{range .Items}}- {{.}}
{{end}}`,
}
