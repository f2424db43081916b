package notion

import "unicode/utf8"

// MaxTextLength is the API limit for one rich text content string.
const MaxTextLength = 2000

type Parent struct {
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// Text builds a plain rich text span, truncated to MaxTextLength.
func Text(s string) RichText {
	return RichText{Type: "text", Text: &TextContent{Content: truncate(s)}}
}

// LinkText builds a rich text span that links to url.
func LinkText(s, url string) RichText {
	rt := Text(s)
	rt.Text.Link = &Link{URL: url}
	return rt
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxTextLength {
		return s
	}
	r := []rune(s)
	return string(r[:MaxTextLength-1]) + "…"
}

// Plain concatenates the text of spans.
func Plain(spans []RichText) string {
	var out string
	for _, s := range spans {
		switch {
		case s.PlainText != "":
			out += s.PlainText
		case s.Text != nil:
			out += s.Text.Content
		}
	}
	return out
}

type DateValue struct {
	Start string `json:"start"`
}

type SelectValue struct {
	Name string `json:"name"`
}

type Property struct {
	Type     string       `json:"type,omitempty"`
	Title    []RichText   `json:"title,omitempty"`
	RichText []RichText   `json:"rich_text,omitempty"`
	Date     *DateValue   `json:"date,omitempty"`
	Select   *SelectValue `json:"select,omitempty"`
}

type Page struct {
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

type Heading struct {
	RichText []RichText `json:"rich_text"`
}

type Paragraph struct {
	RichText []RichText `json:"rich_text"`
}

type Table struct {
	TableWidth      int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header"`
	Children        []Block `json:"children"`
}

type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Heading1  *Heading   `json:"heading_1,omitempty"`
	Heading2  *Heading   `json:"heading_2,omitempty"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Table     *Table     `json:"table,omitempty"`
	TableRow  *TableRow  `json:"table_row,omitempty"`
}

func Heading1(s string) Block {
	return Block{Object: "block", Type: "heading_1", Heading1: &Heading{RichText: []RichText{Text(s)}}}
}

func Heading2(s string) Block {
	return Block{Object: "block", Type: "heading_2", Heading2: &Heading{RichText: []RichText{Text(s)}}}
}

func ParagraphBlock(s string) Block {
	return Block{Object: "block", Type: "paragraph", Paragraph: &Paragraph{RichText: []RichText{Text(s)}}}
}

// TableBlock builds a table with a header row. Every row must have
// len(header) cells.
func TableBlock(header []string, rows [][][]RichText) Block {
	children := make([]Block, 0, len(rows)+1)
	head := make([][]RichText, len(header))
	for i, h := range header {
		head[i] = []RichText{Text(h)}
	}
	children = append(children, Block{Object: "block", Type: "table_row", TableRow: &TableRow{Cells: head}})
	for _, cells := range rows {
		children = append(children, Block{Object: "block", Type: "table_row", TableRow: &TableRow{Cells: cells}})
	}
	return Block{
		Object: "block",
		Type:   "table",
		Table: &Table{
			TableWidth:      len(header),
			HasColumnHeader: true,
			Children:        children,
		},
	}
}

type CreatePageRequest struct {
	Parent     Parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
	Children   []Block             `json:"children,omitempty"`
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
