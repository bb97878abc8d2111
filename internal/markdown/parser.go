// Package markdown converts generated markdown into block documents.
package markdown

import (
	"strings"
	"time"

	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/regex"
)

// Parser turns markdown text into a models.Document.
type Parser struct {
	now func() time.Time
}

type Option func(*Parser)

// WithClock overrides the clock used to stamp documents.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts text with the default parser.
func Parse(text string) models.Document {
	return NewParser().Parse(text)
}

// Parse walks the input line by line. Lines are classified in priority order:
// fenced code, blank, heading, list item, rule, quote, table row, paragraph.
// Open lists and tables are flushed before any block that is not part of them
// so blocks keep document order.
func (p *Parser) Parse(text string) models.Document {
	st := &state{blocks: []models.Block{}}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if st.inCode {
			if regex.MarkdownFence.MatchString(trimmed) {
				st.closeCode()
			} else {
				st.code = append(st.code, line)
			}
			continue
		}

		if regex.MarkdownFence.MatchString(trimmed) {
			st.flushAll()
			st.openCode(trimmed)
			continue
		}

		if trimmed == "" {
			st.flushAll()
			continue
		}

		if regex.MarkdownHeading.MatchString(trimmed) {
			st.flushAll()
			st.add(models.BlockHeader, models.HeaderData{
				Text:  InlineFormat(regex.MarkdownHeadingPrefix.ReplaceAllString(trimmed, "")),
				Level: headingLevel(trimmed),
			})
			continue
		}

		if m := regex.MarkdownUnordered.FindStringSubmatch(trimmed); m != nil {
			st.addItem(models.ListUnordered, m[1])
			continue
		}
		if m := regex.MarkdownOrdered.FindStringSubmatch(trimmed); m != nil {
			st.addItem(models.ListOrdered, m[1])
			continue
		}

		if regex.MarkdownTableRow.MatchString(trimmed) {
			st.flushList()
			st.addRow(trimmed)
			continue
		}

		st.flushAll()

		switch {
		case regex.MarkdownRule.MatchString(trimmed):
			st.add(models.BlockDelimiter, models.DelimiterData{})
		case strings.HasPrefix(trimmed, ">"):
			st.add(models.BlockQuote, models.QuoteData{
				Text:    InlineFormat(regex.MarkdownQuotePrefix.ReplaceAllString(trimmed, "")),
				Caption: "",
			})
		default:
			st.add(models.BlockParagraph, models.ParagraphData{Text: InlineFormat(trimmed)})
		}
	}

	if st.inCode {
		st.closeCode()
	}
	st.flushAll()

	return models.Document{
		Time:    p.now().UnixMilli(),
		Blocks:  st.blocks,
		Version: models.DocumentVersion,
	}
}

type state struct {
	blocks []models.Block

	inCode   bool
	codeLang string
	code     []string

	listStyle string
	items     []string

	rows [][]string
}

func (s *state) add(t models.BlockType, data interface{}) {
	s.blocks = append(s.blocks, models.Block{Type: t, Data: data})
}

func (s *state) openCode(fence string) {
	s.inCode = true
	s.code = nil
	s.codeLang = strings.TrimSpace(strings.ReplaceAll(fence, "```", ""))
	if s.codeLang == "" {
		s.codeLang = "plaintext"
	}
}

func (s *state) closeCode() {
	s.add(models.BlockCode, models.CodeData{
		Code:     strings.Join(s.code, "\n"),
		Language: s.codeLang,
	})
	s.inCode = false
	s.code = nil
	s.codeLang = ""
}

// addItem appends to the open list. The first item fixes the list style;
// later markers of another style join the same list. Items that are empty
// after trimming are dropped.
func (s *state) addItem(style, item string) {
	s.flushTable()
	item = strings.TrimSpace(item)
	if item == "" {
		return
	}
	if s.listStyle == "" {
		s.listStyle = style
	}
	s.items = append(s.items, InlineFormat(item))
}

func (s *state) flushList() {
	if s.listStyle != "" && len(s.items) > 0 {
		s.add(models.BlockList, models.ListData{Style: s.listStyle, Items: s.items})
	}
	s.listStyle = ""
	s.items = nil
}

func (s *state) addRow(line string) {
	if regex.MarkdownTableDivider.MatchString(line) {
		return
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	cells := strings.Split(inner, "|")
	row := make([]string, 0, len(cells))
	for _, c := range cells {
		row = append(row, InlineFormat(strings.TrimSpace(c)))
	}
	s.rows = append(s.rows, row)
}

func (s *state) flushTable() {
	if len(s.rows) > 0 {
		s.add(models.BlockTable, models.TableData{Content: s.rows})
	}
	s.rows = nil
}

func (s *state) flushAll() {
	s.flushList()
	s.flushTable()
}

func headingLevel(line string) int {
	level := len(line) - len(strings.TrimLeft(line, "#"))
	if level > 6 {
		level = 6
	}
	return level
}
