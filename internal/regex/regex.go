package regex

import "regexp"

var (
	// Markdown block patterns, matched against trimmed lines
	MarkdownFence         = regexp.MustCompile("^```")
	MarkdownHeading       = regexp.MustCompile(`^#{1,6}\s`)
	MarkdownHeadingPrefix = regexp.MustCompile(`^#+\s*`)
	MarkdownUnordered     = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	MarkdownOrdered       = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	MarkdownRule          = regexp.MustCompile(`^(---|\*\*\*|___)$`)
	MarkdownQuotePrefix   = regexp.MustCompile(`^>\s*`)
	MarkdownTableRow      = regexp.MustCompile(`^\|.*\|$`)
	MarkdownTableDivider  = regexp.MustCompile(`^\|?(\s*:?-+:?\s*\|)+\s*(:?-+:?)?\s*\|?$`)

	// Markdown inline patterns, applied in this order
	InlineBoldStars      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	InlineBoldUnderscore = regexp.MustCompile(`__(.+?)__`)
	InlineItalicStar     = regexp.MustCompile(`\*([^*]+)\*`)
	InlineItalicUnder    = regexp.MustCompile(`_([^_]+)_`)
	InlineCode           = regexp.MustCompile("`(.+?)`")
	InlineStrike         = regexp.MustCompile(`~~(.+?)~~`)

	// HTML handling for exports
	HTMLTag       = regexp.MustCompile(`<[^>]*>`)
	HTMLBreak     = regexp.MustCompile(`(?i)<br\s*/?>`)
	HTMLEntityNum = regexp.MustCompile(`&#(\d+);`)

	// AI output cleanup
	MarkdownWrapper = regexp.MustCompile("(?s)^\\s*```(?:markdown|md)?\\s*\n(.*?)\n```\\s*$")
)
