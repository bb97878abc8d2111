package markdown

import "github.com/thomas-vilte/devrecap/internal/regex"

// InlineFormat rewrites markdown emphasis into the inline HTML the block
// editor understands. Replacements run in a fixed order and the input is not
// escaped.
func InlineFormat(text string) string {
	text = regex.InlineBoldStars.ReplaceAllString(text, "<b>$1</b>")
	text = regex.InlineBoldUnderscore.ReplaceAllString(text, "<b>$1</b>")
	text = regex.InlineItalicStar.ReplaceAllString(text, "<i>$1</i>")
	text = regex.InlineItalicUnder.ReplaceAllString(text, "<i>$1</i>")
	text = regex.InlineCode.ReplaceAllString(text, `<code class="inline-code">$1</code>`)
	text = regex.InlineStrike.ReplaceAllString(text, "<s>$1</s>")
	return text
}
