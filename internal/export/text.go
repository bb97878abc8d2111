package export

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// PlainText removes tags from an inline HTML fragment and decodes entities.
func PlainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	text := html.UnescapeString(strictPolicy.Sanitize(fragment))
	return strings.Join(strings.Fields(text), " ")
}

var markdownInline = strings.NewReplacer(
	"<b>", "**", "</b>", "**",
	"<strong>", "**", "</strong>", "**",
	"<i>", "*", "</i>", "*",
	"<em>", "*", "</em>", "*",
	`<code class="inline-code">`, "`", "<code>", "`", "</code>", "`",
	"<s>", "~~", "</s>", "~~",
)

// markdownText turns inline HTML produced by the parser back into markdown.
func markdownText(fragment string) string {
	return PlainText(markdownInline.Replace(fragment))
}
