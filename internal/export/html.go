package export

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
)

var (
	htmlPolicy = newHTMLPolicy()

	codeLanguage = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
)

func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(inline-code|language-[a-zA-Z0-9_-]+)$`)).OnElements("code")
	p.RequireNoFollowOnLinks(true)
	return p
}

// RenderHTML converts doc to an HTML fragment, one element per block, and
// sanitizes the result.
func RenderHTML(doc models.Document) (string, error) {
	var b strings.Builder

	for i, block := range doc.Blocks {
		switch data := block.Data.(type) {
		case models.HeaderData:
			level := min(max(data.Level, 1), 6)
			fmt.Fprintf(&b, "<h%d>%s</h%d>", level, data.Text, level)
		case models.ParagraphData:
			fmt.Fprintf(&b, "<p>%s</p>", data.Text)
		case models.ListData:
			tag := "ul"
			if data.Style == models.ListOrdered {
				tag = "ol"
			}
			fmt.Fprintf(&b, "<%s>", tag)
			for _, item := range data.Items {
				fmt.Fprintf(&b, "<li>%s</li>", item)
			}
			fmt.Fprintf(&b, "</%s>", tag)
		case models.CodeData:
			lang := codeLanguage.ReplaceAllString(data.Language, "")
			if lang == "" {
				lang = "plaintext"
			}
			fmt.Fprintf(&b, `<pre><code class="language-%s">%s</code></pre>`, lang, html.EscapeString(data.Code))
		case models.QuoteData:
			fmt.Fprintf(&b, "<blockquote><p>%s</p>", data.Text)
			if data.Caption != "" {
				fmt.Fprintf(&b, "<cite>%s</cite>", data.Caption)
			}
			b.WriteString("</blockquote>")
		case models.DelimiterData:
			b.WriteString("<hr/>")
		case models.TableData:
			writeHTMLTable(&b, data)
		default:
			if !isKnownBlock(block.Type) {
				slog.Debug("skipping unsupported block", "type", block.Type, "index", i)
				continue
			}
			return "", domainErrors.ErrRenderFailed.
				WithContext("block", i).
				WithContext("reason", fmt.Sprintf("unexpected data %T for %s", block.Data, block.Type))
		}
		b.WriteString("\n")
	}

	return htmlPolicy.Sanitize(b.String()), nil
}

func writeHTMLTable(b *strings.Builder, data models.TableData) {
	b.WriteString("<table>")
	for i, row := range data.Content {
		cell := "td"
		if i == 0 {
			cell = "th"
		}
		b.WriteString("<tr>")
		for _, c := range row {
			fmt.Fprintf(b, "<%s>%s</%s>", cell, c, cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
}

func isKnownBlock(t models.BlockType) bool {
	switch t {
	case models.BlockHeader, models.BlockParagraph, models.BlockList, models.BlockCode,
		models.BlockQuote, models.BlockDelimiter, models.BlockTable:
		return true
	}
	return false
}

const pageTemplate = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: "Times New Roman", Times, serif; max-width: 46rem; margin: 2rem auto; line-height: 1.5; }
pre { background: #f0f0f0; padding: .75rem; overflow-x: auto; }
code.inline-code { background: #f0f0f0; padding: 0 .2rem; }
blockquote { border-left: 3px solid #646464; margin-left: 1rem; padding-left: 1rem; font-style: italic; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: .25rem .5rem; }
</style>
</head>
<body>
%s</body>
</html>
`

// RenderHTMLPage wraps the rendered document in a standalone HTML page.
func RenderHTMLPage(doc models.Document, title, lang string) (string, error) {
	body, err := RenderHTML(doc)
	if err != nil {
		return "", err
	}
	if lang == "" {
		lang = "es"
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(lang), html.EscapeString(title), body), nil
}
