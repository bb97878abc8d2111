package export

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/devrecap/internal/models"
)

// RenderMarkdown writes doc back as markdown.
func RenderMarkdown(doc models.Document) string {
	parts := make([]string, 0, len(doc.Blocks))

	for _, block := range doc.Blocks {
		switch data := block.Data.(type) {
		case models.HeaderData:
			level := min(max(data.Level, 1), 6)
			parts = append(parts, strings.Repeat("#", level)+" "+markdownText(data.Text))
		case models.ParagraphData:
			parts = append(parts, markdownText(data.Text))
		case models.ListData:
			lines := make([]string, 0, len(data.Items))
			for i, item := range data.Items {
				marker := "-"
				if data.Style == models.ListOrdered {
					marker = fmt.Sprintf("%d.", i+1)
				}
				lines = append(lines, marker+" "+markdownText(item))
			}
			parts = append(parts, strings.Join(lines, "\n"))
		case models.CodeData:
			parts = append(parts, "```"+data.Language+"\n"+data.Code+"\n```")
		case models.QuoteData:
			parts = append(parts, "> "+markdownText(data.Text))
		case models.DelimiterData:
			parts = append(parts, "---")
		case models.TableData:
			parts = append(parts, markdownTable(data))
		}
	}

	return strings.Join(parts, "\n\n") + "\n"
}

func markdownTable(data models.TableData) string {
	lines := make([]string, 0, len(data.Content)+1)
	for i, row := range data.Content {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = markdownText(c)
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			lines = append(lines, "|"+strings.Repeat(" --- |", len(row)))
		}
	}
	return strings.Join(lines, "\n")
}
