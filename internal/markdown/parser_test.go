package markdown

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/devrecap/internal/models"
)

func fixedParser() *Parser {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewParser(WithClock(func() time.Time { return at }))
}

func TestParse(t *testing.T) {
	t.Run("heading paragraph and list keep order", func(t *testing.T) {
		// Arrange
		input := "# Title\n\nSome *text*\n\n- a\n- b"

		// Act
		doc := fixedParser().Parse(input)

		// Assert
		require.Len(t, doc.Blocks, 3)
		assert.Equal(t, models.Block{Type: models.BlockHeader, Data: models.HeaderData{Text: "Title", Level: 1}}, doc.Blocks[0])
		assert.Equal(t, models.Block{Type: models.BlockParagraph, Data: models.ParagraphData{Text: "Some <i>text</i>"}}, doc.Blocks[1])
		assert.Equal(t, models.Block{Type: models.BlockList, Data: models.ListData{Style: models.ListUnordered, Items: []string{"a", "b"}}}, doc.Blocks[2])
		assert.Equal(t, models.DocumentVersion, doc.Version)
		assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), doc.Time)
	})

	t.Run("empty input yields no blocks", func(t *testing.T) {
		for _, input := range []string{"", "  \n\n\t"} {
			doc := fixedParser().Parse(input)

			require.NotNil(t, doc.Blocks)
			assert.Empty(t, doc.Blocks)
			assert.Equal(t, "2.28.0", doc.Version)
			data, err := json.Marshal(doc)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"blocks":[]`)
		}
	})

	t.Run("heading levels", func(t *testing.T) {
		doc := fixedParser().Parse("## Two\n###### Six\n####### Seven")

		require.Len(t, doc.Blocks, 3)
		assert.Equal(t, models.HeaderData{Text: "Two", Level: 2}, doc.Blocks[0].Data)
		assert.Equal(t, models.HeaderData{Text: "Six", Level: 6}, doc.Blocks[1].Data)
		assert.Equal(t, models.BlockParagraph, doc.Blocks[2].Type)
	})

	t.Run("hash without space is a paragraph", func(t *testing.T) {
		doc := fixedParser().Parse("#hashtag")

		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.ParagraphData{Text: "#hashtag"}, doc.Blocks[0].Data)
	})

	t.Run("ordered list", func(t *testing.T) {
		doc := fixedParser().Parse("1. first\n2. **second**")

		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.ListData{Style: models.ListOrdered, Items: []string{"first", "<b>second</b>"}}, doc.Blocks[0].Data)
	})

	t.Run("mixed markers stay in the first list style", func(t *testing.T) {
		doc := fixedParser().Parse("- a\n1. b\n- c")

		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.ListData{Style: models.ListUnordered, Items: []string{"a", "b", "c"}}, doc.Blocks[0].Data)
	})

	t.Run("ordered marker opens an ordered list", func(t *testing.T) {
		doc := fixedParser().Parse("1. a\n- b")

		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.ListData{Style: models.ListOrdered, Items: []string{"a", "b"}}, doc.Blocks[0].Data)
	})

	t.Run("list flushes before following paragraph", func(t *testing.T) {
		doc := fixedParser().Parse("* one\n+ two\nafter")

		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, models.ListData{Style: models.ListUnordered, Items: []string{"one", "two"}}, doc.Blocks[0].Data)
		assert.Equal(t, models.ParagraphData{Text: "after"}, doc.Blocks[1].Data)
	})

	t.Run("list flushes before heading", func(t *testing.T) {
		doc := fixedParser().Parse("- a\n# H")

		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, models.BlockList, doc.Blocks[0].Type)
		assert.Equal(t, models.BlockHeader, doc.Blocks[1].Type)
	})

	t.Run("fenced code keeps raw lines", func(t *testing.T) {
		input := "```go\nfunc main() {\n\n    *x* = 1\n}\n```"

		doc := fixedParser().Parse(input)

		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.CodeData{Code: "func main() {\n\n    *x* = 1\n}", Language: "go"}, doc.Blocks[0].Data)
	})

	t.Run("fence without language is plaintext", func(t *testing.T) {
		doc := fixedParser().Parse("```\nls\n```")

		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.CodeData{Code: "ls", Language: "plaintext"}, doc.Blocks[0].Data)
	})

	t.Run("unterminated fence is emitted at end", func(t *testing.T) {
		doc := fixedParser().Parse("- item\n```sh\necho hi")

		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, models.BlockList, doc.Blocks[0].Type)
		assert.Equal(t, models.CodeData{Code: "echo hi", Language: "sh"}, doc.Blocks[1].Data)
	})

	t.Run("delimiters", func(t *testing.T) {
		doc := fixedParser().Parse("---\n***\n___")

		require.Len(t, doc.Blocks, 3)
		for _, b := range doc.Blocks {
			assert.Equal(t, models.BlockDelimiter, b.Type)
		}
	})

	t.Run("rule after list keeps order", func(t *testing.T) {
		doc := fixedParser().Parse("- a\n***")

		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, models.BlockList, doc.Blocks[0].Type)
		assert.Equal(t, models.BlockDelimiter, doc.Blocks[1].Type)
	})

	t.Run("quote", func(t *testing.T) {
		doc := fixedParser().Parse(">   quoted ~~old~~")

		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.QuoteData{Text: "quoted <s>old</s>", Caption: ""}, doc.Blocks[0].Data)
	})

	t.Run("empty list items are skipped", func(t *testing.T) {
		doc := fixedParser().Parse("-  \n- real")

		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, models.ParagraphData{Text: "-"}, doc.Blocks[0].Data)
		assert.Equal(t, models.ListData{Style: models.ListUnordered, Items: []string{"real"}}, doc.Blocks[1].Data)
	})

	t.Run("pipe table", func(t *testing.T) {
		input := "| Repo | PRs |\n|------|----:|\n| **api** | 4 |\n\ntext"

		doc := fixedParser().Parse(input)

		require.Len(t, doc.Blocks, 2)
		assert.Equal(t, models.TableData{Content: [][]string{{"Repo", "PRs"}, {"<b>api</b>", "4"}}}, doc.Blocks[0].Data)
		assert.Equal(t, models.BlockParagraph, doc.Blocks[1].Type)
	})

	t.Run("block sequence is deterministic", func(t *testing.T) {
		input := "# A\n- x\n\n> q\n```\ncode\n```"

		first := Parse(input)
		second := Parse(input)

		assert.Equal(t, first.Blocks, second.Blocks)
	})
}

func TestInlineFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold stars", "**bold**", "<b>bold</b>"},
		{"bold underscores", "__bold__", "<b>bold</b>"},
		{"italic star", "*it*", "<i>it</i>"},
		{"italic underscore", "_it_", "<i>it</i>"},
		{"inline code", "run `make`", `run <code class="inline-code">make</code>`},
		{"strike", "~~gone~~", "<s>gone</s>"},
		{"mixed", "**a** and *b*", "<b>a</b> and <i>b</i>"},
		{"plain", "nothing here", "nothing here"},
		{"no escaping", "a < b", "a < b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InlineFormat(tt.in))
		})
	}
}
