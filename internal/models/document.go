package models

import (
	"encoding/json"
	"fmt"
)

// DocumentVersion is the block format version written into every document.
const DocumentVersion = "2.28.0"

// BlockType tags a content block.
type BlockType string

const (
	BlockHeader    BlockType = "header"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockCode      BlockType = "code"
	BlockQuote     BlockType = "quote"
	BlockDelimiter BlockType = "delimiter"
	BlockTable     BlockType = "table"
)

// List styles.
const (
	ListUnordered = "unordered"
	ListOrdered   = "ordered"
)

// Document is an ordered sequence of content blocks.
type Document struct {
	Time    int64   `json:"time"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version"`
}

// Block is one content unit. Data holds one of the *Data types below.
type Block struct {
	Type BlockType   `json:"type"`
	Data interface{} `json:"data"`
}

type (
	HeaderData struct {
		Text  string `json:"text"`
		Level int    `json:"level"`
	}

	ParagraphData struct {
		Text string `json:"text"`
	}

	ListData struct {
		Style string   `json:"style"`
		Items []string `json:"items"`
	}

	CodeData struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}

	QuoteData struct {
		Text    string `json:"text"`
		Caption string `json:"caption"`
	}

	DelimiterData struct{}

	TableData struct {
		Content [][]string `json:"content"`
	}
)

// UnmarshalJSON decodes Data into the struct matching Type. Unknown types
// keep the generic decoded value.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type BlockType       `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	b.Type = raw.Type
	switch raw.Type {
	case BlockHeader:
		b.Data, err = decodeData[HeaderData](raw.Data)
	case BlockParagraph:
		b.Data, err = decodeData[ParagraphData](raw.Data)
	case BlockList:
		b.Data, err = decodeData[ListData](raw.Data)
	case BlockCode:
		b.Data, err = decodeData[CodeData](raw.Data)
	case BlockQuote:
		b.Data, err = decodeData[QuoteData](raw.Data)
	case BlockDelimiter:
		b.Data = DelimiterData{}
	case BlockTable:
		b.Data, err = decodeData[TableData](raw.Data)
	default:
		b.Data, err = decodeData[interface{}](raw.Data)
	}
	if err != nil {
		return fmt.Errorf("block %s: %w", raw.Type, err)
	}
	return nil
}

func decodeData[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	err := json.Unmarshal(raw, &v)
	return v, err
}
