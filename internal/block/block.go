// Package block defines the canonical block-structured content model for a
// journal entry: an ordered sequence of typed blocks plus the storage
// envelope it is persisted in.
package block

import (
	"encoding/json"
	"fmt"
)

// Known block type tags. A Block may carry a tag outside this set; such
// blocks are preserved verbatim and rendered as placeholders.
const (
	TypeParagraph = "paragraph"
	TypeHeader    = "header"
	TypeList      = "list"
	TypeChecklist = "checklist"
	TypeQuote     = "quote"
	TypeDelimiter = "delimiter"
	TypeTable     = "table"
	TypeLink      = "link"
	TypeRaw       = "raw"
	TypeCode      = "code"
	TypeWarning   = "warning"
	TypeMarker    = "marker"
	TypeUnderline = "underline"
)

// Block is one typed unit of content. Data keeps the payload as raw JSON so
// unrecognized types round-trip losslessly through load and save. ID is the
// client-generated block id; blocks loaded without one keep it empty.
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Model is the ordered block sequence together with the at-rest envelope
// used by the entry store: {"time": <ms>, "blocks": [...], "version": "..."}.
// Block order is display order and is semantically significant.
type Model struct {
	Time    int64   `json:"time"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version"`
}

// ParagraphData is the payload of a paragraph block. Marker and underline
// blocks share the same single-field shape.
type ParagraphData struct {
	Text string `json:"text"`
}

type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ListData holds ordered or unordered list items. Style is "ordered" or
// "unordered".
type ListData struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type ChecklistData struct {
	Items []ChecklistItem `json:"items"`
}

type QuoteData struct {
	Text      string `json:"text"`
	Caption   string `json:"caption"`
	Alignment string `json:"alignment,omitempty"`
}

// TableData holds the cell grid. When WithHeadings is set the first row is
// rendered as a header row.
type TableData struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content"`
}

type LinkMeta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type LinkData struct {
	Link string   `json:"link"`
	Meta LinkMeta `json:"meta"`
}

type RawData struct {
	HTML string `json:"html"`
}

// CodeData is the persisted shape of a code block: exactly {code, language}.
// Line-wrap preference is editor state and is never persisted.
type CodeData struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type WarningData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// New builds a block of the given type from a payload value.
func New(blockType string, payload any) (Block, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Block{}, fmt.Errorf("marshal %s payload: %w", blockType, err)
	}
	return Block{Type: blockType, Data: data}, nil
}

// MustNew is New for statically-known payloads; it panics on marshal failure.
func MustNew(blockType string, payload any) Block {
	b, err := New(blockType, payload)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode unmarshals the block payload into v.
func (b Block) Decode(v any) error {
	if len(b.Data) == 0 {
		return fmt.Errorf("block %q has no payload", b.Type)
	}
	if err := json.Unmarshal(b.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", b.Type, err)
	}
	return nil
}

// Clone returns a deep copy of the model. The renderer and title inference
// always receive a clone so a render in progress can never observe a
// half-mutated block list.
func (m Model) Clone() Model {
	out := Model{Time: m.Time, Version: m.Version}
	if m.Blocks == nil {
		return out
	}
	out.Blocks = make([]Block, len(m.Blocks))
	for i, b := range m.Blocks {
		nb := Block{ID: b.ID, Type: b.Type}
		if b.Data != nil {
			nb.Data = append(json.RawMessage(nil), b.Data...)
		}
		out.Blocks[i] = nb
	}
	return out
}

// Empty reports whether the model has no blocks.
func (m Model) Empty() bool {
	return len(m.Blocks) == 0
}

// Parse decodes a stored content document.
func Parse(data []byte) (Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("parse content: %w", err)
	}
	return m, nil
}

// Encode serializes the model into its at-rest envelope.
func (m Model) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return data, nil
}
