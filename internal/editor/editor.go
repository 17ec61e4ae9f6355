// Package editor implements the live document editor: the mutable block
// list behind one open document, the embedded code sub-editors, and the
// host shortcut layer with its block-insertion menu.
package editor

import (
	"fmt"
	"sync"
	"time"

	"fieldnote/editor/internal/block"
	"fieldnote/editor/internal/codeedit"
	"fieldnote/editor/internal/util"
)

const modelVersion = "2.28.2"

// entry pairs a block with its embedded sub-editor, present only for code
// blocks whose payload decoded.
type entry struct {
	blk  block.Block
	code *codeedit.Editor
}

// Editor is the live editing surface for one document's content. It is the
// single writer of its block model; Save hands out deep copies only.
type Editor struct {
	mu        sync.Mutex
	entries   []entry
	version   string
	active    int
	codeFocus bool
	menuOpen  bool
	onChange  func()
}

// New constructs an editor over the document's stored content. Code blocks
// get an embedded sub-editor; blocks of unknown type are carried untouched.
func New(m block.Model) (*Editor, error) {
	e := &Editor{version: m.Version}
	if e.version == "" {
		e.version = modelVersion
	}

	for _, b := range m.Blocks {
		e.entries = append(e.entries, newEntry(b))
	}
	return e, nil
}

func newEntry(b block.Block) entry {
	if b.ID == "" {
		b.ID = util.NewID("blk")
	}
	ent := entry{blk: b}
	if b.Type == block.TypeCode {
		var d block.CodeData
		if b.Decode(&d) == nil {
			ent.code = codeedit.New(d.Code, d.Language)
		}
	}
	return ent
}

// OnChange registers the callback invoked after every content mutation.
func (e *Editor) OnChange(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

func (e *Editor) changed() {
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Save serializes the current content: code sub-editors are flushed back
// into their block payloads and the result is a deep copy the caller owns.
func (e *Editor) Save() (block.Model, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := block.Model{
		Time:    time.Now().UnixMilli(),
		Version: e.version,
		Blocks:  make([]block.Block, 0, len(e.entries)),
	}

	for i := range e.entries {
		ent := &e.entries[i]
		if ent.code != nil {
			code, lang := ent.code.Value()
			b, err := block.New(block.TypeCode, block.CodeData{Code: code, Language: string(lang)})
			if err != nil {
				return block.Model{}, fmt.Errorf("serialize code block %d: %w", i, err)
			}
			b.ID = ent.blk.ID
			ent.blk = b
		}
		m.Blocks = append(m.Blocks, ent.blk)
	}
	return m.Clone(), nil
}

// BlockCount returns the number of blocks.
func (e *Editor) BlockCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

// FocusBlock makes the given block active at the host level.
func (e *Editor) FocusBlock(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.entries) {
		return fmt.Errorf("no block at index %d", i)
	}
	e.active = i
	e.codeFocus = false
	return nil
}

// FocusCode moves focus inside the code sub-editor of the given block.
func (e *Editor) FocusCode(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.entries) {
		return fmt.Errorf("no block at index %d", i)
	}
	if e.entries[i].code == nil {
		return fmt.Errorf("block %d is not an editable code block", i)
	}
	e.active = i
	e.codeFocus = true
	return nil
}

// Blur leaves any focused code sub-editor.
func (e *Editor) Blur() {
	e.mu.Lock()
	e.codeFocus = false
	e.mu.Unlock()
}

// HandleKey routes a keyboard event. A key consumed by a focused code
// sub-editor never reaches the host shortcut layer, so "/" and Tab cannot
// open the block-insertion menu while code is being edited.
func (e *Editor) HandleKey(k codeedit.Key) {
	e.mu.Lock()
	var sub *codeedit.Editor
	if e.codeFocus && e.active < len(e.entries) {
		sub = e.entries[e.active].code
	}
	e.mu.Unlock()

	if sub != nil {
		consumed, mutated := sub.HandleKey(k)
		if consumed {
			// Cursor movement is consumed but does not dirty the document.
			if mutated {
				e.changed()
			}
			return
		}
		// An unconsumed key (Escape) blurs the sub-editor and falls
		// through to the host layer.
		e.Blur()
	}

	e.mu.Lock()
	switch {
	case k.Code == codeedit.KeyTab,
		k.Code == codeedit.KeyChar && k.Rune == '/':
		e.menuOpen = true
	case k.Code == codeedit.KeyEscape:
		e.menuOpen = false
	}
	e.mu.Unlock()
}

// MenuOpen reports whether the block-insertion menu is showing.
func (e *Editor) MenuOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.menuOpen
}

// CodeEditor exposes the sub-editor embedded in a code block.
func (e *Editor) CodeEditor(i int) (*codeedit.Editor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.entries) || e.entries[i].code == nil {
		return nil, false
	}
	return e.entries[i].code, true
}

// AppendBlock adds a block at the end of the document.
func (e *Editor) AppendBlock(b block.Block) {
	e.mu.Lock()
	e.entries = append(e.entries, newEntry(b))
	e.menuOpen = false
	e.mu.Unlock()
	e.changed()
}

// InsertBlockAt inserts a block at the given position.
func (e *Editor) InsertBlockAt(i int, b block.Block) error {
	e.mu.Lock()
	if i < 0 || i > len(e.entries) {
		e.mu.Unlock()
		return fmt.Errorf("insert position %d out of range", i)
	}
	e.entries = append(e.entries[:i], append([]entry{newEntry(b)}, e.entries[i:]...)...)
	e.menuOpen = false
	e.mu.Unlock()
	e.changed()
	return nil
}

// RemoveBlock deletes the block at the given position.
func (e *Editor) RemoveBlock(i int) error {
	e.mu.Lock()
	if i < 0 || i >= len(e.entries) {
		e.mu.Unlock()
		return fmt.Errorf("no block at index %d", i)
	}
	e.entries = append(e.entries[:i], e.entries[i+1:]...)
	if e.active >= len(e.entries) && e.active > 0 {
		e.active = len(e.entries) - 1
	}
	e.mu.Unlock()
	e.changed()
	return nil
}

// SetBlockText replaces the text of a paragraph, header, marker or
// underline block.
func (e *Editor) SetBlockText(i int, text string) error {
	e.mu.Lock()
	if i < 0 || i >= len(e.entries) {
		e.mu.Unlock()
		return fmt.Errorf("no block at index %d", i)
	}
	ent := &e.entries[i]

	var b block.Block
	var err error
	switch ent.blk.Type {
	case block.TypeParagraph, block.TypeMarker, block.TypeUnderline:
		b, err = block.New(ent.blk.Type, block.ParagraphData{Text: text})
	case block.TypeHeader:
		var d block.HeaderData
		if decErr := ent.blk.Decode(&d); decErr != nil {
			d.Level = 2
		}
		d.Text = text
		b, err = block.New(block.TypeHeader, d)
	default:
		e.mu.Unlock()
		return fmt.Errorf("block %d (%s) has no editable text field", i, ent.blk.Type)
	}
	if err != nil {
		e.mu.Unlock()
		return err
	}
	b.ID = ent.blk.ID
	ent.blk = b
	e.mu.Unlock()
	e.changed()
	return nil
}

// SetCodeLanguage switches the syntax mode of a code block.
func (e *Editor) SetCodeLanguage(i int, language string) error {
	e.mu.Lock()
	if i < 0 || i >= len(e.entries) || e.entries[i].code == nil {
		e.mu.Unlock()
		return fmt.Errorf("block %d is not an editable code block", i)
	}
	e.entries[i].code.SetLanguage(language)
	e.mu.Unlock()
	e.changed()
	return nil
}
