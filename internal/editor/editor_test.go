package editor

import (
	"sync/atomic"
	"testing"

	"fieldnote/editor/internal/block"
	"fieldnote/editor/internal/codeedit"
)

func newTestEditor(t *testing.T, blocks ...block.Block) *Editor {
	t.Helper()
	e, err := New(block.Model{Version: "2.28.2", Blocks: blocks})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func TestTabInsideCodeDoesNotOpenMenu(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "intro"}),
		block.MustNew(block.TypeCode, block.CodeData{Code: "x = 1", Language: "python"}),
	)
	if err := e.FocusCode(1); err != nil {
		t.Fatalf("FocusCode failed: %v", err)
	}

	e.HandleKey(codeedit.Key{Code: codeedit.KeyTab})
	if e.MenuOpen() {
		t.Fatal("Tab inside the code sub-editor opened the block-insertion menu")
	}

	sub, _ := e.CodeEditor(1)
	if code, _ := sub.Value(); code != "  x = 1" {
		t.Errorf("Tab should have been applied inside the sub-editor: %q", code)
	}
}

func TestSlashInsideCodeDoesNotOpenMenu(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeCode, block.CodeData{Code: "", Language: "javascript"}),
	)
	if err := e.FocusCode(0); err != nil {
		t.Fatalf("FocusCode failed: %v", err)
	}

	e.HandleKey(codeedit.Key{Code: codeedit.KeyChar, Rune: '/'})
	if e.MenuOpen() {
		t.Fatal("'/' inside the code sub-editor opened the menu")
	}

	sub, _ := e.CodeEditor(0)
	if code, _ := sub.Value(); code != "/" {
		t.Errorf("'/' should be typed into the code buffer: %q", code)
	}
}

func TestHostShortcutsOpenMenu(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "intro"}),
	)

	e.HandleKey(codeedit.Key{Code: codeedit.KeyTab})
	if !e.MenuOpen() {
		t.Error("Tab at block level should open the menu")
	}

	e.HandleKey(codeedit.Key{Code: codeedit.KeyEscape})
	if e.MenuOpen() {
		t.Error("Escape should close the menu")
	}

	e.HandleKey(codeedit.Key{Code: codeedit.KeyChar, Rune: '/'})
	if !e.MenuOpen() {
		t.Error("'/' at block level should open the menu")
	}
}

func TestEscapeBlursCodeEditor(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeCode, block.CodeData{Code: "", Language: "go"}),
	)
	if err := e.FocusCode(0); err != nil {
		t.Fatalf("FocusCode failed: %v", err)
	}

	e.HandleKey(codeedit.Key{Code: codeedit.KeyEscape})

	// After the blur, Tab reaches the host layer again.
	e.HandleKey(codeedit.Key{Code: codeedit.KeyTab})
	if !e.MenuOpen() {
		t.Error("Tab after Escape should reach the host shortcut layer")
	}
}

func TestSaveFlushesCodeSubEditor(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeCode, block.CodeData{Code: "x = 1", Language: "python"}),
	)
	if err := e.FocusCode(0); err != nil {
		t.Fatalf("FocusCode failed: %v", err)
	}
	sub, _ := e.CodeEditor(0)
	sub.ToggleComment()

	m, err := e.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var d block.CodeData
	if err := m.Blocks[0].Decode(&d); err != nil {
		t.Fatalf("decode saved code block: %v", err)
	}
	if d.Code != "# x = 1" {
		t.Errorf("sub-editor state not flushed on save: %q", d.Code)
	}
	if d.Language != "python" {
		t.Errorf("language lost: %q", d.Language)
	}
}

func TestSaveReturnsIndependentCopy(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "before"}),
	)

	m, err := e.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := e.SetBlockText(0, "after"); err != nil {
		t.Fatalf("SetBlockText failed: %v", err)
	}

	var d block.ParagraphData
	if err := m.Blocks[0].Decode(&d); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if d.Text != "before" {
		t.Errorf("snapshot aliased live model: %q", d.Text)
	}
}

func TestSavePreservesUnknownBlocks(t *testing.T) {
	payload := `{"diagram":"graph TD; A-->B"}`
	e := newTestEditor(t,
		block.Block{Type: "mermaid", Data: []byte(payload)},
	)

	m, err := e.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.Blocks[0].Type != "mermaid" || string(m.Blocks[0].Data) != payload {
		t.Errorf("unknown block not preserved: %+v", m.Blocks[0])
	}
}

func TestOnChangeFires(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "a"}),
		block.MustNew(block.TypeCode, block.CodeData{Code: "", Language: "go"}),
	)

	var changes atomic.Int32
	e.OnChange(func() { changes.Add(1) })

	if err := e.SetBlockText(0, "b"); err != nil {
		t.Fatalf("SetBlockText failed: %v", err)
	}
	e.AppendBlock(block.MustNew(block.TypeDelimiter, struct{}{}))
	if err := e.RemoveBlock(2); err != nil {
		t.Fatalf("RemoveBlock failed: %v", err)
	}
	if err := e.FocusCode(1); err != nil {
		t.Fatalf("FocusCode failed: %v", err)
	}
	e.HandleKey(codeedit.Key{Code: codeedit.KeyChar, Rune: 'x'})

	if got := changes.Load(); got != 4 {
		t.Errorf("expected 4 change notifications, got %d", got)
	}
}

func TestStructuralEdits(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "first"}),
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "third"}),
	)

	if err := e.InsertBlockAt(1, block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "second"})); err != nil {
		t.Fatalf("InsertBlockAt failed: %v", err)
	}

	m, err := e.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	var texts []string
	for _, b := range m.Blocks {
		texts = append(texts, block.Text(b))
	}
	want := []string{"first", "second", "third"}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("block order wrong: %v", texts)
		}
	}
}

func TestFocusCodeOnNonCodeBlock(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "p"}),
	)
	if err := e.FocusCode(0); err == nil {
		t.Error("FocusCode on a paragraph should fail")
	}
}

func TestBlockIDs(t *testing.T) {
	e := newTestEditor(t,
		block.Block{ID: "blk_existing", Type: block.TypeParagraph, Data: []byte(`{"text":"kept"}`)},
	)
	e.AppendBlock(block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "fresh"}))

	m, err := e.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.Blocks[0].ID != "blk_existing" {
		t.Errorf("loaded block id = %q, want blk_existing", m.Blocks[0].ID)
	}
	if m.Blocks[1].ID == "" {
		t.Error("appended block was not assigned an id")
	}

	// Editing a block's text keeps its id.
	if err := e.SetBlockText(0, "rewritten"); err != nil {
		t.Fatalf("SetBlockText failed: %v", err)
	}
	m, err = e.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.Blocks[0].ID != "blk_existing" {
		t.Errorf("block id after text edit = %q, want blk_existing", m.Blocks[0].ID)
	}
}

func TestCodeNavigationDoesNotDirty(t *testing.T) {
	e := newTestEditor(t,
		block.MustNew(block.TypeCode, block.CodeData{Code: "x = 1\ny = 2", Language: "python"}),
	)
	if err := e.FocusCode(0); err != nil {
		t.Fatalf("FocusCode failed: %v", err)
	}

	var changes atomic.Int32
	e.OnChange(func() { changes.Add(1) })

	for _, code := range []string{
		codeedit.KeyArrowLeft, codeedit.KeyArrowRight,
		codeedit.KeyArrowUp, codeedit.KeyArrowDown,
		codeedit.KeyHome, codeedit.KeyEnd,
	} {
		e.HandleKey(codeedit.Key{Code: code})
	}
	if got := changes.Load(); got != 0 {
		t.Errorf("cursor movement fired %d change notifications, want 0", got)
	}

	e.HandleKey(codeedit.Key{Code: codeedit.KeyChar, Rune: '#'})
	if got := changes.Load(); got != 1 {
		t.Errorf("typing fired %d change notifications, want 1", got)
	}
}
