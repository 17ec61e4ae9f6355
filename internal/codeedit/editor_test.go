package codeedit

import (
	"errors"
	"testing"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
	}{
		{"python", Python},
		{"go", Go},
		{"typescript", TypeScript},
		{"plaintext", Plaintext},
		{"brainfuck", Plaintext},
		{"", Plaintext},
		{"PYTHON", Plaintext},
	}
	for _, tt := range tests {
		if got := ParseLanguage(tt.input); got != tt.expected {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCommentMarkers(t *testing.T) {
	tests := []struct {
		lang     Language
		expected string
	}{
		{Python, "#"},
		{Bash, "#"},
		{Ruby, "#"},
		{YAML, "#"},
		{SQL, "--"},
		{JavaScript, "//"},
		{Go, "//"},
		{Plaintext, "//"},
		{Language("unmapped"), "//"},
	}
	for _, tt := range tests {
		if got := tt.lang.CommentMarker(); got != tt.expected {
			t.Errorf("%s marker = %q, want %q", tt.lang, got, tt.expected)
		}
	}
}

func TestToggleCommentInvolution(t *testing.T) {
	e := New("x = 1", "python")

	e.ToggleComment()
	if code, _ := e.Value(); code != "# x = 1" {
		t.Errorf("after comment: %q, want %q", code, "# x = 1")
	}

	e.ToggleComment()
	if code, _ := e.Value(); code != "x = 1" {
		t.Errorf("after uncomment: %q, want %q", code, "x = 1")
	}
}

func TestToggleCommentKeepsIndentation(t *testing.T) {
	e := New("    return nil", "go")

	e.ToggleComment()
	if code, _ := e.Value(); code != "    // return nil" {
		t.Errorf("after comment: %q", code)
	}

	e.ToggleComment()
	if code, _ := e.Value(); code != "    return nil" {
		t.Errorf("after uncomment: %q", code)
	}
}

func TestToggleCommentSelection(t *testing.T) {
	e := New("a = 1\n\nb = 2", "python")
	e.SelectLines(0, 2)

	e.ToggleComment()
	if code, _ := e.Value(); code != "# a = 1\n\n# b = 2" {
		t.Errorf("blank lines should be skipped: %q", code)
	}

	e.ToggleComment()
	if code, _ := e.Value(); code != "a = 1\n\nb = 2" {
		t.Errorf("range uncomment: %q", code)
	}
}

func TestToggleCommentMixedRangeComments(t *testing.T) {
	e := New("# a = 1\nb = 2", "python")
	e.SelectLines(0, 1)

	// One uncommented line in the range means the whole range gets commented.
	e.ToggleComment()
	if code, _ := e.Value(); code != "# # a = 1\n# b = 2" {
		t.Errorf("mixed range: %q", code)
	}
}

func TestSetLanguageKeepsCodeAndCursor(t *testing.T) {
	e := New("select 1;", "sql")
	e.HandleKey(Key{Code: KeyEnd})
	before := e.Cursor()

	e.SetLanguage("python")
	if code, lang := e.Value(); code != "select 1;" || lang != Python {
		t.Errorf("SetLanguage altered state: code=%q lang=%q", code, lang)
	}
	if e.Cursor() != before {
		t.Errorf("cursor moved on language switch: %v -> %v", before, e.Cursor())
	}
}

func TestValuePreservesWhitespace(t *testing.T) {
	code := "def f():\n\treturn  'two  spaces'\n\n"
	e := New(code, "python")
	if got, _ := e.Value(); got != code {
		t.Errorf("whitespace mangled: %q", got)
	}
}

func TestToggleLineWrapPreservesScroll(t *testing.T) {
	e := New("a\nb\nc\nd\ne\nf\ng", "plaintext")
	e.SetScroll(4)

	if !e.ToggleLineWrap() {
		t.Error("first toggle should enable wrap")
	}
	if e.Scroll() != 4 {
		t.Errorf("scroll lost on wrap toggle: %d", e.Scroll())
	}
	if e.ToggleLineWrap() {
		t.Error("second toggle should disable wrap")
	}
	if e.Scroll() != 4 {
		t.Errorf("scroll lost on second toggle: %d", e.Scroll())
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestCopyPrimary(t *testing.T) {
	e := New("hello", "plaintext")
	primary := &fakeClipboard{}
	fallback := &fakeClipboard{}

	if err := e.Copy(primary, fallback); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if primary.text != "hello" {
		t.Errorf("primary clipboard got %q", primary.text)
	}
	if fallback.text != "" {
		t.Error("fallback used although primary succeeded")
	}
}

func TestCopyFallsBack(t *testing.T) {
	e := New("hello", "plaintext")
	primary := &fakeClipboard{err: errors.New("denied")}
	fallback := &fakeClipboard{}

	if err := e.Copy(primary, fallback); err != nil {
		t.Fatalf("Copy should succeed via fallback: %v", err)
	}
	if fallback.text != "hello" {
		t.Errorf("fallback clipboard got %q", fallback.text)
	}
}

func TestCopyBothFail(t *testing.T) {
	e := New("hello", "plaintext")
	primary := &fakeClipboard{err: errors.New("denied")}
	fallback := &fakeClipboard{err: errors.New("also denied")}

	if err := e.Copy(primary, fallback); !errors.Is(err, ErrCopyFailed) {
		t.Errorf("expected ErrCopyFailed, got %v", err)
	}
}

func TestCopySelection(t *testing.T) {
	e := New("one\ntwo\nthree", "plaintext")
	e.SelectLines(1, 2)
	clip := &fakeClipboard{}

	if err := e.Copy(clip, nil); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if clip.text != "two\nthree" {
		t.Errorf("selection copy got %q", clip.text)
	}
}
