// Package codeedit implements the editing surface embedded in a code block:
// a line-oriented text buffer with language modes, comment toggling,
// bracket auto-closing and line-wrap state. Every editing key is handled
// here and never reaches the hosting document editor's shortcut layer.
package codeedit

import (
	"errors"
	"strings"
)

// Position addresses a rune within the buffer.
type Position struct {
	Line int
	Col  int
}

// Editor is the state of one embedded code editing surface.
type Editor struct {
	lines    []string
	cursor   Position
	selStart int // first selected line, -1 when nothing is selected
	selEnd   int
	language Language
	lineWrap bool
	scroll   int
}

// New creates an editor seeded with the persisted code text. An unknown
// language key degrades to plaintext.
func New(code, language string) *Editor {
	lines := strings.Split(code, "\n")
	return &Editor{
		lines:    lines,
		language: ParseLanguage(language),
		selStart: -1,
		selEnd:   -1,
	}
}

// Value returns the save contract of the sub-editor: current code text and
// active language key. Code text is returned verbatim, whitespace included.
func (e *Editor) Value() (code string, language Language) {
	return strings.Join(e.lines, "\n"), e.language
}

// SetLanguage switches the syntax mode without touching the code text or
// invalidating the cursor.
func (e *Editor) SetLanguage(language string) {
	e.language = ParseLanguage(language)
}

// Language returns the active syntax mode.
func (e *Editor) Language() Language {
	return e.language
}

// Cursor returns the current cursor position.
func (e *Editor) Cursor() Position {
	return e.cursor
}

// LineWrap reports the soft-wrap state.
func (e *Editor) LineWrap() bool {
	return e.lineWrap
}

// ToggleLineWrap flips soft wrapping. Scroll position is preserved, only
// clamped if the buffer is shorter than the previous scroll offset.
func (e *Editor) ToggleLineWrap() bool {
	e.lineWrap = !e.lineWrap
	if e.scroll >= len(e.lines) {
		e.scroll = len(e.lines) - 1
	}
	if e.scroll < 0 {
		e.scroll = 0
	}
	return e.lineWrap
}

// Scroll returns the first visible line.
func (e *Editor) Scroll() int {
	return e.scroll
}

// SetScroll positions the viewport, clamping to the buffer.
func (e *Editor) SetScroll(line int) {
	if line < 0 {
		line = 0
	}
	if line >= len(e.lines) {
		line = len(e.lines) - 1
	}
	e.scroll = line
}

// SelectLines marks a whole-line selection for comment toggling and copy.
func (e *Editor) SelectLines(start, end int) {
	if start > end {
		start, end = end, start
	}
	e.selStart = clampLine(start, len(e.lines))
	e.selEnd = clampLine(end, len(e.lines))
}

// ClearSelection drops any line selection.
func (e *Editor) ClearSelection() {
	e.selStart, e.selEnd = -1, -1
}

// ToggleComment inserts or removes the language's single-line comment
// marker on the current line, or on every selected line. Toggling an
// untouched line twice restores it exactly.
func (e *Editor) ToggleComment() {
	start, end := e.cursor.Line, e.cursor.Line
	if e.selStart >= 0 {
		start, end = e.selStart, e.selEnd
	}

	marker := e.language.CommentMarker()

	// When any line in the range is uncommented, comment the whole range;
	// otherwise uncomment it.
	allCommented := true
	for i := start; i <= end && i < len(e.lines); i++ {
		if strings.TrimSpace(e.lines[i]) == "" {
			continue
		}
		if !strings.HasPrefix(strings.TrimLeft(e.lines[i], " \t"), marker) {
			allCommented = false
			break
		}
	}

	for i := start; i <= end && i < len(e.lines); i++ {
		if strings.TrimSpace(e.lines[i]) == "" {
			continue
		}
		if allCommented {
			e.lines[i] = uncommentLine(e.lines[i], marker)
		} else {
			e.lines[i] = commentLine(e.lines[i], marker)
		}
	}
	e.clampCursor()
}

func commentLine(line, marker string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return indent + marker + " " + line[len(indent):]
}

func uncommentLine(line, marker string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	rest := line[len(indent):]
	if !strings.HasPrefix(rest, marker) {
		return line
	}
	rest = rest[len(marker):]
	rest = strings.TrimPrefix(rest, " ")
	return indent + rest
}

// Clipboard is a destination for copied code text.
type Clipboard interface {
	WriteText(text string) error
}

// ErrCopyFailed is returned when both copy mechanisms fail.
var ErrCopyFailed = errors.New("copy to clipboard failed")

// Copy writes the current code text (or the selected lines) to the primary
// clipboard, falling back to the legacy mechanism if the first write fails.
// An error surfaces only when both mechanisms fail.
func (e *Editor) Copy(primary, fallback Clipboard) error {
	text, _ := e.Value()
	if e.selStart >= 0 {
		text = strings.Join(e.lines[e.selStart:e.selEnd+1], "\n")
	}

	if primary != nil {
		if err := primary.WriteText(text); err == nil {
			return nil
		}
	}
	if fallback != nil {
		if err := fallback.WriteText(text); err == nil {
			return nil
		}
	}
	return ErrCopyFailed
}

func (e *Editor) clampCursor() {
	e.cursor.Line = clampLine(e.cursor.Line, len(e.lines))
	lineLen := len([]rune(e.lines[e.cursor.Line]))
	if e.cursor.Col > lineLen {
		e.cursor.Col = lineLen
	}
	if e.cursor.Col < 0 {
		e.cursor.Col = 0
	}
}

func clampLine(line, count int) int {
	if line < 0 {
		return 0
	}
	if line >= count {
		return count - 1
	}
	return line
}
