package codeedit

import "strings"

// Key codes the sub-editor understands. Printable input uses KeyChar with
// the rune set.
const (
	KeyChar       = "Char"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyTab        = "Tab"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
)

// Key is one keyboard event delivered to the sub-editor.
type Key struct {
	Code string
	Rune rune
}

const tabSpaces = "  "

var closers = map[rune]rune{'(': ')', '[': ']', '{': '}', '"': '"', '\'': '\'', '`': '`'}

// HandleKey applies a keyboard event to the buffer. consumed reports
// whether the event was taken by the sub-editor; mutated whether the
// buffer's text actually changed. Every editing key is consumed so it can
// never reach the host editor's shortcut layer (which owns "/" and Tab for
// its block-insertion menu), but cursor movement consumes without
// mutating. Only keys the sub-editor does not own, such as Escape,
// propagate.
func (e *Editor) HandleKey(k Key) (consumed, mutated bool) {
	switch k.Code {
	case KeyChar:
		return true, e.insertRune(k.Rune)
	case KeyArrowLeft:
		e.moveLeft()
		return true, false
	case KeyArrowRight:
		e.moveRight()
		return true, false
	case KeyArrowUp:
		if e.cursor.Line > 0 {
			e.cursor.Line--
		}
		e.clampCursor()
		return true, false
	case KeyArrowDown:
		if e.cursor.Line < len(e.lines)-1 {
			e.cursor.Line++
		}
		e.clampCursor()
		return true, false
	case KeyBackspace:
		return true, e.backspace()
	case KeyDelete:
		return true, e.deleteForward()
	case KeyHome:
		e.cursor.Col = 0
		return true, false
	case KeyEnd:
		e.cursor.Col = len([]rune(e.lines[e.cursor.Line]))
		return true, false
	case KeyTab:
		for _, r := range tabSpaces {
			e.insertPlain(r)
		}
		return true, true
	case KeyEnter:
		e.splitLine()
		return true, true
	default:
		return false, false
	}
}

// insertRune types one printable rune, applying bracket/quote auto-closing:
// an opener inserts its pair with the cursor in between, and typing a closer
// that is already the next character skips over it (a cursor move, not a
// buffer change).
func (e *Editor) insertRune(r rune) bool {
	line := []rune(e.lines[e.cursor.Line])

	// Skip over an auto-closed character instead of doubling it.
	if isCloser(r) && e.cursor.Col < len(line) && line[e.cursor.Col] == r {
		e.cursor.Col++
		return false
	}

	if closer, ok := closers[r]; ok {
		rest := append([]rune{r, closer}, line[e.cursor.Col:]...)
		e.lines[e.cursor.Line] = string(append(line[:e.cursor.Col:e.cursor.Col], rest...))
		e.cursor.Col++
		return true
	}

	e.insertPlain(r)
	return true
}

func (e *Editor) insertPlain(r rune) {
	line := []rune(e.lines[e.cursor.Line])
	rest := append([]rune{r}, line[e.cursor.Col:]...)
	e.lines[e.cursor.Line] = string(append(line[:e.cursor.Col:e.cursor.Col], rest...))
	e.cursor.Col++
}

func (e *Editor) moveLeft() {
	if e.cursor.Col > 0 {
		e.cursor.Col--
		return
	}
	if e.cursor.Line > 0 {
		e.cursor.Line--
		e.cursor.Col = len([]rune(e.lines[e.cursor.Line]))
	}
}

func (e *Editor) moveRight() {
	if e.cursor.Col < len([]rune(e.lines[e.cursor.Line])) {
		e.cursor.Col++
		return
	}
	if e.cursor.Line < len(e.lines)-1 {
		e.cursor.Line++
		e.cursor.Col = 0
	}
}

func (e *Editor) backspace() bool {
	if e.cursor.Col > 0 {
		line := []rune(e.lines[e.cursor.Line])

		// Removing an opener directly before its auto-closed pair removes both.
		if closer, ok := closers[line[e.cursor.Col-1]]; ok &&
			e.cursor.Col < len(line) && line[e.cursor.Col] == closer {
			e.lines[e.cursor.Line] = string(append(line[:e.cursor.Col-1:e.cursor.Col-1], line[e.cursor.Col+1:]...))
			e.cursor.Col--
			return true
		}

		e.lines[e.cursor.Line] = string(append(line[:e.cursor.Col-1:e.cursor.Col-1], line[e.cursor.Col:]...))
		e.cursor.Col--
		return true
	}
	if e.cursor.Line > 0 {
		prev := e.lines[e.cursor.Line-1]
		e.cursor.Col = len([]rune(prev))
		e.lines[e.cursor.Line-1] = prev + e.lines[e.cursor.Line]
		e.lines = append(e.lines[:e.cursor.Line], e.lines[e.cursor.Line+1:]...)
		e.cursor.Line--
		return true
	}
	return false
}

func (e *Editor) deleteForward() bool {
	line := []rune(e.lines[e.cursor.Line])
	if e.cursor.Col < len(line) {
		e.lines[e.cursor.Line] = string(append(line[:e.cursor.Col:e.cursor.Col], line[e.cursor.Col+1:]...))
		return true
	}
	if e.cursor.Line < len(e.lines)-1 {
		e.lines[e.cursor.Line] = string(line) + e.lines[e.cursor.Line+1]
		e.lines = append(e.lines[:e.cursor.Line+1], e.lines[e.cursor.Line+2:]...)
		return true
	}
	return false
}

// splitLine breaks the current line at the cursor, carrying the leading
// whitespace of the current line onto the new one.
func (e *Editor) splitLine() {
	line := []rune(e.lines[e.cursor.Line])
	head := string(line[:e.cursor.Col])
	tail := string(line[e.cursor.Col:])

	indent := head[:len(head)-len(strings.TrimLeft(head, " \t"))]

	e.lines[e.cursor.Line] = head
	e.lines = append(e.lines[:e.cursor.Line+1],
		append([]string{indent + tail}, e.lines[e.cursor.Line+1:]...)...)
	e.cursor.Line++
	e.cursor.Col = len([]rune(indent))
}

func isCloser(r rune) bool {
	for _, c := range closers {
		if c == r {
			return true
		}
	}
	return false
}
