package session

import (
	"strings"

	"fieldnote/editor/internal/block"
)

// Title inference bounds. The block scan limit is a performance bound, not
// a content bound: scanning stops as soon as enough words are collected.
const (
	inferWordCount      = 3
	inferBlockScanMax   = 5
	untitledPrefix      = "New Entry"
	untitledPlaceholder = "untitled"
)

// InferTitle derives a candidate title from the earliest blocks: the first
// three whitespace-delimited words of the document's text, at most five
// blocks deep. Returns "" when no words are found.
func InferTitle(m block.Model) string {
	var words []string
	for i, b := range m.Blocks {
		if i >= inferBlockScanMax || len(words) >= inferWordCount {
			break
		}
		text := block.Text(b)
		if text == "" {
			continue
		}
		words = append(words, strings.Fields(text)...)
	}

	if len(words) == 0 {
		return ""
	}
	if len(words) > inferWordCount {
		words = words[:inferWordCount]
	}
	return strings.Join(words, " ")
}

// IsUntitled recognizes titles still in their machine-generated state: the
// store's "New Entry - <date>" default, a bare "Untitled", or blank.
func IsUntitled(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return true
	}
	if strings.EqualFold(title, untitledPlaceholder) {
		return true
	}
	return strings.HasPrefix(title, untitledPrefix)
}
