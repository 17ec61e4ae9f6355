package block

import (
	"html"
	"strings"
	"unicode/utf8"
)

// Text extracts the plain text of a single block using a per-type rule.
// Markup tags are stripped and whitespace entities normalized. Types with
// no human-readable text (code, raw, delimiter) yield the empty string.
func Text(b Block) string {
	switch b.Type {
	case TypeParagraph, TypeMarker, TypeUnderline:
		var d ParagraphData
		if b.Decode(&d) != nil {
			return ""
		}
		return cleanText(d.Text)
	case TypeHeader:
		var d HeaderData
		if b.Decode(&d) != nil {
			return ""
		}
		return cleanText(d.Text)
	case TypeList:
		var d ListData
		if b.Decode(&d) != nil {
			return ""
		}
		return joinClean(d.Items)
	case TypeChecklist:
		var d ChecklistData
		if b.Decode(&d) != nil {
			return ""
		}
		items := make([]string, 0, len(d.Items))
		for _, item := range d.Items {
			items = append(items, item.Text)
		}
		return joinClean(items)
	case TypeQuote:
		var d QuoteData
		if b.Decode(&d) != nil {
			return ""
		}
		return strings.TrimSpace(cleanText(d.Text) + " " + cleanText(d.Caption))
	case TypeTable:
		var d TableData
		if b.Decode(&d) != nil {
			return ""
		}
		var cells []string
		for _, row := range d.Content {
			cells = append(cells, row...)
		}
		return joinClean(cells)
	case TypeLink:
		var d LinkData
		if b.Decode(&d) != nil {
			return ""
		}
		return cleanText(d.Meta.Title)
	case TypeWarning:
		var d WarningData
		if b.Decode(&d) != nil {
			return ""
		}
		return strings.TrimSpace(cleanText(d.Title) + " " + cleanText(d.Message))
	default:
		return ""
	}
}

// Preview returns the first maxLen runes of the model's text content, as
// shown on the entry list and in search results.
func Preview(m Model, maxLen int) string {
	var parts []string
	collected := 0
	for _, b := range m.Blocks {
		if text := Text(b); text != "" {
			parts = append(parts, text)
			collected += utf8.RuneCountInString(text) + 1
		}
		if collected > maxLen {
			break
		}
	}
	preview := strings.Join(parts, " ")
	runes := []rune(preview)
	if len(runes) <= maxLen {
		return preview
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "…"
}

func joinClean(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if c := cleanText(item); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.Join(cleaned, " ")
}

// cleanText strips markup tags, decodes entities and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(unescape(stripTags(s))), " ")
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(s string) string {
	s = html.UnescapeString(s)
	// Non-breaking spaces count as plain whitespace for tokenization.
	return strings.ReplaceAll(s, " ", " ")
}
