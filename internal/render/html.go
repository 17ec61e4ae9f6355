// Package render turns a block model into display HTML. Rendering is pure
// and deterministic: the same model always yields the same markup, and no
// block type — known or not — can make it fail.
package render

import (
	"fmt"
	"html"
	"strings"

	"fieldnote/editor/internal/block"
)

// HTML renders the model's blocks in document order. An empty model renders
// a single "no content" placeholder; an unrecognized block type renders a
// visible placeholder carrying the tag name instead of being dropped.
func HTML(m block.Model) string {
	if m.Empty() {
		return "<p class=\"fn-empty\">No content</p>\n"
	}

	var out strings.Builder
	for _, b := range m.Blocks {
		out.WriteString(renderBlock(b))
	}
	return out.String()
}

func renderBlock(b block.Block) string {
	switch b.Type {
	case block.TypeParagraph:
		var d block.ParagraphData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		return fmt.Sprintf("<p>%s</p>\n", inline(d.Text))
	case block.TypeHeader:
		var d block.HeaderData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		level := d.Level
		if level < 1 || level > 6 {
			level = 2
		}
		return fmt.Sprintf("<h%d>%s</h%d>\n", level, inline(d.Text), level)
	case block.TypeList:
		var d block.ListData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		tag := "ul"
		if d.Style == "ordered" {
			tag = "ol"
		}
		var items strings.Builder
		for _, item := range d.Items {
			items.WriteString(fmt.Sprintf("<li>%s</li>\n", inline(item)))
		}
		return fmt.Sprintf("<%s>\n%s</%s>\n", tag, items.String(), tag)
	case block.TypeChecklist:
		var d block.ChecklistData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		var items strings.Builder
		for _, item := range d.Items {
			checked := ""
			if item.Checked {
				checked = " checked"
			}
			items.WriteString(fmt.Sprintf("<li><input type=\"checkbox\" disabled%s> <label>%s</label></li>\n", checked, inline(item.Text)))
		}
		return fmt.Sprintf("<ul class=\"fn-checklist\">\n%s</ul>\n", items.String())
	case block.TypeQuote:
		var d block.QuoteData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		if d.Caption == "" {
			return fmt.Sprintf("<blockquote><p>%s</p></blockquote>\n", inline(d.Text))
		}
		return fmt.Sprintf("<blockquote><p>%s</p><cite>%s</cite></blockquote>\n", inline(d.Text), inline(d.Caption))
	case block.TypeDelimiter:
		return "<hr>\n"
	case block.TypeTable:
		var d block.TableData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		return renderTable(d)
	case block.TypeLink:
		var d block.LinkData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		label := d.Meta.Title
		if label == "" {
			label = d.Link
		}
		return fmt.Sprintf("<p class=\"fn-link\"><a href=\"%s\">%s</a></p>\n", html.EscapeString(d.Link), inline(label))
	case block.TypeRaw:
		var d block.RawData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		// Raw blocks carry author-supplied HTML by contract.
		return d.HTML + "\n"
	case block.TypeCode:
		var d block.CodeData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		lang := html.EscapeString(d.Language)
		return fmt.Sprintf("<pre><code class=\"language-%s\">%s</code></pre>\n", lang, html.EscapeString(d.Code))
	case block.TypeWarning:
		var d block.WarningData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		return fmt.Sprintf("<div class=\"fn-warning\"><strong>%s</strong><p>%s</p></div>\n", inline(d.Title), inline(d.Message))
	case block.TypeMarker:
		var d block.ParagraphData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		return fmt.Sprintf("<p><mark>%s</mark></p>\n", inline(d.Text))
	case block.TypeUnderline:
		var d block.ParagraphData
		if b.Decode(&d) != nil {
			return unsupported(b.Type)
		}
		return fmt.Sprintf("<p><u>%s</u></p>\n", inline(d.Text))
	default:
		return unsupported(b.Type)
	}
}

func renderTable(d block.TableData) string {
	var out strings.Builder
	out.WriteString("<table>\n")
	for i, row := range d.Content {
		cell := "td"
		if d.WithHeadings && i == 0 {
			cell = "th"
		}
		out.WriteString("<tr>")
		for _, col := range row {
			out.WriteString(fmt.Sprintf("<%s>%s</%s>", cell, inline(col), cell))
		}
		out.WriteString("</tr>\n")
	}
	out.WriteString("</table>\n")
	return out.String()
}

func unsupported(blockType string) string {
	return fmt.Sprintf("<div class=\"fn-unsupported\">Unsupported content: %s</div>\n", html.EscapeString(blockType))
}

// inline escapes payload text while keeping the small set of inline
// formatting tags the editor itself produces.
func inline(s string) string {
	escaped := html.EscapeString(s)
	for _, tag := range []string{"b", "i", "u", "s", "code", "mark"} {
		escaped = strings.ReplaceAll(escaped, "&lt;"+tag+"&gt;", "<"+tag+">")
		escaped = strings.ReplaceAll(escaped, "&lt;/"+tag+"&gt;", "</"+tag+">")
	}
	return escaped
}
