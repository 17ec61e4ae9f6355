package render

import (
	"strings"
	"testing"

	"fieldnote/editor/internal/block"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name     string
		model    block.Model
		expected string
	}{
		{
			name:     "empty model renders placeholder",
			model:    block.Model{},
			expected: "<p class=\"fn-empty\">No content</p>\n",
		},
		{
			name: "paragraph",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "Hello world"}),
			}},
			expected: "<p>Hello world</p>\n",
		},
		{
			name: "header level honored",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeHeader, block.HeaderData{Text: "Section", Level: 3}),
			}},
			expected: "<h3>Section</h3>\n",
		},
		{
			name: "header level out of range defaults",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeHeader, block.HeaderData{Text: "Odd", Level: 99}),
			}},
			expected: "<h2>Odd</h2>\n",
		},
		{
			name: "unordered list",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeList, block.ListData{Style: "unordered", Items: []string{"one", "two"}}),
			}},
			expected: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name: "ordered list",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeList, block.ListData{Style: "ordered", Items: []string{"a"}}),
			}},
			expected: "<ol>\n<li>a</li>\n</ol>\n",
		},
		{
			name: "checklist reflects checked state",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeChecklist, block.ChecklistData{Items: []block.ChecklistItem{
					{Text: "done", Checked: true},
					{Text: "todo"},
				}}),
			}},
			expected: "<ul class=\"fn-checklist\">\n<li><input type=\"checkbox\" disabled checked> <label>done</label></li>\n<li><input type=\"checkbox\" disabled> <label>todo</label></li>\n</ul>\n",
		},
		{
			name: "quote with caption",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeQuote, block.QuoteData{Text: "words", Caption: "author"}),
			}},
			expected: "<blockquote><p>words</p><cite>author</cite></blockquote>\n",
		},
		{
			name: "delimiter",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeDelimiter, struct{}{}),
			}},
			expected: "<hr>\n",
		},
		{
			name: "table first row header",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeTable, block.TableData{
					WithHeadings: true,
					Content:      [][]string{{"Name", "Age"}, {"Ada", "36"}},
				}),
			}},
			expected: "<table>\n<tr><th>Name</th><th>Age</th></tr>\n<tr><td>Ada</td><td>36</td></tr>\n</table>\n",
		},
		{
			name: "code escapes content and keeps whitespace",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeCode, block.CodeData{Code: "if a < b {\n\treturn\n}", Language: "go"}),
			}},
			expected: "<pre><code class=\"language-go\">if a &lt; b {\n\treturn\n}</code></pre>\n",
		},
		{
			name: "warning",
			model: block.Model{Blocks: []block.Block{
				block.MustNew(block.TypeWarning, block.WarningData{Title: "Heads up", Message: "wet paint"}),
			}},
			expected: "<div class=\"fn-warning\"><strong>Heads up</strong><p>wet paint</p></div>\n",
		},
		{
			name: "unknown type degrades to placeholder",
			model: block.Model{Blocks: []block.Block{
				{Type: "mermaid", Data: []byte(`{"diagram":"x"}`)},
			}},
			expected: "<div class=\"fn-unsupported\">Unsupported content: mermaid</div>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTML(tt.model); got != tt.expected {
				t.Errorf("HTML() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHTMLDeterministic(t *testing.T) {
	m := block.Model{Blocks: []block.Block{
		block.MustNew(block.TypeHeader, block.HeaderData{Text: "Title", Level: 1}),
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "Body <b>bold</b> &amp; more"}),
		{Type: "custom", Data: []byte(`{"x":1}`)},
	}}

	first := HTML(m)
	for i := 0; i < 5; i++ {
		if got := HTML(m); got != first {
			t.Fatalf("render not deterministic on pass %d", i)
		}
	}
}

func TestInlineFormattingPreserved(t *testing.T) {
	m := block.Model{Blocks: []block.Block{
		block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "keep <b>bold</b> drop <script>alert(1)</script>"}),
	}}

	got := HTML(m)
	if !strings.Contains(got, "<b>bold</b>") {
		t.Errorf("inline bold lost: %q", got)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("script tag not escaped: %q", got)
	}
}

func TestHTMLNeverPanicsOnMalformedPayload(t *testing.T) {
	m := block.Model{Blocks: []block.Block{
		{Type: block.TypeParagraph, Data: []byte(`{broken`)},
		{Type: block.TypeTable},
	}}

	got := HTML(m)
	if !strings.Contains(got, "fn-unsupported") {
		t.Errorf("malformed payloads should degrade to placeholders: %q", got)
	}
}
