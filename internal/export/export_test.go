package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fieldnote/editor/internal/block"
	"fieldnote/editor/internal/gateway"
)

type fakeLoader struct {
	loadFunc func(documentID string) (gateway.Document, error)
}

func (f *fakeLoader) Load(_ context.Context, documentID string) (gateway.Document, error) {
	return f.loadFunc(documentID)
}

func sampleDocument() gateway.Document {
	return gateway.Document{
		ID:    "doc-1",
		Title: "Field notes & observations",
		Content: block.Model{Blocks: []block.Block{
			block.MustNew(block.TypeHeader, block.HeaderData{Text: "Morning", Level: 2}),
			block.MustNew(block.TypeParagraph, block.ParagraphData{Text: "Fog on the ridge."}),
			block.MustNew(block.TypeCode, block.CodeData{Code: "x = 1", Language: "python"}),
		}},
		Tags:      []gateway.Tag{{Name: "weather"}, {Name: "hiking"}},
		UpdatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestDocumentHTML(t *testing.T) {
	html, err := DocumentHTML(sampleDocument())
	if err != nil {
		t.Fatalf("DocumentHTML: %v", err)
	}

	for _, want := range []string{
		"<title>Field notes &amp; observations</title>",
		`<h1 class="fn-title">Field notes &amp; observations</h1>`,
		"<h2>Morning</h2>",
		"<p>Fog on the ridge.</p>",
		`<code class="language-python">`,
		`<span class="fn-tag">weather</span>`,
		"Aug 30, 2026",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestDocumentHTMLUntitled(t *testing.T) {
	html, err := DocumentHTML(gateway.Document{ID: "doc-1"})
	if err != nil {
		t.Fatalf("DocumentHTML: %v", err)
	}
	if !strings.Contains(html, "<title>Untitled</title>") {
		t.Error("empty title not replaced with placeholder")
	}
}

func TestRenderHTMLFormat(t *testing.T) {
	res, err := Render(sampleDocument(), FormatHTML)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Filename != "Field-notes--observations.html" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if res.MimeType != "text/html; charset=utf-8" {
		t.Errorf("MimeType = %q", res.MimeType)
	}
	if !strings.Contains(string(res.Data), "Fog on the ridge.") {
		t.Error("result data missing rendered content")
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := Render(sampleDocument(), Format("docx"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestServiceLoadFailure(t *testing.T) {
	loadErr := errors.New("not found")
	s := NewService(&fakeLoader{loadFunc: func(string) (gateway.Document, error) {
		return gateway.Document{}, loadErr
	}})

	_, err := s.Export(context.Background(), "missing", FormatHTML)
	if !errors.Is(err, loadErr) {
		t.Fatalf("err = %v, want wrapped load error", err)
	}
}

func TestServiceExportHTML(t *testing.T) {
	s := NewService(&fakeLoader{loadFunc: func(id string) (gateway.Document, error) {
		doc := sampleDocument()
		doc.ID = id
		return doc, nil
	}})

	res, err := s.Export(context.Background(), "doc-1", FormatHTML)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasSuffix(res.Filename, ".html") {
		t.Errorf("Filename = %q", res.Filename)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Field notes", "Field-notes"},
		{"a/b\\c:d", "abcd"},
		{"", "document"},
		{"___", "___"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDataURL(t *testing.T) {
	got := dataURL("<p>a b</p>")
	if !strings.HasPrefix(got, "data:text/html;charset=utf-8,") {
		t.Fatalf("missing data URL prefix: %q", got)
	}
	if strings.ContainsAny(got[len("data:text/html;charset=utf-8,"):], " +<>") {
		t.Errorf("unencoded characters in %q", got)
	}
	if !strings.Contains(got, "%20") {
		t.Errorf("space not encoded as %%20: %q", got)
	}
	if enc := dataURL("é"); !strings.Contains(enc, "%C3%A9") {
		t.Errorf("multibyte rune encoded as %q", enc)
	}
}
