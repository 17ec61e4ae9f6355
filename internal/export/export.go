// Package export turns a stored document into a standalone artifact: a
// self-contained HTML page, or a PDF printed from it via headless Chrome.
package export

import (
	"context"
	"errors"
	"fmt"

	"fieldnote/editor/internal/gateway"
)

// Format is the export output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

var (
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies
	// are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
	// ErrUnsupportedFormat indicates an unknown export format was requested.
	ErrUnsupportedFormat = errors.New("export format unsupported")
)

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// Loader fetches document state from the store.
type Loader interface {
	Load(ctx context.Context, documentID string) (gateway.Document, error)
}

// Service provides document export.
type Service struct {
	store Loader
}

// NewService creates an export service backed by the given store.
func NewService(store Loader) *Service {
	return &Service{store: store}
}

// Export loads a document and produces it in the requested format.
func (s *Service) Export(ctx context.Context, documentID string, format Format) (*Result, error) {
	doc, err := s.store.Load(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return Render(doc, format)
}

// Render produces an export artifact from already-loaded document state.
func Render(doc gateway.Document, format Format) (*Result, error) {
	html, err := DocumentHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	switch format {
	case FormatHTML:
		return &Result{
			Data:     []byte(html),
			Filename: sanitizeFilename(doc.Title) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPDF:
		return exportPDF(html, doc.Title)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// sanitizeFilename creates a safe filename from a title.
func sanitizeFilename(title string) string {
	result := ""
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result += string(r)
		case r == ' ':
			result += "-"
		case r == '-', r == '_':
			result += string(r)
		default:
			// Skip other characters
		}
	}

	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "document"
	}
	return result
}
