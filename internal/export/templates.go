package export

import (
	"bytes"
	"html/template"
	"time"

	"fieldnote/editor/internal/gateway"
	"fieldnote/editor/internal/render"
)

var documentTemplate = template.Must(template.New("document").Parse(documentPage))

type templateData struct {
	Title       string
	Tags        []string
	ContentHTML template.HTML
	UpdatedAt   time.Time
}

// DocumentHTML renders a document into a standalone HTML page with the
// title, tags and rendered block content inlined.
func DocumentHTML(doc gateway.Document) (string, error) {
	data := templateData{
		Title:       doc.Title,
		ContentHTML: template.HTML(render.HTML(doc.Content)),
		UpdatedAt:   doc.UpdatedAt,
	}
	if data.Title == "" {
		data.Title = "Untitled"
	}
	for _, t := range doc.Tags {
		data.Tags = append(data.Tags, t.Name)
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const documentPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Georgia, serif; line-height: 1.6; max-width: 720px; margin: 2rem auto; color: #222; }
    h1.fn-title { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .fn-meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .fn-tag { background: #eef; border-radius: 3px; padding: 0.1rem 0.4rem; margin-right: 0.3rem; }
    pre { background: #f5f5f5; padding: 1rem; overflow-x: auto; }
    blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1rem; color: #555; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
    .fn-unsupported { color: #999; font-style: italic; }
    @media print { body { margin: 0; max-width: none; } }
  </style>
</head>
<body>
  <h1 class="fn-title">{{.Title}}</h1>
  <div class="fn-meta">
    {{- if not .UpdatedAt.IsZero}}{{.UpdatedAt.Format "Jan 2, 2006"}}{{end -}}
    {{- range .Tags}} <span class="fn-tag">{{.}}</span>{{end}}
  </div>
  <div class="fn-content">{{.ContentHTML}}</div>
</body>
</html>`
