package html

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/kubev2v/vcenter-toolkit/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.Format {
	return types.FormatHTML
}

type templateData struct {
	Title     string
	Generated string
	Sections  []types.Section
}

func (r *Renderer) Render(doc *types.Document) ([]byte, error) {
	data := templateData{
		Title:     doc.Title,
		Generated: doc.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		Sections:  doc.Sections,
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 2em; color: #1c1e21; }
h1 { font-size: 1.5em; border-bottom: 2px solid #0066cc; padding-bottom: 0.3em; }
h2 { font-size: 1.1em; margin-top: 2em; color: #0066cc; }
p.generated { color: #606770; font-size: 0.85em; }
table { border-collapse: collapse; width: 100%; margin-top: 0.5em; }
th { background: #f0f2f5; text-align: left; }
th, td { border: 1px solid #d0d3d8; padding: 6px 10px; font-size: 0.9em; }
tr:nth-child(even) td { background: #fafbfc; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">Generated: {{.Generated}}</p>
{{range .Sections}}
<h2>{{.Title}}</h2>
<table>
{{if .Headers}}<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>{{end}}
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{end}}
</body>
</html>
`
