package html

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

const page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.cell { margin-bottom: 1.5em; }
pre { background: #f7f7f7; padding: .5em; overflow-x: auto; white-space: pre-wrap; }
pre.input { border-left: 3px solid #4a90d9; }
pre.stderr, pre.error { background: #fdd; }
.prompt { color: #888; font-size: .8em; }
</style>
</head>
<body>
{{- range .Cells}}
<div class="cell {{.Type}}">
{{- if eq .Type "code"}}
<div class="prompt">In [{{.Count}}]:</div>
<pre class="input">{{.Source}}</pre>
{{- range .Outputs}}
{{- if .HTML}}
<div class="output html">{{.HTML}}</div>
{{- else if .Image}}
<div class="output image"><img src="{{.Image}}"></div>
{{- else}}
<pre class="output {{.Class}}">{{.Text}}</pre>
{{- end}}
{{- end}}
{{- else}}
<pre class="{{.Type}}">{{.Source}}</pre>
{{- end}}
</div>
{{- end}}
</body>
</html>
`

type cellView struct {
	Type    string
	Count   string
	Source  string
	Outputs []outputView
}

type outputView struct {
	Class string
	Text  string
	HTML  template.HTML
	Image template.URL
}

type pageView struct {
	Title string
	Cells []cellView
}

// Renderer turns executed notebooks into a standalone HTML page.
type Renderer struct {
	tmpl *template.Template
}

var _ ports.Renderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("notebook").Parse(page))}
}

func (r *Renderer) ToHTML(nb *domain.Notebook) (string, error) {
	if nb == nil {
		return "", errors.New("notebook is required")
	}

	view := pageView{Title: title(nb)}
	for _, cell := range nb.Cells {
		view.Cells = append(view.Cells, toCellView(cell))
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render notebook html: %w", err)
	}
	return buf.String(), nil
}

func toCellView(cell *domain.Cell) cellView {
	view := cellView{Type: cell.CellType, Source: cell.Source, Count: " "}
	if cell.CellType != domain.CellTypeCode {
		return view
	}

	if count, ok := cell.ExecutionCount(); ok {
		view.Count = fmt.Sprint(count)
	}
	for _, output := range cell.Outputs {
		view.Outputs = append(view.Outputs, toOutputView(output))
	}
	return view
}

func toOutputView(output domain.Output) outputView {
	switch output.OutputType {
	case domain.OutputStream:
		return outputView{Class: output.Name, Text: output.Text}
	case domain.OutputError:
		text := output.PlainText()
		if len(output.Traceback) > 0 {
			text = ansiEscape.ReplaceAllString(strings.Join(output.Traceback, "\n"), "")
		}
		return outputView{Class: "error", Text: text}
	default:
		// Rich html is trusted the same way notebook viewers trust it.
		if markup, ok := domain.MimeText(output.Data, "text/html"); ok {
			return outputView{HTML: template.HTML(markup)}
		}
		if png, ok := domain.MimeText(output.Data, "image/png"); ok {
			return outputView{Image: template.URL("data:image/png;base64," + strings.TrimSpace(png))}
		}
		return outputView{Class: "text", Text: output.PlainText()}
	}
}

func title(nb *domain.Notebook) string {
	if papermill := nb.Metadata["papermill"]; papermill != nil {
		if section, ok := papermill.(map[string]any); ok {
			if input, ok := section["input_path"].(string); ok && input != "" {
				return input
			}
		}
	}
	return "Notebook"
}
