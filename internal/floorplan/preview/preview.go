// Package preview renders a human readable HTML page for a stored room: an
// element summary, the plan image and the generic XML export.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/dimension"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/export"
	"github.com/codeyu/roomplan-2d-viewer/internal/floorplan/models"
)

// Page is the input of one preview.
type Page struct {
	Title     string
	Room      *models.RoomSnapshot
	PlanURL   string
	CreatedAt time.Time
	Labeler   dimension.Labeler
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; margin: 2rem auto; max-width: 960px; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #ccc; padding: 4px 12px; text-align: right; }
    img { max-width: 100%; border: 1px solid #eee; }
    pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; }
  </style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Render builds the HTML page.
func Render(p Page) (string, error) {
	if p.Room == nil {
		return "", fmt.Errorf("preview: room is nil")
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(p)), &body); err != nil {
		return "", fmt.Errorf("preview: convert markdown: %w", err)
	}

	title := p.Title
	if title == "" {
		title = "Captured room"
	}

	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())})
	if err != nil {
		return "", fmt.Errorf("preview: execute template: %w", err)
	}
	return out.String(), nil
}

// Markdown is the page source before conversion.
func Markdown(p Page) string {
	var md strings.Builder

	title := p.Title
	if title == "" {
		title = "Captured room"
	}
	md.WriteString("# " + escapeInline(title) + "\n\n")
	if !p.CreatedAt.IsZero() {
		md.WriteString("Captured " + p.CreatedAt.UTC().Format("2006-01-02 15:04") + " UTC\n\n")
	}

	counts := p.Room.Counts()
	md.WriteString("| Element | Count |\n|---|---:|\n")
	rows := []struct {
		name string
		n    int
	}{
		{"Walls", counts.Walls},
		{"Doors", counts.Doors},
		{"Windows", counts.Windows},
		{"Openings", counts.Openings},
		{"Floors", counts.Floors},
		{"Objects", counts.Objects},
	}
	for _, row := range rows {
		md.WriteString(fmt.Sprintf("| %s | %d |\n", row.name, row.n))
	}
	md.WriteString("\n")

	if len(p.Room.Walls) > 0 {
		md.WriteString("## Walls\n\n| # | Length | Height |\n|---:|---:|---:|\n")
		for i, w := range p.Room.Walls {
			md.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i, p.Labeler.Format(w.Dimensions.X), p.Labeler.Format(w.Dimensions.Y)))
		}
		md.WriteString("\n")
	}

	if p.PlanURL != "" {
		md.WriteString("## Plan\n\n![plan](" + p.PlanURL + ")\n\n")
	}

	md.WriteString("## XML\n\n```xml\n")
	md.WriteString(export.GenericXML(p.Room))
	md.WriteString("\n```\n")
	return md.String()
}

// escapeInline keeps user supplied names from turning into markup.
func escapeInline(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
		"<", "&lt;", ">", "&gt;", "#", `\#`, "|", `\|`, "\n", " ",
	)
	return r.Replace(s)
}
