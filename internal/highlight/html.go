package highlight

import (
	"fmt"
	"html/template"
	"io"

	"grephl/internal/domain"
)

// Font scale bounds shared with the result view
const (
	MinFontScale     = 10
	MaxFontScale     = 40
	DefaultFontScale = 14
	FontScaleStep    = 2
)

// HTMLPage describes a standalone results page
type HTMLPage struct {
	Title     string
	Lines     []domain.RenderedLine
	FontScale int
	Wrap      bool
}

type htmlSegment struct {
	Text  string
	Style template.CSS
}

type htmlLine struct {
	Number   int
	Segments []htmlSegment
}

var pageTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; padding: 10px; }
pre { white-space: {{if .Wrap}}pre-wrap{{else}}pre{{end}}; word-wrap: break-word; font-size: {{.FontScale}}px; }
.ln { color: #888; user-select: none; }
button { margin: 2px; padding: 2px; font-size: 14px; }
</style>
</head>
<body>
<button onclick="resizeText({{.Step}})">Zoom In</button>
<button onclick="resizeText(-{{.Step}})">Zoom Out</button>
<pre id="text">{{range .Lines}}<span class="ln">{{printf "%8d" .Number}}: </span>{{range .Segments}}{{if .Style}}<span style="{{.Style}}">{{.Text}}</span>{{else}}{{.Text}}{{end}}{{end}}
{{end}}</pre>
<script>
function resizeText(step) {
  const el = document.getElementById('text');
  let size = parseFloat(window.getComputedStyle(el).fontSize) + step;
  if (size < {{.Min}}) size = {{.Min}};
  if (size > {{.Max}}) size = {{.Max}};
  el.style.fontSize = size + 'px';
}
</script>
</body>
</html>
`))

// WriteHTML renders a results page. Line text is escaped by the template;
// colors that don't resolve to a hex value are dropped.
func WriteHTML(w io.Writer, page HTMLPage) error {
	scale := page.FontScale
	if scale == 0 {
		scale = DefaultFontScale
	}
	scale = clamp(scale, MinFontScale, MaxFontScale)

	lines := make([]htmlLine, len(page.Lines))
	for i, l := range page.Lines {
		hl := htmlLine{Number: l.Number}
		for _, s := range l.Segments {
			seg := htmlSegment{Text: s.Text}
			if hex, ok := ToHex(s.Color); ok {
				seg.Style = template.CSS(fmt.Sprintf("background-color: %s; font-weight: bold;", hex))
			}
			hl.Segments = append(hl.Segments, seg)
		}
		lines[i] = hl
	}

	title := page.Title
	if title == "" {
		title = "Grep Results"
	}

	return pageTemplate.Execute(w, map[string]any{
		"Title":     title,
		"Lines":     lines,
		"FontScale": scale,
		"Wrap":      page.Wrap,
		"Step":      FontScaleStep,
		"Min":       MinFontScale,
		"Max":       MaxFontScale,
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
