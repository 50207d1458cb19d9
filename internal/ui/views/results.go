package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grephl/internal/domain"
	"grephl/internal/highlight"
)

// ResultsView is what the result screen needs to draw itself
type ResultsView struct {
	Title       string
	Lines       []domain.RenderedLine
	Cursor      int
	Offset      int
	Height      int
	Width       int
	Wrap        bool
	TrimActive  bool
	LineNumbers bool
	FontScale   int
	Selected    int
}

// HeaderRows is the number of screen rows above the first result line
const HeaderRows = 2

// RenderResults draws the result lines starting at v.Offset. The second
// return value maps each drawn screen row, counted from the first result
// row, to the index of the line drawn on it.
func (r *Renderer) RenderResults(v ResultsView) (string, []int) {
	var b strings.Builder
	s := r.styles

	mode := s.Dim.Render("trim off")
	if v.TrimActive {
		mode = s.Trim.Render(fmt.Sprintf("trim on, %d selected", v.Selected))
	}
	wrap := "nowrap"
	if v.Wrap {
		wrap = "wrap"
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
		s.Title.Render(v.Title),
		s.Label.Render(fmt.Sprintf("%d lines", len(v.Lines))),
		mode,
		s.Dim.Render(fmt.Sprintf("%s, %dpx", wrap, v.FontScale))))
	b.WriteString("\n")

	gutterWidth := 0
	if v.LineNumbers && len(v.Lines) > 0 {
		gutterWidth = len(strconv.Itoa(v.Lines[len(v.Lines)-1].Number))
	}

	var rows []int
	for i := v.Offset; i < len(v.Lines); i++ {
		if v.Height > 0 && len(rows) >= v.Height {
			break
		}
		rendered := r.resultLine(v, i, gutterWidth)
		for _, row := range strings.Split(rendered, "\n") {
			if v.Height > 0 && len(rows) >= v.Height {
				break
			}
			b.WriteString(row)
			b.WriteString("\n")
			rows = append(rows, i)
		}
	}
	return b.String(), rows
}

func (r *Renderer) resultLine(v ResultsView, i, gutterWidth int) string {
	s := r.styles
	line := v.Lines[i]

	prefix := "  "
	if i == v.Cursor {
		prefix = s.Focus.Render("> ")
	}
	if v.TrimActive {
		if line.Selected {
			prefix += s.Selected.Render("[x] ")
		} else {
			prefix += s.Dim.Render("[ ] ")
		}
	}
	if gutterWidth > 0 {
		prefix += s.Gutter.Render(fmt.Sprintf("%*d ", gutterWidth, line.Number))
	}

	content := highlight.ANSI(line.Segments)
	avail := v.Width - lipgloss.Width(prefix)
	if avail > 0 {
		if v.Wrap {
			content = lipgloss.NewStyle().Width(avail).Render(content)
		} else {
			content = lipgloss.NewStyle().MaxWidth(avail).Render(content)
		}
	}
	if i == v.Cursor {
		content = s.Cursor.Render(content)
	}

	indent := strings.Repeat(" ", lipgloss.Width(prefix))
	parts := strings.Split(content, "\n")
	for k := 1; k < len(parts); k++ {
		parts[k] = indent + parts[k]
	}
	return prefix + strings.Join(parts, "\n")
}

// PlainResults renders lines for the pager, one row per line
func PlainResults(lines []domain.RenderedLine, lineNumbers bool) string {
	gutterWidth := 0
	if lineNumbers && len(lines) > 0 {
		gutterWidth = len(strconv.Itoa(lines[len(lines)-1].Number))
	}

	var b strings.Builder
	for _, l := range lines {
		if gutterWidth > 0 {
			b.WriteString(fmt.Sprintf("%*d ", gutterWidth, l.Number))
		}
		b.WriteString(highlight.ANSI(l.Segments))
		b.WriteString("\n")
	}
	return b.String()
}
