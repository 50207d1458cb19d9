package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status is the one-line message under the main content
type Status struct {
	Text  string
	Error bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the renderer styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Frame puts body, status and help together
func (r *Renderer) Frame(body string, status Status, help string) string {
	var b strings.Builder
	b.WriteString(body)

	if status.Text != "" {
		style := r.styles.StatusSuccess
		if status.Error {
			style = r.styles.StatusError
		}
		b.WriteString(r.styles.Status.Render(style.Render(status.Text)))
		b.WriteString("\n")
	}
	if help != "" {
		b.WriteString(r.styles.Help.Render(help))
	}
	return r.styles.Main.Render(b.String())
}

// RenderPrompt draws a boxed prompt such as a confirmation or the import field
func (r *Renderer) RenderPrompt(title, body string, width int) string {
	box := r.styles.Box
	if width > 8 {
		box = box.MaxWidth(width - 4)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, r.styles.Title.Render(title), "", body)
	return box.Render(content) + "\n"
}
