package views

import (
	"fmt"
	"strings"

	"grephl/internal/domain"
	"grephl/internal/highlight"
	"grephl/internal/panel"
)

// PanelView is what the editing panel needs to draw itself
type PanelView struct {
	Terms      []string
	Highlights []domain.HighlightSpec
	Name       string
	Settings   []string
	Selected   string
	Labels     panel.Labels
	Focus      int
	Editing    bool
	EditView   string
}

// Focusable rows are laid out terms first, then highlights, the name field
// and the settings list.
func (v PanelView) NameRow() int     { return len(v.Terms) + len(v.Highlights) }
func (v PanelView) SettingsRow() int { return v.NameRow() + 1 }
func (v PanelView) Rows() int        { return v.SettingsRow() + 1 }

// RenderPanel draws the grep and highlight editor
func (r *Renderer) RenderPanel(v PanelView) string {
	var b strings.Builder
	s := r.styles

	b.WriteString(s.Title.Render("grephl"))
	b.WriteString("\n")

	b.WriteString(s.Section.Render("Grep"))
	b.WriteString("\n")
	if len(v.Terms) == 0 {
		b.WriteString(s.Dim.Render("  (no terms, press a to add one)"))
		b.WriteString("\n")
	}
	for i, term := range v.Terms {
		b.WriteString(r.row(v, i, term, ""))
	}

	b.WriteString(s.Section.Render("Highlight"))
	b.WriteString("\n")
	if len(v.Highlights) == 0 {
		b.WriteString(s.Dim.Render("  (no highlights, press A to add one)"))
		b.WriteString("\n")
	}
	for i, h := range v.Highlights {
		swatch := s.Dim.Render("[" + domain.ColorNone + "]")
		if !highlight.IsNone(h.Color) {
			swatch = highlight.Style(h.Color).Render(" " + h.Color + " ")
		}
		b.WriteString(r.row(v, len(v.Terms)+i, h.Word, swatch))
	}

	b.WriteString(s.Section.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(r.row(v, v.NameRow(), v.Name, s.Label.Render("name")))
	b.WriteString(r.settingsRow(v))

	b.WriteString("\n")
	b.WriteString(r.button(v.Labels.Grep, v.Labels.Grep != panel.LabelGrep))
	b.WriteString(" ")
	b.WriteString(r.button(v.Labels.Load, v.Labels.Load != panel.LabelLoad))
	b.WriteString(" ")
	b.WriteString(r.button(v.Labels.Delete, v.Labels.Delete != panel.LabelDelete))
	b.WriteString("\n")

	return b.String()
}

func (r *Renderer) row(v PanelView, index int, value, suffix string) string {
	s := r.styles
	marker := "  "
	if v.Focus == index {
		marker = s.Focus.Render("> ")
	}

	text := value
	switch {
	case v.Focus == index && v.Editing:
		text = v.EditView
	case value == "":
		text = s.Dim.Render("…")
	default:
		text = highlight.Escape(value)
	}

	line := marker + text
	if suffix != "" {
		line += "  " + suffix
	}
	return line + "\n"
}

func (r *Renderer) settingsRow(v PanelView) string {
	s := r.styles
	marker := "  "
	if v.Focus == v.SettingsRow() {
		marker = s.Focus.Render("> ")
	}
	if len(v.Settings) == 0 {
		return marker + s.Dim.Render("no saved settings") + "\n"
	}

	parts := make([]string, len(v.Settings))
	for i, name := range v.Settings {
		if name == v.Selected {
			parts[i] = s.Focus.Render("[" + name + "]")
		} else {
			parts[i] = name
		}
	}
	return fmt.Sprintf("%s%s %s\n", marker, s.Label.Render("saved"), strings.Join(parts, " "))
}

func (r *Renderer) button(label string, busy bool) string {
	if busy {
		return r.styles.ButtonBusy.Render(label)
	}
	return r.styles.Button.Render(label)
}
