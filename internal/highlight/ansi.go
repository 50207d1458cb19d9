package highlight

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grephl/internal/domain"
)

// Style returns the lipgloss style for a segment color.
// Plain ANSI codes ("203") are accepted next to the CSS-style tokens.
func Style(color string) lipgloss.Style {
	style := lipgloss.NewStyle()
	if IsNone(color) {
		return style
	}
	if hex, ok := ToHex(color); ok {
		fg := "#000000"
		if isDark(hex) {
			fg = "#ffffff"
		}
		return style.Background(lipgloss.Color(hex)).Foreground(lipgloss.Color(fg)).Bold(true)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(color)); err == nil && n >= 0 && n < 256 {
		return style.Background(lipgloss.Color(strconv.Itoa(n))).Bold(true)
	}
	return style
}

// ANSI renders segments for a terminal
func ANSI(segments []domain.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Color == "" {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(Style(s.Color).Render(s.Text))
	}
	return b.String()
}
