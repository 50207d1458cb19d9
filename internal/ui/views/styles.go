package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Section       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Focus         lipgloss.Style
	Label         lipgloss.Style
	Button        lipgloss.Style
	ButtonBusy    lipgloss.Style
	Gutter        lipgloss.Style
	Cursor        lipgloss.Style
	Selected      lipgloss.Style
	Trim          lipgloss.Style
	Box           lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			MarginTop(1),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help:  lipgloss.NewStyle().Faint(true),
		Main:  lipgloss.NewStyle().Padding(0, 1),
		Focus: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		ButtonBusy: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		Gutter:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Cursor:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Trim:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
