package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// panelKeys are active on the editing panel
type panelKeys struct {
	Up           key.Binding
	Down         key.Binding
	Edit         key.Binding
	AddTerm      key.Binding
	AddHighlight key.Binding
	Remove       key.Binding
	Color        key.Binding
	PrevSetting  key.Binding
	NextSetting  key.Binding
	Grep         key.Binding
	Save         key.Binding
	Load         key.Binding
	Delete       key.Binding
	Export       key.Binding
	Import       key.Binding
	Results      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newPanelKeys() panelKeys {
	return panelKeys{
		Up:           key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "down")),
		Edit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		AddTerm:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add term")),
		AddHighlight: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add highlight")),
		Remove:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove row")),
		Color:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next color")),
		PrevSetting:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev saved")),
		NextSetting:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next saved")),
		Grep:         key.NewBinding(key.WithKeys("g", "ctrl+g"), key.WithHelp("g", "grep")),
		Save:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Load:         key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "load")),
		Delete:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Import:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Results:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "results")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k panelKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.AddTerm, k.AddHighlight, k.Grep, k.Save, k.Help, k.Quit}
}

func (k panelKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit, k.Remove, k.Color},
		{k.AddTerm, k.AddHighlight, k.Grep, k.Results},
		{k.PrevSetting, k.NextSetting, k.Save, k.Load, k.Delete},
		{k.Export, k.Import, k.Help, k.Quit},
	}
}

// resultKeys are active on the result screen
type resultKeys struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Trim       key.Binding
	Toggle     key.Binding
	Range      key.Binding
	Remove     key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Wrap       key.Binding
	Pager      key.Binding
	ExportHTML key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newResultKeys() resultKeys {
	return resultKeys{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Trim:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trim mode")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "select")),
		Range:      key.NewBinding(key.WithKeys("X", "V"), key.WithHelp("X", "select range")),
		Remove:     key.NewBinding(key.WithKeys("D", "delete"), key.WithHelp("D", "remove selected")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Wrap:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wrap")),
		Pager:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "pager")),
		ExportHTML: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "save html")),
		Back:       key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k resultKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Trim, k.Toggle, k.Remove, k.Wrap, k.Pager, k.Back, k.Help}
}

func (k resultKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Trim, k.Toggle, k.Range, k.Remove},
		{k.ZoomIn, k.ZoomOut, k.Wrap},
		{k.Pager, k.ExportHTML, k.Back, k.Quit},
	}
}
