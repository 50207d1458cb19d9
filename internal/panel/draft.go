// Package panel holds the editing side of the sync protocol: the draft of
// grep terms and highlight rows a user is working on.
package panel

import (
	"slices"

	"grephl/internal/domain"
	"grephl/internal/highlight"
	"grephl/internal/protocol"
	"grephl/internal/transfer"
)

// Button labels shown while a request is in flight
const (
	LabelGrep       = "Grep"
	LabelGrepBusy   = "Processing..."
	LabelLoad       = "Load"
	LabelLoadBusy   = "Loading..."
	LabelDelete     = "Delete"
	LabelDeleteBusy = "Deleting..."
)

// Labels are the transient button states of the panel
type Labels struct {
	Grep   string
	Load   string
	Delete string
}

// Busy reports whether any request is awaiting its Complete
func (l Labels) Busy() bool {
	return l.Grep != LabelGrep || l.Load != LabelLoad || l.Delete != LabelDelete
}

func idleLabels() Labels {
	return Labels{Grep: LabelGrep, Load: LabelLoad, Delete: LabelDelete}
}

// Draft is the panel's editable state. Every edit reports the whole draft
// to the host so it survives the panel being torn down.
type Draft struct {
	send    func(protocol.Message)
	palette []string

	terms      []string
	highlights []domain.HighlightSpec
	name       string
	selected   string
	settings   []string
	labels     Labels
}

// NewDraft creates a draft with one empty term row and one highlight row.
// Outbound messages go to send.
func NewDraft(send func(protocol.Message), palette []string) *Draft {
	if len(palette) == 0 {
		palette = highlight.LightPalette
	}
	d := &Draft{
		send:    send,
		palette: palette,
		terms:   []string{""},
		labels:  idleLabels(),
	}
	d.highlights = []domain.HighlightSpec{{Color: highlight.PaletteColor(palette, 0)}}
	return d
}

func (d *Draft) Terms() []string { return slices.Clone(d.terms) }

func (d *Draft) Highlights() []domain.HighlightSpec { return slices.Clone(d.highlights) }

// Name is the value of the settings name field
func (d *Draft) Name() string { return d.name }

// Selected is the entry picked in the saved settings list
func (d *Draft) Selected() string { return d.selected }

func (d *Draft) Settings() []string { return slices.Clone(d.settings) }

func (d *Draft) Labels() Labels { return d.labels }

// AddTerm appends an empty term row
func (d *Draft) AddTerm() {
	d.terms = append(d.terms, "")
	d.report()
}

func (d *Draft) SetTerm(i int, value string) {
	if i < 0 || i >= len(d.terms) {
		return
	}
	d.terms[i] = value
	d.report()
}

func (d *Draft) RemoveTerm(i int) {
	if i < 0 || i >= len(d.terms) {
		return
	}
	d.terms = slices.Delete(d.terms, i, i+1)
	d.report()
}

// AddHighlight appends a highlight row colored by its position in the palette
func (d *Draft) AddHighlight() {
	color := highlight.PaletteColor(d.palette, len(d.highlights))
	d.highlights = append(d.highlights, domain.HighlightSpec{Color: color})
	d.report()
}

func (d *Draft) SetHighlightWord(i int, word string) {
	if i < 0 || i >= len(d.highlights) {
		return
	}
	d.highlights[i].Word = word
	d.report()
}

func (d *Draft) SetHighlightColor(i int, color string) {
	if i < 0 || i >= len(d.highlights) {
		return
	}
	d.highlights[i].Color = color
	d.report()
}

func (d *Draft) RemoveHighlight(i int) {
	if i < 0 || i >= len(d.highlights) {
		return
	}
	d.highlights = slices.Delete(d.highlights, i, i+1)
	d.report()
}

// SetName edits the settings name field
func (d *Draft) SetName(name string) {
	d.name = name
	d.report()
}

// Select picks an entry in the saved settings list
func (d *Draft) Select(name string) {
	d.selected = name
}

// SetPalette switches the palette used for rows added from now on
func (d *Draft) SetPalette(palette []string) {
	if len(palette) > 0 {
		d.palette = palette
	}
}

// Grep asks the host to filter the active document
func (d *Draft) Grep() {
	d.labels.Grep = LabelGrepBusy
	d.send(protocol.Message{
		Command:     protocol.CmdGrep,
		GrepWords:   d.Terms(),
		SearchWords: d.Highlights(),
	})
}

// Save stores the draft under the name field
func (d *Draft) Save() {
	d.send(protocol.Message{
		Command:     protocol.CmdSaveSettings,
		Name:        d.name,
		GrepWords:   d.Terms(),
		SearchWords: d.Highlights(),
	})
}

// Load asks the host for the selected configuration
func (d *Draft) Load() {
	d.labels.Load = LabelLoadBusy
	d.name = d.selected
	d.send(protocol.Message{Command: protocol.CmdLoadSettings, Name: d.selected})
}

// Delete removes the selected configuration
func (d *Draft) Delete() {
	d.labels.Delete = LabelDeleteBusy
	d.send(protocol.Message{Command: protocol.CmdDeleteSetting, Name: d.selected})
}

// Export renders the draft as transfer text
func (d *Draft) Export() (string, error) {
	return transfer.Export(d.terms, d.highlights)
}

// Import replaces the draft with text. Malformed text leaves the draft
// untouched and returns the error.
func (d *Draft) Import(text string) error {
	terms, highlights, err := transfer.Import(text)
	if err != nil {
		return err
	}
	d.terms = terms
	d.highlights = highlights
	d.name = ""
	d.report()
	return nil
}

// Receive applies a message from the host
func (d *Draft) Receive(msg protocol.Message) {
	switch msg.Command {
	case protocol.CmdLoadSettings:
		d.terms = slices.Clone(msg.GrepWords)
		d.highlights = slices.Clone(msg.SearchWords)
		if msg.Name != "" {
			d.name = msg.Name
		}
		d.labels.Load = LabelLoad
		d.report()

	case protocol.CmdUpdateSettingsList:
		d.settings = slices.Clone(msg.Settings)
		if !slices.Contains(d.settings, d.selected) {
			d.selected = ""
			if len(d.settings) > 0 {
				d.selected = d.settings[0]
			}
		}

	case protocol.CmdComplete:
		d.labels = idleLabels()
	}
}

func (d *Draft) report() {
	d.send(protocol.Message{
		Command:     protocol.CmdSaveCurrent,
		Name:        d.name,
		GrepWords:   d.Terms(),
		SearchWords: d.Highlights(),
	})
}
