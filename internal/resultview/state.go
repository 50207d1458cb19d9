package resultview

import (
	"grephl/internal/domain"
	"grephl/internal/highlight"
)

// Mode of the result view
type Mode int

const (
	ModeNormal Mode = iota
	ModeTrim
)

func (m Mode) String() string {
	if m == ModeTrim {
		return "trim"
	}
	return "normal"
}

// Target is what an interaction landed on
type Target int

const (
	TargetLine Target = iota
	TargetInput
)

// State holds the lines of one result view and its presentation flags.
// Removing lines only affects this view.
type State struct {
	lines       []domain.RenderedLine
	mode        Mode
	lastClicked int // anchor for shift-click, -1 when unset
	cursor      int
	fontScale   int
	wrap        bool
}

// New creates a result view over rendered lines
func New(lines []domain.RenderedLine) *State {
	own := make([]domain.RenderedLine, len(lines))
	copy(own, lines)
	for i := range own {
		own[i].Selected = false
	}
	return &State{
		lines:       own,
		lastClicked: -1,
		fontScale:   highlight.DefaultFontScale,
		wrap:        true,
	}
}

// Lines returns the visible lines
func (s *State) Lines() []domain.RenderedLine {
	return s.lines
}

// Len returns the number of visible lines
func (s *State) Len() int {
	return len(s.lines)
}

// Mode returns the current mode
func (s *State) Mode() Mode {
	return s.mode
}

// TrimActive reports whether trim mode is on
func (s *State) TrimActive() bool {
	return s.mode == ModeTrim
}

// SetTrim enters or leaves trim mode. Leaving clears every selection.
func (s *State) SetTrim(on bool) {
	if on {
		s.mode = ModeTrim
		return
	}
	s.mode = ModeNormal
	s.clearSelection()
}

// ToggleTrim flips trim mode
func (s *State) ToggleTrim() {
	s.SetTrim(s.mode != ModeTrim)
}

// Click toggles the line at index. Ignored outside trim mode and when the
// interaction target is an input control.
func (s *State) Click(index int, target Target) {
	if s.mode != ModeTrim || target == TargetInput || !s.valid(index) {
		return
	}
	s.lines[index].Selected = !s.lines[index].Selected
	s.lastClicked = index
}

// ShiftClick selects the inclusive range between the last clicked line and
// index, in either direction. Without an anchor it behaves like Click.
func (s *State) ShiftClick(index int, target Target) {
	if s.mode != ModeTrim || target == TargetInput || !s.valid(index) {
		return
	}
	if s.lastClicked < 0 {
		s.Click(index, target)
		return
	}

	start, end := s.lastClicked, index
	if start > end {
		start, end = end, start
	}
	for i := start; i <= end; i++ {
		s.lines[i].Selected = true
	}
}

// RemoveSelected drops every selected line and returns how many were removed
func (s *State) RemoveSelected() int {
	kept := s.lines[:0]
	removed := 0
	for _, l := range s.lines {
		if l.Selected {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept
	s.lastClicked = -1
	if s.cursor >= len(s.lines) {
		s.cursor = max(len(s.lines)-1, 0)
	}
	return removed
}

// SelectedCount returns the number of selected lines
func (s *State) SelectedCount() int {
	n := 0
	for _, l := range s.lines {
		if l.Selected {
			n++
		}
	}
	return n
}

// LastClicked returns the shift-click anchor, -1 when unset
func (s *State) LastClicked() int {
	return s.lastClicked
}

// Zoom changes the font scale by steps, clamped to the allowed range
func (s *State) Zoom(steps int) {
	v := s.fontScale + steps*highlight.FontScaleStep
	if v < highlight.MinFontScale {
		v = highlight.MinFontScale
	}
	if v > highlight.MaxFontScale {
		v = highlight.MaxFontScale
	}
	s.fontScale = v
}

// ZoomIn grows the font scale one step
func (s *State) ZoomIn() { s.Zoom(1) }

// ZoomOut shrinks the font scale one step
func (s *State) ZoomOut() { s.Zoom(-1) }

// FontScale returns the current font scale
func (s *State) FontScale() int {
	return s.fontScale
}

// SetFontScale sets the initial scale, clamped
func (s *State) SetFontScale(v int) {
	s.fontScale = v
	s.Zoom(0)
}

// ToggleWrap flips soft wrapping
func (s *State) ToggleWrap() {
	s.wrap = !s.wrap
}

// SetWrap sets soft wrapping
func (s *State) SetWrap(on bool) {
	s.wrap = on
}

// Wrap reports whether lines soft-wrap
func (s *State) Wrap() bool {
	return s.wrap
}

// Cursor returns the focused line index
func (s *State) Cursor() int {
	return s.cursor
}

// MoveCursor moves the focus by delta, clamped to the visible lines
func (s *State) MoveCursor(delta int) {
	s.SetCursor(s.cursor + delta)
}

// SetCursor focuses a line, clamped to the visible lines
func (s *State) SetCursor(index int) {
	if len(s.lines) == 0 {
		s.cursor = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(s.lines) {
		index = len(s.lines) - 1
	}
	s.cursor = index
}

func (s *State) clearSelection() {
	for i := range s.lines {
		s.lines[i].Selected = false
	}
	s.lastClicked = -1
}

func (s *State) valid(index int) bool {
	return index >= 0 && index < len(s.lines)
}
