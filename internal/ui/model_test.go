package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grephl/internal/config"
	"grephl/internal/domain"
	"grephl/internal/eventbus"
	"grephl/internal/highlight"
	"grephl/internal/protocol"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (*Model, *[]protocol.Message) {
	m, sent, _ := newTestModelWithVisibility(t)
	return m, sent
}

func newTestModelWithVisibility(t *testing.T) (*Model, *[]protocol.Message, *[]bool) {
	t.Helper()
	sent := &[]protocol.Message{}
	visibility := &[]bool{}
	m := NewModel(Options{
		UI:      config.UIConfig{Wrap: true, ShowLineNumbers: true},
		Palette: highlight.LightPalette,
	})
	m.Connect(
		func(msg protocol.Message) { *sent = append(*sent, msg) },
		func(v bool) { *visibility = append(*visibility, v) },
	)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, sent, visibility
}

func lastSent(t *testing.T, sent *[]protocol.Message) protocol.Message {
	t.Helper()
	require.NotEmpty(t, *sent)
	return (*sent)[len(*sent)-1]
}

func TestEditTermReportsDraft(t *testing.T) {
	m, sent := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, inputEdit, m.mode)
	m.Update(runes("ERROR"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, inputNone, m.mode)
	assert.Equal(t, []string{"ERROR"}, m.Draft().Terms())
	msg := lastSent(t, sent)
	assert.Equal(t, protocol.CmdSaveCurrent, msg.Command)
	assert.Equal(t, []string{"ERROR"}, msg.GrepWords)
}

func TestEscCancelsEdit(t *testing.T) {
	m, sent := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runes("abc"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, []string{""}, m.Draft().Terms())
	assert.Empty(t, *sent)
}

func TestAddAndColorHighlight(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runes("A"))
	assert.Equal(t, 2, m.focus)
	hl := m.Draft().Highlights()
	require.Len(t, hl, 2)
	assert.Equal(t, "lime", hl[1].Color)

	m.Update(runes("c"))
	assert.Equal(t, "red", m.Draft().Highlights()[1].Color)

	m.Update(runes("d"))
	assert.Len(t, m.Draft().Highlights(), 1)
}

func TestColorCycleReachesNone(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, domain.ColorNone, m.nextColor("silver"))
	assert.Equal(t, "yellow", m.nextColor(domain.ColorNone))
	assert.Equal(t, "yellow", m.nextColor("#123456"))
}

func TestGrepSendsDraft(t *testing.T) {
	m, sent := newTestModel(t)

	m.Update(runes("g"))
	msg := lastSent(t, sent)
	assert.Equal(t, protocol.CmdGrep, msg.Command)
	assert.True(t, m.Draft().Labels().Busy())

	m.Update(HostMsg{Message: protocol.Message{Command: protocol.CmdComplete}})
	assert.False(t, m.Draft().Labels().Busy())
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m, sent := newTestModel(t)
	m.Update(HostMsg{Message: protocol.Message{Command: protocol.CmdUpdateSettingsList, Settings: []string{"a"}}})

	m.Update(runes("x"))
	assert.Equal(t, inputConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete 'a'?")
	assert.Empty(t, *sent)

	m.Update(runes("y"))
	msg := lastSent(t, sent)
	assert.Equal(t, protocol.CmdDeleteSetting, msg.Command)
	assert.Equal(t, "a", msg.Name)
}

func TestDeleteWithoutSelectionGoesStraightToHost(t *testing.T) {
	m, sent := newTestModel(t)

	m.Update(runes("x"))
	assert.Equal(t, inputNone, m.mode)
	assert.Equal(t, protocol.CmdDeleteSetting, lastSent(t, sent).Command)
}

func TestImportPrompt(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(importTextMsg{text: `{"Grep": ["a"], "Highlight": [{"word": "a", "color": "red"}]}`})
	require.Equal(t, inputImport, m.mode)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"a"}, m.Draft().Terms())
	assert.Equal(t, []domain.HighlightSpec{{Word: "a", Color: "red"}}, m.Draft().Highlights())
}

func TestMalformedImportIsIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(importTextMsg{text: `{"Grep": ["a"]}`})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, inputNone, m.mode)
	assert.Equal(t, []string{""}, m.Draft().Terms())
	assert.Empty(t, m.status.Text)
}

func TestHostLoadReplacesDraft(t *testing.T) {
	m, sent := newTestModel(t)

	m.Update(HostMsg{Message: protocol.Message{
		Command:   protocol.CmdLoadSettings,
		Name:      "db",
		GrepWords: []string{"sql", "query"},
	}})

	assert.Equal(t, []string{"sql", "query"}, m.Draft().Terms())
	assert.Equal(t, "db", m.Draft().Name())
	assert.Equal(t, protocol.CmdSaveCurrent, lastSent(t, sent).Command)
}

func resultsEvent() EventMsg {
	return EventMsg{Event: eventbus.ResultsReadyEvent{
		Title: "Grep results",
		Lines: []domain.RenderedLine{
			{Number: 1, Segments: []domain.Segment{{Text: "A"}}},
			{Number: 2, Segments: []domain.Segment{{Text: "B"}}},
			{Number: 3, Segments: []domain.Segment{{Text: "C"}}},
			{Number: 4, Segments: []domain.Segment{{Text: "D"}}},
		},
	}}
}

func TestResultsTrimScenario(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(resultsEvent())
	require.Equal(t, screenResults, m.screen)

	m.Update(runes("t"))
	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m.Update(runes("X"))
	m.Update(runes("D"))

	lines := m.results.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "A", lines[0].Text())
	assert.Equal(t, "Removed 3 lines", m.status.Text)
}

func TestResultsMouseShiftClick(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(resultsEvent())
	m.Update(runes("t"))

	click := func(row int, shift bool) {
		m.Update(tea.MouseMsg{
			X:      5,
			Y:      row,
			Shift:  shift,
			Action: tea.MouseActionPress,
			Button: tea.MouseButtonLeft,
		})
	}
	click(2, false)
	click(4, true)
	assert.Equal(t, 3, m.results.SelectedCount())

	// header clicks never toggle lines
	click(0, false)
	assert.Equal(t, 3, m.results.SelectedCount())
}

func TestResultsZoomWrapAndBack(t *testing.T) {
	m, _, visibility := newTestModelWithVisibility(t)
	m.Update(resultsEvent())

	m.Update(runes("+"))
	assert.Equal(t, 16, m.results.FontScale())
	m.Update(runes("w"))
	assert.False(t, m.results.Wrap())
	assert.Contains(t, m.View(), "nowrap, 16px")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenPanel, m.screen)
	m.Update(runes("r"))
	assert.Equal(t, screenResults, m.screen)
	assert.Equal(t, []bool{false, true, false}, *visibility)
}

func TestNotificationShowsInStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(EventMsg{Event: eventbus.NotificationEvent{Severity: domain.SeverityError, Message: "No active document"}})

	assert.True(t, m.status.Error)
	assert.Contains(t, m.View(), "No active document")
}
