package ui

import (
	"fmt"
	"os"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"grephl/internal/config"
	"grephl/internal/domain"
	"grephl/internal/eventbus"
	"grephl/internal/highlight"
	"grephl/internal/panel"
	"grephl/internal/protocol"
	"grephl/internal/resultview"
	"grephl/internal/ui/views"
)

// DefaultHTMLPath is where the result page is written when no path is configured
const DefaultHTMLPath = "grephl-results.html"

type screen int

const (
	screenPanel screen = iota
	screenResults
)

type inputMode int

const (
	inputNone inputMode = iota
	inputEdit
	inputImport
	inputConfirmDelete
)

// Options configure a Model
type Options struct {
	UI       config.UIConfig
	Palette  []string
	HTMLPath string
	Logger   *zap.Logger
}

// Model is the terminal surface: the editing panel plus the result view
type Model struct {
	opts     Options
	log      *zap.Logger
	renderer *views.Renderer
	help     help.Model
	pKeys    panelKeys
	rKeys    resultKeys
	input    textinput.Model
	pager    *Pager

	draft   *panel.Draft
	send    func(protocol.Message)
	visible func(bool)

	screen   screen
	mode     inputMode
	focus    int
	showHelp bool
	status   views.Status

	results      *resultview.State
	resultsTitle string
	offset       int

	width  int
	height int
}

// NewModel creates a new UI model. Outbound panel messages are dropped
// until Connect is called.
func NewModel(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HTMLPath == "" {
		opts.HTMLPath = DefaultHTMLPath
	}
	if opts.UI.FontScale == 0 {
		opts.UI.FontScale = highlight.DefaultFontScale
	}

	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 4096

	m := &Model{
		opts:     opts,
		log:      opts.Logger,
		renderer: views.NewRenderer(),
		help:     help.New(),
		pKeys:    newPanelKeys(),
		rKeys:    newResultKeys(),
		input:    input,
		pager:    NewPager(),
	}
	m.draft = panel.NewDraft(m.post, opts.Palette)
	return m
}

// Connect routes outbound panel messages to send. visible, when set, is
// told whenever the panel is hidden behind the result screen or shown again.
func (m *Model) Connect(send func(protocol.Message), visible func(bool)) {
	m.send = send
	m.visible = visible
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Draft exposes the panel draft
func (m *Model) Draft() *panel.Draft {
	return m.draft
}

func (m *Model) post(msg protocol.Message) {
	if m.send == nil {
		return
	}
	m.send(msg)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case HostMsg:
		m.draft.Receive(msg.Message)
		m.clampFocus()
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case pagerDoneMsg:
		if msg.err != nil {
			m.log.Error("pager failed", zap.Error(msg.err))
			m.setError(fmt.Sprintf("Pager failed: %v", msg.err))
		}
		return m, nil

	case htmlSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Failed to save results: %v", msg.err))
		} else {
			m.setInfo(fmt.Sprintf("Results saved to %s", msg.path))
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.log.Warn("clipboard unavailable", zap.Error(msg.err))
			m.setInfo(msg.text)
		} else {
			m.setInfo("Settings copied to clipboard")
		}
		return m, nil

	case importTextMsg:
		m.input.SetValue(msg.text)
		m.input.CursorEnd()
		m.mode = inputImport
		return m, m.input.Focus()

	case tea.MouseMsg:
		if m.screen == screenResults && m.mode == inputNone {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m, m.handleInputKey(msg)
		}
		if m.screen == screenResults {
			return m, m.handleResultKey(msg)
		}
		return m, m.handlePanelKey(msg)
	}

	if m.mode == inputEdit || m.mode == inputImport {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleEvent(e eventbus.DomainEvent) tea.Cmd {
	switch ev := e.(type) {
	case eventbus.ResultsReadyEvent:
		m.results = resultview.New(ev.Lines)
		m.results.SetFontScale(m.opts.UI.FontScale)
		m.results.SetWrap(m.opts.UI.Wrap)
		m.resultsTitle = ev.Title
		m.offset = 0
		m.setScreen(screenResults)
		m.status = views.Status{}
		if m.opts.UI.Pager {
			return m.openPager()
		}

	case eventbus.NotificationEvent:
		m.status = views.Status{Text: ev.Message, Error: ev.Severity == domain.SeverityError}
	}
	return nil
}

func (m *Model) setScreen(s screen) {
	if s == m.screen {
		return
	}
	m.screen = s
	if m.visible != nil {
		m.visible(s == screenPanel)
	}
}

func (m *Model) handlePanelKey(msg tea.KeyMsg) tea.Cmd {
	k := m.pKeys
	v := m.panelView()

	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit

	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, k.Up):
		if m.focus > 0 {
			m.focus--
		}

	case key.Matches(msg, k.Down):
		if m.focus < v.Rows()-1 {
			m.focus++
		}

	case key.Matches(msg, k.Edit):
		if m.focus == v.SettingsRow() {
			m.draft.Load()
			return nil
		}
		m.input.SetValue(m.focusedValue(v))
		m.input.CursorEnd()
		m.mode = inputEdit
		return m.input.Focus()

	case key.Matches(msg, k.AddTerm):
		m.draft.AddTerm()
		m.focus = len(m.draft.Terms()) - 1

	case key.Matches(msg, k.AddHighlight):
		m.draft.AddHighlight()
		m.focus = len(m.draft.Terms()) + len(m.draft.Highlights()) - 1

	case key.Matches(msg, k.Remove):
		if i, ok := m.focusedTerm(v); ok {
			m.draft.RemoveTerm(i)
		} else if i, ok := m.focusedHighlight(v); ok {
			m.draft.RemoveHighlight(i)
		}
		m.clampFocus()

	case key.Matches(msg, k.Color):
		if i, ok := m.focusedHighlight(v); ok {
			m.draft.SetHighlightColor(i, m.nextColor(v.Highlights[i].Color))
		}

	case key.Matches(msg, k.PrevSetting):
		m.stepSetting(-1)

	case key.Matches(msg, k.NextSetting):
		m.stepSetting(1)

	case key.Matches(msg, k.Grep):
		m.draft.Grep()

	case key.Matches(msg, k.Save):
		m.draft.Save()

	case key.Matches(msg, k.Load):
		m.draft.Load()

	case key.Matches(msg, k.Delete):
		if m.draft.Selected() == "" {
			m.draft.Delete()
			return nil
		}
		m.mode = inputConfirmDelete

	case key.Matches(msg, k.Export):
		text, err := m.draft.Export()
		if err != nil {
			m.setError(err.Error())
			return nil
		}
		return func() tea.Msg {
			return exportedMsg{text: text, err: clipboard.WriteAll(text)}
		}

	case key.Matches(msg, k.Import):
		return func() tea.Msg {
			text, err := clipboard.ReadAll()
			if err != nil {
				return importTextMsg{}
			}
			return importTextMsg{text: text}
		}

	case key.Matches(msg, k.Results):
		if m.results != nil {
			m.setScreen(screenResults)
		}
	}
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case inputConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			m.draft.Delete()
			m.mode = inputNone
		case "n", "N", "esc", "q":
			m.mode = inputNone
		}
		return nil

	case inputEdit, inputImport:
		switch msg.Type {
		case tea.KeyEsc:
			m.stopInput()
			return nil
		case tea.KeyEnter:
			value := m.input.Value()
			mode := m.mode
			m.stopInput()
			if mode == inputImport {
				if err := m.draft.Import(value); err != nil {
					m.log.Debug("import ignored", zap.Error(err))
				}
				m.clampFocus()
				return nil
			}
			m.commitEdit(value)
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) stopInput() {
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) commitEdit(value string) {
	v := m.panelView()
	if i, ok := m.focusedTerm(v); ok {
		m.draft.SetTerm(i, value)
		return
	}
	if i, ok := m.focusedHighlight(v); ok {
		m.draft.SetHighlightWord(i, value)
		return
	}
	if m.focus == v.NameRow() {
		m.draft.SetName(value)
	}
}

func (m *Model) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	k := m.rKeys
	rs := m.results

	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Back):
		m.setScreen(screenPanel)
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, k.Up):
		rs.MoveCursor(-1)
	case key.Matches(msg, k.Down):
		rs.MoveCursor(1)
	case key.Matches(msg, k.Top):
		rs.SetCursor(0)
	case key.Matches(msg, k.Bottom):
		rs.SetCursor(rs.Len() - 1)
	case key.Matches(msg, k.Trim):
		rs.ToggleTrim()
	case key.Matches(msg, k.Toggle):
		rs.Click(rs.Cursor(), resultview.TargetLine)
	case key.Matches(msg, k.Range):
		rs.ShiftClick(rs.Cursor(), resultview.TargetLine)
	case key.Matches(msg, k.Remove):
		if n := rs.RemoveSelected(); n > 0 {
			m.setInfo(fmt.Sprintf("Removed %d lines", n))
		}
	case key.Matches(msg, k.ZoomIn):
		rs.ZoomIn()
	case key.Matches(msg, k.ZoomOut):
		rs.ZoomOut()
	case key.Matches(msg, k.Wrap):
		rs.ToggleWrap()
	case key.Matches(msg, k.Pager):
		return m.openPager()
	case key.Matches(msg, k.ExportHTML):
		return m.saveHTML()
	}
	m.ensureVisible()
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	rs := m.results
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		rs.MoveCursor(-1)
		m.ensureVisible()
		return
	case tea.MouseButtonWheelDown:
		rs.MoveCursor(1)
		m.ensureVisible()
		return
	case tea.MouseButtonLeft:
	default:
		return
	}
	if msg.Action != tea.MouseActionPress {
		return
	}

	row := msg.Y - views.HeaderRows
	if row < 0 {
		// header row holds the mode controls
		rs.Click(rs.Cursor(), resultview.TargetInput)
		return
	}
	_, rows := m.renderer.RenderResults(m.resultsView())
	if row >= len(rows) {
		return
	}
	index := rows[row]
	rs.SetCursor(index)
	if msg.Shift {
		rs.ShiftClick(index, resultview.TargetLine)
	} else {
		rs.Click(index, resultview.TargetLine)
	}
}

func (m *Model) openPager() tea.Cmd {
	content := views.PlainResults(m.results.Lines(), m.opts.UI.ShowLineNumbers)
	pager := m.pager
	return func() tea.Msg {
		return pagerDoneMsg{err: pager.Show(content)}
	}
}

func (m *Model) saveHTML() tea.Cmd {
	page := highlight.HTMLPage{
		Title:     m.resultsTitle,
		Lines:     m.results.Lines(),
		FontScale: m.results.FontScale(),
		Wrap:      m.results.Wrap(),
	}
	path := m.opts.HTMLPath
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return htmlSavedMsg{path: path, err: err}
		}
		if err := highlight.WriteHTML(f, page); err != nil {
			f.Close()
			return htmlSavedMsg{path: path, err: err}
		}
		return htmlSavedMsg{path: path, err: f.Close()}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.screen == screenResults && m.results != nil {
		body, _ := m.renderer.RenderResults(m.resultsView())
		return m.renderer.Frame(body, m.status, m.helpView(m.rKeys))
	}

	v := m.panelView()
	body := m.renderer.RenderPanel(v)
	switch m.mode {
	case inputConfirmDelete:
		body += m.renderer.RenderPrompt("Delete settings",
			fmt.Sprintf("Delete '%s'? (y/n)", m.draft.Selected()), m.width)
	case inputImport:
		body += m.renderer.RenderPrompt("Import settings",
			m.input.View()+"\n"+m.renderer.Styles().Dim.Render(`{"Grep": [...], "Highlight": [...]}`), m.width)
	}
	return m.renderer.Frame(body, m.status, m.helpView(m.pKeys))
}

func (m *Model) helpView(keys help.KeyMap) string {
	m.help.ShowAll = m.showHelp
	return m.help.View(keys)
}

func (m *Model) panelView() views.PanelView {
	labels := m.draft.Labels()
	return views.PanelView{
		Terms:      m.draft.Terms(),
		Highlights: m.draft.Highlights(),
		Name:       m.draft.Name(),
		Settings:   m.draft.Settings(),
		Selected:   m.draft.Selected(),
		Labels:     labels,
		Focus:      m.focus,
		Editing:    m.mode == inputEdit,
		EditView:   m.input.View(),
	}
}

func (m *Model) resultsView() views.ResultsView {
	return views.ResultsView{
		Title:       m.resultsTitle,
		Lines:       m.results.Lines(),
		Cursor:      m.results.Cursor(),
		Offset:      m.offset,
		Height:      m.resultRows(),
		Width:       m.width - 2,
		Wrap:        m.results.Wrap(),
		TrimActive:  m.results.TrimActive(),
		LineNumbers: m.opts.UI.ShowLineNumbers,
		FontScale:   m.results.FontScale(),
		Selected:    m.results.SelectedCount(),
	}
}

// resultRows is the number of screen rows left for result lines
func (m *Model) resultRows() int {
	if m.height == 0 {
		return 20
	}
	rows := m.height - views.HeaderRows - 3
	if m.showHelp {
		rows -= 4
	}
	return max(rows, 1)
}

func (m *Model) ensureVisible() {
	if m.results == nil {
		return
	}
	cursor := m.results.Cursor()
	height := m.resultRows()
	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor >= m.offset+height {
		m.offset = cursor - height + 1
	}
	// wrapped lines take more than one row
	for m.offset < cursor {
		_, rows := m.renderer.RenderResults(m.resultsView())
		if slices.Contains(rows, cursor) {
			break
		}
		m.offset++
	}
	m.offset = max(m.offset, 0)
}

func (m *Model) clampFocus() {
	rows := m.panelView().Rows()
	if m.focus >= rows {
		m.focus = rows - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
}

func (m *Model) focusedTerm(v views.PanelView) (int, bool) {
	if m.focus < len(v.Terms) {
		return m.focus, true
	}
	return 0, false
}

func (m *Model) focusedHighlight(v views.PanelView) (int, bool) {
	i := m.focus - len(v.Terms)
	if i >= 0 && i < len(v.Highlights) {
		return i, true
	}
	return 0, false
}

func (m *Model) focusedValue(v views.PanelView) string {
	if i, ok := m.focusedTerm(v); ok {
		return v.Terms[i]
	}
	if i, ok := m.focusedHighlight(v); ok {
		return v.Highlights[i].Word
	}
	if m.focus == v.NameRow() {
		return v.Name
	}
	return ""
}

// nextColor cycles through the palette followed by "none"
func (m *Model) nextColor(current string) string {
	palette := m.opts.Palette
	if len(palette) == 0 {
		palette = highlight.LightPalette
	}
	cycle := append(slices.Clone(palette), domain.ColorNone)
	i := slices.Index(cycle, current)
	return cycle[(i+1)%len(cycle)]
}

func (m *Model) stepSetting(delta int) {
	names := m.draft.Settings()
	if len(names) == 0 {
		return
	}
	i := slices.Index(names, m.draft.Selected()) + delta
	i = min(max(i, 0), len(names)-1)
	m.draft.Select(names[i])
}

func (m *Model) setInfo(text string) {
	m.status = views.Status{Text: text}
}

func (m *Model) setError(text string) {
	m.status = views.Status{Text: text, Error: true}
}
