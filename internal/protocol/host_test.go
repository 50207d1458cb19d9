package protocol

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"grephl/internal/document"
	"grephl/internal/domain"
	"grephl/internal/eventbus"
	"grephl/internal/kvstore"
	"grephl/internal/settings"
)

type recordingPanel struct {
	mu   sync.Mutex
	msgs []Message
}

func (p *recordingPanel) PostMessage(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPanel) commands() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Command, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Command
	}
	return out
}

func (p *recordingPanel) last(cmd Command) (Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.msgs) - 1; i >= 0; i-- {
		if p.msgs[i].Command == cmd {
			return p.msgs[i], true
		}
	}
	return Message{}, false
}

func (p *recordingPanel) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = nil
}

type recordingNotifier struct {
	infos  []string
	errors []string
}

func (n *recordingNotifier) Info(msg string)  { n.infos = append(n.infos, msg) }
func (n *recordingNotifier) Error(msg string) { n.errors = append(n.errors, msg) }

type recordingOpener struct {
	title string
	lines []domain.RenderedLine
	calls int
}

func (o *recordingOpener) OpenResults(_ context.Context, title string, lines []domain.RenderedLine) error {
	o.calls++
	o.title = title
	o.lines = lines
	return nil
}

type failingDocs struct{ err error }

func (f failingDocs) Lines(context.Context) ([]string, error) { return nil, f.err }
func (f failingDocs) Name() string                            { return "" }

type fixture struct {
	host     *Host
	state    *settings.StateStore
	store    *settings.Store
	notifier *recordingNotifier
	opener   *recordingOpener
}

func newFixture(t *testing.T, docs document.Provider) *fixture {
	t.Helper()

	log := zap.NewNop()
	bus := eventbus.NewSync(log)
	kv := kvstore.NewMemoryStore()
	state := settings.NewStateStore(kv, bus, log)
	store := settings.NewStore(kv, state, bus, log)
	n := &recordingNotifier{}
	o := &recordingOpener{}

	h := NewHost(Deps{
		Store:     store,
		State:     state,
		Documents: docs,
		Notifier:  n,
		Results:   o,
		Bus:       bus,
		Logger:    log,
	})
	return &fixture{host: h, state: state, store: store, notifier: n, opener: o}
}

// drain processes everything queued so far on the calling goroutine
func (f *fixture) drain(ctx context.Context) {
	for {
		select {
		case env := <-f.host.inbox:
			f.host.handle(ctx, env)
		default:
			return
		}
	}
}

func (f *fixture) attach(ctx context.Context, p Panel) string {
	session := f.host.Attach(p)
	f.drain(ctx)
	return session
}

func TestAttachSendsListThenState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	require.NoError(t, f.store.Save(ctx, "errors", []string{"ERROR"}, nil))
	_, err := f.state.Replace(ctx, []string{"WARN"}, []domain.HighlightSpec{{Word: "WARN", Color: "yellow"}}, "")
	require.NoError(t, err)
	f.drain(ctx)

	p := &recordingPanel{}
	f.attach(ctx, p)

	assert.Equal(t, []Command{CmdUpdateSettingsList, CmdLoadSettings}, p.commands())
	list, _ := p.last(CmdUpdateSettingsList)
	assert.Equal(t, []string{"errors"}, list.Settings)
	load, _ := p.last(CmdLoadSettings)
	assert.Equal(t, []string{"WARN"}, load.GrepWords)
	assert.Equal(t, []domain.HighlightSpec{{Word: "WARN", Color: "yellow"}}, load.SearchWords)
}

func TestAttachWithoutStateSendsOnlyList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	p := &recordingPanel{}
	f.attach(ctx, p)

	assert.Equal(t, []Command{CmdUpdateSettingsList}, p.commands())
}

func TestSaveCurrentSurvivesPanelRecreation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	first := &recordingPanel{}
	session := f.attach(ctx, first)

	f.host.Post(session, Message{
		Command:     CmdSaveCurrent,
		GrepWords:   []string{"timeout"},
		SearchWords: []domain.HighlightSpec{{Word: "timeout", Color: "red"}},
	})
	f.drain(ctx)
	assert.Equal(t, CmdComplete, first.commands()[len(first.commands())-1])

	second := &recordingPanel{}
	f.attach(ctx, second)

	load, ok := second.last(CmdLoadSettings)
	require.True(t, ok)
	assert.Equal(t, []string{"timeout"}, load.GrepWords)
	assert.Equal(t, []domain.HighlightSpec{{Word: "timeout", Color: "red"}}, load.SearchWords)
}

func TestStaleSessionIsDropped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	old := f.attach(ctx, &recordingPanel{})
	fresh := &recordingPanel{}
	f.attach(ctx, fresh)
	fresh.reset()

	f.host.Post(old, Message{Command: CmdSaveCurrent, GrepWords: []string{"stale"}})
	f.drain(ctx)

	assert.Empty(t, fresh.commands())
	_, ok, err := f.state.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVisibilityResendsStateAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	f.host.Post(session, Message{Command: CmdSaveCurrent, GrepWords: []string{"a"}})
	f.drain(ctx)
	p.reset()

	f.host.SetVisible(session, false)
	f.drain(ctx)
	assert.Empty(t, p.commands())

	f.host.SetVisible(session, true)
	f.drain(ctx)
	assert.Equal(t, []Command{CmdLoadSettings, CmdUpdateSettingsList}, p.commands())
}

func TestSaveSettingsBroadcastsAndCompletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Post(session, Message{
		Command:   CmdSaveSettings,
		Name:      "net",
		GrepWords: []string{"dial", " "},
	})
	f.drain(ctx)

	assert.Equal(t, []Command{CmdComplete, CmdUpdateSettingsList}, p.commands())
	list, _ := p.last(CmdUpdateSettingsList)
	assert.Equal(t, []string{"net"}, list.Settings)
	assert.Equal(t, []string{"Settings 'net' saved"}, f.notifier.infos)

	cfg, err := f.store.Get(ctx, "net")
	require.NoError(t, err)
	assert.Equal(t, []string{"dial"}, cfg.Terms)
}

func TestSaveSettingsWithoutName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Post(session, Message{Command: CmdSaveSettings, GrepWords: []string{"x"}})
	f.drain(ctx)

	assert.Equal(t, []Command{CmdComplete}, p.commands())
	assert.Len(t, f.notifier.errors, 1)
	names, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoadSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))
	require.NoError(t, f.store.Save(ctx, "db", []string{"sql"}, []domain.HighlightSpec{{Word: "sql", Color: "aqua"}}))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Post(session, Message{Command: CmdLoadSettings, Name: "db"})
	f.drain(ctx)

	assert.Equal(t, []Command{CmdLoadSettings, CmdComplete}, p.commands())
	load, _ := p.last(CmdLoadSettings)
	assert.Equal(t, "db", load.Name)
	assert.Equal(t, []string{"sql"}, load.GrepWords)

	st, ok, err := f.state.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "db", st.ActiveConfigName)
}

func TestLoadUnknownSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Post(session, Message{Command: CmdLoadSettings, Name: "ghost"})
	f.drain(ctx)

	assert.Equal(t, []Command{CmdComplete}, p.commands())
	assert.Equal(t, []string{"No settings found for 'ghost'"}, f.notifier.errors)
}

func TestDeleteSetting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))
	require.NoError(t, f.store.Save(ctx, "a", []string{"a"}, nil))
	require.NoError(t, f.store.Save(ctx, "b", []string{"b"}, nil))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Post(session, Message{Command: CmdDeleteSetting, Name: "a"})
	f.host.Post(session, Message{Command: CmdDeleteSetting, Name: "a"})
	f.host.Post(session, Message{Command: CmdDeleteSetting})
	f.drain(ctx)

	list, _ := p.last(CmdUpdateSettingsList)
	assert.Equal(t, []string{"b"}, list.Settings)
	assert.Equal(t, []string{"Settings 'a' deleted", "Settings 'a' deleted"}, f.notifier.infos)
	assert.Equal(t, []string{"No setting selected"}, f.notifier.errors)
}

func TestGrepOpensResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("app.log", []string{
		"INFO start",
		"ERROR disk full",
		"INFO done",
	}))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Post(session, Message{
		Command:     CmdGrep,
		GrepWords:   []string{"ERROR"},
		SearchWords: []domain.HighlightSpec{{Word: "disk", Color: "red"}},
	})
	f.drain(ctx)

	require.Equal(t, 1, f.opener.calls)
	assert.Equal(t, "Grep results: app.log", f.opener.title)
	require.Len(t, f.opener.lines, 1)
	assert.Equal(t, 2, f.opener.lines[0].Number)
	assert.Equal(t, []domain.Segment{
		{Text: "ERROR "},
		{Text: "disk", Color: "red"},
		{Text: " full"},
	}, f.opener.lines[0].Segments)
	assert.Equal(t, []Command{CmdComplete}, p.commands())
}

func TestGrepWithoutMatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", []string{"abc"}))

	session := f.attach(ctx, &recordingPanel{})
	f.host.Post(session, Message{Command: CmdGrep, GrepWords: []string{"zzz"}})
	f.host.Post(session, Message{Command: CmdGrep, GrepWords: []string{"  "}})
	f.drain(ctx)

	assert.Zero(t, f.opener.calls)
	assert.Equal(t, []string{"No matches found", "No matches found"}, f.notifier.infos)
}

func TestGrepWithoutDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingDocs{err: domain.ErrNoActiveDocument})

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Post(session, Message{Command: CmdGrep, GrepWords: []string{"x"}})
	f.drain(ctx)

	assert.Equal(t, []string{"No active document"}, f.notifier.errors)
	assert.Equal(t, []Command{CmdComplete}, p.commands())
}

func TestGrepDocumentFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingDocs{err: errors.New("permission denied")})

	session := f.attach(ctx, &recordingPanel{})
	f.host.Post(session, Message{Command: CmdGrep, GrepWords: []string{"x"}})
	f.drain(ctx)

	require.Len(t, f.notifier.errors, 1)
	assert.Contains(t, f.notifier.errors[0], "permission denied")
}

func TestDetachStopsDelivery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, document.NewSnapshot("doc", nil))

	p := &recordingPanel{}
	session := f.attach(ctx, p)
	p.reset()

	f.host.Detach(session)
	f.drain(ctx)
	require.NoError(t, f.store.Save(ctx, "x", []string{"x"}, nil))
	f.drain(ctx)

	assert.Empty(t, p.commands())
}

func TestRunProcessesQueue(t *testing.T) {
	f := newFixture(t, document.NewSnapshot("doc", nil))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.host.Run(ctx) }()

	p := &recordingPanel{}
	session := f.host.Attach(p)
	f.host.Post(session, Message{Command: CmdSaveCurrent, GrepWords: []string{"q"}})

	require.Eventually(t, func() bool {
		cmds := p.commands()
		return len(cmds) > 0 && cmds[len(cmds)-1] == CmdComplete
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// enqueue after stop must not block
	f.host.Post(session, Message{Command: CmdGrep})
}

func TestDecode(t *testing.T) {
	msg, err := Decode([]byte(`{"command":"saveSettings","name":"n","grepWords":["a"],"searchWords":[{"word":"a","color":"red"}]}`))
	require.NoError(t, err)
	assert.Equal(t, CmdSaveSettings, msg.Command)
	assert.Equal(t, "n", msg.Name)
	assert.Equal(t, []domain.HighlightSpec{{Word: "a", Color: "red"}}, msg.SearchWords)

	_, err = Decode([]byte(`{"name":"n"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
