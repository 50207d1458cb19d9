package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"grephl/internal/document"
	"grephl/internal/domain"
	"grephl/internal/eventbus"
	"grephl/internal/highlight"
	"grephl/internal/match"
	"grephl/internal/notify"
	"grephl/internal/settings"
)

const inboxSize = 256

type envelopeKind int

const (
	kindAttach envelopeKind = iota
	kindDetach
	kindVisibility
	kindMessage
	kindSettingsList
)

// envelope is one unit of work for the host loop
type envelope struct {
	kind    envelopeKind
	session string
	panel   Panel
	visible bool
	msg     Message
	names   []string
}

// Deps are the collaborators a Host works with
type Deps struct {
	Store       *settings.Store
	State       *settings.StateStore
	Documents   document.Provider
	Notifier    notify.Notifier
	Results     ResultOpener
	Highlighter *highlight.Engine
	Bus         eventbus.EventBus
	Logger      *zap.Logger
}

// Host owns the panel connection. Every inbound message, attach and
// visibility change is processed one at a time by Run.
type Host struct {
	store     *settings.Store
	state     *settings.StateStore
	docs      document.Provider
	notifier  notify.Notifier
	results   ResultOpener
	engine    *highlight.Engine
	log       *zap.Logger
	inbox     chan envelope
	stopped   chan struct{}
	unsubList func()

	// owned by the loop
	panel   Panel
	session string
	visible bool
}

// NewHost creates a host. It listens for settings list changes on the bus
// until Run returns.
func NewHost(deps Deps) *Host {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	engine := deps.Highlighter
	if engine == nil {
		engine = highlight.New(highlight.Options{})
	}
	h := &Host{
		store:    deps.Store,
		state:    deps.State,
		docs:     deps.Documents,
		notifier: deps.Notifier,
		results:  deps.Results,
		engine:   engine,
		log:      log,
		inbox:    make(chan envelope, inboxSize),
		stopped:  make(chan struct{}),
	}
	if deps.Bus != nil {
		h.unsubList = deps.Bus.Subscribe(eventbus.EventSettingsListChanged, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SettingsListChangedEvent); ok {
				h.enqueue(envelope{kind: kindSettingsList, names: ev.Names})
			}
		})
	}
	return h
}

// Run processes queued work until ctx is done
func (h *Host) Run(ctx context.Context) error {
	defer close(h.stopped)
	if h.unsubList != nil {
		defer h.unsubList()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-h.inbox:
			h.handle(ctx, env)
		}
	}
}

// Attach connects a freshly created panel and returns its session id.
// Messages still queued from an earlier session are dropped.
func (h *Host) Attach(panel Panel) string {
	session := uuid.NewString()
	h.enqueue(envelope{kind: kindAttach, session: session, panel: panel})
	return session
}

// Detach disconnects the panel of session, if it is still the current one
func (h *Host) Detach(session string) {
	h.enqueue(envelope{kind: kindDetach, session: session})
}

// SetVisible records a visibility change. Becoming visible resends the
// last active state and the settings list.
func (h *Host) SetVisible(session string, visible bool) {
	h.enqueue(envelope{kind: kindVisibility, session: session, visible: visible})
}

// Post queues an inbound panel message
func (h *Host) Post(session string, msg Message) {
	h.enqueue(envelope{kind: kindMessage, session: session, msg: msg})
}

func (h *Host) enqueue(env envelope) {
	select {
	case h.inbox <- env:
	case <-h.stopped:
	}
}

func (h *Host) handle(ctx context.Context, env envelope) {
	switch env.kind {
	case kindAttach:
		h.panel = env.panel
		h.session = env.session
		h.visible = true
		h.log.Info("panel attached", zap.String("session", env.session))
		h.sendSettingsList(ctx)
		h.sendState(ctx)

	case kindDetach:
		if env.session != h.session {
			return
		}
		h.log.Info("panel detached", zap.String("session", env.session))
		h.panel = nil
		h.session = ""
		h.visible = false

	case kindVisibility:
		if !h.current(env.session) {
			return
		}
		wasVisible := h.visible
		h.visible = env.visible
		if env.visible && !wasVisible {
			h.sendState(ctx)
			h.sendSettingsList(ctx)
		}

	case kindMessage:
		if !h.current(env.session) {
			h.log.Debug("dropping message from stale panel",
				zap.String("session", env.session),
				zap.String("command", string(env.msg.Command)))
			return
		}
		h.dispatch(ctx, env.msg)
		h.post(Message{Command: CmdComplete})

	case kindSettingsList:
		h.post(Message{Command: CmdUpdateSettingsList, Settings: env.names})
	}
}

func (h *Host) current(session string) bool {
	return h.panel != nil && session == h.session
}

func (h *Host) dispatch(ctx context.Context, msg Message) {
	h.log.Debug("handling message", zap.String("command", string(msg.Command)))

	switch msg.Command {
	case CmdGrep:
		h.grep(ctx, msg.GrepWords, msg.SearchWords)

	case CmdSaveSettings:
		err := h.store.Save(ctx, msg.Name, msg.GrepWords, msg.SearchWords)
		switch {
		case errors.Is(err, domain.ErrMissingName):
			h.notifier.Error("Enter a name for the settings")
		case err != nil:
			h.fail("Failed to save settings", err)
		default:
			h.notifier.Info(fmt.Sprintf("Settings '%s' saved", msg.Name))
		}

	case CmdLoadSettings:
		cfg, err := h.store.Load(ctx, msg.Name)
		switch {
		case errors.Is(err, domain.ErrConfigNotFound):
			h.notifier.Error(fmt.Sprintf("No settings found for '%s'", msg.Name))
		case err != nil:
			h.fail("Failed to load settings", err)
		default:
			h.post(Message{
				Command:     CmdLoadSettings,
				Name:        cfg.Name,
				GrepWords:   cfg.Terms,
				SearchWords: cfg.Highlights,
			})
		}

	case CmdDeleteSetting:
		err := h.store.Delete(ctx, msg.Name)
		switch {
		case errors.Is(err, domain.ErrMissingName):
			h.notifier.Error("No setting selected")
		case err != nil:
			h.fail("Failed to delete settings", err)
		default:
			h.notifier.Info(fmt.Sprintf("Settings '%s' deleted", msg.Name))
		}

	case CmdSaveCurrent:
		if _, err := h.state.Replace(ctx, msg.GrepWords, msg.SearchWords, msg.Name); err != nil {
			h.log.Error("failed to record current draft", zap.Error(err))
		}

	default:
		h.log.Warn("unknown command", zap.String("command", string(msg.Command)))
	}
}

func (h *Host) grep(ctx context.Context, terms []string, specs []domain.HighlightSpec) {
	if h.docs == nil {
		h.notifier.Error("No active document")
		return
	}
	lines, err := h.docs.Lines(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveDocument) {
			h.notifier.Error("No active document")
			return
		}
		h.fail("Failed to read document", err)
		return
	}

	matched := match.Filter(lines, terms)
	if len(matched) == 0 {
		h.notifier.Info("No matches found")
		return
	}

	rendered := h.engine.Render(matched, domain.CleanHighlights(specs))
	h.log.Info("grep finished",
		zap.Int("lines", len(lines)),
		zap.Int("matches", len(matched)))

	title := "Grep results"
	if name := h.docs.Name(); name != "" {
		title = fmt.Sprintf("Grep results: %s", name)
	}
	if err := h.results.OpenResults(ctx, title, rendered); err != nil {
		h.fail("Failed to open results", err)
	}
}

func (h *Host) sendState(ctx context.Context) {
	st, ok, err := h.state.Current(ctx)
	if err != nil {
		h.log.Error("failed to read last active state", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	h.post(Message{
		Command:     CmdLoadSettings,
		Name:        st.ActiveConfigName,
		GrepWords:   st.Terms,
		SearchWords: st.Highlights,
	})
}

func (h *Host) sendSettingsList(ctx context.Context) {
	names, err := h.store.List(ctx)
	if err != nil {
		h.log.Error("failed to list settings", zap.Error(err))
		return
	}
	h.post(Message{Command: CmdUpdateSettingsList, Settings: names})
}

func (h *Host) post(msg Message) {
	if h.panel == nil {
		return
	}
	if err := h.panel.PostMessage(msg); err != nil {
		h.log.Warn("failed to post to panel",
			zap.String("command", string(msg.Command)),
			zap.Error(err))
	}
}

func (h *Host) fail(msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	h.notifier.Error(fmt.Sprintf("%s: %v", msg, err))
}
