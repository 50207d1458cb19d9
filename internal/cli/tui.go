package cli

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"grephl/internal/config"
	"grephl/internal/document"
	"grephl/internal/eventbus"
	"grephl/internal/highlight"
	"grephl/internal/notify"
	"grephl/internal/protocol"
	"grephl/internal/ui"
)

func runTUI(cmd *cobra.Command, opts *rootOptions, path string) error {
	a, err := opts.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	host := protocol.NewHost(protocol.Deps{
		Store:       a.Store,
		State:       a.State,
		Documents:   document.NewFileSource(path),
		Notifier:    notify.Multi{notify.NewLogNotifier(a.Log), notify.NewBusNotifier(a.Bus)},
		Results:     protocol.BusOpener{Bus: a.Bus},
		Highlighter: a.Engine,
		Bus:         a.Bus,
		Logger:      a.Log,
	})

	model := ui.NewModel(ui.Options{
		UI:      a.Config.UI,
		Palette: palette(a.Config.UI.Theme),
		Logger:  a.Log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Forward bus events to the UI
	eventChan := make(chan tea.Msg, 100)
	defer close(eventChan)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- ui.EventMsg{Event: e}:
		default:
			a.Log.Warn("event channel full, dropping event", zap.String("event", string(e.Type())))
		}
	}
	unsubResults := a.Bus.Subscribe(eventbus.EventResultsReady, forward)
	unsubNotes := a.Bus.Subscribe(eventbus.EventNotification, forward)
	defer unsubResults()
	defer unsubNotes()

	go func() {
		for msg := range eventChan {
			p.Send(msg)
		}
	}()

	session := host.Attach(protocol.PanelFunc(func(msg protocol.Message) error {
		p.Send(ui.HostMsg{Message: msg})
		return nil
	}))
	model.Connect(
		func(msg protocol.Message) { host.Post(session, msg) },
		func(visible bool) { host.SetVisible(session, visible) },
	)

	hostDone := make(chan struct{})
	go func() {
		defer close(hostDone)
		_ = host.Run(ctx)
	}()

	a.Log.Info("starting UI", zap.String("file", path))
	_, err = p.Run()
	cancel()
	<-hostDone
	if err != nil {
		a.Log.Error("UI exited with error", zap.Error(err))
		return err
	}
	a.Log.Info("UI exited normally")
	return nil
}

// palette picks highlight colors that read well on the terminal background
func palette(theme string) []string {
	switch theme {
	case config.ThemeLight:
		return highlight.LightPalette
	case config.ThemeDark:
		return highlight.DarkPalette
	}
	if lipgloss.HasDarkBackground() {
		return highlight.DarkPalette
	}
	return highlight.LightPalette
}
