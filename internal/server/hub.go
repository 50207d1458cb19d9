package server

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"grephl/internal/domain"
	"grephl/internal/protocol"
)

var errNoPanel = errors.New("no panel connected")

// wsPanel is a panel on the far side of a websocket
type wsPanel struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (p *wsPanel) PostMessage(msg protocol.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteJSON(msg)
}

// Hub tracks the most recently connected panel. Results and notifications
// go to it.
type Hub struct {
	mu     sync.Mutex
	active *wsPanel
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) activate(p *wsPanel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = p
}

func (h *Hub) deactivate(p *wsPanel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == p {
		h.active = nil
	}
}

func (h *Hub) current() *wsPanel {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// OpenResults sends rendered lines to the active panel
func (h *Hub) OpenResults(_ context.Context, title string, lines []domain.RenderedLine) error {
	p := h.current()
	if p == nil {
		return errNoPanel
	}
	return p.PostMessage(protocol.Message{Command: protocol.CmdShowResults, Title: title, Results: lines})
}

func (h *Hub) Info(msg string)  { h.notify(protocol.LevelInfo, msg) }
func (h *Hub) Error(msg string) { h.notify(protocol.LevelError, msg) }

func (h *Hub) notify(level, text string) {
	if p := h.current(); p != nil {
		_ = p.PostMessage(protocol.Message{Command: protocol.CmdShowMessage, Level: level, Text: text})
	}
}
