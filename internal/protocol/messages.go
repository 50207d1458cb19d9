// Package protocol keeps the editing panel, the last active state and the
// saved configuration list in step.
package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"grephl/internal/domain"
	"grephl/internal/eventbus"
)

// Command tags a wire message
type Command string

// Panel to host
const (
	CmdGrep          Command = "grep"
	CmdSaveSettings  Command = "saveSettings"
	CmdLoadSettings  Command = "loadSettings"
	CmdDeleteSetting Command = "deleteSetting"
	CmdSaveCurrent   Command = "saveSettings_current"
)

// Host to panel. loadSettings travels both ways.
const (
	CmdUpdateSettingsList Command = "updateSettingsList"
	CmdComplete           Command = "Complete"
	CmdShowResults        Command = "showResults"
	CmdShowMessage        Command = "showMessage"
)

// Levels of a showMessage notification
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Message is the single wire envelope for both directions.
// Absent slices mean empty.
type Message struct {
	Command     Command                `json:"command"`
	Name        string                 `json:"name,omitempty"`
	GrepWords   []string               `json:"grepWords,omitempty"`
	SearchWords []domain.HighlightSpec `json:"searchWords,omitempty"`
	Settings    []string               `json:"settings,omitempty"`
	Results     []domain.RenderedLine  `json:"results,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Level       string                 `json:"level,omitempty"`
	Text        string                 `json:"text,omitempty"`
}

// Decode parses one wire message
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decoding message: %w", err)
	}
	if msg.Command == "" {
		return Message{}, fmt.Errorf("decoding message: missing command")
	}
	return msg, nil
}

// Encode renders msg for the wire
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", msg.Command, err)
	}
	return data, nil
}

// Panel is the editing surface the host talks to
type Panel interface {
	PostMessage(msg Message) error
}

// PanelFunc adapts a function to Panel
type PanelFunc func(Message) error

func (f PanelFunc) PostMessage(msg Message) error { return f(msg) }

// ResultOpener presents rendered grep results
type ResultOpener interface {
	OpenResults(ctx context.Context, title string, lines []domain.RenderedLine) error
}

// BusOpener hands results to whichever surface subscribes to ResultsReadyEvent
type BusOpener struct {
	Bus eventbus.EventBus
}

func (o BusOpener) OpenResults(_ context.Context, title string, lines []domain.RenderedLine) error {
	o.Bus.Publish(eventbus.ResultsReadyEvent{Title: title, Lines: lines})
	return nil
}
