package ui

import (
	"grephl/internal/eventbus"
	"grephl/internal/protocol"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// HostMsg carries a message the host posted to the panel
type HostMsg struct {
	Message protocol.Message
}

// pagerDoneMsg is sent when the pager returns control
type pagerDoneMsg struct {
	err error
}

// htmlSavedMsg reports the result of writing the results page
type htmlSavedMsg struct {
	path string
	err  error
}

// exportedMsg reports the result of copying an export to the clipboard
type exportedMsg struct {
	text string
	err  error
}

// importTextMsg carries clipboard text to prefill the import prompt
type importTextMsg struct {
	text string
}
