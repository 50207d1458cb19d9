package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSettingsListChanged EventType = "SettingsListChanged"
	EventStateReplaced       EventType = "StateReplaced"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventResultsReady        EventType = "ResultsReady"
	EventNotification        EventType = "Notification"
	EventError               EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SettingsListChangedEvent is emitted after a save or delete with the refreshed names
type SettingsListChangedEvent struct {
	Names []string
}

func (e SettingsListChangedEvent) Type() EventType { return EventSettingsListChanged }

// StateReplacedEvent is emitted when LastActiveState is overwritten
type StateReplacedEvent struct {
	State LastActiveState
}

func (e StateReplacedEvent) Type() EventType { return EventStateReplaced }

// ConfigLoadedEvent is emitted when a named configuration is loaded
type ConfigLoadedEvent struct {
	Config NamedConfig
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ResultsReadyEvent is emitted when a grep produced lines to show
type ResultsReadyEvent struct {
	Title string
	Lines []RenderedLine
}

func (e ResultsReadyEvent) Type() EventType { return EventResultsReady }

// Severity of a user notification
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// NotificationEvent carries a user-visible message
type NotificationEvent struct {
	Severity Severity
	Message  string
}

func (e NotificationEvent) Type() EventType { return EventNotification }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
