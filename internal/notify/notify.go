// Package notify is the user-facing message sink.
package notify

import (
	"go.uber.org/zap"

	"grephl/internal/domain"
	"grephl/internal/eventbus"
)

// Notifier shows a message to the user
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// BusNotifier publishes notifications as events for whichever surface listens
type BusNotifier struct {
	bus eventbus.EventBus
}

// NewBusNotifier creates a notifier that publishes on bus
func NewBusNotifier(bus eventbus.EventBus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) Info(msg string) {
	n.bus.Publish(eventbus.NotificationEvent{Severity: domain.SeverityInfo, Message: msg})
}

func (n *BusNotifier) Error(msg string) {
	n.bus.Publish(eventbus.NotificationEvent{Severity: domain.SeverityError, Message: msg})
}

// LogNotifier writes notifications to the log
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a notifier backed by log
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Info(msg string)  { n.log.Info(msg) }
func (n *LogNotifier) Error(msg string) { n.log.Error(msg) }

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Info(msg string) {
	for _, n := range m {
		n.Info(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}
