package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"grephl/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSettingsListChanged = domain.EventSettingsListChanged
	EventStateReplaced       = domain.EventStateReplaced
	EventConfigLoaded        = domain.EventConfigLoaded
	EventResultsReady        = domain.EventResultsReady
	EventNotification        = domain.EventNotification
	EventError               = domain.EventError
)

// Re-export domain event types
type SettingsListChangedEvent = domain.SettingsListChangedEvent
type StateReplacedEvent = domain.StateReplacedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ResultsReadyEvent = domain.ResultsReadyEvent
type NotificationEvent = domain.NotificationEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// registry holds subscriptions shared by both bus flavours
type registry struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[EventType][]subscription
	log      *zap.Logger
}

func newRegistry(log *zap.Logger) registry {
	if log == nil {
		log = zap.NewNop()
	}
	return registry{
		handlers: make(map[EventType][]subscription),
		log:      log,
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (r *registry) Subscribe(eventType EventType, handler EventHandler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.handlers[eventType] = append(r.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		subs := r.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				r.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// deliver runs every handler for the event in subscription order
func (r *registry) deliver(event DomainEvent) {
	r.mu.RLock()
	subs := make([]subscription, len(r.handlers[event.Type()]))
	copy(subs, r.handlers[event.Type()])
	r.mu.RUnlock()

	for _, s := range subs {
		r.call(s.handler, event)
	}
}

func (r *registry) call(h EventHandler, event DomainEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("event handler panic",
				zap.String("event", string(event.Type())),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	h(event)
}

// bus is the queued implementation of EventBus.
// A single dispatcher goroutine delivers events one at a time, in publish order.
type bus struct {
	registry
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new queued event bus
func New(log *zap.Logger) EventBus {
	b := &bus{
		registry:  newRegistry(log),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	b.log.Debug("publishing event", zap.String("event", string(event.Type())))

	select {
	case b.eventChan <- event:
	case <-b.quit:
	default:
		b.log.Warn("event bus channel full, dropping event", zap.String("event", string(event.Type())))
	}
}

// Close stops the dispatcher after the queued events are delivered
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)

		case <-b.quit:
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

// syncBus delivers events inline on the publishing goroutine
type syncBus struct {
	registry
}

// NewSync creates an event bus that calls handlers before Publish returns
func NewSync(log *zap.Logger) EventBus {
	return &syncBus{registry: newRegistry(log)}
}

func (b *syncBus) Publish(event DomainEvent) {
	b.deliver(event)
}

func (b *syncBus) Close() {}
