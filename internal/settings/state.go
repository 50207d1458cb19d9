package settings

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"grephl/internal/domain"
	"grephl/internal/eventbus"
	"grephl/internal/kvstore"
)

// StateKey is where the last active draft is persisted
const StateKey = "lastState"

// StateStore owns the single LastActiveState record
type StateStore struct {
	mu  sync.Mutex
	kv  kvstore.Provider
	bus eventbus.EventBus
	log *zap.Logger
}

// NewStateStore creates a state store
func NewStateStore(kv kvstore.Provider, bus eventbus.EventBus, log *zap.Logger) *StateStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateStore{kv: kv, bus: bus, log: log}
}

// Current returns the stored state and whether one exists
func (s *StateStore) Current(ctx context.Context) (domain.LastActiveState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

// Replace overwrites the stored state with a new record
func (s *StateStore) Replace(ctx context.Context, terms []string, highlights []domain.HighlightSpec, name string) (domain.LastActiveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, _, err := s.current(ctx)
	if err != nil {
		// an unreadable record is replaced rather than blocking every edit
		s.log.Warn("discarding unreadable last state", zap.Error(err))
	}

	next := domain.LastActiveState{
		Terms:            domain.CleanTerms(terms),
		Highlights:       domain.CleanHighlights(highlights),
		ActiveConfigName: name,
		Version:          prev.Version + 1,
	}
	if err := s.kv.Set(ctx, StateKey, next); err != nil {
		return domain.LastActiveState{}, fmt.Errorf("saving last state: %w", err)
	}

	s.log.Debug("last state replaced",
		zap.Uint64("version", next.Version),
		zap.Int("terms", len(next.Terms)),
		zap.Int("highlights", len(next.Highlights)))
	if s.bus != nil {
		s.bus.Publish(eventbus.StateReplacedEvent{State: next})
	}
	return next, nil
}

func (s *StateStore) current(ctx context.Context) (domain.LastActiveState, bool, error) {
	var st domain.LastActiveState
	ok, err := s.kv.Get(ctx, StateKey, &st)
	if err != nil {
		return domain.LastActiveState{}, false, fmt.Errorf("reading last state: %w", err)
	}
	return st, ok, nil
}
