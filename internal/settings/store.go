// Package settings keeps named search configurations and the last active draft.
package settings

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"grephl/internal/domain"
	"grephl/internal/eventbus"
	"grephl/internal/kvstore"
)

// SettingsKey is where named configurations are persisted
const SettingsKey = "grepExtension.settings"

// Store is the named configuration registry
type Store struct {
	kv    kvstore.Provider
	state *StateStore
	bus   eventbus.EventBus
	log   *zap.Logger
}

// NewStore creates a configuration store. Loading a configuration makes it
// the new last active state.
func NewStore(kv kvstore.Provider, state *StateStore, bus eventbus.EventBus, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, state: state, bus: bus, log: log}
}

// Save inserts or replaces the configuration called name
func (s *Store) Save(ctx context.Context, name string, terms []string, highlights []domain.HighlightSpec) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrMissingName
	}

	configs, err := s.all(ctx)
	if err != nil {
		return err
	}

	cfg := domain.NamedConfig{
		Name:       name,
		Terms:      domain.CleanTerms(terms),
		Highlights: domain.CleanHighlights(highlights),
	}
	replaced := false
	for i := range configs {
		if configs[i].Name == name {
			configs[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		configs = append(configs, cfg)
	}

	if err := s.kv.Set(ctx, SettingsKey, configs); err != nil {
		return fmt.Errorf("saving settings %q: %w", name, err)
	}
	s.log.Info("settings saved", zap.String("name", name), zap.Bool("replaced", replaced))
	s.broadcast(configs)
	return nil
}

// Load returns the configuration called name and makes it the last active state
func (s *Store) Load(ctx context.Context, name string) (domain.NamedConfig, error) {
	cfg, err := s.Get(ctx, name)
	if err != nil {
		return domain.NamedConfig{}, err
	}

	if s.state != nil {
		if _, err := s.state.Replace(ctx, cfg.Terms, cfg.Highlights, cfg.Name); err != nil {
			return domain.NamedConfig{}, err
		}
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigLoadedEvent{Config: cfg})
	}
	s.log.Info("settings loaded", zap.String("name", name))
	return cfg, nil
}

// Get returns the configuration called name without touching the last active state
func (s *Store) Get(ctx context.Context, name string) (domain.NamedConfig, error) {
	configs, err := s.all(ctx)
	if err != nil {
		return domain.NamedConfig{}, err
	}
	for _, c := range configs {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.NamedConfig{}, fmt.Errorf("%w: %q", domain.ErrConfigNotFound, name)
}

// Delete removes the configuration called name. Removing an unknown name succeeds.
func (s *Store) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrMissingName
	}

	configs, err := s.all(ctx)
	if err != nil {
		return err
	}

	kept := configs[:0]
	for _, c := range configs {
		if c.Name != name {
			kept = append(kept, c)
		}
	}

	if err := s.kv.Set(ctx, SettingsKey, kept); err != nil {
		return fmt.Errorf("deleting settings %q: %w", name, err)
	}
	s.log.Info("settings deleted", zap.String("name", name), zap.Bool("existed", len(kept) != len(configs)))
	s.broadcast(kept)
	return nil
}

// List returns every configuration name in insertion order
func (s *Store) List(ctx context.Context) ([]string, error) {
	configs, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return names(configs), nil
}

func (s *Store) all(ctx context.Context) ([]domain.NamedConfig, error) {
	var configs []domain.NamedConfig
	if _, err := s.kv.Get(ctx, SettingsKey, &configs); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return configs, nil
}

func (s *Store) broadcast(configs []domain.NamedConfig) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.SettingsListChangedEvent{Names: names(configs)})
}

func names(configs []domain.NamedConfig) []string {
	out := make([]string, len(configs))
	for i, c := range configs {
		out[i] = c.Name
	}
	return out
}
