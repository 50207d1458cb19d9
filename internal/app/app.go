// Package app wires configuration, storage and services together for the
// command line entry points.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"grephl/internal/config"
	"grephl/internal/eventbus"
	"grephl/internal/highlight"
	"grephl/internal/kvstore"
	"grephl/internal/logging"
	"grephl/internal/settings"
)

// App holds the long lived services shared by every command
type App struct {
	Config *config.Config
	Log    *zap.Logger
	Bus    eventbus.EventBus
	KV     kvstore.Provider
	State  *settings.StateStore
	Store  *settings.Store
	Engine *highlight.Engine
}

// New builds an App from cfg. Close releases it.
func New(cfg *config.Config) (*App, error) {
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}
	return NewWithLogger(cfg, log)
}

// NewWithLogger is New with a caller supplied logger
func NewWithLogger(cfg *config.Config, log *zap.Logger) (*App, error) {
	kv, err := OpenStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Info("storage opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("path", cfg.Storage.Path))

	bus := eventbus.New(log)
	state := settings.NewStateStore(kv, bus, log)
	return &App{
		Config: cfg,
		Log:    log,
		Bus:    bus,
		KV:     kv,
		State:  state,
		Store:  settings.NewStore(kv, state, bus, log),
		Engine: highlight.New(highlight.Options{CaseSensitive: cfg.Highlight.CaseSensitive}),
	}, nil
}

// OpenStorage opens the key-value provider selected by cfg
func OpenStorage(cfg config.StorageConfig) (kvstore.Provider, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return kvstore.NewMemoryStore(), nil
	case config.BackendSQLite:
		return kvstore.OpenSQLite(cfg.Path)
	case config.BackendFile, "":
		return kvstore.NewFileStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Close stops the bus and closes storage
func (a *App) Close() error {
	a.Bus.Close()
	err := a.KV.Close()
	_ = a.Log.Sync()
	return err
}
