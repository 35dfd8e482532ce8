package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/studyplan/internal/config"
	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/logging"
	"github.com/nibzard/studyplan/internal/query"
	"github.com/nibzard/studyplan/internal/store"
)

// app wires the configured backend, store, and query engine together.
type app struct {
	cfg     *config.Config
	backend kv.Store
	store   *store.Store
	engine  *query.Engine
	logger  *log.Logger
}

// openApp opens the configured backend and loads saved tasks. Logs go to
// logw; nil means stderr.
func openApp(cfg *config.Config, logw io.Writer) (*app, error) {
	if logw == nil {
		logw = os.Stderr
	}
	logger := logging.FromConfig(logw, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	backend, err := kv.Open(cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}
	logger.Debug("Opened storage", "backend", cfg.Backend, "key", cfg.StorageKey)

	s := store.New(backend,
		store.WithKey(cfg.StorageKey),
		store.WithClock(now),
		store.WithDefaultPriority(cfg.Priority()),
		store.WithLogger(logger),
	)
	s.Load()

	return &app{
		cfg:     cfg,
		backend: backend,
		store:   s,
		engine:  query.New(s, now),
		logger:  logger,
	}, nil
}

// Close releases the backend.
func (a *app) Close() error {
	return a.backend.Close()
}
