// Package app wires configuration, vocabulary sources, the index registry and
// the HTTP server together, and manages their lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corey/cefrtag/internal/adapters/bbolt"
	"github.com/corey/cefrtag/internal/adapters/filesource"
	fsw "github.com/corey/cefrtag/internal/adapters/fsnotify"
	"github.com/corey/cefrtag/internal/adapters/web"
	"github.com/corey/cefrtag/internal/config"
	"github.com/corey/cefrtag/internal/ports"
	"github.com/corey/cefrtag/vocabulary"
)

// App is the top-level container wiring all components together.
type App struct {
	Config    *config.Config
	Source    ports.VocabularySource
	Store     *bbolt.Store // nil unless the source kind is bolt
	Registry  *Registry
	Service   *Service
	WebServer *web.Server
	Watcher   ports.Watcher // nil until Start, and only for watched file sources

	logger *slog.Logger
}

// New builds an App from cfg. Nothing is loaded or started; one-shot callers
// can use Service directly and the index compiles on first use.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	src, store, err := OpenSource(cfg.Vocab)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry(src, cfg.Tagger, logger)
	svc := NewService(reg)

	return &App{
		Config:    cfg,
		Source:    src,
		Store:     store,
		Registry:  reg,
		Service:   svc,
		WebServer: web.NewServer(svc, cfg.Server, logger),
		logger:    logger,
	}, nil
}

// OpenSource builds the vocabulary source cfg selects. For kind bolt the
// opened store is returned too and the caller owns closing it.
func OpenSource(cfg config.VocabConfig) (ports.VocabularySource, *bbolt.Store, error) {
	switch cfg.Kind {
	case config.SourceFile, "":
		return filesource.New(cfg.Path, cfg.FallbackPath), nil, nil
	case config.SourceBuiltin:
		return filesource.NewFS(vocabulary.FS, vocabulary.Sample), nil, nil
	case config.SourceBolt:
		store, err := bbolt.NewStore(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return bbolt.NewSource(store, cfg.Name), store, nil
	default:
		return nil, nil, fmt.Errorf("unknown vocab kind %q", cfg.Kind)
	}
}

// Start compiles the index, starts the file watcher when configured and
// begins serving HTTP. A missing source does not fail Start; the index
// degrades to empty and health reports it.
func (a *App) Start(ctx context.Context) error {
	if _, err := a.Registry.Snapshot(ctx); err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}

	if err := a.startWatcher(); err != nil {
		// Non-fatal: the server still answers from the loaded index.
		a.logger.Warn("vocab.watch_unavailable", slog.String("error", err.Error()))
	}

	if err := a.WebServer.Start(); err != nil {
		a.stopWatcher()
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// Stop shuts down the server and watcher and closes the store.
func (a *App) Stop() error {
	a.WebServer.Stop()
	a.stopWatcher()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}

// Close releases resources for one-shot use (no server was started).
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) startWatcher() error {
	if !a.Config.Vocab.Watch {
		return nil
	}
	fileSrc, ok := a.Source.(*filesource.Source)
	if !ok || a.Config.Vocab.Kind != config.SourceFile {
		return fmt.Errorf("watch needs a file source, have %s", a.Source.Describe())
	}

	w, err := fsw.NewWatcherWithDebounce(a.Config.Vocab.Debounce)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Watch(fileSrc.Path(), a.onSourceChanged); err != nil {
		w.Stop()
		return fmt.Errorf("watch %s: %w", fileSrc.Path(), err)
	}
	a.Watcher = w
	a.logger.Info("vocab.watching", slog.String("path", fileSrc.Path()))
	return nil
}

func (a *App) stopWatcher() {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
}

// onSourceChanged reloads after the watched vocabulary file settles.
// Failures keep the previous index; Reload logs them.
func (a *App) onSourceChanged(path string) {
	a.logger.Debug("vocab.changed", slog.String("path", path))
	a.Registry.Reload(context.Background())
}
