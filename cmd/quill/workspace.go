package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/quill/internal/adapters/driven/speech"
	"github.com/custodia-labs/quill/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/quill/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quill/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quill/internal/adapters/driving/cli"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
	"github.com/custodia-labs/quill/internal/core/services"
	"github.com/custodia-labs/quill/internal/logger"
)

// dataDirName is the default data directory under the config directory.
const dataDirName = "data"

// openedStore is a note store plus what it takes to release it.
type openedStore struct {
	notes   driven.NoteStore
	watcher driven.Watchable
	close   func() error
}

// newWorkspaceOpener builds workspaces from the settings current at the
// time each command runs.
func newWorkspaceOpener(configDir string, settings driving.SettingsService) cli.WorkspaceOpener {
	return func(_ context.Context, opts cli.OpenOptions) (*cli.Workspace, error) {
		cfg, err := settings.Get()
		if err != nil {
			return nil, fmt.Errorf("reading settings: %w", err)
		}

		store, err := openStore(cfg.Storage, configDir, opts.Ephemeral)
		if err != nil {
			return nil, err
		}

		engine, err := openEngine(cfg.Dictation, opts.Script)
		if err != nil {
			_ = store.close()
			return nil, err
		}

		sessionOpts := []services.SessionOption{
			services.WithSaveDelay(cfg.Editor.SaveDelay),
			services.WithDiscardInterimOnStop(cfg.Dictation.DiscardInterimOnStop),
		}
		if engine != nil {
			sessionOpts = append(sessionOpts, services.WithRecogniser(engine))
		}

		return &cli.Workspace{
			Notes:   services.NewSession(store.notes, sessionOpts...),
			Watcher: store.watcher,
			Release: func() error {
				var errs []error
				if engine != nil {
					errs = append(errs, engine.Close())
				}
				errs = append(errs, store.close())
				return errors.Join(errs...)
			},
		}, nil
	}
}

func openStore(s domain.StorageSettings, configDir string, ephemeral bool) (*openedStore, error) {
	noop := func() error { return nil }
	if ephemeral || s.Backend == domain.StorageMemory {
		logger.Debug("using in-memory note store")
		return &openedStore{notes: memory.NewNoteStore(), close: noop}, nil
	}

	dataDir := s.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, dataDirName)
	}

	switch s.Backend {
	case domain.StorageSQLite:
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Debug("using sqlite note store at %s", db.Path())
		return &openedStore{notes: db.NoteStore(), close: db.Close}, nil
	default:
		js, err := jsonfile.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening note file: %w", err)
		}
		logger.Debug("using note file %s", js.Path())
		return &openedStore{notes: js, watcher: js, close: noop}, nil
	}
}

// openEngine returns the recogniser for this run, or nil when dictation is
// unavailable. An explicit script must load; a broken configured engine
// only disables dictation so the rest of quill keeps working.
func openEngine(d domain.DictationSettings, script string) (driven.Recogniser, error) {
	if script != "" {
		engine, err := speech.LoadScript(script)
		if err != nil {
			return nil, fmt.Errorf("loading dictation script: %w", err)
		}
		return engine, nil
	}

	engine, err := speech.New(d)
	if err != nil {
		logger.Warn("dictation disabled: %v", err)
		return nil, nil
	}
	return engine, nil
}
