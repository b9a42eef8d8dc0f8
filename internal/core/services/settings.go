package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyStorageBackend       = "storage.backend"
	KeyStorageDataDir       = "storage.data_dir"
	KeyEditorSaveDelay      = "editor.save_delay_ms"
	KeyDictationEngine      = "dictation.engine"
	KeyDictationLanguage    = "dictation.language"
	KeyDictationCommand     = "dictation.command"
	KeyDictationScript      = "dictation.script"
	KeyDictationDiscardTail = "dictation.discard_interim_on_stop"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
		Editor: domain.EditorSettings{
			SaveDelay: s.getDelay(defaults.Editor.SaveDelay),
		},
		Dictation: domain.DictationSettings{
			Engine:               s.getEngine(defaults.Dictation.Engine),
			Language:             s.getString(KeyDictationLanguage, defaults.Dictation.Language),
			Command:              s.configStore.GetStringSlice(KeyDictationCommand),
			Script:               s.configStore.GetString(KeyDictationScript),
			DiscardInterimOnStop: s.getBool(KeyDictationDiscardTail, defaults.Dictation.DiscardInterimOnStop),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyStorageBackend, settings.Storage.Backend.String()},
		{KeyStorageDataDir, settings.Storage.DataDir},
		{KeyEditorSaveDelay, int(settings.Editor.SaveDelay / time.Millisecond)},
		{KeyDictationEngine, settings.Dictation.Engine.String()},
		{KeyDictationLanguage, settings.Dictation.Language},
		{KeyDictationCommand, settings.Dictation.Command},
		{KeyDictationScript, settings.Dictation.Script},
		{KeyDictationDiscardTail, settings.Dictation.DiscardInterimOnStop},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates it and persists it.
func (s *SettingsService) Set(key, value string) error {
	var parsed any
	switch key {
	case KeyStorageBackend:
		b := domain.StorageBackend(value)
		if !b.IsValid() {
			return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, value)
		}
		parsed = b.String()
	case KeyDictationEngine:
		e := domain.SpeechEngine(value)
		if !e.IsValid() {
			return fmt.Errorf("%w: dictation engine %q", domain.ErrInvalidInput, value)
		}
		parsed = e.String()
	case KeyEditorSaveDelay:
		ms, err := strconv.Atoi(value)
		if err != nil || ms <= 0 {
			return fmt.Errorf("%w: save delay %q must be a positive number of milliseconds", domain.ErrInvalidInput, value)
		}
		parsed = ms
	case KeyDictationDiscardTail:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case KeyDictationCommand:
		parsed = strings.Fields(value)
	case KeyStorageDataDir, KeyDictationLanguage, KeyDictationScript:
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised config key in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyStorageBackend,
		KeyStorageDataDir,
		KeyEditorSaveDelay,
		KeyDictationEngine,
		KeyDictationLanguage,
		KeyDictationCommand,
		KeyDictationScript,
		KeyDictationDiscardTail,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDelay(defaultVal time.Duration) time.Duration {
	ms := s.configStore.GetInt(KeyEditorSaveDelay)
	if ms <= 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	b := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getEngine(defaultVal domain.SpeechEngine) domain.SpeechEngine {
	e := domain.SpeechEngine(s.configStore.GetString(KeyDictationEngine))
	if !e.IsValid() {
		return defaultVal
	}
	return e
}
