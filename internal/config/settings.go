package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidSettings is returned when a settings document fails validation.
var ErrInvalidSettings = errors.New("config: invalid settings")

const (
	MinLookSensitivity = 0.01
	MinMoveSpeed       = 0.05
)

// Settings are the user-adjustable camera tunables.
type Settings struct {
	LookSensitivity float64 `json:"look_sensitivity"`
	MoveSpeed       float64 `json:"move_speed"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{LookSensitivity: 0.1, MoveSpeed: 0.1}
}

// AdjustLook returns s with the look sensitivity changed by delta, floored
// at MinLookSensitivity.
func (s Settings) AdjustLook(delta float64) Settings {
	s.LookSensitivity = max(s.LookSensitivity+delta, MinLookSensitivity)
	return s
}

// AdjustMove returns s with the move speed changed by delta, floored at
// MinMoveSpeed.
func (s Settings) AdjustMove(delta float64) Settings {
	s.MoveSpeed = max(s.MoveSpeed+delta, MinMoveSpeed)
	return s
}

// SettingsProvider loads and stores Settings.
type SettingsProvider interface {
	Get() Settings
	Save(Settings) error
}

//go:embed settings.schema.json
var settingsSchemaSource string

var (
	settingsSchemaOnce sync.Once
	settingsSchema     *jsonschema.Schema
	settingsSchemaErr  error
)

func compiledSettingsSchema() (*jsonschema.Schema, error) {
	settingsSchemaOnce.Do(func() {
		settingsSchema, settingsSchemaErr = jsonschema.CompileString("settings.schema.json", settingsSchemaSource)
	})
	return settingsSchema, settingsSchemaErr
}

// ParseSettings validates a settings document and decodes it. Keys missing
// from the document keep their defaults.
func ParseSettings(raw []byte) (Settings, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	schema, err := compiledSettingsSchema()
	if err != nil {
		return DefaultSettings(), fmt.Errorf("compile settings schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	s := DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s, nil
}

// JSONSettingsProvider keeps settings in a JSON file.
type JSONSettingsProvider struct {
	path string
}

// NewJSONSettingsProvider returns a provider for the file at path.
func NewJSONSettingsProvider(path string) *JSONSettingsProvider {
	return &JSONSettingsProvider{path: path}
}

// Get reads the settings file, falling back to defaults when the file is
// missing or invalid.
func (p *JSONSettingsProvider) Get() Settings {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: read settings %s: %v", p.path, err)
		}
		return DefaultSettings()
	}
	s, err := ParseSettings(raw)
	if err != nil {
		log.Printf("config: settings %s ignored: %v", p.path, err)
		return DefaultSettings()
	}
	return s
}

// Save rewrites the settings file.
func (p *JSONSettingsProvider) Save(s Settings) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if _, err := ParseSettings(raw); err != nil {
		return err
	}
	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(p.path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// CachingSettingsProvider serves settings from memory and only writes
// through when they change.
type CachingSettingsProvider struct {
	inner SettingsProvider

	mu     sync.RWMutex
	cached Settings
}

// NewCachingSettingsProvider loads inner once and caches the result.
func NewCachingSettingsProvider(inner SettingsProvider) *CachingSettingsProvider {
	return &CachingSettingsProvider{inner: inner, cached: inner.Get()}
}

// Get returns the cached settings.
func (c *CachingSettingsProvider) Get() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cached
}

// Save writes s through to the inner provider unless it equals the cache.
func (c *CachingSettingsProvider) Save(s Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == c.cached {
		return nil
	}
	if err := c.inner.Save(s); err != nil {
		return err
	}
	c.cached = s
	return nil
}
