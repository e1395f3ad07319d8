package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured in the settings file.
type Settings struct {
	Culling struct {
		// UseBlockStateCulling enables the block-state culling engine. When disabled, renderers use their
		// native occlusion test.
		UseBlockStateCulling bool
		// DuplicatePolicy is either "reject" or "overwrite".
		DuplicatePolicy string
		// IncompatibleMods are mods that force block-state culling off when loaded.
		IncompatibleMods []string
	}
	Render struct {
		Workers  int
		Sections int
	}
	Sentry struct {
		DSN string
	}
	Stats struct {
		Enabled bool
		// Addr is the address of the runtime stats viewer.
		Addr string
		// MetricsAddr is the address Prometheus metrics are served on.
		MetricsAddr string
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Culling.UseBlockStateCulling = true
	s.Culling.DuplicatePolicy = "reject"
	s.Culling.IncompatibleMods = []string{}
	s.Render.Workers = 4
	s.Render.Sections = 64
	s.Stats.Addr = "localhost:18066"
	s.Stats.MetricsAddr = "localhost:2112"
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Values missing from the file keep their defaults.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}
	s := DefaultSettings()
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if s.Render.Workers <= 0 {
		return Settings{}, fmt.Errorf("render workers must be positive, got %d", s.Render.Workers)
	}
	return s, nil
}

// LoadOrCreate loads the settings file at path, writing the defaults first if it does not exist yet.
func LoadOrCreate(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveDefault(path); err != nil {
			return Settings{}, err
		}
	}
	return Load(path)
}

// ModChecker reports whether a mod is loaded.
type ModChecker interface {
	ModLoaded(id string) bool
}

// CullingOption creates the option controlling block-state culling, bound to flag. The value from the
// settings is applied to the flag right away. If any of the incompatible mods is loaded, the option is
// locked and the flag is forced off.
func (s Settings) CullingOption(flag *Flag, mods ModChecker) *Option[bool] {
	opt := NewOption("culling.useBlockStateCulling", true, FlagBinding(flag))
	_ = opt.SetTooltip("Use block states and shapes to decide which block faces are hidden.")
	_ = opt.Set(s.Culling.UseBlockStateCulling)
	_ = opt.Apply()

	for _, id := range s.Culling.IncompatibleMods {
		if opt.SetModIncompatibility(mods.ModLoaded(id), id, false) {
			break
		}
	}
	return opt
}
