package platform

import (
	"os"
	"strconv"
	"strings"
)

// Helper describes the environment the culling engine runs in. Exactly one Helper is chosen at startup and
// passed to whatever needs to probe for other mods.
type Helper interface {
	// Name returns the name of the platform.
	Name() string
	// ModLoaded returns true if the mod with the ID passed is loaded.
	ModLoaded(id string) bool
	// Development returns true if running in a development environment.
	Development() bool
	// ModName returns the display name of a mod, or the ID itself if the mod is not loaded.
	ModName(id string) string
}

// Static is a Helper with a fixed set of mods. The zero value has no mods loaded.
type Static struct {
	Platform string
	// Mods maps the ID of every loaded mod to its display name. An empty display name falls back to the ID.
	Mods map[string]string
	Dev  bool
}

// Name ...
func (s Static) Name() string {
	if s.Platform == "" {
		return "static"
	}
	return s.Platform
}

// ModLoaded ...
func (s Static) ModLoaded(id string) bool {
	_, ok := s.Mods[id]
	return ok
}

// Development ...
func (s Static) Development() bool {
	return s.Dev
}

// ModName ...
func (s Static) ModName(id string) string {
	if name := s.Mods[id]; name != "" {
		return name
	}
	return id
}

const (
	// EnvMods lists the loaded mods as comma separated id or id=Display Name entries.
	EnvMods = "CULLING_MODS"
	// EnvDev enables development mode when set to a true value.
	EnvDev = "CULLING_DEV"
)

// Environment returns a Helper built from the CULLING_MODS and CULLING_DEV environment variables.
func Environment() Static {
	return FromEnv(os.Getenv)
}

// FromEnv is like Environment but reads variables through getenv.
func FromEnv(getenv func(string) string) Static {
	s := Static{Platform: "environment", Mods: map[string]string{}}
	for _, entry := range strings.Split(getenv(EnvMods), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, _ := strings.Cut(entry, "=")
		s.Mods[strings.TrimSpace(id)] = strings.TrimSpace(name)
	}
	s.Dev, _ = strconv.ParseBool(getenv(EnvDev))
	return s
}
