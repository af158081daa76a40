// Package flags provides feature flag support.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/wildo/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagAutosave saves the snapshot after every applied key.
	FlagAutosave = "autosave"

	// FlagWatch reloads the snapshot when another process writes it.
	FlagWatch = "watch"
)

// Known lists every flag the application reads.
func Known() []string {
	return []string{FlagAutosave, FlagWatch}
}

// IsKnown reports whether name is one of Known.
func IsKnown(name string) bool {
	return slices.Contains(Known(), name)
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: maps.Clone(flags)}
	log.Debug(log.CatConfig, "feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Unknown flags and a nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}
