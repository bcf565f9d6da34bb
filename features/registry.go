package features

import (
	"fmt"
	"sort"

	"github.com/quaverlab/corpusfeat/logging"
)

// Entry binds a symbolic extractor name to its configuration type and
// construction function, so extractors can be selected by name plus a
// persisted config mapping at runtime.
type Entry struct {
	// Name is the symbolic name the extractor is resolved by.
	Name string

	// NewConfig returns a fresh config value populated with defaults. Its
	// concrete type is the extractor's own config struct.
	NewConfig func() any

	// Build constructs the extractor from a flat config mapping. The mapping
	// is applied strictly: unknown keys are a construction error.
	Build func(cfg ConfigMapping) (Extractor, error)
}

// Registry is an explicit lookup table from symbolic name to extractor
// binding. It carries no import-time state; callers construct one and
// register the extractors they want available.
type Registry struct {
	entries map[string]Entry
	logger  logging.Logger
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		logger: logging.WithFields(logging.Fields{
			"component": "extractor_registry",
		}),
	}
}

// Register adds an entry to the registry. Registering a name twice is an
// error; bindings are fixed for the registry's lifetime.
func (r *Registry) Register(entry Entry) error {
	if entry.Name == "" {
		return fmt.Errorf("extractor entry has empty name")
	}
	if entry.Build == nil {
		return fmt.Errorf("extractor %q has no build function", entry.Name)
	}
	if _, exists := r.entries[entry.Name]; exists {
		return fmt.Errorf("extractor %q is already registered", entry.Name)
	}

	r.entries[entry.Name] = entry
	r.logger.Debug("Registered extractor", logging.Fields{
		"name": entry.Name,
	})
	return nil
}

// Resolve looks up an entry by symbolic name.
func (r *Registry) Resolve(name string) (Entry, bool) {
	entry, ok := r.entries[name]
	return entry, ok
}

// Build resolves a name and constructs the extractor from the given mapping.
func (r *Registry) Build(name string, cfg ConfigMapping) (Extractor, error) {
	entry, ok := r.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("no extractor registered under %q", name)
	}
	return entry.Build(cfg)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
