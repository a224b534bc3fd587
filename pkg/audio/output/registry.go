// ABOUTME: Registry of compiled-in output backends
// ABOUTME: Platform files register factories from init functions
package output

import (
	"sort"
	"sync"
)

// Factory creates a backend after checking the platform has it available.
// New must release everything it acquired before returning an error.
type Factory struct {
	Name     string
	Priority int // lower is tried first
	New      func(cfg Config) (Backend, error)
}

var (
	registryMu sync.Mutex
	registry   []Factory
)

// Register adds a backend factory. A factory with the same name replaces
// the earlier registration.
func Register(f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for i := range registry {
		if registry[i].Name == f.Name {
			registry[i] = f
			return
		}
	}
	registry = append(registry, f)
}

// Registered returns the registered factories in the order they are tried.
func Registered() []Factory {
	registryMu.Lock()
	out := make([]Factory, len(registry))
	copy(out, registry)
	registryMu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}
