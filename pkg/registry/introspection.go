package registry

import (
	"slices"

	"github.com/aretw0/introspection"
)

// RegistryState exposes internal state for observability.
type RegistryState struct {
	Dir      string   `json:"dir"`
	Backend  string   `json:"backend"`
	Current  string   `json:"current"`
	Resident []string `json:"resident"`
	Stores   []any    `json:"stores,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Registry) State() any {
	r.mu.Lock()
	defer r.mu.Unlock()

	resident := make([]string, 0, len(r.stores))
	for name := range r.stores {
		resident = append(resident, name)
	}
	slices.Sort(resident)

	var stores []any
	for _, name := range resident {
		if in, ok := r.stores[name].(introspection.Introspectable); ok {
			stores = append(stores, in.State())
		}
	}

	return RegistryState{
		Dir:      r.dir,
		Backend:  r.backend.Name(),
		Current:  r.current,
		Resident: resident,
		Stores:   stores,
	}
}

// ComponentType implements introspection.Component.
func (r *Registry) ComponentType() string {
	return "registry"
}

var _ introspection.Introspectable = (*Registry)(nil)
var _ introspection.Component = (*Registry)(nil)
