package fs

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path    string `json:"path"`
	Backend string `json:"backend"`
	Records int    `json:"records"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StoreState{
		Path:    s.path,
		Backend: "bin",
		Records: len(s.ids),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "keyset"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
