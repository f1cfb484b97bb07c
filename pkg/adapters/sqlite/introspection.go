package sqlite

import (
	"context"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path            string `json:"path"`
	Backend         string `json:"backend"`
	Records         int    `json:"records"`
	OpenConnections int    `json:"open_connections"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	records, _ := s.Count(context.Background())
	return StoreState{
		Path:            s.path,
		Backend:         "sqlite",
		Records:         records,
		OpenConnections: s.db.Stats().OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "keyset"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
