package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Status     string          `json:"status"`
	LastResult OperationResult `json:"last_result"`
	Database   string          `json:"database"`
	Registry   any             `json:"registry,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var registry any
	if in, ok := s.registry.(introspection.Introspectable); ok {
		registry = in.State()
	}

	return ServiceState{
		Status:     s.status.String(),
		LastResult: s.result,
		Database:   s.registry.CurrentName(),
		Registry:   registry,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
