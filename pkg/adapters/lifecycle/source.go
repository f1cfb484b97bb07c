// Package lifecycle exposes database change events as a lifecycle.Source so
// they can be consumed next to other supervised event streams.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/camellia2077/idset/pkg/core"
)

// SourceOption configures a Source.
type SourceOption func(*Source)

// OnlyDatabases restricts the source to events of the named database files.
// Names must be normalized (extension included). No names means no filter.
func OnlyDatabases(names ...string) SourceOption {
	return func(s *Source) {
		if len(names) == 0 {
			return
		}
		s.databases = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.databases[n] = struct{}{}
		}
	}
}

// Source is a lifecycle.Source over a channel of database events.
type Source struct {
	events    <-chan core.Event
	out       chan lifecycle.Event
	databases map[string]struct{}
}

// NewSource creates a Source that emits database events.
func NewSource(events <-chan core.Event, opts ...SourceOption) *Source {
	s := &Source{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards matching events until ctx is done or the input channel
// closes, then closes the output channel.
func (s *Source) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.wants(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *Source) wants(e core.Event) bool {
	if s.databases == nil {
		return true
	}
	_, ok := s.databases[e.Database]
	return ok
}

var _ lifecycle.Source = (*Source)(nil)
