// Package dirwatch reports database files appearing, changing or disappearing
// in a data directory. Which file names count as databases is decided by the
// caller, so every storage backend can share the same watcher.
package dirwatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/camellia2077/idset/pkg/core"
)

// Matcher reports whether a base file name is a database file.
type Matcher func(name string) bool

// Watch observes dir and emits an event whenever a file accepted by match is
// created, rewritten or removed. The channel is closed when ctx is done.
func Watch(ctx context.Context, dir string, match Matcher, logger *slog.Logger) (<-chan core.Event, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	known := make(map[string]bool)
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && match(e.Name()) {
				known[e.Name()] = true
			}
		}
	}

	events := make(chan core.Event, 16)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", "dir", dir, "error", err)
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				e, ok := mapEvent(ev, match, known)
				if !ok {
					continue
				}
				logger.Debug("database event", "type", e.Type, "database", e.Database)
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("watcher panic", "dir", dir, "error", err)
	}))

	return events, nil
}

// mapEvent translates a filesystem event into a database event.
// known tracks which database files exist so that an atomic replace (which
// surfaces as a create of the target) is reported as a modification.
func mapEvent(ev fsnotify.Event, match Matcher, known map[string]bool) (core.Event, bool) {
	name := filepath.Base(ev.Name)
	if !match(name) {
		return core.Event{}, false
	}

	e := core.Event{Database: name, Timestamp: time.Now().Unix()}
	switch {
	case ev.Has(fsnotify.Create):
		e.Type = eventTypeFor(known[name])
		known[name] = true
	case ev.Has(fsnotify.Write):
		e.Type = core.EventModify
		known[name] = true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		e.Type = core.EventDelete
		delete(known, name)
	default:
		return core.Event{}, false
	}
	return e, true
}

// eventTypeFor returns EventModify for a file that already existed and
// EventCreate otherwise.
func eventTypeFor(existed bool) core.EventType {
	if existed {
		return core.EventModify
	}
	return core.EventCreate
}
