package dirwatch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camellia2077/idset/pkg/core"
)

func binFiles(name string) bool {
	return strings.HasSuffix(name, ".bin") && !strings.HasPrefix(name, "tmp-")
}

func TestMapEvent(t *testing.T) {
	known := map[string]bool{"old.bin": true}

	tests := []struct {
		name     string
		ev       fsnotify.Event
		wantType core.EventType
		wantOK   bool
	}{
		{name: "Create New", ev: fsnotify.Event{Name: "/d/new.bin", Op: fsnotify.Create}, wantType: core.EventCreate, wantOK: true},
		{name: "Replace Existing", ev: fsnotify.Event{Name: "/d/old.bin", Op: fsnotify.Create}, wantType: core.EventModify, wantOK: true},
		{name: "Write", ev: fsnotify.Event{Name: "/d/old.bin", Op: fsnotify.Write}, wantType: core.EventModify, wantOK: true},
		{name: "Remove", ev: fsnotify.Event{Name: "/d/old.bin", Op: fsnotify.Remove}, wantType: core.EventDelete, wantOK: true},
		{name: "Other Extension", ev: fsnotify.Event{Name: "/d/notes.txt", Op: fsnotify.Create}},
		{name: "Rejected By Matcher", ev: fsnotify.Event{Name: "/d/tmp-123.bin", Op: fsnotify.Create}},
		{name: "Chmod", ev: fsnotify.Event{Name: "/d/new.bin", Op: fsnotify.Chmod}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := mapEvent(tt.ev, binFiles, known)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantType, e.Type)
				assert.Equal(t, filepath.Base(tt.ev.Name), e.Database)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := Watch(ctx, dir, binFiles, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.bin"), nil, 0644))

	select {
	case e := <-events:
		assert.Equal(t, "alpha.bin", e.Database)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for database event")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watcher did not close its channel after cancel")
		}
	}
}

func TestWatch_MissingDir(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "absent"), binFiles, nil)
	assert.Error(t, err)
}
