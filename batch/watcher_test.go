package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/respecthconv/report"
)

// waitFor skips events until one with operation op arrives. A write may be
// split across two flushes, which yields an extra modify event.
func waitFor(t *testing.T, w *Watcher, op WatchOperation) WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "events channel closed")
			if ev.Operation == op {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", op)
			return WatchEvent{}
		}
	}
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewWatcher(root, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.Start(ctx))

	path := filepath.Join(root, "x1.xml")
	require.NoError(t, os.WriteFile(path, []byte("<experiment/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "x1.dic"), []byte("ignored"), 0644))

	ev := waitFor(t, w, WatchOpCreate)
	assert.Equal(t, path, ev.Path)

	require.NoError(t, os.WriteFile(path, []byte("<experiment></experiment>"), 0644))
	ev = waitFor(t, w, WatchOpModify)
	assert.Equal(t, path, ev.Path)

	require.NoError(t, os.Remove(path))
	ev = waitFor(t, w, WatchOpDelete)
	assert.Equal(t, path, ev.Path)

	assert.Zero(t, w.DroppedEvents())
}

func TestWatch(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewWatcher(root, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.Start(ctx))

	conv := &fakeConverter{}
	r := report.New()
	entries := make(chan report.Entry, 1)
	go Watch(ctx, conv, w, r, func(e report.Entry) { entries <- e })

	path := filepath.Join(root, "x7.xml")
	require.NoError(t, os.WriteFile(path, []byte("<experiment/>"), 0644))

	select {
	case e := <-entries:
		assert.Equal(t, path, e.File)
		assert.Equal(t, report.StatusConverted, e.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for conversion")
	}
}
