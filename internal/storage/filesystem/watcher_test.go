package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForSnapshot(t *testing.T, w *Watcher) *Snapshot {
	t.Helper()
	select {
	case snapshot := <-w.Snapshots():
		require.NotNil(t, snapshot)
		return snapshot
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestWatcher(t *testing.T) {
	t.Run("produces a snapshot after a change settles", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

		source, err := NewSource(dir, false)
		require.NoError(t, err)
		watcher, err := NewWatcher(source)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx)

		// Give the recursive watch a moment to attach.
		time.Sleep(100 * time.Millisecond)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))

		snapshot := waitForSnapshot(t, watcher)
		require.Len(t, snapshot.Forest, 2)
		assert.Equal(t, "a.txt", snapshot.Forest[0].ID())
		assert.Equal(t, "b.txt", snapshot.Forest[1].ID())
	})

	t.Run("picks up files in newly created directories", func(t *testing.T) {
		dir := t.TempDir()
		source, err := NewSource(dir, false)
		require.NoError(t, err)
		watcher, err := NewWatcher(source)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx)

		time.Sleep(100 * time.Millisecond)
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		waitForSnapshot(t, watcher)

		require.NoError(t, os.WriteFile(filepath.Join(sub, "inner.txt"), []byte("x"), 0o644))
		snapshot := waitForSnapshot(t, watcher)

		require.Len(t, snapshot.Forest, 1)
		children := snapshot.Forest[0].Children()
		require.Len(t, children, 1)
		assert.Equal(t, "inner.txt", children[0].ID())
	})

	t.Run("cancel stops the run loop and closes the channel", func(t *testing.T) {
		dir := t.TempDir()
		source, err := NewSource(dir, false)
		require.NoError(t, err)
		watcher, err := NewWatcher(source)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- watcher.Run(ctx) }()

		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not stop after cancel")
		}

		_, open := <-watcher.Snapshots()
		assert.False(t, open)
	})
}
