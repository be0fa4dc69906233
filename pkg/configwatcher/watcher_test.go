package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"homeschool_hub_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRewards(t *testing.T, path, threshold string) {
	t.Helper()
	body := "storage:\n  type: minio\nrewards:\n  threshold: " + threshold + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestWatchConfig_Reloads(t *testing.T) {
	Debounce = 50 * time.Millisecond
	t.Cleanup(func() { Debounce = time.Second })

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeRewards(t, path, "85")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg *config.Config) { reloaded <- cfg })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeRewards(t, path, "90")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 90.0, cfg.Rewards.Threshold)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchConfig_IgnoresInvalidReload(t *testing.T) {
	Debounce = 50 * time.Millisecond
	t.Cleanup(func() { Debounce = time.Second })

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeRewards(t, path, "85")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	go WatchConfig(ctx, path, func(cfg *config.Config) { reloaded <- cfg })

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  timeout: -1s\nstorage:\n  type: minio\n"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("invalid config must not be handed to the reloader")
	case <-time.After(500 * time.Millisecond):
	}
}
