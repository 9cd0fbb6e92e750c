package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("ranking:\n  ttl_seconds: 60\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ttl atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) {
			ttl.Store(int64(cfg.Ranking.TTLSeconds))
		})
	}()

	// 等待 watcher 就绪后再写
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("ranking:\n  ttl_seconds: 120\n"), 0o644))

	assert.Eventually(t, func() bool { return ttl.Load() == 120 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
