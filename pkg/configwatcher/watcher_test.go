package configwatcher

import (
	"context"
	"edumarket_backend/internal/config"
	"edumarket_backend/pkg/logger"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func writeTestConfig(t *testing.T, path string, refreshMinutes int) {
	t.Helper()
	content := fmt.Sprintf(`server:
  port: "8080"
  mode: debug
catalog:
  refresh_minutes: %d
`, refreshMinutes)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// Consecutive writes must each produce a reload; the debounce timer is
// reused across events and must never block the watcher loop.
func TestWatchConfigReloadsOnEachWrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeTestConfig(t, cfgPath, 5)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	go WatchConfig(ctx, cfgPath, func(cfg *config.Config) {
		reloaded <- cfg
	})

	// Give the watcher time to register the file.
	time.Sleep(200 * time.Millisecond)

	writeTestConfig(t, cfgPath, 9)
	cfg := waitForReload(t, reloaded)
	require.Equal(t, 9, cfg.Catalog.RefreshMinutes)

	// The second write exercises the timer restart after a fire.
	writeTestConfig(t, cfgPath, 11)
	cfg = waitForReload(t, reloaded)
	require.Equal(t, 11, cfg.Catalog.RefreshMinutes)
}

func waitForReload(t *testing.T, ch chan *config.Config) *config.Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(5 * time.Second):
		t.Fatal("config write did not trigger a reload")
		return nil
	}
}
