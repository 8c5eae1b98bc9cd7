package control

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsock.json")
	writeFile(t, path, `{
		"endpoint": "ipc://@echo",
		"backlog": 64,
		"max_events": 16,
		"poll_timeout": "250ms",
		"message_size": 1024,
		"log_level": "debug",
		"metrics_addr": "127.0.0.1:9100"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ipc://@echo", cfg.Endpoint)
	assert.Equal(t, 64, cfg.Backlog)
	assert.Equal(t, 16, cfg.MaxEvents)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.PollTimeout))
	assert.Equal(t, 1024, cfg.MessageSize)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadConfigNumericDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsock.json")
	writeFile(t, path, `{"poll_timeout": 1000000}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, time.Millisecond, time.Duration(cfg.PollTimeout))
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"poll_timeout": "soon"}`)
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	neg := filepath.Join(dir, "neg.json")
	writeFile(t, neg, `{"backlog": -1}`)
	_, err = LoadConfig(neg)
	assert.ErrorContains(t, err, "negative")
}

func TestLevelDefaults(t *testing.T) {
	lvl, err := FileConfig{}.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	_, err = FileConfig{LogLevel: "chatty"}.Level()
	assert.Error(t, err)
}

func TestWatchConfigReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsock.json")
	writeFile(t, path, `{"log_level": "info"}`)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan FileConfig, 16)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg FileConfig, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// The watcher may not be armed yet, so keep rewriting until it reports.
	var cfg FileConfig
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`{"log_level": "warn"}`), 0o600)
		select {
		case cfg = <-got:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "warn", cfg.LogLevel)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.Accepted.Inc()
	m.Accepted.Inc()
	m.WorkersActive.Set(3)

	assert.Equal(t, 2.0, m.Value("gsock_connections_accepted_total"))
	assert.Equal(t, 3.0, m.Value("gsock_workers_active"))
	assert.Zero(t, m.Value("no_such_metric"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "gsock_connections_accepted_total 2")
	assert.Contains(t, body, "gsock_bytes_sent_total 0")
}

func TestMetricsAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.Dispatches.Inc()
	assert.Equal(t, 1.0, a.Value("gsock_dispatches_total"))
	assert.Zero(t, b.Value("gsock_dispatches_total"))
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("endpoint", func() any { return "tcp://127.0.0.1:1" })
	dp.RegisterProbe("registered_connections", func() any { return 2 })
	RegisterRuntimeProbes(dp)

	state := dp.DumpState()
	assert.Equal(t, "tcp://127.0.0.1:1", state["endpoint"])
	assert.Equal(t, 2, state["registered_connections"])
	assert.Contains(t, state, "runtime.goroutines")

	out, err := dp.DumpJSON()
	require.NoError(t, err)
	text := string(out)
	assert.True(t, strings.Index(text, `"endpoint"`) < strings.Index(text, `"registered_connections"`))
	assert.Contains(t, text, `"registered_connections": 2`)
}
