//go:build e2e

package e2e_test

import (
	"flag"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lmittmann/tint"
	"github.com/malbeclabs/anchorprobe/config"
	"github.com/malbeclabs/anchorprobe/e2e/internal/logging"
)

var (
	verbose bool
	debug   bool
	logger  *slog.Logger
)

// testWriter wraps testing.T so per-test logs only show on failure or with -v.
type testWriter struct {
	t  *testing.T
	mu sync.Mutex
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.t.Logf("%s", p)
	return len(p), nil
}

func TestMain(m *testing.M) {
	flag.Parse()
	if vFlag := flag.Lookup("test.v"); vFlag != nil && vFlag.Value.String() == "true" {
		verbose = true
	}
	if os.Getenv("ANCHOR_E2E_DEBUG") != "" {
		debug = true
	}

	logger = newTestLogger(debug)
	logging.SetTestcontainersLogger(logger)

	if err := config.LoadDotEnv(""); err != nil {
		logger.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func newTestLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.DateTime,
	}))
}

func newTestLoggerForTest(t *testing.T) *slog.Logger {
	w := &testWriter{t: t}
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.DateTime,
	}))
}
