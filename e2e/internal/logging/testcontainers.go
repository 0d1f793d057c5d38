package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tclog "github.com/testcontainers/testcontainers-go/log"
)

// testcontainersLogger forwards testcontainers' printf-style output to slog. Routine lifecycle
// lines go to debug so a localnet run only shows its own progress at info.
type testcontainersLogger struct {
	logger *slog.Logger
}

func NewTestcontainersAdapter(logger *slog.Logger) tclog.Logger {
	return &testcontainersLogger{logger: logger}
}

func (s *testcontainersLogger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	level, ok := levelFor(msg)
	if !ok {
		return
	}
	s.logger.Log(context.Background(), level, strings.TrimSpace(msg))
}

func levelFor(msg string) (slog.Level, bool) {
	switch {
	case strings.Contains(msg, "Connected to docker"):
		return 0, false
	case strings.HasPrefix(msg, "❌"):
		return slog.LevelError, true
	case strings.HasPrefix(msg, "✅"), strings.HasPrefix(msg, "🐳"), strings.HasPrefix(msg, "🔔"), strings.HasPrefix(msg, "⏳"):
		return slog.LevelDebug, true
	default:
		return slog.LevelInfo, true
	}
}

func SetTestcontainersLogger(logger *slog.Logger) {
	tclog.SetDefault(NewTestcontainersAdapter(logger))
}
