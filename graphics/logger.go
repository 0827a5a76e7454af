package graphics

import (
	"log/slog"

	"github.com/richinsley/glrenderer/internal/logger"
)

// SetLogger configures the logger for graphics and all the glrenderer
// packages built on it. By default nothing is logged. Pass nil to restore
// silent output.
//
// Levels:
//   - [slog.LevelDebug]: object creation and binding diagnostics
//   - [slog.LevelInfo]: lifecycle events (backend up, context created)
//   - [slog.LevelWarn]: duplicate loads, cache misses, failed shader builds
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger.Get()
}
