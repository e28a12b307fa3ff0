package purrmoji

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/purrmoji/internal/logx"
)

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logx.Nop())
}

// SetLogger configures the logger for purrmoji. Sessions opened afterwards
// hand it to every sub-package they create. By default, purrmoji produces
// no log output.
//
// SetLogger is safe for concurrent use. Pass nil to disable logging.
//
// Log levels used by purrmoji:
//   - [slog.LevelDebug]: render misses and fallbacks
//   - [slog.LevelInfo]: lifecycle events (folder switch, package extracted)
//   - [slog.LevelWarn]: backend fallbacks and persistence failures
//
// Example:
//
//	purrmoji.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(logx.OrNop(l))
}

// Logger returns the current logger used by purrmoji.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
