package rex

import (
	"log/slog"
	"sync/atomic"

	"github.com/casualjim/rex/pkg/slogx"
)

var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used for rex diagnostics (stale sources,
// leaked subscriptions, task contract violations). A nil logger restores
// slog.Default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		pkgLogger.Store(nil)
		return
	}
	pkgLogger.Store(l.With(slogx.LoggerName("rex")))
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default().With(slogx.LoggerName("rex"))
}
