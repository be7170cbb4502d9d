package extension

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/gdbind/dispatch"
	"github.com/wippyai/gdbind/object"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the extension package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the logger of this package and of the object and
// dispatch packages.
func SetLogger(l *zap.Logger) {
	logger = l
	object.SetLogger(l)
	dispatch.SetLogger(l)
}
