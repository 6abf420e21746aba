// Package debug emits protocol traces when $WAYLAND_DEBUG is set to a
// positive number, mirroring libwayland.
package debug

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

var enabled bool

func init() {
	debugLevel, err := strconv.ParseInt(os.Getenv("WAYLAND_DEBUG"), 10, 0)
	if err != nil {
		return
	}
	enabled = debugLevel > 0
}

// Enabled reports whether protocol tracing is on.
func Enabled() bool {
	return enabled
}

// Printf logs a protocol trace line at debug level.
func Printf(logger *slog.Logger, str string, args ...any) {
	if !enabled || logger == nil {
		return
	}
	logger.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(str, args...))
}
