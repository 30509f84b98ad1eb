package application

import (
	"io"
	"log/slog"
)

// loggerOrNop lets services treat their logger as always present. Tests that
// do not care about log output pass nil.
func loggerOrNop(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
