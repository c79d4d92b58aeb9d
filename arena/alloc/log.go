package alloc

import (
	"io"
	"log/slog"
	"os"
)

// Runtime debug flag for allocation logging, controlled by HEAPKIT_LOG_ALLOC.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

func defaultLogger() *slog.Logger {
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
