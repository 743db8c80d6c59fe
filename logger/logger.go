package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log is the shared application logger. It writes structured records to
// stdout and to service.log so request errors survive restarts.
var Log *slog.Logger

func init() {
	file, err := os.OpenFile("service.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		// We can't use our logger here, so we'll panic.
		panic("Failed to open log file: " + err.Error())
	}

	writer := io.MultiWriter(os.Stdout, file)

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	Log = slog.New(handler)
}
