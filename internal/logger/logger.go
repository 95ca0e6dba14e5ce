package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/campusmarket/internal/config"
)

// New creates a JSON slog.Logger writing to w at the given level.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func fromConfig(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg.LogLevel).With(slog.String("service", cfg.ServiceName))
}
