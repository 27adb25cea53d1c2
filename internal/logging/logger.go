package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger as the default and returns its handler
// so it can be combined with NewPGHandler once the database is up.
func Setup(level slog.Level) slog.Handler {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return handler
}

// LevelFor returns DEBUG outside production.
func LevelFor(appEnv string) slog.Level {
	if appEnv == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
