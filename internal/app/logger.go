package app

import (
	"io"
	"log/slog"
)

// levelNames maps the config-facing level strings onto slog levels. Values
// outside the map fall back to info.
var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the App's isolated slog.Logger. The global logger is left
// untouched so parallel App instances (and tests) do not fight over it.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, ok := levelNames[levelStr]
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
