// Package slogx builds the service loggers and carries them through
// request contexts.
package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Redacted replaces the value of every secret attribute.
const Redacted = "[REDACTED]"

// secretKeys are attribute keys never written in clear, whatever their
// group.
var secretKeys = map[string]bool{
	"pin":           true,
	"code":          true,
	"sca_data":      true,
	"access_token":  true,
	"refresh_token": true,
	"authorization": true,
	"token":         true,
}

type Config struct {
	Service string
	Version string
	Env     string // dev adds source locations
	Level   string // debug, info, warn or error; anything else is info
	Format  string // json or text

	Output io.Writer // defaults to os.Stdout
}

// New returns a logger tagged with service, version and env and makes it
// the process default.
func New(cfg Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource:   cfg.Env == "dev",
		Level:       level,
		ReplaceAttr: redact,
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)
	slog.SetDefault(logger)
	return logger
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Redacted)
	}
	return a
}
