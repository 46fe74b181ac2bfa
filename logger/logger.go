// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/14kear/sso-prettyslog/slogpretty/slogpretty"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// New builds the process logger for env. Local runs get colored output,
// dev gets debug-level text, anything else gets info-level JSON.
func New(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case EnvLocal:
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
		}
		return slog.New(opts.NewPrettyHandler(w))
	case EnvDev:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
