// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package stage

import (
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/gogpu/stage/internal/logging"
)

// SetLogger configures the logger for stage and all its sub-packages, and
// for gg, which the default renderer draws with.
// By default, stage produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by stage:
//   - [slog.LevelDebug]: per-load, per-frame and per-dispose diagnostics
//   - [slog.LevelInfo]: lifecycle events (experience created, resources ready, destroyed)
//   - [slog.LevelWarn]: non-fatal issues (render errors, failed loads, watcher errors)
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	stage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
	gg.SetLogger(l)
}

// Logger returns the current logger used by stage.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
