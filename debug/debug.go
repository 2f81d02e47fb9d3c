// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package debug provides a panel of tunable parameters grouped in
// folders. A Debug value is inactive unless enabled; world code checks
// Active before adding folders.
package debug

import (
	"os"
	"strconv"

	"github.com/gogpu/stage/internal/logging"
)

// EnvVar enables debug mode when set to a true value.
const EnvVar = "STAGE_DEBUG"

// Debug holds the debug panel when debug mode is active.
type Debug struct {
	Active bool
	UI     *Panel
}

// New returns a Debug whose UI exists only when active.
func New(active bool) *Debug {
	d := &Debug{Active: active}
	if active {
		d.UI = NewPanel("stage")
		logging.Logger().Info("debug: panel enabled")
	}
	return d
}

// FromEnv reports whether EnvVar holds a true value ("1", "true", ...).
func FromEnv() bool {
	v, ok := os.LookupEnv(EnvVar)
	if !ok {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err == nil && on
}

// Folder returns the named folder of the panel, or nil when inactive.
func (d *Debug) Folder(name string) *Folder {
	if d == nil || !d.Active {
		return nil
	}
	return d.UI.Folder(name)
}

// Destroy tears the panel down. It is a no-op when inactive.
func (d *Debug) Destroy() {
	if d == nil || !d.Active {
		return
	}
	d.UI.Destroy()
}
