// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package resource

import "errors"

// Errors.
var (
	// ErrNoLoader is returned for a source whose kind has no registered loader.
	ErrNoLoader = errors.New("resource: no loader for kind")

	// ErrInvalidManifest is returned for malformed source manifests.
	ErrInvalidManifest = errors.New("resource: invalid manifest")

	// ErrClosed is returned when loading is cancelled by Close.
	ErrClosed = errors.New("resource: loader closed")

	// ErrUnknownSource is returned by Reload for a name not in the batch.
	ErrUnknownSource = errors.New("resource: unknown source")

	// ErrNotStarted is returned by Reload before Start.
	ErrNotStarted = errors.New("resource: loading not started")
)

// LoadError reports the failure of one source.
type LoadError struct {
	Source Source
	Err    error
}

func (e *LoadError) Error() string {
	return "resource: load " + e.Source.Name + " (" + e.Source.Location + "): " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
