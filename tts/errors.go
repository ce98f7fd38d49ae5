// tts/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package tts synthesizes the spoken form of a report into a sequence of
// ready-to-send Opus frames, one per backend vendor.
package tts

import "errors"

var (
	// ErrMissingCredentials is returned when a backend's required config
	// field isn't set. The orchestrator logs this and skips the station,
	// never starting a supervisor for it.
	ErrMissingCredentials = errors.New("tts: missing credentials")

	// ErrTTSUnavailable is returned when a backend's remote service
	// can't be reached or returns a non-success status.
	ErrTTSUnavailable = errors.New("tts: service unavailable")

	// ErrPlatformUnsupported is returned by the Windows backend when
	// running on any GOOS other than windows.
	ErrPlatformUnsupported = errors.New("tts: platform unsupported")
)

var errorStringToError = map[string]error{
	ErrMissingCredentials.Error():  ErrMissingCredentials,
	ErrTTSUnavailable.Error():      ErrTTSUnavailable,
	ErrPlatformUnsupported.Error(): ErrPlatformUnsupported,
}

// TryDecodeError maps an error's string back to this package's sentinel.
func TryDecodeError(e error) error {
	if e == nil {
		return e
	}
	if err, ok := errorStringToError[e.Error()]; ok {
		return err
	}
	return e
}
