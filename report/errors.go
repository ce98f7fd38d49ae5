// report/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package report deterministically assembles the textual and SSML spoken
// forms of a station's periodic broadcast from a weather sample.
package report

import "errors"

var (
	// ErrNoDataAvailable is returned when the generator has nothing to
	// report, e.g. a Weather/Custom station whose bound unit is absent
	// from the mission. The supervisor retries without advancing
	// report_index on this error.
	ErrNoDataAvailable = errors.New("report: no data available")
)

var errorStringToError = map[string]error{
	ErrNoDataAvailable.Error(): ErrNoDataAvailable,
}

// TryDecodeError maps an error's string back to this package's sentinel,
// e.g. after crossing a log/RPC boundary.
func TryDecodeError(e error) error {
	if e == nil {
		return e
	}
	if err, ok := errorStringToError[e.Error()]; ok {
		return err
	}
	return e
}
