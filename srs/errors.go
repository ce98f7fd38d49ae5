// srs/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package srs implements the SRS voice-relay wire protocol: the
// line-delimited JSON control channel, the length-prefixed binary voice
// channel, and the voice client that owns both transports.
package srs

import "errors"

var (
	// ErrBadFrame is returned by the control codec when a line is not
	// valid UTF-8 or not well-formed JSON.
	ErrBadFrame = errors.New("srs: malformed control-channel frame")

	// ErrBadSchema is returned when a decoded control message lacks a
	// required field for its MsgType.
	ErrBadSchema = errors.New("srs: control message missing required field")

	// ErrBadVoicePacket is returned by the voice codec when a voice
	// datagram's internal length fields don't sum to its total length.
	ErrBadVoicePacket = errors.New("srs: malformed voice packet")

	// ErrSessionClosed identifies a torn-down session. No Client method
	// returns it: Send after teardown still enqueues onto the outbound
	// queue, or blocks until its ctx ends once the queue is full.
	ErrSessionClosed = errors.New("srs: session closed")
)

var errorStringToError = map[string]error{
	ErrBadFrame.Error():       ErrBadFrame,
	ErrBadSchema.Error():      ErrBadSchema,
	ErrBadVoicePacket.Error(): ErrBadVoicePacket,
	ErrSessionClosed.Error():  ErrSessionClosed,
}

// TryDecodeError maps an error's string back to one of this package's
// sentinel errors, e.g. after it has crossed an RPC/log boundary and lost
// its original identity. Unrecognized errors pass through unchanged.
func TryDecodeError(e error) error {
	if e == nil {
		return e
	}
	if err, ok := errorStringToError[e.Error()]; ok {
		return err
	}
	return e
}
