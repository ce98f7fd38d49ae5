// srs/sguid.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package srs

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// SguidLen is the fixed length of an sguid: a 16-byte UUID, base64url
// encoded without padding.
const SguidLen = 22

// NewSguid generates a fresh version-4 UUID and returns it as a 22-ASCII-
// character base64url (no padding) sguid, the relay's client-identifier
// format.
func NewSguid() string {
	id := uuid.New()
	return EncodeSguid(id)
}

// EncodeSguid encodes 16 raw UUID bytes into the 22-character sguid form.
func EncodeSguid(raw [16]byte) string {
	return base64.RawURLEncoding.EncodeToString(raw[:])
}

// DecodeSguid decodes a 22-character sguid back into its 16 raw bytes.
func DecodeSguid(s string) ([16]byte, error) {
	var out [16]byte
	if len(s) != SguidLen {
		return out, fmt.Errorf("srs: sguid %q has length %d, want %d", s, len(s), SguidLen)
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("srs: decode sguid %q: %w", s, err)
	}
	if len(b) != 16 {
		return out, fmt.Errorf("srs: sguid %q decoded to %d bytes, want 16", s, len(b))
	}
	copy(out[:], b)
	return out, nil
}
