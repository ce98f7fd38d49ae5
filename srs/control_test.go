// srs/control_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package srs

import (
	"bytes"
	"testing"
)

func TestControlEncodeDecodeRoundTrip(t *testing.T) {
	guid := NewSguid()
	client := NewClient(guid, "Kutaisi ATIS", Position{X: 1, Y: 2, Alt: 3}, CoalitionBlue, nil)
	msg := Message{MsgType: MsgSync, Version: "1.7.0.0", Client: &client}

	enc, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasSuffix(enc, []byte("\n")) {
		t.Fatal("expected trailing newline")
	}

	got, err := Decode(bytes.TrimSuffix(enc, []byte("\n")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MsgType != MsgSync || got.Version != "1.7.0.0" {
		t.Fatalf("got %+v", got)
	}
	if got.Client == nil || got.Client.ClientGuid != guid {
		t.Fatalf("Client round trip mismatch: %+v", got.Client)
	}
	if pos := got.Client.WorldPosition(); pos != (Position{X: 1, Y: 2, Alt: 3}) {
		t.Fatalf("WorldPosition() = %+v, want {1 2 3}", pos)
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	if _, err := Decode([]byte{0xff, 0xfe, 0xfd}); err == nil {
		t.Fatal("expected ErrBadFrame for invalid UTF-8")
	}
}

func TestDecodeRejectsMissingClient(t *testing.T) {
	if _, err := Decode([]byte(`{"MsgType":2,"Version":"1.7.0.0"}`)); err == nil {
		t.Fatal("expected ErrBadSchema for Sync without Client")
	}
}

func TestDecodeRejectsGarbageJSON(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatal("expected ErrBadFrame for non-JSON line")
	}
}

func TestPositionWireAliasing(t *testing.T) {
	pos := Position{X: 10, Y: 20, Alt: 30}
	w := pos.toWire()
	if w.X != 10 || w.Y != 30 || w.Z != 20 {
		t.Fatalf("toWire() = %+v, want {X:10 Y:30 Z:20}", w)
	}
	if got := w.fromWire(); got != pos {
		t.Fatalf("fromWire() = %+v, want %+v", got, pos)
	}
}
