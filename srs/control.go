// srs/control.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package srs

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// MsgType identifies the kind of control-channel message.
type MsgType int

const (
	MsgUpdate           MsgType = 0
	MsgPing             MsgType = 1
	MsgSync             MsgType = 2
	MsgRadioUpdate      MsgType = 3
	MsgServerSettings   MsgType = 4
	MsgClientDisconnect MsgType = 5
	MsgVersionMismatch  MsgType = 6
)

// Coalition identifies which side a client belongs to.
type Coalition int

const (
	CoalitionSpectator Coalition = 0
	CoalitionRed       Coalition = 1
	CoalitionBlue      Coalition = 2
)

// Position is the in-memory form of a client's world position: the wire
// aliases y (altitude) and z (second horizontal axis) into this shape so
// that only this codec knows about the swap.
type Position struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Alt float64 `json:"alt"`
}

// wirePosition mirrors the relay's on-the-wire field names: z is the
// second horizontal axis, y is altitude.
type wirePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"` // altitude
	Z float64 `json:"z"` // second horizontal axis
}

func (p Position) toWire() wirePosition {
	return wirePosition{X: p.X, Y: p.Alt, Z: p.Y}
}

func (w wirePosition) fromWire() Position {
	return Position{X: w.X, Y: w.Z, Alt: w.Y}
}

// Radio describes one radio preset within a client's RadioInfo.
type Radio struct {
	Enc        bool    `json:"enc"`
	EncKey     int     `json:"encKey"`
	EncMode    int     `json:"encMode"`
	FreqMax    float64 `json:"freqMax"`
	FreqMin    float64 `json:"freqMin"`
	Freq       float64 `json:"freq"`
	Modulation int     `json:"modulation"`
	Name       string  `json:"name"`
	SecFreq    float64 `json:"secFreq"`
	Volume     float64 `json:"volume"`
	FreqMode   int     `json:"freqMode"`
	VolMode    int     `json:"volMode"`
	Expansion  bool    `json:"expansion"`
	Channel    int     `json:"channel"`
	Simul      bool    `json:"simul"`
}

// RadioInfo is the nested radio-bank payload inside a Client.
type RadioInfo struct {
	Name                     string       `json:"name"`
	Pos                      wirePosition `json:"pos"`
	PTT                      bool         `json:"ptt"`
	Radios                   []Radio      `json:"radios"`
	Control                  int          `json:"control"`
	Selected                 int          `json:"selected"`
	Unit                     string       `json:"unit"`
	UnitId                   uint32       `json:"unitId"`
	SimultaneousTransmission bool         `json:"simultaneousTransmission"`
}

// NewRadioInfo builds a RadioInfo payload with pos converted into the
// wire's aliased y/z layout.
func NewRadioInfo(name string, pos Position, ptt bool, radios []Radio, control, selected int,
	unit string, unitId uint32, simultaneousTransmission bool) RadioInfo {
	return RadioInfo{
		Name:                     name,
		Pos:                      pos.toWire(),
		PTT:                      ptt,
		Radios:                   radios,
		Control:                  control,
		Selected:                 selected,
		Unit:                     unit,
		UnitId:                   unitId,
		SimultaneousTransmission: simultaneousTransmission,
	}
}

// Client is the registration payload describing a voice client.
type Client struct {
	ClientGuid string       `json:"ClientGuid"`
	Name       string       `json:"Name"`
	Position   wirePosition `json:"Position"`
	Coalition  Coalition    `json:"Coalition"`
	RadioInfo  *RadioInfo   `json:"RadioInfo,omitempty"`
}

// Message is a single control-channel frame, one JSON object per line.
type Message struct {
	MsgType MsgType `json:"MsgType"`
	Version string  `json:"Version"`
	Client  *Client `json:"Client,omitempty"`
}

// WorldPosition returns the Client's position in the {x, y, alt} shape
// callers use, undoing the wire's y/z aliasing.
func (c Client) WorldPosition() Position {
	return c.Position.fromWire()
}

// NewClient builds a Client payload, converting pos into the wire's
// aliased y/z layout.
func NewClient(guid, name string, pos Position, coalition Coalition, radio *RadioInfo) Client {
	return Client{
		ClientGuid: guid,
		Name:       name,
		Position:   pos.toWire(),
		Coalition:  coalition,
		RadioInfo:  radio,
	}
}

// Encode renders one Message as a single newline-terminated JSON line.
func Encode(m Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	return append(b, '\n'), nil
}

// Decode parses one already-delimited line (without its trailing
// newline) into a Message, validating UTF-8 and the required-field
// schema for the message's MsgType.
func Decode(line []byte) (Message, error) {
	if !utf8.Valid(line) {
		return Message{}, ErrBadFrame
	}

	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	switch m.MsgType {
	case MsgSync, MsgUpdate, MsgRadioUpdate:
		if m.Client == nil {
			return Message{}, fmt.Errorf("%w: MsgType %d requires Client", ErrBadSchema, m.MsgType)
		}
	}

	return m, nil
}
