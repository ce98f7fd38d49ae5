// srs/voice.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package srs

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Modulation is the radio modulation a Frequency entry is carried on.
type Modulation uint8

const (
	ModulationAM       Modulation = 0
	ModulationFM       Modulation = 1
	ModulationIntercom Modulation = 2
	ModulationDisabled Modulation = 3
)

// Encryption is the cipher mode a Frequency entry is carried under.
type Encryption uint8

const (
	EncryptionNone                     Encryption = 0
	EncryptionJustOverlay              Encryption = 1
	EncryptionFull                     Encryption = 2
	EncryptionCockpitToggleOverlayCode Encryption = 3
)

// Frequency is one 10-byte wire entry in a VoicePacket's frequency list.
type Frequency struct {
	Freq       float64
	Modulation Modulation
	Encryption Encryption
}

const frequencyWireSize = 8 + 1 + 1 // freq:f64, modulation:u8, encryption:u8

// VoicePacket is the decoded form of a non-ping UDP voice datagram.
type VoicePacket struct {
	Audio             []byte
	Frequencies       []Frequency
	UnitId            uint32
	PacketId          uint64
	HopCount          uint8
	TransmissionSguid string
	ClientSguid       string
}

// PingPacketLen is the fixed size of a ping datagram: the sender's sguid
// as ASCII, nothing else.
const PingPacketLen = SguidLen

// DecodeDatagram interprets one UDP datagram. A 22-byte datagram is
// always a ping, regardless of its content; anything else is attempted
// as a voice packet.
func DecodeDatagram(b []byte) (ping string, pkt *VoicePacket, err error) {
	if len(b) == PingPacketLen {
		return string(b), nil, nil
	}
	p, err := DecodeVoicePacket(b)
	if err != nil {
		return "", nil, err
	}
	return "", p, nil
}

// EncodePing renders a 22-byte ping datagram carrying sguid as ASCII.
func EncodePing(sguid string) ([]byte, error) {
	if len(sguid) != SguidLen {
		return nil, fmt.Errorf("%w: ping sguid %q has length %d, want %d", ErrBadVoicePacket, sguid, len(sguid), SguidLen)
	}
	return []byte(sguid), nil
}

// EncodeVoicePacket lays out a VoicePacket per §6's byte layout: the
// header is computed from the other sections' lengths and written last,
// from a cursor seeked back to offset 0.
func EncodeVoicePacket(p VoicePacket) ([]byte, error) {
	if len(p.TransmissionSguid) != SguidLen {
		return nil, fmt.Errorf("%w: transmission sguid length %d, want %d", ErrBadVoicePacket, len(p.TransmissionSguid), SguidLen)
	}
	if len(p.ClientSguid) != SguidLen {
		return nil, fmt.Errorf("%w: client sguid length %d, want %d", ErrBadVoicePacket, len(p.ClientSguid), SguidLen)
	}

	audioLen := len(p.Audio)
	freqLen := len(p.Frequencies) * frequencyWireSize
	total := 6 + audioLen + freqLen + 4 + 8 + 1 + SguidLen + SguidLen

	buf := make([]byte, total)
	cursor := 6 // header written last, once total is known

	cursor += copy(buf[cursor:], p.Audio)

	for _, f := range p.Frequencies {
		binary.LittleEndian.PutUint64(buf[cursor:], math.Float64bits(f.Freq))
		cursor += 8
		buf[cursor] = byte(f.Modulation)
		cursor++
		buf[cursor] = byte(f.Encryption)
		cursor++
	}

	binary.LittleEndian.PutUint32(buf[cursor:], p.UnitId)
	cursor += 4
	binary.LittleEndian.PutUint64(buf[cursor:], p.PacketId)
	cursor += 8
	buf[cursor] = p.HopCount
	cursor++
	cursor += copy(buf[cursor:], p.TransmissionSguid)
	cursor += copy(buf[cursor:], p.ClientSguid)

	if cursor != total {
		return nil, fmt.Errorf("srs: internal error encoding voice packet: wrote %d bytes, expected %d", cursor, total)
	}

	// Header, written last from offset 0.
	binary.LittleEndian.PutUint16(buf[0:], uint16(total))
	binary.LittleEndian.PutUint16(buf[2:], uint16(audioLen))
	binary.LittleEndian.PutUint16(buf[4:], uint16(freqLen))

	return buf, nil
}

// DecodeVoicePacket parses a voice datagram, validating that its internal
// length fields sum to the declared total length. A mismatch is
// ErrBadVoicePacket: callers should log and discard, not terminate the
// channel. Unknown modulation/encryption bytes map to AM/None.
func DecodeVoicePacket(b []byte) (*VoicePacket, error) {
	if len(b) < 6 {
		return nil, fmt.Errorf("%w: datagram too short for header (%d bytes)", ErrBadVoicePacket, len(b))
	}

	totalLen := binary.LittleEndian.Uint16(b[0:])
	audioLen := binary.LittleEndian.Uint16(b[2:])
	freqLen := binary.LittleEndian.Uint16(b[4:])

	expected := 6 + int(audioLen) + int(freqLen) + 4 + 8 + 1 + SguidLen + SguidLen
	if int(totalLen) != len(b) || expected != len(b) {
		return nil, fmt.Errorf("%w: declared total_len=%d, audio_len=%d, freq_len=%d, datagram is %d bytes",
			ErrBadVoicePacket, totalLen, audioLen, freqLen, len(b))
	}

	cursor := 6
	audio := append([]byte(nil), b[cursor:cursor+int(audioLen)]...)
	cursor += int(audioLen)

	n := int(freqLen) / frequencyWireSize
	freqs := make([]Frequency, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(b[cursor:])
		freqs[i].Freq = math.Float64frombits(bits)
		cursor += 8
		freqs[i].Modulation = decodeModulation(b[cursor])
		cursor++
		freqs[i].Encryption = decodeEncryption(b[cursor])
		cursor++
	}

	unitId := binary.LittleEndian.Uint32(b[cursor:])
	cursor += 4
	packetId := binary.LittleEndian.Uint64(b[cursor:])
	cursor += 8
	hopCount := b[cursor]
	cursor++
	txSguid := string(b[cursor : cursor+SguidLen])
	cursor += SguidLen
	clientSguid := string(b[cursor : cursor+SguidLen])
	cursor += SguidLen

	return &VoicePacket{
		Audio:             audio,
		Frequencies:       freqs,
		UnitId:            unitId,
		PacketId:          packetId,
		HopCount:          hopCount,
		TransmissionSguid: txSguid,
		ClientSguid:       clientSguid,
	}, nil
}

func decodeModulation(b byte) Modulation {
	switch Modulation(b) {
	case ModulationAM, ModulationFM, ModulationIntercom, ModulationDisabled:
		return Modulation(b)
	default:
		return ModulationAM
	}
}

func decodeEncryption(b byte) Encryption {
	switch Encryption(b) {
	case EncryptionNone, EncryptionJustOverlay, EncryptionFull, EncryptionCockpitToggleOverlayCode:
		return Encryption(b)
	default:
		return EncryptionNone
	}
}
