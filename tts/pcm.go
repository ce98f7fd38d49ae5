// tts/pcm.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import (
	"encoding/binary"
	"fmt"

	"gopkg.in/hraban/opus.v2"
)

// samplesPerFrame is the number of 16kHz mono samples in one 20ms frame.
const samplesPerFrame = 16000 * 20 / 1000

// pcm16leToSamples decodes a little-endian 16-bit PCM byte stream into
// samples, matching Polly's and SAPI's raw PCM output.
func pcm16leToSamples(b []byte) []int16 {
	n := len(b) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2 : i*2+2]))
	}
	return samples
}

// encodePCMToOpusFrames slices raw 16kHz mono PCM into 20ms frames and
// Opus-encodes each one, used by the AWS and Windows backends, neither of
// which can request Opus output directly from their underlying service.
func encodePCMToOpusFrames(pcm []byte) ([][]byte, error) {
	samples := pcm16leToSamples(pcm)

	enc, err := opus.NewEncoder(16000, 1, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("tts: create opus encoder: %w", err)
	}

	var frames [][]byte
	out := make([]byte, 4000)
	for pos := 0; pos+samplesPerFrame <= len(samples); pos += samplesPerFrame {
		n, err := enc.Encode(samples[pos:pos+samplesPerFrame], out)
		if err != nil {
			return nil, fmt.Errorf("tts: opus encode: %w", err)
		}
		frame := make([]byte, n)
		copy(frame, out[:n])
		frames = append(frames, frame)
	}

	return frames, nil
}
