// tts/ogg.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import "fmt"

// demuxOggPackets splits a raw OGG-Opus byte stream (as returned directly
// by the Google Cloud and Azure REST APIs when OGG_OPUS / ogg-opus output
// is requested) into its constituent packets. Each packet becomes one
// entry of the returned slice, matching the original project's own
// page-at-a-time demultiplexing. This is packet extraction from an
// already-encoded container, not audio encoding.
func demuxOggPackets(data []byte) ([][]byte, error) {
	var packets [][]byte
	var pending []byte

	for len(data) > 0 {
		if len(data) < 27 || string(data[0:4]) != "OggS" {
			return nil, fmt.Errorf("tts: malformed ogg stream: bad page header")
		}

		segCount := int(data[26])
		if len(data) < 27+segCount {
			return nil, fmt.Errorf("tts: malformed ogg stream: truncated segment table")
		}
		segTable := data[27 : 27+segCount]
		body := data[27+segCount:]

		pos := 0
		for i := 0; i < segCount; i++ {
			segLen := int(segTable[i])
			if pos+segLen > len(body) {
				return nil, fmt.Errorf("tts: malformed ogg stream: segment overruns page body")
			}
			pending = append(pending, body[pos:pos+segLen]...)
			pos += segLen

			if segLen < 255 {
				// Lacing value < 255 terminates the packet.
				packets = append(packets, pending)
				pending = nil
			}
		}

		data = body[pos:]
	}

	if len(pending) > 0 {
		packets = append(packets, pending)
	}

	return packets, nil
}
