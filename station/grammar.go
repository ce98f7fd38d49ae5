// station/grammar.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package station

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// grammar matches one already-extracted station-definition line against
// the four kinds in the mission/unit-name grammar:
//
//	ATIS <name> <freq>[, TRAFFIC <freq>][, VOICE <tag>][, INFO <letter>]
//	CARRIER <name> <freq>[, VOICE <tag>]
//	WEATHER <name> <freq>[, VOICE <tag>]
//	BROADCAST <freq>[, VOICE <tag>]: <message>
var (
	atisRe      = regexp.MustCompile(`(?i)^ATIS\s+(\S+)\s+(\d{1,3}(?:\.\d{1,3})?)\s*(.*)$`)
	carrierRe   = regexp.MustCompile(`(?i)^CARRIER\s+(\S+)\s+(\d{1,3}(?:\.\d{1,3})?)\s*(.*)$`)
	weatherRe   = regexp.MustCompile(`(?i)^WEATHER\s+(\S+)\s+(\d{1,3}(?:\.\d{1,3})?)\s*(.*)$`)
	broadcastRe = regexp.MustCompile(`(?i)^BROADCAST\s+(\d{1,3}(?:\.\d{1,3})?)((?:\s*,?\s*VOICE\s+[^\s:,]+(?::[^\s:,]+)?)?)\s*:\s*(.*)$`)

	trafficRe = regexp.MustCompile(`(?i)TRAFFIC\s+(\d{1,3}(?:\.\d{1,3})?)`)
	voiceRe   = regexp.MustCompile(`(?i)VOICE\s+([^,\s]+)`)
	infoRe    = regexp.MustCompile(`(?i)INFO\s+(\S+)`)
)

// ParseMHz parses a frequency in MHz (first digit 1-3, up to 3 decimals)
// into Hz.
func ParseMHz(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] < '1' || s[0] > '3' {
		return 0, fmt.Errorf("frequency %q: first digit must be 1-3 (100-399 MHz)", s)
	}
	mhz, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("frequency %q: %w", s, err)
	}
	hz := uint64(mhz*1e6 + 0.5)
	if hz < MinFrequencyHz || hz > MaxFrequencyHz {
		return 0, fmt.Errorf("frequency %q (%d Hz) out of range [%d, %d]", s, hz, MinFrequencyHz, MaxFrequencyHz)
	}
	return hz, nil
}

// ParseVoice parses a "PREFIX:voice" tag, a bare "WIN" (Windows, default
// voice), a bare voice name (defaults to GoogleCloud), or an empty string
// (default voice, vendor GoogleCloud).
func ParseVoice(tag string) (Voice, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Voice{Vendor: GoogleCloud}, nil
	}
	if strings.EqualFold(tag, "WIN") {
		return Voice{Vendor: Windows}, nil
	}

	prefix, name, hasPrefix := strings.Cut(tag, ":")
	if !hasPrefix {
		return Voice{Vendor: GoogleCloud, Name: tag}, nil
	}

	var vendor VoiceVendor
	switch strings.ToUpper(prefix) {
	case "GC":
		vendor = GoogleCloud
	case "AWS":
		vendor = AWS
	case "AZURE":
		vendor = Azure
	case "WIN":
		vendor = Windows
	default:
		return Voice{}, fmt.Errorf("unknown voice prefix %q", prefix)
	}

	return Voice{Vendor: vendor, Name: name}, nil
}

// info letter offset: a single letter A-Z, 0-indexed.
func parseInfoLetter(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, fmt.Errorf("invalid info letter %q", s)
	}
	return int(s[0] - 'A'), nil
}

// ParseLine parses one station-definition line per the grammar above.
func ParseLine(line string) (Station, error) {
	line = strings.TrimSpace(line)

	if m := atisRe.FindStringSubmatch(line); m != nil {
		freq, err := ParseMHz(m[2])
		if err != nil {
			return Station{}, err
		}
		voice, err := ParseVoice(firstMatch(voiceRe, m[3]))
		if err != nil {
			return Station{}, err
		}
		letterOffset := 0
		if l := firstMatch(infoRe, m[3]); l != "" {
			letterOffset, err = parseInfoLetter(l)
			if err != nil {
				return Station{}, err
			}
		}
		var trafficFreq *float64
		if t := firstMatch(trafficRe, m[3]); t != "" {
			hz, err := ParseMHz(t)
			if err != nil {
				return Station{}, err
			}
			f := float64(hz)
			trafficFreq = &f
		}

		return Station{
			Name:        m[1],
			FrequencyHz: freq,
			Voice:       voice,
			Transmitter: Transmitter{Airfield: &Airfield{
				Name:            m[1],
				TrafficFreq:     trafficFreq,
				InfoLetterStart: letterOffset,
			}},
		}, nil
	}

	if m := carrierRe.FindStringSubmatch(line); m != nil {
		freq, err := ParseMHz(m[2])
		if err != nil {
			return Station{}, err
		}
		voice, err := ParseVoice(firstMatch(voiceRe, m[3]))
		if err != nil {
			return Station{}, err
		}
		return Station{
			Name:        m[1],
			FrequencyHz: freq,
			Voice:       voice,
			Transmitter: Transmitter{Carrier: &Carrier{Callsign: m[1]}},
		}, nil
	}

	if m := weatherRe.FindStringSubmatch(line); m != nil {
		freq, err := ParseMHz(m[2])
		if err != nil {
			return Station{}, err
		}
		voice, err := ParseVoice(firstMatch(voiceRe, m[3]))
		if err != nil {
			return Station{}, err
		}
		return Station{
			Name:        m[1],
			FrequencyHz: freq,
			Voice:       voice,
			Transmitter: Transmitter{Weather: &Weather{UnitName: m[1]}},
		}, nil
	}

	if m := broadcastRe.FindStringSubmatch(line); m != nil {
		freq, err := ParseMHz(m[1])
		if err != nil {
			return Station{}, err
		}
		voice, err := ParseVoice(firstMatch(voiceRe, m[2]))
		if err != nil {
			return Station{}, err
		}
		return Station{
			Name:        "Broadcast",
			FrequencyHz: freq,
			Voice:       voice,
			Transmitter: Transmitter{Custom: &Custom{Message: m[3]}},
		}, nil
	}

	return Station{}, fmt.Errorf("station line does not match any known grammar: %q", line)
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
