// station/station.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package station holds the static configuration of a broadcasting unit:
// its frequency, voice selector, and the transmitter-specific details
// (airfield runways, carrier callsign, custom message, or weather unit).
package station

import (
	"fmt"
	"time"
)

// Position is a world location in the simulator's coordinate system.
type Position struct {
	X   float64
	Y   float64
	Alt float64
}

// VoiceVendor identifies which TTS backend a Station's voice selector
// targets.
type VoiceVendor int

const (
	GoogleCloud VoiceVendor = iota
	AWS
	Azure
	Windows
)

func (v VoiceVendor) String() string {
	switch v {
	case GoogleCloud:
		return "GoogleCloud"
	case AWS:
		return "AWS"
	case Azure:
		return "Azure"
	case Windows:
		return "Windows"
	default:
		return fmt.Sprintf("VoiceVendor(%d)", int(v))
	}
}

// Voice is a tagged PREFIX:voice selector, e.g. "AWS:Joanna" or a bare
// "Stefan" (defaults to GoogleCloud per the station grammar).
type Voice struct {
	Vendor VoiceVendor
	Name   string // empty means "use the default voice for Vendor"
}

// Transmitter is the sum type of the four broadcasting-unit kinds. Exactly
// one of the embedded pointers is non-nil.
type Transmitter struct {
	Airfield *Airfield
	Carrier  *Carrier
	Custom   *Custom
	Weather  *Weather
}

// Kind reports which Transmitter variant is populated, or "" if none.
func (t Transmitter) Kind() string {
	switch {
	case t.Airfield != nil:
		return "Airfield"
	case t.Carrier != nil:
		return "Carrier"
	case t.Custom != nil:
		return "Custom"
	case t.Weather != nil:
		return "Weather"
	default:
		return ""
	}
}

// Airfield is a named field with a runway set, used for full ATIS
// broadcasts.
type Airfield struct {
	Name            string
	Position        Position
	Runways         []string // e.g. "04", "22R", in mission-definition order
	TrafficFreq     *float64 // Hz; nil if no traffic frequency is advertised
	InfoLetterStart int      // offset 0..25 into the phonetic alphabet
}

// Carrier is a mobile unit broadcast as a simplified CASE-1-style report.
type Carrier struct {
	Callsign string
	UnitID   uint32
	UnitName string
}

// Custom broadcasts a verbatim operator-supplied message on a fixed
// interval.
type Custom struct {
	UnitID   uint32
	UnitName string
	Message  string

	// UpdateInterval overrides the supervisor's default 60-minute cycle
	// for this station; zero means "use the default".
	UpdateInterval time.Duration
}

// Weather reports conditions at a unit's position without runway or
// traffic segments.
type Weather struct {
	UnitID   uint32
	UnitName string
}

// Station is one broadcasting unit: a display name, a transmit frequency,
// a TTS voice selector, and the transmitter-specific payload. Station
// values are constructed once at orchestrator start and are immutable for
// the lifetime of their supervisor.
type Station struct {
	Name        string
	FrequencyHz uint64
	Voice       Voice
	Transmitter Transmitter
}

// MinFrequencyHz and MaxFrequencyHz bound the mission-file frequency
// syntax (100-399.999 MHz).
const (
	MinFrequencyHz uint64 = 100_000_000
	MaxFrequencyHz uint64 = 399_999_000
)

// Validate checks the invariants from the station data model: frequency
// range, runway identifier shape, and info-letter offset range.
func (s Station) Validate() error {
	if s.FrequencyHz < MinFrequencyHz || s.FrequencyHz > MaxFrequencyHz {
		return fmt.Errorf("%s: frequency %d Hz out of range [%d, %d]",
			s.Name, s.FrequencyHz, MinFrequencyHz, MaxFrequencyHz)
	}

	if a := s.Transmitter.Airfield; a != nil {
		if a.InfoLetterStart < 0 || a.InfoLetterStart >= 26 {
			return fmt.Errorf("%s: info letter offset %d out of range [0, 26)", s.Name, a.InfoLetterStart)
		}
		for _, rwy := range a.Runways {
			if _, err := ParseRunwayBearing(rwy); err != nil {
				return fmt.Errorf("%s: runway %q: %w", s.Name, rwy, err)
			}
		}
	}

	return nil
}

// ParseRunwayBearing parses a runway identifier like "04" or "22R" into
// its bearing in degrees (runway number * 10), ignoring any trailing L/R
// suffix.
func ParseRunwayBearing(rwy string) (int, error) {
	s := rwy
	if n := len(s); n > 0 && (s[n-1] == 'L' || s[n-1] == 'R' || s[n-1] == 'l' || s[n-1] == 'r') {
		s = s[:n-1]
	}

	var num int
	if _, err := fmt.Sscanf(s, "%d", &num); err != nil {
		return 0, fmt.Errorf("not a runway number: %q", rwy)
	}
	if num < 0 || num > 36 {
		return 0, fmt.Errorf("runway number %d out of range [0, 36]", num)
	}

	return num * 10, nil
}
