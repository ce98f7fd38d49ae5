// report/report_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package report

import (
	"math"
	"testing"

	"github.com/dcs-atis/atisd/station"
)

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func kutaisiStation(trafficFreqHz *float64, runways []string) station.Station {
	return station.Station{
		Name:        "Kutaisi",
		FrequencyHz: 251_000_000,
		Transmitter: station.Transmitter{
			Airfield: &station.Airfield{
				Name:            "Kutaisi",
				Position:        station.Position{X: 0, Y: 0, Alt: 0},
				Runways:         runways,
				TrafficFreq:     trafficFreqHz,
				InfoLetterStart: 0,
			},
		},
	}
}

func TestGenerateAirfieldS1Scenario(t *testing.T) {
	traffic := 249_500_000.0
	s := kutaisiStation(&traffic, []string{"04", "22"})
	sample := station.WeatherSample{
		WindSpeedMS:   5,
		WindDirRad:    degToRad(6),
		TemperatureC:  22,
		PressureQNHPa: 101_500,
		PressureQFEPa: 101_500,
	}

	rpt, err := Generate(s, &sample, 26)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := "This is Kutaisi information Alpha. Runway in use is 04. Wind 006 at 5 knots. " +
		"Temperature 22 celcius. ALTIMETER 2997. Traffic frequency 249.5. REMARKS. " +
		"1015 hectopascal. QFE 2997 or 1015. End information Alpha."
	if rpt.Textual != want {
		t.Errorf("Textual =\n%q\nwant\n%q", rpt.Textual, want)
	}
}

func TestGenerateAirfieldSpokenForm(t *testing.T) {
	traffic := 249_500_000.0
	s := kutaisiStation(&traffic, []string{"04", "22"})
	sample := station.WeatherSample{
		WindSpeedMS:   5,
		WindDirRad:    degToRad(6),
		TemperatureC:  22,
		PressureQNHPa: 101_500,
		PressureQFEPa: 101_500,
	}

	rpt, err := Generate(s, &sample, 26)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"This is Kutaisi information Alpha.",
		"Runway in use is ZERO 4.",
		"Wind ZERO ZERO 6 at 5 knots.",
		"Temperature 2 2 celcius.",
		"ALTIMETER 2 NINER NINER 7.",
		"Traffic frequency 2 4 NINER DECIMAL 5.",
		"1 ZERO 1 5 hectopascal.",
		"QFE 2 NINER NINER 7 or 1 ZERO 1 5.",
		"End information Alpha.",
	} {
		if !containsLine(rpt.Spoken, want) {
			t.Errorf("spoken form missing %q, got:\n%s", want, rpt.Spoken)
		}
	}
}

func containsLine(haystack, want string) bool {
	for i := 0; i+len(want) <= len(haystack); i++ {
		if haystack[i:i+len(want)] == want {
			return true
		}
	}
	return false
}

func TestActiveRunway(t *testing.T) {
	runways := []string{"04", "22R"}
	cases := []struct {
		windDirDeg float64
		want       string
	}{
		{0, "04"},
		{30, "04"},
		{129, "04"},
		{311, "04"},
		{180, "22"},
		{270, "22"},
		{309, "22"},
		{131, "22"},
	}
	for _, c := range cases {
		got := activeRunway(runways, c.windDirDeg)
		if got != c.want {
			t.Errorf("activeRunway(%v, %g) = %q, want %q", runways, c.windDirDeg, got, c.want)
		}
	}
}

func TestVisibilityReport(t *testing.T) {
	got := addVisibilityText(80_000)
	want := "Visibility 4 3"
	if got != want {
		t.Errorf("visibility = %q, want %q", got, want)
	}
}

func addVisibilityText(visibilityM float64) string {
	var s segments
	addVisibilitySegment(&s, visibilityM)
	return s.spoken[0]
}

func TestCloudsReport(t *testing.T) {
	cases := []struct {
		base, density, precip uint
		want                  string
		ok                    bool
	}{
		{8400, 1, 0, "", false},
		{8400, 2, 0, "Cloud conditions few 2 7 5", true},
		{8500, 6, 1, "Cloud conditions scattered 2 7 5, rain", true},
		{8500, 10, 2, "Cloud conditions overcast 2 7 5, rain and thunderstorm", true},
	}
	for _, c := range cases {
		line, ok := cloudsSegment(station.Clouds{BaseM: float64(c.base), Density: int(c.density), Precipitation: int(c.precip)})
		if ok != c.ok {
			t.Errorf("cloudsSegment(base=%d density=%d precip=%d) ok=%v want %v", c.base, c.density, c.precip, ok, c.ok)
			continue
		}
		if ok && line.spoken != c.want {
			t.Errorf("cloudsSegment(base=%d density=%d precip=%d) = %q, want %q", c.base, c.density, c.precip, line.spoken, c.want)
		}
	}
}

func TestNormalizeWindDirection(t *testing.T) {
	got := NormalizeWindDirection(200)
	if got != 20 {
		t.Errorf("NormalizeWindDirection(200) = %g, want 20", got)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	traffic := 249_500_000.0
	s := kutaisiStation(&traffic, []string{"04", "22"})
	sample := station.WeatherSample{
		WindSpeedMS:   5,
		WindDirRad:    degToRad(6),
		TemperatureC:  22,
		PressureQNHPa: 101_500,
		PressureQFEPa: 101_500,
	}

	a, err := Generate(s, &sample, 26)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(s, &sample, 26)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.Textual != b.Textual || a.Spoken != b.Spoken {
		t.Errorf("Generate is not deterministic for identical inputs")
	}
}

func TestGenerateNoDataAvailable(t *testing.T) {
	s := kutaisiStation(nil, []string{"04"})
	_, err := Generate(s, nil, 0)
	if err != ErrNoDataAvailable {
		t.Errorf("Generate(nil sample) = %v, want ErrNoDataAvailable", err)
	}
}

func TestPronounceProperty(t *testing.T) {
	got := Pronounce("249.5", true)
	want := "2 4 NINER DECIMAL 5"
	if got != want {
		t.Errorf("Pronounce(249.5) = %q, want %q", got, want)
	}
}

func TestInformationLetterRollover(t *testing.T) {
	if got := InformationLetter(26, 0); got != "Alpha" {
		t.Errorf("InformationLetter(26, 0) = %q, want Alpha", got)
	}
	if got := InformationLetter(1, 0); got != "Bravo" {
		t.Errorf("InformationLetter(1, 0) = %q, want Bravo", got)
	}
}
