// report/report.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dcs-atis/atisd/station"
)

// Report is the generator's output: the plain-ASCII textual form, the
// SSML spoken form, and the position that should be registered with the
// voice relay for this cycle.
type Report struct {
	Textual  string
	Spoken   string
	Position station.Position
}

// Generate produces both forms of a report for s given the current
// sample and report index, per §4.D. ErrNoDataAvailable is returned for
// any station whenever sample is nil, which is how the caller signals
// that no current data exists (e.g. a unit-bound station whose unit is
// absent).
func Generate(s station.Station, sample *station.WeatherSample, reportIndex int) (Report, error) {
	if sample == nil {
		return Report{}, ErrNoDataAvailable
	}

	switch {
	case s.Transmitter.Airfield != nil:
		return generateAirfield(*s.Transmitter.Airfield, *sample, reportIndex)
	case s.Transmitter.Carrier != nil:
		return generateCarrier(*s.Transmitter.Carrier, *sample)
	case s.Transmitter.Custom != nil:
		return generateCustom(*s.Transmitter.Custom, *sample)
	case s.Transmitter.Weather != nil:
		return generateWeather(*s.Transmitter.Weather, *sample, reportIndex)
	default:
		return Report{}, fmt.Errorf("report: station %q has no transmitter set", s.Name)
	}
}

// segments holds the assembled lines in both forms, joined in fixed order.
type segments struct {
	textual []string
	spoken  []string
}

func (s *segments) add(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	s.textual = append(s.textual, line)
	s.spoken = append(s.spoken, line)
}

func (s *segments) render() (textual, spoken string) {
	textual = strings.Join(s.textual, " ")
	spoken = "<speak>\n" + strings.Join(s.spoken, "\n") + "\n</speak>"
	return textual, spoken
}

func generateAirfield(a station.Airfield, w station.WeatherSample, reportIndex int) (Report, error) {
	letter := InformationLetter(reportIndex, a.InfoLetterStart)
	windDirDeg := degreesFromRadians(w.WindDirRad)

	var s segments
	s.add("This is %s information %s.", a.Name, letter)

	if rwy := activeRunway(a.Runways, windDirDeg); rwy != "" {
		addBoth(&s, "Runway in use is %s.", "Runway in use is %s.", pronounceTextual(rwy), pronounceSpoken(rwy))
	}

	windDirStr := fmt.Sprintf("%03.0f", math.Round(windDirDeg))
	speedStr := fmt.Sprintf("%.0f", math.Round(w.WindSpeedMS))
	addWindSegment(&s, windDirStr, speedStr)

	if w.FogThicknessM != nil && *w.FogThicknessM > 200 && w.VisibilityM != nil {
		addVisibilitySegment(&s, *w.VisibilityM)
	}

	if w.Clouds != nil {
		if line, ok := cloudsSegment(*w.Clouds); ok {
			s.textual = append(s.textual, line.textual)
			s.spoken = append(s.spoken, line.spoken)
		}
	}

	addTemperatureSegment(&s, w.TemperatureC)
	addAltimeterSegment(&s, w.PressureQNHPa)

	if a.TrafficFreq != nil {
		addTrafficSegment(&s, *a.TrafficFreq)
	}

	s.textual = append(s.textual, "REMARKS.")
	s.spoken = append(s.spoken, "REMARKS.")

	addHectopascalSegment(&s, w.PressureQNHPa)
	addQFESegment(&s, w.PressureQFEPa)

	s.textual = append(s.textual, fmt.Sprintf("End information %s.", letter))
	s.spoken = append(s.spoken, fmt.Sprintf("End information %s.", letter))

	textual, spoken := s.render()
	return Report{Textual: textual, Spoken: spoken, Position: a.Position}, nil
}

func generateWeather(wtr station.Weather, w station.WeatherSample, reportIndex int) (Report, error) {
	letter := InformationLetter(reportIndex, 0)

	var s segments
	s.add("This is %s information %s.", wtr.UnitName, letter)

	windDirDeg := degreesFromRadians(w.WindDirRad)
	windDirStr := fmt.Sprintf("%03.0f", math.Round(windDirDeg))
	speedStr := fmt.Sprintf("%.0f", math.Round(w.WindSpeedMS))
	addWindSegment(&s, windDirStr, speedStr)

	if w.FogThicknessM != nil && *w.FogThicknessM > 200 && w.VisibilityM != nil {
		addVisibilitySegment(&s, *w.VisibilityM)
	}
	if w.Clouds != nil {
		if line, ok := cloudsSegment(*w.Clouds); ok {
			s.textual = append(s.textual, line.textual)
			s.spoken = append(s.spoken, line.spoken)
		}
	}

	addTemperatureSegment(&s, w.TemperatureC)
	addAltimeterSegment(&s, w.PressureQNHPa)

	s.textual = append(s.textual, "REMARKS.")
	s.spoken = append(s.spoken, "REMARKS.")
	addHectopascalSegment(&s, w.PressureQNHPa)
	addQFESegment(&s, w.PressureQFEPa)

	s.textual = append(s.textual, fmt.Sprintf("End information %s.", letter))
	s.spoken = append(s.spoken, fmt.Sprintf("End information %s.", letter))

	textual, spoken := s.render()
	return Report{Textual: textual, Spoken: spoken, Position: w.Position}, nil
}

func generateCarrier(c station.Carrier, w station.WeatherSample) (Report, error) {
	var s segments
	s.add("%s, CASE 1.", c.Callsign)

	windDirDeg := degreesFromRadians(w.WindDirRad)
	windDirStr := fmt.Sprintf("%03.0f", math.Round(windDirDeg))
	speedStr := fmt.Sprintf("%.0f", math.Round(w.WindSpeedMS))
	addWindSegment(&s, windDirStr, speedStr)

	addAltimeterSegment(&s, w.PressureQNHPa)

	textual, spoken := s.render()
	return Report{Textual: textual, Spoken: spoken, Position: w.Position}, nil
}

func generateCustom(c station.Custom, w station.WeatherSample) (Report, error) {
	textual := c.Message
	spoken := "<speak>\n" + c.Message + "\n</speak>"
	return Report{Textual: textual, Spoken: spoken, Position: w.Position}, nil
}

///////////////////////////////////////////////////////////////////////////
// Segment helpers. Each textual/spoken pair is identical except where
// Pronounce(...) diverges the spoken form's numbers into phonetic words.

func addBoth(s *segments, textualFmt, spokenFmt string, textualArg, spokenArg any) {
	s.textual = append(s.textual, fmt.Sprintf(textualFmt, textualArg))
	s.spoken = append(s.spoken, fmt.Sprintf(spokenFmt, spokenArg))
}

func pronounceTextual(v string) string { return Pronounce(v, false) }
func pronounceSpoken(v string) string  { return Pronounce(v, true) }

func addWindSegment(s *segments, dirStr, speedStr string) {
	s.textual = append(s.textual, fmt.Sprintf("Wind %s at %s knots.", dirStr, speedStr))
	s.spoken = append(s.spoken, fmt.Sprintf("Wind %s at %s knots.", Pronounce(dirStr, true), Pronounce(speedStr, true)))
}

func addVisibilitySegment(s *segments, visibilityM float64) {
	nm := fmt.Sprintf("%.0f", math.Round(visibilityM*0.000539957))
	s.textual = append(s.textual, fmt.Sprintf("Visibility %s", nm))
	s.spoken = append(s.spoken, fmt.Sprintf("Visibility %s", Pronounce(nm, true)))
}

type textSpoken struct {
	textual, spoken string
}

// cloudsSegment renders the clouds segment if the layer's density falls
// in the reportable 2..10 range, per §4.D's table.
func cloudsSegment(c station.Clouds) (textSpoken, bool) {
	var density string
	switch {
	case c.Density >= 2 && c.Density <= 5:
		density = "few"
	case c.Density >= 6 && c.Density <= 7:
		density = "scattered"
	case c.Density == 8:
		density = "broken"
	case c.Density >= 9 && c.Density <= 10:
		density = "overcast"
	default:
		return textSpoken{}, false
	}

	baseFt := math.Round(c.BaseM * 3.28084)
	baseFt -= math.Mod(baseFt, 500)
	baseStr := fmt.Sprintf("%.0f", baseFt/100)

	textual := fmt.Sprintf("Cloud conditions %s %s", density, baseStr)
	spoken := fmt.Sprintf("Cloud conditions %s %s", density, Pronounce(baseStr, true))

	switch c.Precipitation {
	case 1:
		textual += ", rain"
		spoken += ", rain"
	case 2:
		textual += ", rain and thunderstorm"
		spoken += ", rain and thunderstorm"
	}

	return textSpoken{textual: textual, spoken: spoken}, true
}

func addTemperatureSegment(s *segments, tempC float64) {
	v := fmt.Sprintf("%g", roundTo(tempC, 1))
	s.textual = append(s.textual, fmt.Sprintf("Temperature %s celcius.", v))
	s.spoken = append(s.spoken, fmt.Sprintf("Temperature %s celcius.", Pronounce(v, true)))
}

func addAltimeterSegment(s *segments, pressureQNHPa float64) {
	v := fmt.Sprintf("%.0f", math.Round(pressureQNHPa*0.02953))
	s.textual = append(s.textual, fmt.Sprintf("ALTIMETER %s.", v))
	s.spoken = append(s.spoken, fmt.Sprintf("ALTIMETER %s.", Pronounce(v, true)))
}

func addTrafficSegment(s *segments, trafficFreqHz float64) {
	v := fmt.Sprintf("%g", roundTo(trafficFreqHz/1e6, 3))
	s.textual = append(s.textual, fmt.Sprintf("Traffic frequency %s.", v))
	s.spoken = append(s.spoken, fmt.Sprintf("Traffic frequency %s.", Pronounce(v, true)))
}

func addHectopascalSegment(s *segments, pressureQNHPa float64) {
	v := fmt.Sprintf("%.0f", math.Round(pressureQNHPa/100))
	s.textual = append(s.textual, fmt.Sprintf("%s hectopascal.", v))
	s.spoken = append(s.spoken, fmt.Sprintf("%s hectopascal.", Pronounce(v, true)))
}

func addQFESegment(s *segments, pressureQFEPa float64) {
	inHg := fmt.Sprintf("%.0f", math.Round(pressureQFEPa*0.02953))
	hPa := fmt.Sprintf("%.0f", math.Round(pressureQFEPa/100))
	s.textual = append(s.textual, fmt.Sprintf("QFE %s or %s.", inHg, hPa))
	s.spoken = append(s.spoken, fmt.Sprintf("QFE %s or %s.", Pronounce(inHg, true), Pronounce(hPa, true)))
}

func roundTo(v float64, places int) float64 {
	m := math.Pow(10, float64(places))
	return math.Round(v*m) / m
}
