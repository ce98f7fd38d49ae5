// report/wind.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package report

import (
	"math"

	"github.com/dcs-atis/atisd/station"
)

// NormalizeWindDirection converts a relay-reported "to" wind direction
// (degrees) into the ATIS-convention "from" direction, wrapped into
// [0, 360). Generate does not apply it: it reads a WeatherSample's wind
// direction as already being in "from" form (this mirrors the original
// implementation, whose generate_report consumes wind_dir directly with
// no further transform). No code in this module calls it when building
// a WeatherSample.
func NormalizeWindDirection(toDegrees float64) float64 {
	from := toDegrees - 180
	from = math.Mod(from, 360)
	if from < 0 {
		from += 360
	}
	return from
}

// degreesFromRadians converts a WeatherSample's wind direction (stored
// in radians, per the station data model) into degrees for rendering.
func degreesFromRadians(rad float64) float64 {
	return rad * 180 / math.Pi
}

// activeRunway returns the first runway in runways whose bearing is
// within 90 degrees (circular) of windDirDegrees, or "" if none
// qualifies.
func activeRunway(runways []string, windDirDegrees float64) string {
	for _, rwy := range runways {
		bearing, err := station.ParseRunwayBearing(rwy)
		if err != nil {
			continue
		}
		phi := math.Mod(math.Abs(windDirDegrees-float64(bearing)), 360)
		distance := phi
		if phi > 180 {
			distance = 360 - phi
		}
		if distance <= 90 {
			return trimRunwaySuffix(rwy)
		}
	}
	return ""
}

func trimRunwaySuffix(rwy string) string {
	n := len(rwy)
	if n > 0 && (rwy[n-1] == 'L' || rwy[n-1] == 'R' || rwy[n-1] == 'l' || rwy[n-1] == 'r') {
		return rwy[:n-1]
	}
	return rwy
}
