// station/weather.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package station

// Clouds describes one cloud layer.
type Clouds struct {
	BaseM         float64
	Density       int // 0-10; 0 means "no significant cloud", rendered 2-10
	ThicknessM    float64
	Precipitation int // 0=none, 1=rain, 2=rain and thunderstorm
}

// WeatherSample is an immutable snapshot of conditions at a position, as
// reported by the simulator-host collaborator. All SI units unless noted.
type WeatherSample struct {
	WindSpeedMS    float64 // wind speed, meters/second
	WindDirRad     float64 // wind direction ("from", ATIS convention), radians
	TemperatureC   float64
	PressureQNHPa  float64 // pressure reduced to sea level
	PressureQFEPa  float64 // pressure at ground/field elevation
	Clouds         *Clouds
	FogThicknessM  *float64
	VisibilityM    *float64
	DustDensity    float64
	Position       Position // geographic lat/lng/alt used for client registration
}
