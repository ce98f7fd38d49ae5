// cmd/atisd/weather.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"

	"github.com/dcs-atis/atisd/report"
	"github.com/dcs-atis/atisd/station"
)

// staticWeather is a supervisor.WeatherSource backed by one operator-
// supplied snapshot instead of a live simulator feed. A real deployment
// wires a DCS-side export bridge over its own IPC channel in this seam
// (see DESIGN.md); that bridge's wire format isn't part of this project,
// so this fallback lets every station type still broadcast believable
// conditions when no such bridge is configured.
type staticWeather struct {
	sample *station.WeatherSample
}

func (w *staticWeather) Sample(ctx context.Context, pos station.Position) (*station.WeatherSample, error) {
	if w.sample == nil {
		return nil, report.ErrNoDataAvailable
	}
	s := *w.sample
	s.Position = pos
	return &s, nil
}

// weatherConfig is the operator-supplied snapshot DATIS.json carries under
// "weather", used by staticWeather.
type weatherConfig struct {
	WindSpeedMS   float64 `json:"wind_speed_ms"`
	WindDirDeg    float64 `json:"wind_dir_deg"`
	TemperatureC  float64 `json:"temperature_c"`
	PressureQNHPa float64 `json:"pressure_qnh_pa"`
	PressureQFEPa float64 `json:"pressure_qfe_pa"`
}

func (w *weatherConfig) toSample() *station.WeatherSample {
	if w == nil {
		return nil
	}
	const degToRad = 3.14159265358979323846 / 180
	return &station.WeatherSample{
		WindSpeedMS:   w.WindSpeedMS,
		WindDirRad:    w.WindDirDeg * degToRad,
		TemperatureC:  w.TemperatureC,
		PressureQNHPa: w.PressureQNHPa,
		PressureQFEPa: w.PressureQFEPa,
	}
}
