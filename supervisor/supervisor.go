// supervisor/supervisor.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package supervisor runs the per-station broadcast loop: generate a
// report, export it, synthesize speech when it changes, and stream the
// resulting Opus frames to a voice client at real-time pace, dialing and
// reconnecting the underlying voice client session as needed.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/report"
	"github.com/dcs-atis/atisd/srs"
	"github.com/dcs-atis/atisd/station"
	"github.com/dcs-atis/atisd/tts"
)

const (
	frameDuration          = 20 * time.Millisecond
	noDataRetryDelay       = 30 * time.Second
	ttsFailureRetryDelay   = 30 * time.Second
	airfieldWeatherPostGap = 3 * time.Second
	carrierPostGap         = 10 * time.Second
	customPostGap          = 1 * time.Second
	reconnectBackoff       = 60 * time.Second
)

// WeatherSource is the simulator-host collaborator that supplies current
// conditions at a position. Mission-data extraction itself is out of
// scope (spec.md §1's explicit non-goal list); this is the seam a real
// DCS-side bridge implements.
type WeatherSource interface {
	Sample(ctx context.Context, pos station.Position) (*station.WeatherSample, error)
}

// Exporter persists a station's latest textual report. Implemented by the
// orchestrator's atomic-rewrite exporter; nil disables export entirely.
type Exporter interface {
	Export(ctx context.Context, stationName, textual string) error
}

// Config bundles everything one station's broadcast loop needs. The
// Client is assumed already connected (Run never dials).
type Config struct {
	Station  station.Station
	Client   *srs.Client
	TTS      tts.Provider
	Weather  WeatherSource
	Exporter Exporter
	Lg       *log.Logger
}

// SuperviseConfig bundles the connection parameters and station
// configuration Supervise needs to dial, run, and reconnect one
// station's voice session indefinitely.
type SuperviseConfig struct {
	Addr     string
	Identity *srs.ClientIdentity
	WantsRX  bool
	Station  station.Station
	TTS      tts.Provider
	Weather  WeatherSource
	Exporter Exporter
	Lg       *log.Logger
}

// Supervise dials the voice client and drives the broadcast loop
// alongside its session sub-tasks, reconnecting after reconnectBackoff
// whenever the session ends for any reason other than ctx cancellation.
// It returns nil only once ctx is cancelled.
func Supervise(ctx context.Context, cfg SuperviseConfig) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		err := superviseOnce(ctx, cfg)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			cfg.Lg.Warnf("session for %s ended: %v, reconnecting in %s", cfg.Station.Name, err, reconnectBackoff)
		}
		if !sleepCancellable(ctx, reconnectBackoff) {
			return nil
		}
	}
}

// superviseOnce dials once and runs the client's session sub-tasks and
// the broadcast loop side by side: whichever ends first tears the other
// down, matching spec.md §5's "the session ends when any one of them
// errors or completes."
func superviseOnce(ctx context.Context, cfg SuperviseConfig) error {
	client, err := srs.Dial(ctx, cfg.Addr, cfg.Identity, cfg.WantsRX, cfg.Lg)
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.Addr, err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var eg errgroup.Group
	eg.Go(func() error {
		defer cancel()
		return client.Serve(sessionCtx)
	})
	eg.Go(func() error {
		defer cancel()
		return Run(sessionCtx, Config{
			Station:  cfg.Station,
			Client:   client,
			TTS:      cfg.TTS,
			Weather:  cfg.Weather,
			Exporter: cfg.Exporter,
			Lg:       cfg.Lg,
		})
	})
	return eg.Wait()
}

// Run executes the broadcast loop (spec.md §4.E) until ctx is cancelled,
// at which point it returns nil (clean shutdown, not an error). Any other
// return is session-fatal and triggers the caller's reconnect-after-60s
// policy (see Supervise).
func Run(ctx context.Context, cfg Config) error {
	interval := broadcastInterval(cfg.Station.Transmitter)
	reportIndex := 0
	var previousSpoken string
	var frames [][]byte

	for {
		if ctx.Err() != nil {
			return nil
		}

		cycleStart := time.Now()

		pos := stationRegistrationPosition(cfg.Station)
		sample, err := cfg.Weather.Sample(ctx, pos)
		if errors.Is(err, report.ErrNoDataAvailable) {
			sample = nil // Generate reports no data; retried below
		} else if err != nil {
			return fmt.Errorf("supervisor: weather sample for %s: %w", cfg.Station.Name, err)
		}

		rpt, err := report.Generate(cfg.Station, sample, reportIndex)
		if err == report.ErrNoDataAvailable {
			cfg.Lg.Debugf("no report data available for %s, retrying in %s", cfg.Station.Name, noDataRetryDelay)
			if !sleepCancellable(ctx, noDataRetryDelay) {
				return nil
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("supervisor: generate report for %s: %w", cfg.Station.Name, err)
		}

		if cfg.Exporter != nil {
			if err := cfg.Exporter.Export(ctx, cfg.Station.Name, rpt.Textual); err != nil {
				cfg.Lg.Errorf("export report for %s: %v", cfg.Station.Name, err)
			}
		}

		cfg.Client.Identity().SetPosition(srsPosition(rpt.Position))

		if rpt.Spoken != previousSpoken {
			newFrames, err := cfg.TTS.Synthesize(ctx, rpt.Spoken, cfg.Station.Voice)
			if err != nil {
				cfg.Lg.Warnf("tts failed for %s: %v, retrying in %s", cfg.Station.Name, err, ttsFailureRetryDelay)
				if !sleepCancellable(ctx, ttsFailureRetryDelay) {
					return nil
				}
				continue
			}
			frames = newFrames
		}
		previousSpoken = rpt.Spoken
		reportIndex++

		if !playCycle(ctx, cfg, frames, cycleStart, interval) {
			return nil
		}
	}
}

// playCycle runs the inner playback loop until the cycle time exceeds
// interval (or, for Carrier/Custom, after exactly one pass). It returns
// false if ctx was cancelled mid-playback.
func playCycle(ctx context.Context, cfg Config, frames [][]byte, cycleStart time.Time, interval time.Duration) bool {
	breakAfterOnePass := cfg.Station.Transmitter.Kind() == "Carrier" || cfg.Station.Transmitter.Kind() == "Custom"

	for {
		if time.Since(cycleStart) > interval {
			return true
		}

		if !playFrames(ctx, cfg, frames) {
			return false
		}

		if !sleepCancellable(ctx, postGap(cfg.Station.Transmitter)) {
			return false
		}

		if breakAfterOnePass {
			return true
		}
	}
}

// playFrames streams frames at real-time rate, anchoring sleeps to a
// single t0 so scheduler jitter doesn't accumulate drift (spec.md §9).
func playFrames(ctx context.Context, cfg Config, frames [][]byte) bool {
	t0 := time.Now()
	for i, frame := range frames {
		if err := cfg.Client.Send(ctx, frame); err != nil {
			if ctx.Err() != nil {
				return false
			}
			cfg.Lg.Warnf("send frame for %s: %v", cfg.Station.Name, err)
			return false
		}

		deadline := t0.Add(time.Duration(i+1) * frameDuration)
		if d := time.Until(deadline); d > 0 {
			if !sleepCancellable(ctx, d) {
				return false
			}
		}
		// Already behind schedule: send the next frame immediately,
		// catching up rather than compounding the delay.
	}
	return true
}

func postGap(t station.Transmitter) time.Duration {
	switch t.Kind() {
	case "Carrier":
		return carrierPostGap
	case "Custom":
		return customPostGap
	default:
		return airfieldWeatherPostGap
	}
}

func broadcastInterval(t station.Transmitter) time.Duration {
	if t.Custom != nil && t.Custom.UpdateInterval > 0 {
		return t.Custom.UpdateInterval
	}
	if t.Kind() == "Weather" {
		return 15 * time.Minute
	}
	return 60 * time.Minute
}

func stationRegistrationPosition(s station.Station) station.Position {
	switch {
	case s.Transmitter.Airfield != nil:
		return s.Transmitter.Airfield.Position
	default:
		return station.Position{}
	}
}

func srsPosition(p station.Position) srs.Position {
	return srs.Position{X: p.X, Y: p.Y, Alt: p.Alt}
}

// sleepCancellable sleeps for d, returning false if ctx is cancelled
// first.
func sleepCancellable(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
