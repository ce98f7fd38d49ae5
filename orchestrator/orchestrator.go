// orchestrator/orchestrator.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package orchestrator owns the full set of configured stations, spawns
// one supervisor per station, and exposes start/pause/resume/stop as
// described in spec.md §4.F.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/srs"
	"github.com/dcs-atis/atisd/station"
	"github.com/dcs-atis/atisd/supervisor"
	"github.com/dcs-atis/atisd/tts"
)

const defaultPort = 5002

// Config bundles the ambient configuration shared across every station's
// supervisor: the relay port, TTS credentials, the weather collaborator,
// and where (if anywhere) to export textual reports.
type Config struct {
	Port       int
	TTS        tts.Config
	Weather    supervisor.WeatherSource
	ExportPath string // empty disables export
	Lg         *log.Logger
}

// Orchestrator owns a list of stations and runs one supervisor goroutine
// per station between Start and Pause/Stop.
type Orchestrator struct {
	stations []station.Station
	cfg      Config
	exporter *reportExporter

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs an Orchestrator for stations, not yet started.
func New(stations []station.Station, cfg Config) *Orchestrator {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	var exporter *reportExporter
	if cfg.ExportPath != "" {
		exporter = newReportExporter(cfg.ExportPath)
	}

	return &Orchestrator{
		stations: stations,
		cfg:      cfg,
		exporter: exporter,
	}
}

// Start is idempotent: a no-op if already running. It spawns one
// supervisor per station, all sharing a single cancellable context;
// there is no per-station cancel signal, so Pause and Stop cancel every
// supervisor together. A station whose configured voice backend is
// missing required credentials or unsupported on this platform is
// skipped with a logged reason; that validation happens here, once,
// rather than inside each supervisor's reconnect loop.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return
	}
	o.running = true

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	for _, s := range o.stations {
		provider, err := tts.New(s.Voice.Vendor, o.cfg.TTS, o.cfg.Lg)
		if err != nil {
			o.cfg.Lg.Warnf("skipping station %q: %v", s.Name, err)
			continue
		}

		identity := srs.NewClientIdentity(fmt.Sprintf("ATIS %s", s.Name), s.FrequencyHz)
		if u := unitBinding(s.Transmitter); u != nil {
			identity.SetUnit(u.id, u.name)
		}

		cfg := supervisor.SuperviseConfig{
			Addr:     fmt.Sprintf("127.0.0.1:%d", o.cfg.Port),
			Identity: identity,
			WantsRX:  false,
			Station:  s,
			TTS:      provider,
			Weather:  o.cfg.Weather,
			Lg:       o.cfg.Lg,
		}
		if o.exporter != nil {
			cfg.Exporter = o.exporter
		}

		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			defer o.cfg.Lg.CatchAndReportCrash()
			if err := supervisor.Supervise(ctx, cfg); err != nil {
				o.cfg.Lg.Errorf("supervisor for %q exited: %v", cfg.Station.Name, err)
			}
		}()
	}
}

// Pause signals cancel to every running supervisor and waits for them to
// exit, but leaves the Orchestrator itself intact for a later Resume.
func (o *Orchestrator) Pause() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	cancel := o.cancel
	o.running = false
	o.cancel = nil
	o.mu.Unlock()

	cancel()
	o.wg.Wait()
}

// Resume is equivalent to Start.
func (o *Orchestrator) Resume() {
	o.Start()
}

// Stop is equivalent to Pause; the Orchestrator isn't reused afterward.
func (o *Orchestrator) Stop() {
	o.Pause()
}

// Running reports whether supervisors are currently spawned.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

type unit struct {
	id   uint32
	name string
}

// unitBinding extracts the unit id/name a station's identity should
// advertise, for the transmitter kinds that track a moving DCS unit.
func unitBinding(t station.Transmitter) *unit {
	switch {
	case t.Carrier != nil:
		return &unit{t.Carrier.UnitID, t.Carrier.UnitName}
	case t.Custom != nil:
		return &unit{t.Custom.UnitID, t.Custom.UnitName}
	case t.Weather != nil:
		return &unit{t.Weather.UnitID, t.Weather.UnitName}
	default:
		return nil
	}
}
