// cmd/atisd/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Command atisd broadcasts voice ATIS, carrier, weather, and custom
// reports onto an SRS relay for every station configured in DATIS.json.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/orchestrator"
)

var (
	configPath = flag.String("config", "DATIS.json", "path to the station/credential configuration file")
	logLevel   = flag.String("loglevel", "info", "logging level: debug, info, warn, or error")
	logDir     = flag.String("logdir", "", "directory for rotated log files (default atisd-logs)")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the process exit code: 0 on a clean SIGINT shutdown, 1 on a
// startup-configuration error, per spec.md §6's exit-code contract.
func run() int {
	fc, err := loadFileConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atisd: %v\n", err)
		return 1
	}

	level := *logLevel
	if fc.Debug {
		level = "debug"
	}
	lg := log.New(level, *logDir)

	stations, err := fc.loadStations()
	if err != nil {
		lg.Errorf("startup configuration error: %v", err)
		return 1
	}
	if len(stations) == 0 {
		lg.Errorf("startup configuration error: no stations configured in %s", *configPath)
		return 1
	}

	orch := orchestrator.New(stations, orchestrator.Config{
		Port:       fc.SRSPort,
		TTS:        fc.ttsConfig(),
		Weather:    &staticWeather{sample: fc.Weather.toSample()},
		ExportPath: fc.ExportPath,
		Lg:         lg,
	})

	orch.Start()
	lg.Infof("atisd started with %d station(s) on SRS port %d", len(stations), fc.SRSPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	lg.Infof("shutting down")
	orch.Stop()
	return 0
}
