// orchestrator/orchestrator_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package orchestrator

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/dcs-atis/atisd/station"
	"github.com/dcs-atis/atisd/tts"
)

// fakeRelay listens on one TCP and one UDP socket on the same address,
// accepting any number of connections, enough for supervisor.Supervise's
// dial and reconnect loop to complete its handshake.
type fakeRelay struct {
	addr string
	tcpL *net.TCPListener
	udpC *net.UDPConn
	done chan struct{}
}

func newFakeRelay(t *testing.T) *fakeRelay {
	t.Helper()
	tcpL, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	port := tcpL.Addr().(*net.TCPAddr).Port

	udpC, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	if err != nil {
		tcpL.Close()
		t.Fatalf("ListenUDP: %v", err)
	}

	r := &fakeRelay{addr: tcpL.Addr().String(), tcpL: tcpL, udpC: udpC, done: make(chan struct{})}
	go func() {
		for {
			conn, err := r.tcpL.Accept()
			if err != nil {
				return
			}
			go func() {
				buf := make([]byte, 4096)
				for {
					if _, err := conn.Read(buf); err != nil {
						conn.Close()
						return
					}
				}
			}()
		}
	}()
	return r
}

func (r *fakeRelay) close() {
	close(r.done)
	r.tcpL.Close()
	r.udpC.Close()
}

type fakeWeather struct {
	sample *station.WeatherSample
}

func (f *fakeWeather) Sample(ctx context.Context, pos station.Position) (*station.WeatherSample, error) {
	return f.sample, nil
}

func customStation(name string, freqHz uint64, message string) station.Station {
	return station.Station{
		Name:        name,
		FrequencyHz: freqHz,
		Voice:       station.Voice{Vendor: station.GoogleCloud, Name: "en-US-Wavenet-D"},
		Transmitter: station.Transmitter{
			Custom: &station.Custom{
				UnitID:         1,
				UnitName:       name,
				Message:        message,
				UpdateInterval: time.Hour,
			},
		},
	}
}

// TestStartSpawnsOneSupervisorPerStationAndPauseStopsAll exercises S3:
// two stations spawn independently, each exports its own report, and
// Pause cancels both cleanly without one station's state leaking into
// the other's.
func TestStartSpawnsOneSupervisorPerStationAndPauseStopsAll(t *testing.T) {
	relay := newFakeRelay(t)
	defer relay.close()

	dir := t.TempDir()
	exportPath := filepath.Join(dir, "atis-reports.json")

	stations := []station.Station{
		customStation("Kutaisi", 251_000_000, "Kutaisi custom message"),
		customStation("Batumi", 131_000_000, "Batumi custom message"),
	}

	orch := New(stations, Config{
		Port:       extractPort(t, relay.addr),
		Weather:    &fakeWeather{sample: &station.WeatherSample{}},
		ExportPath: exportPath,
		TTS:        tts.Config{GoogleCloudAPIKey: "test-key"},
		Lg:         nil,
	})

	orch.Start()
	if !orch.Running() {
		t.Fatal("expected Running() true after Start")
	}
	orch.Start() // idempotent: must not spawn a second set of supervisors

	waitForExportContaining(t, exportPath, "Kutaisi custom message")
	waitForExportContaining(t, exportPath, "Batumi custom message")

	orch.Pause()
	if orch.Running() {
		t.Fatal("expected Running() false after Pause")
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	var reports map[string]string
	if err := json.Unmarshal(data, &reports); err != nil {
		t.Fatalf("unmarshal export file: %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("got %d exported reports, want 2", len(reports))
	}
}

func TestPauseOnNeverStartedOrchestratorIsANoop(t *testing.T) {
	orch := New(nil, Config{})
	orch.Pause() // must not block or panic
	if orch.Running() {
		t.Error("Running() should be false")
	}
}

func extractPort(t *testing.T, addr string) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port %q: %v", portStr, err)
	}
	return port
}

func waitForExportContaining(t *testing.T, path, substr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && contains(string(data), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("export file %s never contained %q in time", path, substr)
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
