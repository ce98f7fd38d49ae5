// supervisor/supervisor_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package supervisor

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dcs-atis/atisd/srs"
	"github.com/dcs-atis/atisd/station"
)

var errTTSTest = errors.New("fake tts failure")

func TestBroadcastInterval(t *testing.T) {
	cases := []struct {
		name string
		t    station.Transmitter
		want time.Duration
	}{
		{"airfield", station.Transmitter{Airfield: &station.Airfield{}}, 60 * time.Minute},
		{"weather", station.Transmitter{Weather: &station.Weather{}}, 15 * time.Minute},
		{"carrier", station.Transmitter{Carrier: &station.Carrier{}}, 60 * time.Minute},
		{"custom with interval", station.Transmitter{Custom: &station.Custom{UpdateInterval: 5 * time.Minute}}, 5 * time.Minute},
		{"custom without interval", station.Transmitter{Custom: &station.Custom{}}, 60 * time.Minute},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := broadcastInterval(c.t); got != c.want {
				t.Errorf("broadcastInterval(%s) = %s, want %s", c.name, got, c.want)
			}
		})
	}
}

func TestPostGap(t *testing.T) {
	cases := []struct {
		name string
		t    station.Transmitter
		want time.Duration
	}{
		{"airfield", station.Transmitter{Airfield: &station.Airfield{}}, airfieldWeatherPostGap},
		{"weather", station.Transmitter{Weather: &station.Weather{}}, airfieldWeatherPostGap},
		{"carrier", station.Transmitter{Carrier: &station.Carrier{}}, carrierPostGap},
		{"custom", station.Transmitter{Custom: &station.Custom{}}, customPostGap},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := postGap(c.t); got != c.want {
				t.Errorf("postGap(%s) = %s, want %s", c.name, got, c.want)
			}
		})
	}
}

func TestStationRegistrationPosition(t *testing.T) {
	pos := station.Position{X: 1, Y: 2, Alt: 3}
	s := station.Station{Transmitter: station.Transmitter{Airfield: &station.Airfield{Position: pos}}}
	if got := stationRegistrationPosition(s); got != pos {
		t.Errorf("stationRegistrationPosition(airfield) = %+v, want %+v", got, pos)
	}

	s = station.Station{Transmitter: station.Transmitter{Carrier: &station.Carrier{}}}
	if got := stationRegistrationPosition(s); got != (station.Position{}) {
		t.Errorf("stationRegistrationPosition(carrier) = %+v, want zero value", got)
	}
}

func TestSrsPosition(t *testing.T) {
	p := station.Position{X: 10, Y: 20, Alt: 30}
	got := srsPosition(p)
	want := srs.Position{X: 10, Y: 20, Alt: 30}
	if got != want {
		t.Errorf("srsPosition(%+v) = %+v, want %+v", p, got, want)
	}
}

func TestSleepCancellableReturnsFalseOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepCancellable(ctx, time.Hour) {
		t.Error("sleepCancellable on an already-cancelled context should return false immediately")
	}
}

// fakeRelay accepts one TCP connection and owns a UDP socket at the same
// address, just enough for srs.Dial's handshake to succeed.
type fakeRelay struct {
	addr string
	tcpL *net.TCPListener
	udpC *net.UDPConn
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
	return &fakeRelay{addr: tcpL.Addr().String(), tcpL: tcpL, udpC: udpC}
}

func (f *fakeRelay) close() {
	f.tcpL.Close()
	f.udpC.Close()
}

func dialTestClient(t *testing.T, ctx context.Context, relay *fakeRelay) *srs.Client {
	t.Helper()
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := relay.tcpL.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	identity := srs.NewClientIdentity("Test ATIS", 251_000_000)
	client, err := srs.Dial(ctx, relay.addr, identity, false, nil)
	if err != nil {
		t.Fatalf("srs.Dial: %v", err)
	}
	conn := <-accepted
	t.Cleanup(func() { conn.Close() })
	return client
}

// fakeWeather always returns sample (or ErrNoDataAvailable-triggering nil
// when sample is nil), counting how many times it was asked.
type fakeWeather struct {
	sample *station.WeatherSample
	calls  atomic.Int64
}

func (f *fakeWeather) Sample(ctx context.Context, pos station.Position) (*station.WeatherSample, error) {
	f.calls.Add(1)
	return f.sample, nil
}

// failingTTS fails every call, counting attempts.
type failingTTS struct {
	calls atomic.Int64
}

func (f *failingTTS) Synthesize(ctx context.Context, ssml string, voice station.Voice) ([][]byte, error) {
	f.calls.Add(1)
	return nil, errTTSTest
}

type recordingExporter struct {
	last atomic.Pointer[string]
}

func (e *recordingExporter) Export(ctx context.Context, stationName, textual string) error {
	e.last.Store(&textual)
	return nil
}

func testAirfieldStation() station.Station {
	return station.Station{
		Name:        "Kutaisi",
		FrequencyHz: 251_000_000,
		Transmitter: station.Transmitter{
			Airfield: &station.Airfield{
				Name:            "Kutaisi",
				Position:        station.Position{X: 100, Y: 200, Alt: 50},
				Runways:         []string{"04"},
				InfoLetterStart: 0,
			},
		},
	}
}

func testWeatherSample() *station.WeatherSample {
	return &station.WeatherSample{
		WindSpeedMS:   2.5,
		WindDirRad:    0,
		TemperatureC:  22,
		PressureQNHPa: 101500,
		PressureQFEPa: 101500,
	}
}

// TestRunNoDataAvailableRetryIsCancellable confirms that a sustained
// ErrNoDataAvailable condition doesn't block shutdown: cancelling ctx
// well before noDataRetryDelay elapses still makes Run return promptly.
func TestRunNoDataAvailableRetryIsCancellable(t *testing.T) {
	relay := newFakeRelay(t)
	defer relay.close()

	ctx, cancel := context.WithCancel(context.Background())
	client := dialTestClient(t, ctx, relay)

	weather := &fakeWeather{sample: nil}
	cfg := Config{
		Station: testAirfieldStation(),
		Client:  client,
		Weather: weather,
		TTS:     &failingTTS{},
		Lg:      nil,
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return promptly after cancellation during the no-data retry sleep")
	}

	if weather.calls.Load() < 1 {
		t.Error("expected at least one weather sample attempt")
	}
}

// TestRunTTSFailureKeepsCyclingWithoutAdvancing exercises scenario S4:
// when synthesis keeps failing, Run logs, waits, and retries rather than
// tearing the session down, exporting the same textual report each time
// (report_index frozen) until ctx is cancelled.
func TestRunTTSFailureKeepsCyclingWithoutAdvancing(t *testing.T) {
	relay := newFakeRelay(t)
	defer relay.close()

	ctx, cancel := context.WithCancel(context.Background())
	client := dialTestClient(t, ctx, relay)

	weather := &fakeWeather{sample: testWeatherSample()}
	tts := &failingTTS{}
	exporter := &recordingExporter{}
	cfg := Config{
		Station:  testAirfieldStation(),
		Client:   client,
		Weather:  weather,
		TTS:      tts,
		Exporter: exporter,
		Lg:       nil,
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return promptly after cancellation during the tts-failure retry sleep")
	}

	if got := tts.calls.Load(); got != 1 {
		t.Errorf("tts.Synthesize called %d times, want exactly 1 (report_index frozen before the retry sleep was cancelled)", got)
	}

	last := exporter.last.Load()
	if last == nil {
		t.Fatal("expected at least one exported report")
	}
	if want := "information Alpha"; !contains(*last, want) {
		t.Errorf("exported report %q does not contain %q (report_index should still be 0)", *last, want)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
