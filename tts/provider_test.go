// tts/provider_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import (
	"runtime"
	"testing"

	"github.com/dcs-atis/atisd/station"
)

func TestNewMissingCredentials(t *testing.T) {
	cases := []station.VoiceVendor{station.GoogleCloud, station.AWS, station.Azure}
	for _, vendor := range cases {
		_, err := New(vendor, Config{}, nil)
		if err != ErrMissingCredentials {
			t.Errorf("New(%s, empty config) = %v, want ErrMissingCredentials", vendor, err)
		}
	}
}

func TestNewWindowsPlatformGate(t *testing.T) {
	_, err := New(station.Windows, Config{}, nil)
	if runtime.GOOS == "windows" {
		if err != nil {
			t.Errorf("New(Windows) on windows = %v, want nil", err)
		}
	} else if err != ErrPlatformUnsupported {
		t.Errorf("New(Windows) on %s = %v, want ErrPlatformUnsupported", runtime.GOOS, err)
	}
}

func TestNewGoogleCloudWithAPIKey(t *testing.T) {
	p, err := New(station.GoogleCloud, Config{GoogleCloudAPIKey: "test-key"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
}
