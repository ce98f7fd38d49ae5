// cmd/atisd/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dcs-atis/atisd/station"
	"github.com/dcs-atis/atisd/tts"
)

// fileConfig mirrors DATIS.json's schema (spec.md §6) plus the fields a
// standalone daemon needs beyond what the original mission-embedded tool
// required: where to export reports, and the list of station-definition
// lines since this binary has no DCS mission to extract them from.
type fileConfig struct {
	DefaultVoice string `json:"default_voice"`

	GCloud *struct {
		Key string `json:"key"`
	} `json:"gcloud,omitempty"`

	AWS *struct {
		Key    string `json:"key"`
		Secret string `json:"secret"`
		Region string `json:"region"`
	} `json:"aws,omitempty"`

	Azure *struct {
		Key    string `json:"key"`
		Region string `json:"region"`
	} `json:"azure,omitempty"`

	SRSPort int  `json:"srs_port"`
	Debug   bool `json:"debug"`

	// Stations holds one station-configuration-grammar line (§6) per
	// entry. A real mission extracts these from its briefing text; this
	// standalone daemon takes them directly from the config file instead
	// (mission extraction itself is out of scope).
	Stations []string `json:"stations"`

	// ExportPath, if non-empty, is where atis-reports.json is written.
	ExportPath string `json:"export_path,omitempty"`

	// Weather, if present, seeds staticWeather with a fixed snapshot used
	// for every station until a real simulator-host bridge is wired in.
	Weather *weatherConfig `json:"weather,omitempty"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.SRSPort == 0 {
		cfg.SRSPort = 5002
	}
	return &cfg, nil
}

// ttsConfig converts the file's credential blocks into tts.Config.
func (c *fileConfig) ttsConfig() tts.Config {
	cfg := tts.Config{}
	if c.GCloud != nil {
		cfg.GoogleCloudAPIKey = c.GCloud.Key
	}
	if c.AWS != nil {
		cfg.AWSAccessKeyID = c.AWS.Key
		cfg.AWSSecretAccessKey = c.AWS.Secret
		cfg.AWSRegion = c.AWS.Region
	}
	if c.Azure != nil {
		cfg.AzureSubscriptionKey = c.Azure.Key
		cfg.AzureRegion = c.Azure.Region
	}
	return cfg
}

// loadStations parses each configured grammar line into a station.Station,
// validates it, and applies the file's default_voice to any station whose
// line left the voice tag unspecified. A malformed line is a startup-
// configuration error: the whole daemon refuses to start rather than
// silently dropping a station the operator expected to hear.
func (c *fileConfig) loadStations() ([]station.Station, error) {
	stations := make([]station.Station, 0, len(c.Stations))
	for i, line := range c.Stations {
		s, err := station.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("station line %d: %w", i+1, err)
		}
		if s.Voice.Name == "" && c.DefaultVoice != "" {
			s.Voice.Name = c.DefaultVoice
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("station line %d: %w", i+1, err)
		}
		stations = append(stations, s)
	}
	return stations, nil
}
