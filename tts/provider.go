// tts/provider.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import (
	"context"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/station"
)

// Provider synthesizes SSML text into a sequence of 20ms Opus frames at
// 16kHz mono, ready to hand to the voice client's Send.
type Provider interface {
	Synthesize(ctx context.Context, ssml string, voice station.Voice) ([][]byte, error)
}

// Config carries the credentials each backend needs. Only the fields for
// the vendor actually in use need to be populated; New validates just
// those.
type Config struct {
	GoogleCloudAPIKey string // or empty to use GoogleJWTCredentialsJSON

	GoogleJWTCredentialsJSON string

	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string

	AzureSubscriptionKey string
	AzureRegion          string
}

// New builds the Provider for vendor, validating that the config carries
// whatever credentials that backend requires. A missing credential
// returns ErrMissingCredentials; the caller (the orchestrator's Start)
// logs this and never starts a supervisor for that station.
func New(vendor station.VoiceVendor, cfg Config, lg *log.Logger) (Provider, error) {
	switch vendor {
	case station.GoogleCloud:
		return newGoogleCloudProvider(cfg, lg)
	case station.AWS:
		return newAWSProvider(cfg, lg)
	case station.Azure:
		return newAzureProvider(cfg, lg)
	case station.Windows:
		return newWindowsProvider(lg)
	default:
		return nil, ErrPlatformUnsupported
	}
}
