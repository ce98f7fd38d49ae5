// tts/gcloud.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/station"
)

const gcloudDefaultVoice = "en-US-Wavenet-D"

type gcloudSynthesisInput struct {
	SSML string `json:"ssml"`
}

type gcloudVoiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type gcloudAudioConfig struct {
	AudioEncoding   string  `json:"audioEncoding"`
	SampleRateHertz int     `json:"sampleRateHertz"`
	SpeakingRate    float64 `json:"speakingRate"`
}

type gcloudSynthesizeRequest struct {
	Input       gcloudSynthesisInput  `json:"input"`
	Voice       gcloudVoiceSelection  `json:"voice"`
	AudioConfig gcloudAudioConfig     `json:"audioConfig"`
}

type gcloudSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// googleCloudProvider calls the Cloud Text-to-Speech REST API and demuxes
// its OGG_OPUS response into individual Opus packets, grounded on
// server/tts.go's GoogleTTSProvider, adapted for JWT service-account auth
// via oauth2/google exactly as that provider does.
type googleCloudProvider struct {
	httpClient *http.Client
	apiKey     string
	lg         *log.Logger
}

func newGoogleCloudProvider(cfg Config, lg *log.Logger) (Provider, error) {
	if cfg.GoogleJWTCredentialsJSON == "" && cfg.GoogleCloudAPIKey == "" {
		return nil, ErrMissingCredentials
	}

	p := &googleCloudProvider{apiKey: cfg.GoogleCloudAPIKey, lg: lg}

	if cfg.GoogleJWTCredentialsJSON != "" {
		jwtCfg, err := google.JWTConfigFromJSON([]byte(cfg.GoogleJWTCredentialsJSON),
			"https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, fmt.Errorf("tts: parse google credentials: %w", err)
		}
		ctx := context.Background()
		p.httpClient = oauth2.NewClient(ctx, jwtCfg.TokenSource(ctx))
	} else {
		p.httpClient = &http.Client{}
	}
	p.httpClient.Timeout = 10 * time.Second

	return p, nil
}

func (p *googleCloudProvider) Synthesize(ctx context.Context, ssml string, voice station.Voice) ([][]byte, error) {
	name := voice.Name
	if name == "" {
		name = gcloudDefaultVoice
	}

	req := gcloudSynthesizeRequest{
		Input: gcloudSynthesisInput{SSML: ssml},
		Voice: gcloudVoiceSelection{LanguageCode: "en-US", Name: name},
		AudioConfig: gcloudAudioConfig{
			AudioEncoding:   "OGG_OPUS",
			SampleRateHertz: 16000,
			SpeakingRate:    0.9,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	url := "https://texttospeech.googleapis.com/v1/text:synthesize"
	if p.apiKey != "" {
		url += "?key=" + p.apiKey
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.lg.Warnf("gcloud tts request failed: %v", err)
		return nil, ErrTTSUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.lg.Warnf("gcloud tts status %d", resp.StatusCode)
		return nil, ErrTTSUnavailable
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read response: %w", err)
	}

	var synthResp gcloudSynthesizeResponse
	if err := json.Unmarshal(respBody, &synthResp); err != nil {
		return nil, fmt.Errorf("tts: unmarshal response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(synthResp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("tts: decode audio content: %w", err)
	}

	frames, err := demuxOggPackets(audio)
	if err != nil {
		return nil, err
	}

	p.lg.Infof("synthesized %d ogg packets via google cloud tts", len(frames))
	return frames, nil
}
