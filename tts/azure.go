// tts/azure.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/station"
)

const azureDefaultVoice = "en-US-AriaRUS"

// azureProvider calls Azure Cognitive Services' speech REST endpoint
// directly over net/http: no Azure SDK appears anywhere in the example
// pack, and the service's streaming WebSocket API isn't needed here since
// the plain REST synthesis endpoint already returns a complete OGG-Opus
// payload for one request.
type azureProvider struct {
	httpClient *http.Client
	key        string
	region     string
	lg         *log.Logger
}

func newAzureProvider(cfg Config, lg *log.Logger) (Provider, error) {
	if cfg.AzureSubscriptionKey == "" || cfg.AzureRegion == "" {
		return nil, ErrMissingCredentials
	}
	return &azureProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		key:        cfg.AzureSubscriptionKey,
		region:     cfg.AzureRegion,
		lg:         lg,
	}, nil
}

func (p *azureProvider) issueToken(ctx context.Context) (string, error) {
	url := fmt.Sprintf("https://%s.api.cognitive.microsoft.com/sts/v1.0/issueToken", p.region)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("tts: build token request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.key)
	req.Header.Set("Content-Length", "0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", ErrTTSUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", ErrTTSUnavailable
	}

	token, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("tts: read token response: %w", err)
	}
	return string(token), nil
}

func (p *azureProvider) Synthesize(ctx context.Context, ssml string, voice station.Voice) ([][]byte, error) {
	token, err := p.issueToken(ctx)
	if err != nil {
		return nil, err
	}

	name := voice.Name
	if name == "" {
		name = azureDefaultVoice
	}
	body := withVoiceName(ssml, name)

	url := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", p.region)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts: build synthesis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Microsoft-OutputFormat", "ogg-16khz-16bit-mono-opus")
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("User-Agent", "atisd")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.lg.Warnf("azure tts request failed: %v", err)
		return nil, ErrTTSUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		p.lg.Warnf("azure tts status %d", resp.StatusCode)
		return nil, ErrTTSUnavailable
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read synthesis response: %w", err)
	}

	frames, err := demuxOggPackets(audio)
	if err != nil {
		return nil, err
	}

	p.lg.Infof("synthesized %d ogg packets via azure tts", len(frames))
	return frames, nil
}

// withVoiceName injects a <voice> element naming the target voice into an
// already-built <speak>...</speak> SSML document, as Azure's API requires.
func withVoiceName(ssml, voiceName string) string {
	const openTag = "<speak>"
	idx := strings.Index(ssml, openTag)
	if idx < 0 {
		return ssml
	}
	head := ssml[:idx+len(openTag)]
	rest := strings.TrimSuffix(ssml[idx+len(openTag):], "</speak>")
	return fmt.Sprintf(`%s<voice xml:lang="en-US" name="%s">%s</voice></speak>`, head, voiceName, rest)
}
