// tts/aws.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import (
	"context"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/station"
)

const awsDefaultVoice = types.VoiceIdJoanna

// awsProvider synthesizes speech via AWS Polly. Polly has no Opus output
// format, unlike Google Cloud and Azure, so this backend requests raw PCM
// and runs it through the same Opus encoder as the Windows backend,
// mirroring the original project's own use of a local Opus encoder for
// this vendor specifically (its other three vendors all get frame-ready
// Opus straight from the service).
type awsProvider struct {
	client *polly.Client
	lg     *log.Logger
}

func newAWSProvider(cfg Config, lg *log.Logger) (Provider, error) {
	if cfg.AWSAccessKeyID == "" || cfg.AWSSecretAccessKey == "" {
		return nil, ErrMissingCredentials
	}
	region := cfg.AWSRegion
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("tts: load aws config: %w", err)
	}

	return &awsProvider{client: polly.NewFromConfig(awsCfg), lg: lg}, nil
}

func (p *awsProvider) Synthesize(ctx context.Context, ssml string, voice station.Voice) ([][]byte, error) {
	voiceID := types.VoiceId(voice.Name)
	if voiceID == "" {
		voiceID = awsDefaultVoice
	}

	out, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         &ssml,
		TextType:     types.TextTypeSsml,
		OutputFormat: types.OutputFormatPcm,
		VoiceId:      voiceID,
		SampleRate:   strPtr("16000"),
	})
	if err != nil {
		p.lg.Warnf("polly synthesize failed: %v", err)
		return nil, ErrTTSUnavailable
	}
	defer out.AudioStream.Close()

	pcm, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("tts: read polly audio stream: %w", err)
	}

	frames, err := encodePCMToOpusFrames(pcm)
	if err != nil {
		return nil, err
	}

	p.lg.Infof("synthesized %d opus frames via aws polly", len(frames))
	return frames, nil
}

func strPtr(s string) *string { return &s }
