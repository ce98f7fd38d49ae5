// tts/windows.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/dcs-atis/atisd/log"
	"github.com/dcs-atis/atisd/station"
)

// windowsProvider shells out to PowerShell's System.Speech.Synthesis API,
// the same built-in SAPI voices the original Rust win-tts crate calls into
// via COM. No pack example wraps Windows COM, so a PowerShell subprocess
// is the stdlib-only stand-in: it writes a WAV file that is then decoded
// and Opus-encoded the same way as the AWS backend's raw PCM.
type windowsProvider struct {
	lg *log.Logger
}

func newWindowsProvider(lg *log.Logger) (Provider, error) {
	if runtime.GOOS != "windows" {
		return nil, ErrPlatformUnsupported
	}
	return &windowsProvider{lg: lg}, nil
}

const windowsPSScript = `
param([string]$Text, [string]$VoiceName, [string]$OutPath)
Add-Type -AssemblyName System.Speech
$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer
if ($VoiceName) { $synth.SelectVoice($VoiceName) }
$synth.SetOutputToWaveFile($OutPath, (New-Object System.Speech.AudioFormat.SpeechAudioFormatInfo(16000, [System.Speech.AudioFormat.AudioBitsPerSample]::Sixteen, [System.Speech.AudioFormat.AudioChannel]::Mono)))
$synth.SpeakSsml($Text)
$synth.Dispose()
`

func (p *windowsProvider) Synthesize(ctx context.Context, ssml string, voice station.Voice) ([][]byte, error) {
	out, err := os.CreateTemp("", "atisd-tts-*.wav")
	if err != nil {
		return nil, fmt.Errorf("tts: create temp wav: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, "powershell.exe", "-NoProfile", "-Command", windowsPSScript,
		"-Text", ssml, "-VoiceName", voice.Name, "-OutPath", outPath)
	if err := cmd.Run(); err != nil {
		p.lg.Warnf("windows tts subprocess failed: %v", err)
		return nil, ErrTTSUnavailable
	}

	wavData, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("tts: read synthesized wav: %w", err)
	}

	pcm, err := pcmFromWAV(wavData)
	if err != nil {
		return nil, err
	}

	frames, err := encodePCMToOpusFrames(pcm)
	if err != nil {
		return nil, err
	}

	p.lg.Infof("synthesized %d opus frames via windows sapi", len(frames))
	return frames, nil
}

// pcmFromWAV strips a canonical RIFF/WAVE header, returning the raw PCM
// sample bytes in the "data" chunk.
func pcmFromWAV(wav []byte) ([]byte, error) {
	if len(wav) < 44 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, fmt.Errorf("tts: not a RIFF/WAVE file")
	}

	pos := 12
	for pos+8 <= len(wav) {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(wav[pos+4]) | int(wav[pos+5])<<8 | int(wav[pos+6])<<16 | int(wav[pos+7])<<24
		dataStart := pos + 8
		if chunkID == "data" {
			if dataStart+chunkSize > len(wav) {
				chunkSize = len(wav) - dataStart
			}
			return wav[dataStart : dataStart+chunkSize], nil
		}
		pos = dataStart + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	return nil, fmt.Errorf("tts: no data chunk found in wav")
}
