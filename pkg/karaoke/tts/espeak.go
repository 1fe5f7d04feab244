package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoEngine is returned when no local speech engine is installed.
var ErrNoEngine = errors.New("tts: espeak-ng or espeak not found")

// EspeakProvider runs a local espeak-ng (or espeak) and captures its WAV output.
type EspeakProvider struct {
	Binary string
	Voice  string
}

// NewEspeakProvider resolves the first installed engine binary.
func NewEspeakProvider(voice string) (*EspeakProvider, error) {
	if voice == "" {
		voice = "en"
	}
	for _, name := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(name); err == nil {
			return &EspeakProvider{Binary: path, Voice: voice}, nil
		}
	}
	return nil, ErrNoEngine
}

func (e *EspeakProvider) Name() string { return "espeak" }

func (e *EspeakProvider) Synthesize(ctx context.Context, text string) (*Result, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Binary, "-v", e.Voice, "--stdout", "--stdin")
	cmd.Stdin = bytes.NewBufferString(text)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %v (%s)", e.Binary, err, bytes.TrimSpace(stderr.Bytes()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s produced no audio", e.Binary)
	}

	return &Result{Audio: stdout.Bytes(), Format: FormatWAV, Provider: e.Name()}, nil
}

var _ Provider = (*EspeakProvider)(nil)
