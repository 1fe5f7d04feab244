package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep/mp3"

	"github.com/himanishpuri/karaoke/pkg/models"
)

// SecondsPerChar is the speaking rate assumed when a file cannot be measured.
const SecondsPerChar = 0.15

// MinEstimate is the floor for an estimated duration, in seconds.
const MinEstimate = 1.0

// Prober measures the playback length of an audio file in seconds.
type Prober interface {
	Name() string
	Probe(ctx context.Context, path string) (float64, error)
}

// MP3Prober decodes the MP3 in-process and counts samples.
type MP3Prober struct{}

func (MP3Prober) Name() string { return "mp3-decoder" }

func (MP3Prober) Probe(_ context.Context, path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("decoding mp3: %w", err)
	}
	defer streamer.Close()

	samples := streamer.Len()
	if samples <= 0 || format.SampleRate <= 0 {
		return 0, ErrNoAudioStream
	}
	return format.SampleRate.D(samples).Seconds(), nil
}

// FFProbe asks the ffprobe binary for the container duration.
type FFProbe struct{}

func (FFProbe) Name() string { return "ffprobe" }

func (FFProbe) Probe(ctx context.Context, path string) (float64, error) {
	meta, err := ReadMetadataFFmpeg(ctx, path)
	if err != nil {
		return 0, err
	}
	if meta.DurationSec <= 0 {
		return 0, fmt.Errorf("ffprobe reported duration %.3f", meta.DurationSec)
	}
	return meta.DurationSec, nil
}

// DefaultProbers lists the probes tried by MeasureDuration, in order.
func DefaultProbers() []Prober {
	return []Prober{MP3Prober{}, FFProbe{}}
}

// MeasureDuration returns the first positive duration any prober reports.
// When all of them fail the joined errors are returned.
func MeasureDuration(ctx context.Context, path string, probers ...Prober) (float64, error) {
	if len(probers) == 0 {
		probers = DefaultProbers()
	}

	var errs []error
	for _, p := range probers {
		d, err := p.Probe(ctx, path)
		if err == nil && d > 0 {
			return d, nil
		}
		if err == nil {
			err = ErrNoAudioStream
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
	}
	return 0, errors.Join(errs...)
}

// EstimateDuration guesses how long text takes to read aloud:
// max(1.0, characters * 0.15). Callers pass already-cleaned text.
func EstimateDuration(cleaned string) float64 {
	return math.Max(MinEstimate, float64(models.CharCount(cleaned))*SecondsPerChar)
}
