package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/himanishpuri/karaoke/pkg/console"
	"github.com/himanishpuri/karaoke/pkg/karaoke/audio"
	"github.com/himanishpuri/karaoke/pkg/logger"
	"github.com/himanishpuri/karaoke/pkg/models"
	"github.com/himanishpuri/karaoke/pkg/utils"
)

// ConvertFunc transcodes inputPath into an MP3 at outputPath.
type ConvertFunc func(ctx context.Context, inputPath, outputPath string) error

// Synthesizer writes spoken lyrics to an MP3 and works out how long it plays.
type Synthesizer struct {
	provider Provider
	out      *console.Printer
	log      *logger.Logger
	tempDir  string
	probers  []audio.Prober
	convert  ConvertFunc
}

type SynthOption func(*Synthesizer)

func WithPrinter(p *console.Printer) SynthOption {
	return func(s *Synthesizer) { s.out = p }
}

func WithLogger(l *logger.Logger) SynthOption {
	return func(s *Synthesizer) { s.log = l }
}

// WithTempDir sets where non-MP3 provider output is staged before conversion.
func WithTempDir(dir string) SynthOption {
	return func(s *Synthesizer) { s.tempDir = dir }
}

// WithProbers replaces the duration probes tried after the file is written.
func WithProbers(p ...audio.Prober) SynthOption {
	return func(s *Synthesizer) { s.probers = p }
}

func WithConverter(fn ConvertFunc) SynthOption {
	return func(s *Synthesizer) { s.convert = fn }
}

func NewSynthesizer(p Provider, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{
		provider: p,
		out:      console.New(os.Stdout, console.NoColor),
		log:      logger.GetLogger(),
		tempDir:  os.TempDir(),
		probers:  audio.DefaultProbers(),
		convert: func(ctx context.Context, in, out string) error {
			return audio.ConvertToMP3(ctx, in, out, audio.ConvertMP3Config{})
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate speaks the cleaned lyrics into filename. A synthesis failure is
// printed and reported as a zero duration; a file that cannot be measured
// gets a length-based estimate.
func (s *Synthesizer) Generate(ctx context.Context, lyrics, filename string) models.AudioArtifact {
	s.out.Blank()
	s.out.Action("Generating TTS audio file: %s...", filename)

	cleaned := models.CleanText(lyrics)
	artifact := models.AudioArtifact{FilePath: filename}

	if err := s.synthesize(ctx, cleaned, filename); err != nil {
		s.log.Errorf("synthesis failed: %v", err)
		s.out.Warn("TTS Generation Error: %v", err)
		return artifact
	}
	s.out.Action("SUCCESS: Audio saved to '%s'.", filename)

	d, err := audio.MeasureDuration(ctx, filename, s.probers...)
	if err != nil {
		s.log.Debugf("duration probes failed: %v", err)
		s.out.Warn("Note: could not determine duration. Is ffmpeg installed? Using default estimate.")
		artifact.DurationSeconds = audio.EstimateDuration(cleaned)
		artifact.Estimated = true
		return artifact
	}

	s.log.Debugf("measured %.2fs of audio", d)
	artifact.DurationSeconds = d
	return artifact
}

func (s *Synthesizer) synthesize(ctx context.Context, text, filename string) error {
	if s.provider == nil {
		return ErrNoProviders
	}
	if text == "" {
		return ErrEmptyText
	}

	res, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	s.log.Infof("%s produced %d bytes of %s", res.Provider, len(res.Audio), res.Format)

	switch res.Format {
	case FormatMP3:
		return utils.ReplaceFile(filename, res.Audio)
	default:
		return s.transcode(ctx, res, filename)
	}
}

// transcode stages non-MP3 audio in the temp dir and converts it into place.
func (s *Synthesizer) transcode(ctx context.Context, res *Result, filename string) error {
	if err := utils.MakeDir(s.tempDir); err != nil {
		return err
	}

	staged, err := os.CreateTemp(s.tempDir, "karaoke-*."+string(res.Format))
	if err != nil {
		return fmt.Errorf("staging %s audio: %w", res.Format, err)
	}
	stagedPath := staged.Name()
	defer os.Remove(stagedPath)

	if _, err := staged.Write(res.Audio); err != nil {
		staged.Close()
		return fmt.Errorf("staging %s audio: %w", res.Format, err)
	}
	if err := staged.Close(); err != nil {
		return err
	}

	absOut, err := filepath.Abs(filename)
	if err != nil {
		absOut = filename
	}
	if err := s.convert(ctx, stagedPath, absOut); err != nil {
		return fmt.Errorf("converting %s to mp3: %w", res.Format, err)
	}
	return nil
}
