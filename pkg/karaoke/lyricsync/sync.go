// Package lyricsync prints lyric lines on a fixed per-line budget while the
// synthesized audio plays.
//
// Timing is proportional: every line gets the same share of 95% of the
// audio's length, and printing stops once 98% of it has elapsed.
package lyricsync

import (
	"time"

	"github.com/himanishpuri/karaoke/pkg/console"
	"github.com/himanishpuri/karaoke/pkg/karaoke/playback"
	"github.com/himanishpuri/karaoke/pkg/logger"
	"github.com/himanishpuri/karaoke/pkg/models"
)

const (
	MarginFactor = 0.95
	CutoffFactor = 0.98
	GracePeriod  = time.Second
)

// Schedule returns the trimmed, non-blank lines of lyrics in order.
func Schedule(lyrics string) []string {
	return models.CleanLines(lyrics)
}

// TimePerLine is the display budget for each of n lines over d seconds.
func TimePerLine(d float64, n int) float64 {
	if n <= 0 || d <= 0 {
		return 0
	}
	return d * MarginFactor / float64(n)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Starter begins playback of a file. *playback.Selector satisfies it.
type Starter interface {
	Start(path string) playback.Handle
}

// Clock is the time source the display loop paces itself with.
type Clock struct {
	Now   func() time.Time
	Sleep func(time.Duration)
}

// SystemClock uses the wall clock.
var SystemClock = Clock{Now: time.Now, Sleep: time.Sleep}

type Config struct {
	MarginFactor float64
	CutoffFactor float64
	GracePeriod  time.Duration
	Clock        Clock
}

func DefaultConfig() Config {
	return Config{
		MarginFactor: MarginFactor,
		CutoffFactor: CutoffFactor,
		GracePeriod:  GracePeriod,
		Clock:        SystemClock,
	}
}

// Report describes one display run.
type Report struct {
	Lines           int
	Shown           int
	Elapsed         time.Duration
	PlaybackStarted bool
}

type Synchronizer struct {
	cfg     Config
	starter Starter
	out     *console.Printer
	log     *logger.Logger
}

func New(starter Starter, out *console.Printer, log *logger.Logger, cfg Config) *Synchronizer {
	if cfg.Clock.Now == nil {
		cfg.Clock.Now = time.Now
	}
	if cfg.Clock.Sleep == nil {
		cfg.Clock.Sleep = time.Sleep
	}
	if cfg.MarginFactor <= 0 {
		cfg.MarginFactor = MarginFactor
	}
	if cfg.CutoffFactor <= 0 {
		cfg.CutoffFactor = CutoffFactor
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Synchronizer{cfg: cfg, starter: starter, out: out, log: log}
}

// Run plays audioPath and prints lyrics line by line over duration seconds.
// It never fails: with no lines or no duration it prints a warning and
// returns a zero Report without touching playback.
func (s *Synchronizer) Run(lyrics, audioPath string, duration float64) Report {
	lines := Schedule(lyrics)
	if len(lines) == 0 || duration <= 0 {
		s.out.Warn("Cannot synchronize: No lyrics or zero duration.")
		return Report{}
	}

	perLine := seconds(duration * s.cfg.MarginFactor / float64(len(lines)))
	cutoff := seconds(duration * s.cfg.CutoffFactor)
	s.log.Debugf("%d lines over %.2fs, %v per line", len(lines), duration, perLine)

	s.out.Banner("Starting Karaoke Playback")

	handle := s.start(audioPath)
	if handle.Started() {
		s.out.Action("Audio playback started automatically.")
		s.out.Blank()
	} else {
		s.out.Blank()
		s.out.Action("1. Please start playing the audio file '%s' NOW to synchronize.", audioPath)
		s.out.Action("   (Install ffplay, mpg123 or mpv to enable automatic playback)")
		s.out.Blank()
	}

	if s.cfg.GracePeriod > 0 {
		s.cfg.Clock.Sleep(s.cfg.GracePeriod)
	}

	clock := s.cfg.Clock
	start := clock.Now()
	shown := 0
	for _, line := range lines {
		if clock.Now().Sub(start) >= cutoff {
			s.log.Debugf("cutoff reached after %d of %d lines", shown, len(lines))
			break
		}
		s.out.Action(">> %s", line)
		shown++
		clock.Sleep(perLine)
	}
	elapsed := clock.Now().Sub(start)

	handle.Stop()

	s.out.Blank()
	s.out.Rule()
	s.out.Plain("      %s--- Karaoke Finished (Elapsed: %.2fs) ---%s",
		s.out.Palette().Input, elapsed.Seconds(), s.out.Palette().Reset)
	s.out.Rule()
	s.out.Blank()

	return Report{
		Lines:           len(lines),
		Shown:           shown,
		Elapsed:         elapsed,
		PlaybackStarted: handle.Started(),
	}
}

func (s *Synchronizer) start(path string) playback.Handle {
	if s.starter == nil {
		return playback.Handle{}
	}
	return s.starter.Start(path)
}
