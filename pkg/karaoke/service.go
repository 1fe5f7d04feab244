package karaoke

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/himanishpuri/karaoke/pkg/console"
	"github.com/himanishpuri/karaoke/pkg/karaoke/lyrics"
	"github.com/himanishpuri/karaoke/pkg/karaoke/lyricsync"
	"github.com/himanishpuri/karaoke/pkg/karaoke/playback"
	"github.com/himanishpuri/karaoke/pkg/karaoke/speech"
	"github.com/himanishpuri/karaoke/pkg/karaoke/tts"
	"github.com/himanishpuri/karaoke/pkg/logger"
	"github.com/himanishpuri/karaoke/pkg/models"
)

// karaokeService is the default implementation of the Service interface.
type karaokeService struct {
	lyrics LyricsFetcher
	synth  Synthesizer
	speech SpeechInput
	sync   Synchronizer
	out    *console.Printer
	in     *bufio.Reader
	log    *logger.Logger
	config *Config
}

func NewService(ctx context.Context, opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	log := cfg.Logger

	var out *console.Printer
	if cfg.Output != nil {
		out = console.New(cfg.Output, console.NoColor)
	} else {
		out = console.Stdout(cfg.NoColor)
	}

	if cfg.Lyrics == nil {
		cfg.Lyrics = lyrics.NewClient(
			lyrics.WithBaseURL(cfg.LyricsURL),
			lyrics.WithLogger(log.With("[lyrics]")),
		)
	}

	if cfg.Synthesizer == nil {
		ttsLog := log.With("[tts]")
		providers := tts.BuildProviders(ctx, tts.ProviderConfig{
			Lang:         cfg.Lang,
			GoogleAPIKey: cfg.GoogleAPIKey,
			OpenAIAPIKey: cfg.OpenAIAPIKey,
			OpenAIURL:    cfg.OpenAIURL,
		}, ttsLog)
		chain, err := tts.NewChain(ttsLog, providers...)
		if err != nil {
			return nil, fmt.Errorf("failed to set up speech synthesis: %w", err)
		}
		cfg.Synthesizer = tts.NewSynthesizer(chain,
			tts.WithPrinter(out),
			tts.WithLogger(ttsLog),
			tts.WithTempDir(cfg.TempDir),
		)
	}

	if cfg.Speech == nil {
		speechLog := log.With("[speech]")
		if cfg.Recorder == nil {
			cfg.Recorder = speech.NewCommandRecorder(cfg.TempDir)
		}
		if cfg.Recognizer == nil {
			cfg.Recognizer = speech.BuildRecognizers(ctx, speech.RecognizerConfig{
				Lang:         cfg.Lang,
				GoogleAPIKey: cfg.GoogleAPIKey,
				OpenAIAPIKey: cfg.OpenAIAPIKey,
				OpenAIURL:    cfg.OpenAIURL,
			}, speechLog)
		}
		cfg.Speech = speech.NewInput(cfg.Recorder, cfg.Recognizer, out, speechLog, cfg.RecordSeconds)
	}

	if cfg.Synchronizer == nil {
		if cfg.Selector == nil {
			cfg.Selector = playback.DefaultSelector(log.With("[playback]"))
		}
		cfg.Synchronizer = lyricsync.New(cfg.Selector, out, log.With("[sync]"), lyricsync.DefaultConfig())
	}

	return &karaokeService{
		lyrics: cfg.Lyrics,
		synth:  cfg.Synthesizer,
		speech: cfg.Speech,
		sync:   cfg.Synchronizer,
		out:    out,
		in:     bufio.NewReader(cfg.Input),
		log:    log,
		config: cfg,
	}, nil
}

// Run asks for a song, fetches its lyrics, speaks them into the output file
// and prints them along with playback.
func (s *karaokeService) Run(ctx context.Context) Outcome {
	s.out.Input("--- Go CLI Karaoke/TTS Project (Lyrics.ovh) ---")
	s.out.Plain("This version fetches real lyrics using a no-key API, creates an MP3, and attempts simultaneous display.")
	s.out.Blank()

	req := s.request(ctx)
	if req.Empty() {
		s.out.Warn("Artist and Title cannot be empty. Exiting.")
		return EmptyRequest
	}
	s.log.Infof("Requested %q by %q", req.Title, req.Artist)

	s.out.Blank()
	s.out.Action("Searching for lyrics at: %s...", s.lyrics.URL(req))
	text := s.lyrics.Fetch(ctx, req)
	if lyrics.IsError(text) {
		s.out.Blank()
		s.out.Warn("%s", text)
		return LyricsFailed
	}

	s.out.Banner("Lyrics Found")
	s.out.Plain("%s%s", s.out.Palette().Reset, text)
	s.out.Rule()
	s.out.Blank()

	artifact := s.synth.Generate(ctx, text, s.config.OutputFile)
	report := s.sync.Run(text, artifact.FilePath, artifact.DurationSeconds)
	s.log.Infof("Displayed %d/%d lines in %v (playback started: %v)",
		report.Shown, report.Lines, report.Elapsed, report.PlaybackStarted)

	s.out.Blank()
	s.out.Action("The 'singing' session is complete. The audio file '%s' was used for timing.", s.config.OutputFile)
	return Completed
}

// request asks for the input mode and returns what the user spoke or typed.
// Spoken requests that fail or lack an artist fall back to typing.
func (s *karaokeService) request(ctx context.Context) models.SongRequest {
	s.out.Plain("How would you like to enter the song details? (1) Speak it, (2) Type it: ")
	choice := s.ask("Enter 1 or 2: ")

	if choice == "1" {
		req, ok := s.speech.Acquire(ctx)
		if ok && strings.TrimSpace(req.Artist) != "" {
			return req
		}
	}

	s.out.Blank()
	s.out.Plain("--- Manual Entry ---")
	return models.SongRequest{
		Artist: s.askPlain("Enter the Artist Name (e.g., John Lennon): "),
		Title:  s.askPlain("Enter the Song Title (e.g., Imagine): "),
	}
}

func (s *karaokeService) ask(prompt string) string {
	s.out.Prompt(prompt)
	return s.readLine()
}

func (s *karaokeService) askPlain(prompt string) string {
	fmt.Fprint(s.out.Writer(), prompt)
	return s.readLine()
}

// readLine returns the next trimmed line. EOF yields whatever was read.
func (s *karaokeService) readLine() string {
	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		s.log.Debugf("reading input: %v", err)
	}
	return strings.TrimSpace(line)
}
