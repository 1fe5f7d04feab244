package karaoke

import (
	"io"
	"os"

	"github.com/himanishpuri/karaoke/pkg/karaoke/lyrics"
	"github.com/himanishpuri/karaoke/pkg/karaoke/speech"
	"github.com/himanishpuri/karaoke/pkg/logger"
)

// DefaultOutputFile is where the spoken lyrics are written, relative to the
// working directory. It is overwritten every run and never removed.
const DefaultOutputFile = "song_lyrics.mp3"

type Config struct {
	OutputFile    string
	TempDir       string
	RecordSeconds int
	Lang          string
	LyricsURL     string
	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIURL     string
	NoColor       bool

	Logger *logger.Logger
	Input  io.Reader
	Output io.Writer

	Lyrics       LyricsFetcher
	Synthesizer  Synthesizer
	Speech       SpeechInput
	Recognizer   speech.Recognizer
	Recorder     speech.Recorder
	Selector     Starter
	Synchronizer Synchronizer
}

type Option func(*Config)

func WithOutputFile(path string) Option {
	return func(c *Config) {
		c.OutputFile = path
	}
}

func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

func WithRecordSeconds(seconds int) Option {
	return func(c *Config) {
		c.RecordSeconds = seconds
	}
}

func WithLang(lang string) Option {
	return func(c *Config) {
		c.Lang = lang
	}
}

func WithLyricsURL(url string) Option {
	return func(c *Config) {
		c.LyricsURL = url
	}
}

func WithGoogleAPIKey(key string) Option {
	return func(c *Config) {
		c.GoogleAPIKey = key
	}
}

func WithOpenAI(key, baseURL string) Option {
	return func(c *Config) {
		c.OpenAIAPIKey = key
		c.OpenAIURL = baseURL
	}
}

func WithNoColor(noColor bool) Option {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithInput sets where typed answers are read from.
func WithInput(r io.Reader) Option {
	return func(c *Config) {
		c.Input = r
	}
}

// WithOutput sets where prompts and lyrics are printed. A custom writer is
// never coloured.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		c.Output = w
	}
}

func WithLyricsClient(l LyricsFetcher) Option {
	return func(c *Config) {
		c.Lyrics = l
	}
}

func WithSynthesizer(s Synthesizer) Option {
	return func(c *Config) {
		c.Synthesizer = s
	}
}

// WithSpeechInput replaces the whole record-and-recognize step.
func WithSpeechInput(s SpeechInput) Option {
	return func(c *Config) {
		c.Speech = s
	}
}

func WithRecognizer(r speech.Recognizer) Option {
	return func(c *Config) {
		c.Recognizer = r
	}
}

func WithRecorder(r speech.Recorder) Option {
	return func(c *Config) {
		c.Recorder = r
	}
}

func WithSelector(s Starter) Option {
	return func(c *Config) {
		c.Selector = s
	}
}

func WithSynchronizer(s Synchronizer) Option {
	return func(c *Config) {
		c.Synchronizer = s
	}
}

func defaultConfig() *Config {
	return &Config{
		OutputFile:    DefaultOutputFile,
		TempDir:       os.TempDir(),
		RecordSeconds: speech.DefaultSeconds,
		Lang:          "en",
		LyricsURL:     lyrics.DefaultBaseURL,
		Input:         os.Stdin,
	}
}
