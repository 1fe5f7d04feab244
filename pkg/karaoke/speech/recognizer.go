package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
	speechapi "google.golang.org/api/speech/v1"

	"github.com/himanishpuri/karaoke/pkg/logger"
)

var (
	ErrEmptyTranscript = errors.New("speech: could not understand audio")
	ErrNoRecognizer    = errors.New("speech: no recognizer configured (set GOOGLE_API_KEY or OPENAI_API_KEY)")
	ErrNoAPIKey        = errors.New("speech: API key required")
)

// Recognizer turns a recorded clip into text.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, clip *Clip) (string, error)
}

// GoogleRecognizer uses the Cloud Speech-to-Text v1 REST API.
type GoogleRecognizer struct {
	svc  *speechapi.Service
	lang string
}

func NewGoogleRecognizer(ctx context.Context, apiKey, lang string, opts ...option.ClientOption) (*GoogleRecognizer, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if lang == "" {
		lang = "en-US"
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := speechapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating speech service: %w", err)
	}
	return &GoogleRecognizer{svc: svc, lang: lang}, nil
}

func (g *GoogleRecognizer) Name() string { return "google-speech" }

func (g *GoogleRecognizer) Recognize(ctx context.Context, clip *Clip) (string, error) {
	req := &speechapi.RecognizeRequest{
		Config: &speechapi.RecognitionConfig{
			Encoding:          "LINEAR16",
			SampleRateHertz:   int64(clip.SampleRate),
			AudioChannelCount: int64(clip.Channels),
			LanguageCode:      g.lang,
		},
		Audio: &speechapi.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(clip.PCM),
		},
	}

	resp, err := g.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			if t := strings.TrimSpace(alt.Transcript); t != "" {
				return t, nil
			}
		}
	}
	return "", ErrEmptyTranscript
}

// WhisperRecognizer uploads the clip to the OpenAI transcription endpoint.
type WhisperRecognizer struct {
	client *openai.Client
	lang   string
}

func NewWhisperRecognizer(apiKey, baseURL, lang string) (*WhisperRecognizer, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	// Whisper takes ISO-639-1 codes, so "en-US" becomes "en".
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}

	return &WhisperRecognizer{client: openai.NewClientWithConfig(cfg), lang: lang}, nil
}

func (w *WhisperRecognizer) Name() string { return "whisper" }

func (w *WhisperRecognizer) Recognize(ctx context.Context, clip *Clip) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: clip.Path,
		Language: w.lang,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

// RecognizerChain tries recognizers in order; the first transcript wins.
type RecognizerChain struct {
	recognizers []Recognizer
	log         *logger.Logger
}

func NewRecognizerChain(log *logger.Logger, recognizers ...Recognizer) *RecognizerChain {
	if log == nil {
		log = logger.GetLogger()
	}
	return &RecognizerChain{recognizers: recognizers, log: log}
}

func (c *RecognizerChain) Name() string { return "chain" }

// Len reports how many recognizers the chain holds.
func (c *RecognizerChain) Len() int { return len(c.recognizers) }

func (c *RecognizerChain) Recognize(ctx context.Context, clip *Clip) (string, error) {
	if len(c.recognizers) == 0 {
		return "", ErrNoRecognizer
	}

	var errs []error
	for _, r := range c.recognizers {
		text, err := r.Recognize(ctx, clip)
		if err == nil {
			return text, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		c.log.Warnf("recognizer %s failed, trying next: %v", r.Name(), err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", &ChainError{Errors: errs}
}

// ChainError aggregates the failures of every recognizer in a chain.
type ChainError struct {
	Errors []error
}

func (e *ChainError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("all %d recognizers failed, last error: %v", len(e.Errors), e.Errors[len(e.Errors)-1])
}

func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// RecognizerConfig selects which recognizers BuildRecognizers enables.
type RecognizerConfig struct {
	Lang         string
	GoogleAPIKey string
	OpenAIAPIKey string
	OpenAIURL    string
}

// BuildRecognizers returns a chain of every recognizer the keys allow.
func BuildRecognizers(ctx context.Context, cfg RecognizerConfig, log *logger.Logger) *RecognizerChain {
	var recognizers []Recognizer

	if cfg.GoogleAPIKey != "" {
		if r, err := NewGoogleRecognizer(ctx, cfg.GoogleAPIKey, cfg.Lang); err == nil {
			recognizers = append(recognizers, r)
		} else {
			log.Warnf("google speech disabled: %v", err)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		if r, err := NewWhisperRecognizer(cfg.OpenAIAPIKey, cfg.OpenAIURL, cfg.Lang); err == nil {
			recognizers = append(recognizers, r)
		} else {
			log.Warnf("whisper disabled: %v", err)
		}
	}

	return NewRecognizerChain(log, recognizers...)
}

var (
	_ Recognizer = (*GoogleRecognizer)(nil)
	_ Recognizer = (*WhisperRecognizer)(nil)
	_ Recognizer = (*RecognizerChain)(nil)
)
