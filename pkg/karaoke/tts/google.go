package tts

import (
	"context"
	"encoding/base64"
	"fmt"

	texttospeech "google.golang.org/api/texttospeech/v1"
	"google.golang.org/api/option"
)

// CloudProvider uses the Google Cloud Text-to-Speech REST API.
type CloudProvider struct {
	svc  *texttospeech.Service
	lang string
}

// NewCloudProvider authenticates with an API key. Extra client options (an
// endpoint override, an HTTP client) are passed through to the service.
func NewCloudProvider(ctx context.Context, apiKey, lang string, opts ...option.ClientOption) (*CloudProvider, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if lang == "" {
		lang = "en"
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating texttospeech service: %w", err)
	}

	return &CloudProvider{svc: svc, lang: lang}, nil
}

func (c *CloudProvider) Name() string { return "google-cloud" }

func (c *CloudProvider) Synthesize(ctx context.Context, text string) (*Result, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: c.lang,
			SsmlGender:   "NEUTRAL",
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
		},
	}

	resp, err := c.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decoding audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio content")
	}

	return &Result{Audio: audio, Format: FormatMP3, Provider: c.Name()}, nil
}

var _ Provider = (*CloudProvider)(nil)
