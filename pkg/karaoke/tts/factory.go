package tts

import (
	"context"

	"github.com/himanishpuri/karaoke/pkg/karaoke/audio"
	"github.com/himanishpuri/karaoke/pkg/logger"
)

// espeak writes WAV, which only becomes an MP3 through ffmpeg.
var haveFFmpeg = audio.HaveFFmpeg

// ProviderConfig selects which providers BuildProviders enables.
type ProviderConfig struct {
	Lang         string
	GoogleAPIKey string
	OpenAIAPIKey string
	OpenAIURL    string
}

// BuildProviders returns every provider that can be constructed from cfg:
// keyed cloud voices first, then the keyless Translate voice, then a local
// espeak if one is installed along with ffmpeg.
func BuildProviders(ctx context.Context, cfg ProviderConfig, log *logger.Logger) []Provider {
	var providers []Provider

	if cfg.GoogleAPIKey != "" {
		if p, err := NewCloudProvider(ctx, cfg.GoogleAPIKey, cfg.Lang); err == nil {
			providers = append(providers, p)
		} else {
			log.Warnf("google cloud tts disabled: %v", err)
		}
	}

	if cfg.OpenAIAPIKey != "" {
		if p, err := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIURL); err == nil {
			providers = append(providers, p)
		} else {
			log.Warnf("openai tts disabled: %v", err)
		}
	}

	providers = append(providers, NewTranslateProvider(cfg.Lang))

	if !haveFFmpeg() {
		log.Debugf("local tts disabled: ffmpeg not found")
	} else if p, err := NewEspeakProvider(cfg.Lang); err == nil {
		providers = append(providers, p)
	} else {
		log.Debugf("local tts disabled: %v", err)
	}

	return providers
}
