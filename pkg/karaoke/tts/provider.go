// Package tts turns lyrics into speech audio through an ordered list of
// text-to-speech providers.
package tts

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoProviders is returned when a chain is built with nothing in it.
	ErrNoProviders = errors.New("tts: no providers available")

	// ErrNoAPIKey is returned by keyed providers constructed without a key.
	ErrNoAPIKey = errors.New("tts: API key required")

	// ErrEmptyText is returned when there is nothing to speak.
	ErrEmptyText = errors.New("tts: empty text")
)

// Format is the container of synthesized audio.
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatWAV Format = "wav"
)

// Result is the complete audio for one synthesis call.
type Result struct {
	Audio    []byte
	Format   Format
	Provider string
}

// Provider converts text to speech.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) (*Result, error)
}

// ProviderError wraps an error with the name of the provider that raised it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("tts [%s]: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
