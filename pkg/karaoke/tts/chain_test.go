package tts

import (
	"context"
	"errors"
	"testing"

	"github.com/himanishpuri/karaoke/pkg/logger"
)

type stubProvider struct {
	name  string
	res   *Result
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Synthesize(context.Context, string) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

func TestNewChainRequiresProviders(t *testing.T) {
	if _, err := NewChain(logger.Discard()); !errors.Is(err, ErrNoProviders) {
		t.Errorf("Expected ErrNoProviders, got %v", err)
	}
}

func TestChainFallsBack(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("quota")}
	second := &stubProvider{name: "second", res: &Result{Audio: []byte("ID3"), Format: FormatMP3}}
	third := &stubProvider{name: "third", res: &Result{Audio: []byte("nope")}}

	chain, err := NewChain(logger.Discard(), first, second, third)
	if err != nil {
		t.Fatalf("NewChain failed: %v", err)
	}

	res, err := chain.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(res.Audio) != "ID3" {
		t.Errorf("Expected audio from second provider, got %q", res.Audio)
	}
	if res.Provider != "second" {
		t.Errorf("Expected provider name to be filled in, got %q", res.Provider)
	}
	if third.calls != 0 {
		t.Errorf("Third provider should not be called, got %d calls", third.calls)
	}
}

func TestChainSkipsNilResult(t *testing.T) {
	empty := &stubProvider{name: "empty"}
	next := &stubProvider{name: "next", res: &Result{Audio: []byte("ID3"), Format: FormatMP3}}

	chain, err := NewChain(logger.Discard(), empty, next)
	if err != nil {
		t.Fatalf("NewChain failed: %v", err)
	}

	res, err := chain.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if res.Provider != "next" {
		t.Errorf("Expected result from next provider, got %q", res.Provider)
	}
	if empty.calls != 1 {
		t.Errorf("Expected empty provider to be tried once, got %d", empty.calls)
	}
}

func TestChainAllFail(t *testing.T) {
	sentinel := errors.New("last failure")
	chain, _ := NewChain(logger.Discard(),
		&stubProvider{name: "a", err: errors.New("first failure")},
		&stubProvider{name: "b", err: sentinel},
	)

	_, err := chain.Synthesize(context.Background(), "hello")

	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("Expected *ChainError, got %T: %v", err, err)
	}
	if len(chainErr.Errors) != 2 {
		t.Errorf("Expected 2 recorded errors, got %d", len(chainErr.Errors))
	}
	if !errors.Is(err, sentinel) {
		t.Error("ChainError should unwrap to the last provider error")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) || provErr.Provider != "b" {
		t.Errorf("Expected last error to name provider b, got %v", provErr)
	}
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	second := &stubProvider{name: "b", res: &Result{Audio: []byte("x")}}
	chain, _ := NewChain(logger.Discard(), &stubProvider{name: "a", err: errors.New("boom")}, second)

	if _, err := chain.Synthesize(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if second.calls != 0 {
		t.Error("Chain should stop once the context is cancelled")
	}
}
