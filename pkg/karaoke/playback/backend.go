package playback

import (
	"errors"

	"github.com/himanishpuri/karaoke/pkg/logger"
)

// ErrBlockingOnly is returned by a SimplePlayer that cannot play without
// blocking the caller.
var ErrBlockingOnly = errors.New("playback: player has no non-blocking mode")

// ErrNoPlayer is returned when a backend has nothing to play with.
var ErrNoPlayer = errors.New("playback: no player available")

// Backend is one way of starting audio.
type Backend interface {
	Name() string
	Available() bool
	Start(path string) (Handle, error)
}

// SimplePlayer plays a file, optionally waiting until it finishes.
type SimplePlayer interface {
	Name() string
	Available() bool
	Play(path string, block bool) error
}

// SimpleBackend starts a SimplePlayer without blocking. Players that only
// play blocking run on a detached goroutine that is never joined or
// cancelled; its error is only logged.
type SimpleBackend struct {
	player SimplePlayer
	log    *logger.Logger
	spawn  func(func())
}

func NewSimpleBackend(p SimplePlayer, log *logger.Logger) *SimpleBackend {
	if log == nil {
		log = logger.GetLogger()
	}
	return &SimpleBackend{
		player: p,
		log:    log,
		spawn:  func(fn func()) { go fn() },
	}
}

func (b *SimpleBackend) Name() string {
	if b.player == nil {
		return "simple"
	}
	return "simple/" + b.player.Name()
}

func (b *SimpleBackend) Available() bool {
	return b.player != nil && b.player.Available()
}

func (b *SimpleBackend) Start(path string) (Handle, error) {
	if b.player == nil {
		return Handle{}, ErrNoPlayer
	}

	err := b.player.Play(path, false)
	switch {
	case err == nil:
		return Uncontrollable(b.Name()), nil
	case errors.Is(err, ErrBlockingOnly):
		b.log.Debugf("%s is blocking-only, playing in background", b.player.Name())
		b.spawn(func() {
			if err := b.player.Play(path, true); err != nil {
				b.log.Debugf("background %s playback: %v", b.player.Name(), err)
			}
		})
		return Uncontrollable(b.Name()), nil
	default:
		return Handle{}, err
	}
}

var _ Backend = (*SimpleBackend)(nil)
