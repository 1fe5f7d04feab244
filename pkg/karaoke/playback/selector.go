package playback

import (
	"fmt"

	"github.com/himanishpuri/karaoke/pkg/logger"
)

// Selector starts playback on the first backend that works.
type Selector struct {
	backends []Backend
	log      *logger.Logger
}

func NewSelector(log *logger.Logger, backends ...Backend) *Selector {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Selector{backends: backends, log: log}
}

// DefaultSelector tries the first installed command-line player, then the
// in-process speaker.
func DefaultSelector(log *logger.Logger) *Selector {
	var simple Backend = NewSimpleBackend(nil, log)
	if p := FirstAvailablePlayer(HostPlayers()...); p != nil {
		simple = NewSimpleBackend(p, log)
	}
	return NewSelector(log, simple, NewSpeakerBackend())
}

// Start never fails: backend errors and panics are logged and the next
// backend is tried. If nothing starts, the zero Handle is returned.
func (s *Selector) Start(path string) Handle {
	for _, b := range s.backends {
		h, err := s.try(b, path)
		if err != nil {
			s.log.Warnf("playback backend %s unavailable: %v", b.Name(), err)
			continue
		}
		if !h.Started() {
			continue
		}
		s.log.Infof("playback started with %s (%s)", b.Name(), h.State())
		return h.withLogger(s.log)
	}
	return Handle{}
}

func (s *Selector) try(b Backend, path string) (h Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = Handle{}, fmt.Errorf("panic: %v", r)
		}
	}()

	if !b.Available() {
		return Handle{}, ErrNoPlayer
	}
	return b.Start(path)
}
