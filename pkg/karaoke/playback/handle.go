// Package playback starts audio through the first working backend in an
// ordered list and hands back a handle describing what, if anything, can be
// stopped later.
package playback

import "github.com/himanishpuri/karaoke/pkg/logger"

// State says whether playback started and whether it can be stopped.
type State int

const (
	NotStarted State = iota
	StartedUncontrollable
	StartedControllable
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case StartedUncontrollable:
		return "started"
	case StartedControllable:
		return "started-controllable"
	default:
		return "unknown"
	}
}

// Controller stops a playback stream.
type Controller interface {
	Stop() error
}

// Handle is the result of starting playback. The zero value is NotStarted.
type Handle struct {
	state   State
	ctrl    Controller
	backend string
	log     *logger.Logger
}

// Uncontrollable is a handle for fire-and-forget playback.
func Uncontrollable(backend string) Handle {
	return Handle{state: StartedUncontrollable, backend: backend}
}

// Controllable is a handle whose playback can be stopped through ctrl.
func Controllable(backend string, ctrl Controller) Handle {
	return Handle{state: StartedControllable, ctrl: ctrl, backend: backend}
}

func (h Handle) State() State    { return h.state }
func (h Handle) Started() bool   { return h.state != NotStarted }
func (h Handle) Backend() string { return h.backend }

// Stop releases controllable playback. Stop errors are only logged.
func (h Handle) Stop() {
	switch h.state {
	case NotStarted, StartedUncontrollable:
		return
	case StartedControllable:
		if h.ctrl == nil {
			return
		}
		if err := h.ctrl.Stop(); err != nil && h.log != nil {
			h.log.Debugf("stopping %s playback: %v", h.backend, err)
		}
	}
}

func (h Handle) withLogger(l *logger.Logger) Handle {
	h.log = l
	return h
}
