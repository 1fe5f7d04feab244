package playback

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/himanishpuri/karaoke/pkg/logger"
)

type fakePlayer struct {
	name      string
	available bool
	nonBlock  error
	block     error

	mu    sync.Mutex
	calls []bool
	done  chan struct{}
}

func (p *fakePlayer) Name() string    { return p.name }
func (p *fakePlayer) Available() bool { return p.available }

func (p *fakePlayer) Play(path string, block bool) error {
	p.mu.Lock()
	p.calls = append(p.calls, block)
	p.mu.Unlock()
	if block {
		if p.done != nil {
			close(p.done)
		}
		return p.block
	}
	return p.nonBlock
}

type fakeBackend struct {
	name      string
	available bool
	handle    Handle
	err       error
	panicMsg  string
	starts    int
}

func (b *fakeBackend) Name() string    { return b.name }
func (b *fakeBackend) Available() bool { return b.available }
func (b *fakeBackend) Start(string) (Handle, error) {
	b.starts++
	if b.panicMsg != "" {
		panic(b.panicMsg)
	}
	return b.handle, b.err
}

type fakeController struct {
	stops int
	err   error
}

func (c *fakeController) Stop() error {
	c.stops++
	return c.err
}

func TestZeroHandleIsNotStarted(t *testing.T) {
	var h Handle
	if h.Started() || h.State() != NotStarted {
		t.Errorf("Zero handle should be NotStarted, got %s", h.State())
	}
	h.Stop()
}

func TestHandleStopOnlyControllable(t *testing.T) {
	ctrl := &fakeController{err: errors.New("already closed")}

	Uncontrollable("x").Stop()
	h := Controllable("speaker", ctrl).withLogger(logger.Discard())
	h.Stop()

	if ctrl.stops != 1 {
		t.Errorf("Expected one stop, got %d", ctrl.stops)
	}
	if !h.Started() || h.State() != StartedControllable {
		t.Errorf("Unexpected state %s", h.State())
	}
}

func TestSelectorBothBackendsFail(t *testing.T) {
	a := &fakeBackend{name: "a", available: true, err: errors.New("boom")}
	b := &fakeBackend{name: "b", available: true, panicMsg: "device exploded"}

	h := NewSelector(logger.Discard(), a, b).Start("song.mp3")

	if h.Started() || h.State() != NotStarted {
		t.Errorf("Expected NotStarted, got %s", h.State())
	}
	if h != (Handle{}) {
		t.Errorf("Expected the zero handle, got %+v", h)
	}
	if a.starts != 1 || b.starts != 1 {
		t.Errorf("Expected both backends attempted, got %d and %d", a.starts, b.starts)
	}
}

func TestSelectorSkipsUnavailable(t *testing.T) {
	a := &fakeBackend{name: "a", available: false}
	ctrl := &fakeController{}
	b := &fakeBackend{name: "b", available: true, handle: Controllable("b", ctrl)}

	h := NewSelector(logger.Discard(), a, b).Start("song.mp3")

	if a.starts != 0 {
		t.Error("Unavailable backend should not be started")
	}
	if h.State() != StartedControllable || h.Backend() != "b" {
		t.Errorf("Expected controllable handle from b, got %s from %s", h.State(), h.Backend())
	}
}

func TestSelectorFirstSuccessWins(t *testing.T) {
	a := &fakeBackend{name: "a", available: true, handle: Uncontrollable("a")}
	b := &fakeBackend{name: "b", available: true, handle: Uncontrollable("b")}

	h := NewSelector(logger.Discard(), a, b).Start("song.mp3")
	if h.Backend() != "a" || b.starts != 0 {
		t.Errorf("Expected a to win without trying b, got %s", h.Backend())
	}
}

func TestSelectorNoBackends(t *testing.T) {
	if h := NewSelector(logger.Discard()).Start("song.mp3"); h.Started() {
		t.Error("Empty selector should not start playback")
	}
}

func TestSimpleBackendNonBlocking(t *testing.T) {
	p := &fakePlayer{name: "p", available: true}
	b := NewSimpleBackend(p, logger.Discard())

	h, err := b.Start("song.mp3")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h.State() != StartedUncontrollable {
		t.Errorf("Expected uncontrollable handle, got %s", h.State())
	}
	if len(p.calls) != 1 || p.calls[0] {
		t.Errorf("Expected a single non-blocking call, got %v", p.calls)
	}
}

func TestSimpleBackendBlockingOnlyRunsInBackground(t *testing.T) {
	p := &fakePlayer{name: "p", available: true, nonBlock: ErrBlockingOnly, block: errors.New("device busy")}
	b := NewSimpleBackend(p, logger.Discard())

	var spawned func()
	b.spawn = func(fn func()) { spawned = fn }

	h, err := b.Start("song.mp3")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h.State() != StartedUncontrollable {
		t.Errorf("Expected uncontrollable handle, got %s", h.State())
	}
	if spawned == nil {
		t.Fatal("Expected a background attempt")
	}

	spawned()
	if len(p.calls) != 2 || p.calls[0] || !p.calls[1] {
		t.Errorf("Expected non-blocking then blocking call, got %v", p.calls)
	}
}

func TestSimpleBackendDetachedGoroutine(t *testing.T) {
	p := &fakePlayer{name: "p", available: true, nonBlock: ErrBlockingOnly, done: make(chan struct{})}
	b := NewSimpleBackend(p, logger.Discard())

	if _, err := b.Start("song.mp3"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-p.done
}

func TestSimpleBackendOtherError(t *testing.T) {
	p := &fakePlayer{name: "p", available: true, nonBlock: errors.New("no such file")}
	b := NewSimpleBackend(p, logger.Discard())

	h, err := b.Start("song.mp3")
	if err == nil || h.Started() {
		t.Errorf("Expected failure, got %s / %v", h.State(), err)
	}
	if len(p.calls) != 1 {
		t.Errorf("No background attempt expected, got %v", p.calls)
	}
}

func TestSimpleBackendWithoutPlayer(t *testing.T) {
	b := NewSimpleBackend(nil, logger.Discard())
	if b.Available() {
		t.Error("Backend without a player should be unavailable")
	}
	if _, err := b.Start("x"); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("Expected ErrNoPlayer, got %v", err)
	}
}

func TestSelectorFallsBackToSecondBackend(t *testing.T) {
	p := &fakePlayer{name: "p", available: true, nonBlock: errors.New("broken")}
	ctrl := &fakeController{}
	second := &fakeBackend{name: "speaker", available: true, handle: Controllable("speaker", ctrl)}

	h := NewSelector(logger.Discard(), NewSimpleBackend(p, logger.Discard()), second).Start("song.mp3")
	if h.State() != StartedControllable {
		t.Fatalf("Expected controllable fallback, got %s", h.State())
	}

	h.Stop()
	if ctrl.stops != 1 {
		t.Errorf("Expected stop to reach the controller, got %d", ctrl.stops)
	}
}

func TestExecPlayerNonDetachable(t *testing.T) {
	p := &ExecPlayer{
		PlayerName: "ps",
		Bin:        "ps",
		Args:       func(path string) []string { return []string{path} },
		lookPath:   func(name string) (string, error) { return "/bin/" + name, nil },
	}

	if err := p.Play("song.mp3", false); !errors.Is(err, ErrBlockingOnly) {
		t.Errorf("Expected ErrBlockingOnly, got %v", err)
	}
}

func TestExecPlayerMissingBinary(t *testing.T) {
	p := &ExecPlayer{
		PlayerName: "ghost",
		Bin:        "ghost",
		Args:       func(path string) []string { return []string{path} },
		Detachable: true,
		lookPath:   func(string) (string, error) { return "", errors.New("not found") },
	}

	if p.Available() {
		t.Error("Player without a binary should be unavailable")
	}
	if err := p.Play("song.mp3", false); err == nil {
		t.Error("Play should fail without a binary")
	}
}

func TestFirstAvailablePlayer(t *testing.T) {
	missing := func(string) (string, error) { return "", errors.New("not found") }
	found := func(name string) (string, error) { return "/usr/bin/" + name, nil }

	a := &ExecPlayer{PlayerName: "a", Bin: "a", lookPath: missing}
	b := &ExecPlayer{PlayerName: "b", Bin: "b", lookPath: found}
	c := &ExecPlayer{PlayerName: "c", Bin: "c", lookPath: found}

	if got := FirstAvailablePlayer(a, nil, b, c); got != b {
		t.Errorf("Expected b, got %v", got)
	}
	if got := FirstAvailablePlayer(a); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}

func TestDefaultPlayers(t *testing.T) {
	names := func(ps []*ExecPlayer) map[string]*ExecPlayer {
		m := map[string]*ExecPlayer{}
		for _, p := range ps {
			m[p.Name()] = p
		}
		return m
	}

	linux := names(DefaultPlayers("linux"))
	if _, ok := linux["ffplay"]; !ok {
		t.Error("Expected ffplay on linux")
	}
	if _, ok := linux["afplay"]; ok {
		t.Error("afplay is macOS only")
	}

	if _, ok := names(DefaultPlayers("darwin"))["afplay"]; !ok {
		t.Error("Expected afplay on darwin")
	}

	ps, ok := names(DefaultPlayers("windows"))["powershell"]
	if !ok {
		t.Fatal("Expected powershell on windows")
	}
	if ps.Detachable {
		t.Error("powershell player should be blocking-only")
	}
	args := ps.Args(`C:\it's.mp3`)
	if script := args[len(args)-1]; !strings.Contains(script, `'C:\it''s.mp3'`) {
		t.Errorf("Path not quoted in script: %s", script)
	}
}
