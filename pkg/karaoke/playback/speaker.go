package playback

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

// SpeakerRate is the rate the audio device is opened at; other rates are resampled.
const SpeakerRate = beep.SampleRate(44100)

// SpeakerBackend decodes the MP3 in-process and plays it on the default
// audio device. Its handles can be stopped.
type SpeakerBackend struct {
	once    sync.Once
	initErr error
}

func NewSpeakerBackend() *SpeakerBackend {
	return &SpeakerBackend{}
}

func (b *SpeakerBackend) Name() string { return "speaker" }

func (b *SpeakerBackend) Available() bool {
	b.init()
	return b.initErr == nil
}

func (b *SpeakerBackend) init() {
	b.once.Do(func() {
		b.initErr = speaker.Init(SpeakerRate, SpeakerRate.N(time.Second/10))
	})
}

func (b *SpeakerBackend) Start(path string) (Handle, error) {
	b.init()
	if b.initErr != nil {
		return Handle{}, fmt.Errorf("opening audio device: %w", b.initErr)
	}

	f, err := os.Open(path)
	if err != nil {
		return Handle{}, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return Handle{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != SpeakerRate {
		s = beep.Resample(4, format.SampleRate, SpeakerRate, streamer)
	}

	ctrl := &beep.Ctrl{Streamer: s}
	speaker.Play(ctrl)

	return Controllable(b.Name(), &speakerController{ctrl: ctrl, src: streamer}), nil
}

type speakerController struct {
	ctrl *beep.Ctrl
	src  beep.StreamSeekCloser
}

func (c *speakerController) Stop() error {
	speaker.Lock()
	c.ctrl.Paused = true
	speaker.Unlock()
	speaker.Clear()
	return c.src.Close()
}

var _ Backend = (*SpeakerBackend)(nil)
