package speech

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	ErrNotWAV    = errors.New("speech: not a WAV file")
	ErrEmptyClip = errors.New("speech: recording is empty")
	ErrBitDepth  = errors.New("speech: only 16-bit PCM recordings are supported")
)

// Clip is a decoded recording: little-endian 16-bit PCM plus its format.
type Clip struct {
	Path       string
	PCM        []byte
	SampleRate int
	Channels   int
}

// Duration is the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	frames := len(c.PCM) / 2 / c.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// LoadClip decodes a 16-bit PCM WAV file.
func LoadClip(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w (got %d-bit)", ErrBitDepth, dec.BitDepth)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrEmptyClip
	}

	return &Clip{
		Path:       path,
		PCM:        pcm16(buf),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}

func pcm16(buf *audio.IntBuffer) []byte {
	out := make([]byte, 2*len(buf.Data))
	for i, s := range buf.Data {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(s)))
	}
	return out
}
