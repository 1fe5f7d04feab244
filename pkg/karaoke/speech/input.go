package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/himanishpuri/karaoke/pkg/console"
	"github.com/himanishpuri/karaoke/pkg/logger"
	"github.com/himanishpuri/karaoke/pkg/models"
)

// SplitGuess reads a transcript as "<artist> <title...>": the first word is
// the artist and the rest is the title. A single word becomes the artist.
func SplitGuess(text string) models.SongRequest {
	parts := strings.Fields(text)
	switch len(parts) {
	case 0:
		return models.SongRequest{}
	case 1:
		return models.SongRequest{Artist: parts[0]}
	default:
		return models.SongRequest{Artist: parts[0], Title: strings.Join(parts[1:], " ")}
	}
}

// Input records a spoken request and recognizes it.
type Input struct {
	recorder   Recorder
	recognizer Recognizer
	out        *console.Printer
	log        *logger.Logger
	seconds    int
}

func NewInput(rec Recorder, recog Recognizer, out *console.Printer, log *logger.Logger, seconds int) *Input {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Input{recorder: rec, recognizer: recog, out: out, log: log, seconds: seconds}
}

// Acquire records, recognizes and splits a request. Any failure is printed
// and reported as ok=false so the caller can fall back to typed entry.
func (in *Input) Acquire(ctx context.Context) (models.SongRequest, bool) {
	text, err := in.listen(ctx)
	if err != nil {
		in.log.Debugf("speech input failed: %v", err)
		in.out.Warn("Speech capture/recognition failed: %v", err)
		in.out.Warn("Falling back to manual typing.")
		return models.SongRequest{}, false
	}

	in.out.Action("You said: '%s'", text)
	return SplitGuess(text), true
}

func (in *Input) listen(ctx context.Context) (string, error) {
	if in.recorder == nil {
		return "", ErrNoRecorder
	}
	if in.recognizer == nil {
		return "", ErrNoRecognizer
	}
	if c, ok := in.recognizer.(interface{ Len() int }); ok && c.Len() == 0 {
		return "", ErrNoRecognizer
	}

	in.out.Blank()
	in.out.Input("Recording %ds from the default microphone...", in.seconds)

	path, err := in.recorder.Record(ctx, in.seconds)
	if err != nil {
		return "", err
	}
	in.log.Debugf("recorded request to %s", path)

	clip, err := LoadClip(path)
	if err != nil {
		return "", fmt.Errorf("reading recording: %w", err)
	}

	text, err := in.recognizer.Recognize(ctx, clip)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyTranscript
	}
	return strings.TrimSpace(text), nil
}
