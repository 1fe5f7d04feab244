package karaoke

import (
	"context"

	"github.com/himanishpuri/karaoke/pkg/karaoke/lyricsync"
	"github.com/himanishpuri/karaoke/pkg/karaoke/playback"
	"github.com/himanishpuri/karaoke/pkg/models"
)

type Service interface {
	// Run performs one interactive session. It reports how the session
	// ended but never fails.
	Run(ctx context.Context) Outcome
}

type LyricsFetcher interface {
	URL(req models.SongRequest) string
	Fetch(ctx context.Context, req models.SongRequest) string
}

type Synthesizer interface {
	Generate(ctx context.Context, lyrics, filename string) models.AudioArtifact
}

type SpeechInput interface {
	Acquire(ctx context.Context) (models.SongRequest, bool)
}

type Starter interface {
	Start(path string) playback.Handle
}

type Synchronizer interface {
	Run(lyrics, audioPath string, duration float64) lyricsync.Report
}

// Outcome is how a session ended.
type Outcome int

const (
	Completed Outcome = iota
	EmptyRequest
	LyricsFailed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case EmptyRequest:
		return "empty-request"
	case LyricsFailed:
		return "lyrics-failed"
	default:
		return "unknown"
	}
}
