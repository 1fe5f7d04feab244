package models

import (
	"strings"
	"unicode/utf8"
)

// SongRequest is the artist/title pair the user asked for.
type SongRequest struct {
	Artist string // Artist name as typed or recognized
	Title  string // Song title as typed or recognized
}

// Empty reports whether either half of the request is missing.
func (r SongRequest) Empty() bool {
	return strings.TrimSpace(r.Artist) == "" || strings.TrimSpace(r.Title) == ""
}

// AudioArtifact is the synthesized lyrics audio and how long it plays.
// DurationSeconds is 0 when synthesis failed.
type AudioArtifact struct {
	FilePath        string  // Path of the MP3 on disk (left in place after the run)
	DurationSeconds float64 // Measured or estimated playback length
	Estimated       bool    // True when no probe could measure the file
}

// Playable reports whether the artifact has a positive duration.
func (a AudioArtifact) Playable() bool {
	return a.DurationSeconds > 0
}

// CleanLines splits text on newlines, trims each line and drops blank ones.
func CleanLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// CleanText joins CleanLines back together with newlines.
func CleanText(text string) string {
	return strings.Join(CleanLines(text), "\n")
}

// CharCount counts characters (runes), not bytes.
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}
