// Package speech captures a short spoken song request and turns it into an
// artist/title guess.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/himanishpuri/karaoke/pkg/utils"
)

const (
	// DefaultSeconds is how long a request clip records for.
	DefaultSeconds = 5

	// SampleRate is the capture rate; speech APIs expect 16 kHz mono.
	SampleRate = 16000
)

var ErrNoRecorder = errors.New("speech: no audio capture tool found (install alsa-utils, sox or ffmpeg)")

// Recorder captures microphone audio into a WAV file and returns its path.
type Recorder interface {
	Record(ctx context.Context, seconds int) (string, error)
}

// recordTool describes one command-line capture program.
type recordTool struct {
	name string
	args func(out string, seconds int) []string
}

func defaultTools() []recordTool {
	rate := strconv.Itoa(SampleRate)
	return []recordTool{
		{
			name: "arecord",
			args: func(out string, seconds int) []string {
				return []string{"-q", "-f", "S16_LE", "-r", rate, "-c", "1", "-d", strconv.Itoa(seconds), out}
			},
		},
		{
			name: "rec",
			args: func(out string, seconds int) []string {
				return []string{"-q", "-r", rate, "-c", "1", "-b", "16", out, "trim", "0", strconv.Itoa(seconds)}
			},
		},
		{
			name: "ffmpeg",
			args: func(out string, seconds int) []string {
				args := []string{"-y", "-v", "quiet"}
				args = append(args, ffmpegInput(runtime.GOOS)...)
				return append(args,
					"-t", strconv.Itoa(seconds),
					"-ac", "1",
					"-ar", rate,
					"-sample_fmt", "s16",
					out,
				)
			},
		},
	}
}

// ffmpegInput picks the default capture device for the platform.
func ffmpegInput(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"-f", "avfoundation", "-i", ":0"}
	case "windows":
		return []string{"-f", "dshow", "-i", "audio=default"}
	default:
		return []string{"-f", "pulse", "-i", "default"}
	}
}

// CommandRecorder records through the first capture tool found on PATH.
type CommandRecorder struct {
	TempDir  string
	tools    []recordTool
	lookPath func(string) (string, error)
}

func NewCommandRecorder(tempDir string) *CommandRecorder {
	return &CommandRecorder{
		TempDir:  tempDir,
		tools:    defaultTools(),
		lookPath: exec.LookPath,
	}
}

// Tool returns the name of the capture program Record would use.
func (r *CommandRecorder) Tool() (string, bool) {
	for _, t := range r.tools {
		if _, err := r.lookPath(t.name); err == nil {
			return t.name, true
		}
	}
	return "", false
}

func (r *CommandRecorder) Record(ctx context.Context, seconds int) (string, error) {
	if seconds <= 0 {
		seconds = DefaultSeconds
	}

	var tool *recordTool
	var bin string
	for i := range r.tools {
		if path, err := r.lookPath(r.tools[i].name); err == nil {
			tool, bin = &r.tools[i], path
			break
		}
	}
	if tool == nil {
		return "", ErrNoRecorder
	}

	if err := utils.MakeDir(r.TempDir); err != nil {
		return "", err
	}
	out := filepath.Join(r.TempDir, "karaoke-request-"+utils.NewSessionID()+".wav")

	ctx, cancel := context.WithTimeout(ctx, time.Duration(seconds+10)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, tool.args(out, seconds)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s timed out: %w", tool.name, ctx.Err())
		}
		return "", fmt.Errorf("%s failed: %v (%s)", tool.name, err, output)
	}

	return out, nil
}

var _ Recorder = (*CommandRecorder)(nil)
