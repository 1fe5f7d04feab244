package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/himanishpuri/karaoke/pkg/utils"
)

type ConvertMP3Config struct {
	SampleRate int // output sample rate, e.g. 22050, 24000, 44100
	Bitrate    string
}

// ConvertToMP3 transcodes any audio file ffmpeg understands into an MP3 at
// outputPath. The MP3 is written to a temp file first and renamed into place.
func ConvertToMP3(
	ctx context.Context,
	inputPath string,
	outputPath string,
	cfg ConvertMP3Config,
) error {

	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	if cfg.Bitrate == "" {
		cfg.Bitrate = "64k"
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
	}

	if err := utils.MakeDir(filepath.Dir(outputPath)); err != nil {
		return err
	}

	tmpPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".tmp.mp3"
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-v", "quiet",
		"-i", inputPath,
		"-ac", "1", // mono, speech only
		"-ar", fmt.Sprintf("%d", cfg.SampleRate),
		"-b:a", cfg.Bitrate,
		"-f", "mp3",
		tmpPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %v (%s)", err, out)
	}

	return utils.MoveFile(tmpPath, outputPath)
}

// HaveFFmpeg reports whether the ffmpeg binary is on PATH.
func HaveFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}
