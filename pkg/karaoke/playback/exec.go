package playback

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ExecPlayer plays files through an external command-line player.
type ExecPlayer struct {
	PlayerName string
	Bin        string
	Args       func(path string) []string

	// Detachable players are started and reaped in the background. The rest
	// only support blocking playback.
	Detachable bool

	lookPath func(string) (string, error)
}

func (p *ExecPlayer) Name() string { return p.PlayerName }

func (p *ExecPlayer) resolve() (string, error) {
	look := p.lookPath
	if look == nil {
		look = exec.LookPath
	}
	return look(p.Bin)
}

func (p *ExecPlayer) Available() bool {
	_, err := p.resolve()
	return err == nil
}

func (p *ExecPlayer) Play(path string, block bool) error {
	bin, err := p.resolve()
	if err != nil {
		return fmt.Errorf("%s: %w", p.PlayerName, err)
	}

	cmd := exec.Command(bin, p.Args(path)...)

	if block {
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s failed: %v (%s)", p.PlayerName, err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	if !p.Detachable {
		return ErrBlockingOnly
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.PlayerName, err)
	}
	go cmd.Wait()
	return nil
}

// DefaultPlayers lists the players tried on goos, best first.
func DefaultPlayers(goos string) []*ExecPlayer {
	players := []*ExecPlayer{
		{
			PlayerName: "ffplay",
			Bin:        "ffplay",
			Args: func(path string) []string {
				return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
			},
			Detachable: true,
		},
		{
			PlayerName: "mpg123",
			Bin:        "mpg123",
			Args:       func(path string) []string { return []string{"-q", path} },
			Detachable: true,
		},
		{
			PlayerName: "mpv",
			Bin:        "mpv",
			Args: func(path string) []string {
				return []string{"--no-video", "--really-quiet", path}
			},
			Detachable: true,
		},
	}

	switch goos {
	case "darwin":
		players = append(players, &ExecPlayer{
			PlayerName: "afplay",
			Bin:        "afplay",
			Args:       func(path string) []string { return []string{path} },
			Detachable: true,
		})
	case "windows":
		players = append(players, &ExecPlayer{
			PlayerName: "powershell",
			Bin:        "powershell",
			Args:       powershellArgs,
		})
	}

	return players
}

// powershellArgs plays through the WPF MediaPlayer and sleeps until it ends.
func powershellArgs(path string) []string {
	quoted := strings.ReplaceAll(path, "'", "''")
	script := "Add-Type -AssemblyName presentationCore; " +
		"$p = New-Object System.Windows.Media.MediaPlayer; " +
		"$p.Open([uri](Resolve-Path '" + quoted + "').Path); " +
		"$p.Play(); Start-Sleep -Milliseconds 500; " +
		"while ($p.NaturalDuration.HasTimeSpan -eq $false) { Start-Sleep -Milliseconds 100 }; " +
		"Start-Sleep -Seconds $p.NaturalDuration.TimeSpan.TotalSeconds"
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

// FirstAvailablePlayer returns the first candidate whose binary is on PATH,
// or nil when none is.
func FirstAvailablePlayer(candidates ...*ExecPlayer) *ExecPlayer {
	for _, p := range candidates {
		if p != nil && p.Available() {
			return p
		}
	}
	return nil
}

// HostPlayers is DefaultPlayers for the running OS.
func HostPlayers() []*ExecPlayer {
	return DefaultPlayers(runtime.GOOS)
}

var _ SimplePlayer = (*ExecPlayer)(nil)
