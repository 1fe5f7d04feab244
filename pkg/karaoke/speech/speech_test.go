package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"google.golang.org/api/option"

	"github.com/himanishpuri/karaoke/pkg/console"
	"github.com/himanishpuri/karaoke/pkg/logger"
	"github.com/himanishpuri/karaoke/pkg/models"
)

func writeWAV(t *testing.T, path string, samples []int, rate int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Failed to write samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Failed to finish wav: %v", err)
	}
}

func TestSplitGuess(t *testing.T) {
	tests := []struct {
		text string
		want models.SongRequest
	}{
		{"", models.SongRequest{}},
		{"Adele", models.SongRequest{Artist: "Adele"}},
		{"Queen Bohemian Rhapsody", models.SongRequest{Artist: "Queen", Title: "Bohemian Rhapsody"}},
		{"  Lennon   Imagine  ", models.SongRequest{Artist: "Lennon", Title: "Imagine"}},
	}

	for _, tt := range tests {
		if got := SplitGuess(tt.text); got != tt.want {
			t.Errorf("SplitGuess(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func TestLoadClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeWAV(t, path, []int{0, 1000, -1000, 32767}, SampleRate)

	clip, err := LoadClip(path)
	if err != nil {
		t.Fatalf("LoadClip failed: %v", err)
	}

	if clip.SampleRate != SampleRate || clip.Channels != 1 {
		t.Errorf("Unexpected format: %d Hz, %d ch", clip.SampleRate, clip.Channels)
	}
	if len(clip.PCM) != 8 {
		t.Fatalf("Expected 8 PCM bytes, got %d", len(clip.PCM))
	}
	if got := int16(binary.LittleEndian.Uint16(clip.PCM[2:])); got != 1000 {
		t.Errorf("Expected sample 1000, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(clip.PCM[4:])); got != -1000 {
		t.Errorf("Expected sample -1000, got %d", got)
	}
	if clip.Path != path {
		t.Errorf("Expected clip path %s, got %s", path, clip.Path)
	}
}

func TestClipDuration(t *testing.T) {
	clip := &Clip{PCM: make([]byte, 2*SampleRate), SampleRate: SampleRate, Channels: 1}
	if clip.Duration() != time.Second {
		t.Errorf("Expected 1s, got %v", clip.Duration())
	}
	if (&Clip{}).Duration() != 0 {
		t.Error("Zero clip should have zero duration")
	}
}

func TestLoadClipRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	os.WriteFile(path, []byte("INVALID HEADER DATA"), 0o644)

	if _, err := LoadClip(path); err == nil {
		t.Error("LoadClip should fail on a non-WAV file")
	}
}

func TestCommandRecorderNoTools(t *testing.T) {
	r := NewCommandRecorder(t.TempDir())
	r.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if _, ok := r.Tool(); ok {
		t.Error("Tool should report nothing available")
	}
	if _, err := r.Record(context.Background(), 1); !errors.Is(err, ErrNoRecorder) {
		t.Errorf("Expected ErrNoRecorder, got %v", err)
	}
}

func TestCommandRecorderPrefersFirstTool(t *testing.T) {
	r := NewCommandRecorder(t.TempDir())
	r.lookPath = func(name string) (string, error) {
		if name == "rec" || name == "ffmpeg" {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	if tool, ok := r.Tool(); !ok || tool != "rec" {
		t.Errorf("Expected rec, got %q", tool)
	}
}

func TestFFmpegInput(t *testing.T) {
	if got := ffmpegInput("darwin"); got[1] != "avfoundation" {
		t.Errorf("Unexpected darwin input %v", got)
	}
	if got := ffmpegInput("windows"); got[1] != "dshow" {
		t.Errorf("Unexpected windows input %v", got)
	}
	if got := ffmpegInput("linux"); got[1] != "pulse" {
		t.Errorf("Unexpected linux input %v", got)
	}
}

type fakeRecorder struct {
	path string
	err  error
}

func (f fakeRecorder) Record(context.Context, int) (string, error) { return f.path, f.err }

type fakeRecognizer struct {
	name string
	text string
	err  error
}

func (f fakeRecognizer) Name() string { return f.name }
func (f fakeRecognizer) Recognize(context.Context, *Clip) (string, error) {
	return f.text, f.err
}

func TestRecognizerChain(t *testing.T) {
	chain := NewRecognizerChain(logger.Discard(),
		fakeRecognizer{name: "a", err: errors.New("quota")},
		fakeRecognizer{name: "b", text: "Queen Bohemian Rhapsody"},
	)

	text, err := chain.Recognize(context.Background(), &Clip{})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "Queen Bohemian Rhapsody" {
		t.Errorf("Unexpected transcript %q", text)
	}
}

func TestRecognizerChainEmpty(t *testing.T) {
	chain := NewRecognizerChain(logger.Discard())
	if _, err := chain.Recognize(context.Background(), &Clip{}); !errors.Is(err, ErrNoRecognizer) {
		t.Errorf("Expected ErrNoRecognizer, got %v", err)
	}
}

func TestRecognizerChainAllFail(t *testing.T) {
	chain := NewRecognizerChain(logger.Discard(),
		fakeRecognizer{name: "a", err: errors.New("quota")},
		fakeRecognizer{name: "b", err: ErrEmptyTranscript},
	)

	_, err := chain.Recognize(context.Background(), &Clip{})
	var chainErr *ChainError
	if !errors.As(err, &chainErr) || len(chainErr.Errors) != 2 {
		t.Fatalf("Expected ChainError with 2 errors, got %v", err)
	}
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Error("ChainError should unwrap to the last error")
	}
}

func newTestInput(t *testing.T, rec Recorder, recog Recognizer) (*Input, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewInput(rec, recog, console.New(&buf, console.NoColor), logger.Discard(), 0), &buf
}

func TestAcquireSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.wav")
	writeWAV(t, path, []int{1, 2, 3, 4}, SampleRate)

	in, out := newTestInput(t, fakeRecorder{path: path}, fakeRecognizer{name: "x", text: "Lennon Imagine"})

	req, ok := in.Acquire(context.Background())
	if !ok {
		t.Fatalf("Acquire failed: %s", out.String())
	}
	if req != (models.SongRequest{Artist: "Lennon", Title: "Imagine"}) {
		t.Errorf("Unexpected request %+v", req)
	}
	if !strings.Contains(out.String(), "Recording 5s from the default microphone...") {
		t.Errorf("Missing recording prompt in %q", out.String())
	}
	if !strings.Contains(out.String(), "You said: 'Lennon Imagine'") {
		t.Errorf("Missing echo in %q", out.String())
	}
}

func TestAcquireFailures(t *testing.T) {
	wavPath := filepath.Join(t.TempDir(), "req.wav")
	writeWAV(t, wavPath, []int{1, 2}, SampleRate)

	tests := []struct {
		name  string
		rec   Recorder
		recog Recognizer
	}{
		{"no recorder", nil, fakeRecognizer{text: "x"}},
		{"no recognizers", fakeRecorder{path: wavPath}, NewRecognizerChain(logger.Discard())},
		{"recording fails", fakeRecorder{err: ErrNoRecorder}, fakeRecognizer{text: "x"}},
		{"bad recording", fakeRecorder{path: filepath.Join(t.TempDir(), "missing.wav")}, fakeRecognizer{text: "x"}},
		{"recognition fails", fakeRecorder{path: wavPath}, fakeRecognizer{err: errors.New("offline")}},
		{"blank transcript", fakeRecorder{path: wavPath}, fakeRecognizer{text: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := newTestInput(t, tt.rec, tt.recog)

			req, ok := in.Acquire(context.Background())
			if ok {
				t.Fatalf("Expected failure, got %+v", req)
			}
			if !strings.Contains(out.String(), "Speech capture/recognition failed:") ||
				!strings.Contains(out.String(), "Falling back to manual typing.") {
				t.Errorf("Missing fallback messages in %q", out.String())
			}
		})
	}
}

func TestWhisperRecognizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("model") != "whisper-1" || r.FormValue("language") != "en" {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": " Adele Hello "})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "req.wav")
	writeWAV(t, path, []int{1, 2, 3}, SampleRate)

	r, err := NewWhisperRecognizer("test-key", srv.URL+"/v1", "en-US")
	if err != nil {
		t.Fatalf("NewWhisperRecognizer failed: %v", err)
	}

	text, err := r.Recognize(context.Background(), &Clip{Path: path})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "Adele Hello" {
		t.Errorf("Unexpected transcript %q", text)
	}
}

func TestGoogleRecognizer(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "speech:recognize") {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"alternatives":[{"transcript":"Queen Bohemian Rhapsody","confidence":0.9}]}]}`))
	}))
	defer srv.Close()

	g, err := NewGoogleRecognizer(context.Background(), "test-key", "en-US", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewGoogleRecognizer failed: %v", err)
	}

	clip := &Clip{PCM: []byte{1, 0, 2, 0}, SampleRate: SampleRate, Channels: 1}
	text, err := g.Recognize(context.Background(), clip)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "Queen Bohemian Rhapsody" {
		t.Errorf("Unexpected transcript %q", text)
	}

	cfg, _ := got["config"].(map[string]any)
	if cfg["encoding"] != "LINEAR16" {
		t.Errorf("Expected LINEAR16 encoding, got %v", cfg["encoding"])
	}
}

func TestGoogleRecognizerNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g, err := NewGoogleRecognizer(context.Background(), "test-key", "", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewGoogleRecognizer failed: %v", err)
	}

	if _, err := g.Recognize(context.Background(), &Clip{SampleRate: SampleRate, Channels: 1}); !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("Expected ErrEmptyTranscript, got %v", err)
	}
}
