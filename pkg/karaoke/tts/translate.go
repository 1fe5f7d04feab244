package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	translateTTSURL = "https://translate.google.com/translate_tts"

	// MaxChunkChars is the longest text the Translate endpoint speaks per request.
	MaxChunkChars = 100
)

// TranslateProvider speaks through the keyless Google Translate endpoint.
// Long text is sent in chunks and the MP3 frames are concatenated.
type TranslateProvider struct {
	BaseURL string
	Lang    string
	HTTP    *http.Client
}

func NewTranslateProvider(lang string) *TranslateProvider {
	if lang == "" {
		lang = "en"
	}
	return &TranslateProvider{
		BaseURL: translateTTSURL,
		Lang:    lang,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *TranslateProvider) Name() string { return "google-translate" }

func (t *TranslateProvider) Synthesize(ctx context.Context, text string) (*Result, error) {
	chunks := SplitChunks(text, MaxChunkChars)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	var buf bytes.Buffer
	for i, chunk := range chunks {
		if err := t.fetchChunk(ctx, &buf, chunk, i, len(chunks)); err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	return &Result{Audio: buf.Bytes(), Format: FormatMP3, Provider: t.Name()}, nil
}

func (t *TranslateProvider) fetchChunk(ctx context.Context, w io.Writer, chunk string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", t.Lang)
	q.Set("q", chunk)
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://translate.google.com/")

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("reading audio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("empty audio response")
	}
	return nil
}

// SplitChunks breaks text into pieces of at most max runes. Lines are never
// merged, and words are only split when a single word exceeds max.
func SplitChunks(text string, max int) []string {
	var chunks []string

	for _, line := range strings.Split(text, "\n") {
		var cur strings.Builder
		curLen := 0

		flush := func() {
			if curLen > 0 {
				chunks = append(chunks, cur.String())
				cur.Reset()
				curLen = 0
			}
		}

		for _, word := range strings.Fields(line) {
			for utf8.RuneCountInString(word) > max {
				flush()
				runes := []rune(word)
				chunks = append(chunks, string(runes[:max]))
				word = string(runes[max:])
			}

			wl := utf8.RuneCountInString(word)
			if curLen > 0 && curLen+1+wl > max {
				flush()
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(word)
			curLen += wl
		}
		flush()
	}

	return chunks
}

var _ Provider = (*TranslateProvider)(nil)
