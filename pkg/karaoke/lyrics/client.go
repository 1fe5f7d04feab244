// Package lyrics looks up song lyrics on the lyrics.ovh API.
//
// Failures are reported in-band: Fetch always returns a string, and a string
// that starts with "Error" describes what went wrong instead of holding lyrics.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/himanishpuri/karaoke/pkg/logger"
	"github.com/himanishpuri/karaoke/pkg/models"
)

const (
	DefaultBaseURL = "https://api.lyrics.ovh/v1"
	DefaultTimeout = 10 * time.Second

	// ErrorMarker prefixes every failure string returned by Fetch.
	ErrorMarker = "Error"

	unexpectedFormat = "Error: Lyrics not found or unexpected API response format."
	maxBodyBytes     = 4 << 20
)

// IsError reports whether a Fetch result describes a failure.
func IsError(text string) bool {
	return strings.HasPrefix(text, ErrorMarker)
}

// errUnexpectedFormat marks a well-delivered response that is not a lyrics object.
var errUnexpectedFormat = errors.New("unexpected response format")

// apiError is the API's own explanation, taken from the "error" field.
type apiError struct{ msg string }

func (e *apiError) Error() string { return e.msg }

type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     *logger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.BaseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTP = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.HTTP.Timeout = d
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		log:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL builds <base>/<artist>/<title> with each segment percent-encoded.
func (c *Client) URL(req models.SongRequest) string {
	return c.BaseURL + "/" + url.PathEscape(req.Artist) + "/" + url.PathEscape(req.Title)
}

// Fetch returns trimmed lyrics, or a string beginning with "Error" when the
// lookup fails for any reason.
func (c *Client) Fetch(ctx context.Context, req models.SongRequest) string {
	text, err := c.lookup(ctx, req)
	if err == nil {
		return text
	}

	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Error: API reported: %s", apiErr.msg)
	case errors.Is(err, errUnexpectedFormat):
		c.log.Debugf("lyrics response rejected: %v", err)
		return unexpectedFormat
	default:
		c.log.Warnf("lyrics request failed: %v", err)
		return fmt.Sprintf("Error connecting to lyrics API: %v", err)
	}
}

func (c *Client) lookup(ctx context.Context, req models.SongRequest) (string, error) {
	endpoint := c.URL(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.log.Debugf("GET %s", endpoint)
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s for url: %s", resp.Status, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	return decode(body)
}

// decode applies the response rules: a "lyrics" string wins, then an
// "error" string; anything else is an unexpected format.
func decode(body []byte) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", errUnexpectedFormat, err)
	}

	// null decodes into a nil pointer, so it falls through like any other
	// non-string value.
	if raw, ok := payload["lyrics"]; ok {
		var lyrics *string
		if err := json.Unmarshal(raw, &lyrics); err == nil && lyrics != nil {
			return strings.TrimSpace(*lyrics), nil
		}
	}
	if raw, ok := payload["error"]; ok {
		var msg *string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != nil {
			return "", &apiError{msg: *msg}
		}
	}

	return "", errUnexpectedFormat
}
