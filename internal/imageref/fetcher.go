// Package imageref downloads reference images (anchors and logos) that are
// attached to provider requests.
package imageref

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// DefaultMaxBytes bounds a single reference download.
const DefaultMaxBytes int64 = 20 << 20

var (
	ErrUnsupportedScheme = errors.New("imageref: unsupported url scheme")
	ErrTooLarge          = errors.New("imageref: reference exceeds size limit")
	ErrNotImage          = errors.New("imageref: content is not an image")
)

// Reference is a downloaded image ready to be inlined.
type Reference struct {
	URL      string
	Data     []byte
	MIMEType string
}

// Fetcher retrieves http(s) and data: references.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   zerolog.Logger
}

// NewFetcher builds a Fetcher. A nil client gets a 30 second timeout.
func NewFetcher(client *http.Client, maxBytes int64, logger zerolog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{client: client, maxBytes: maxBytes, logger: logger}
}

// Fetch returns the reference or nil when it cannot be retrieved. Missing
// references degrade generation quality but never fail it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *Reference {
	if strings.TrimSpace(rawURL) == "" {
		return nil
	}
	ref, err := f.Get(ctx, rawURL)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", redact(rawURL)).Msg("reference image unavailable")
		return nil
	}
	return ref
}

// Get downloads rawURL and reports why it failed.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Reference, error) {
	rawURL = strings.TrimSpace(rawURL)
	if strings.HasPrefix(rawURL, "data:") {
		return f.decodeDataURI(rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("imageref: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("imageref: create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imageref: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("imageref: download status %d", resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imageref: read body: %w", err)
	}
	return f.build(rawURL, data, resp.Header.Get("Content-Type"))
}

func (f *Fetcher) decodeDataURI(raw string) (*Reference, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, errors.New("imageref: malformed data uri")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("imageref: data uri must be base64 encoded")
	}
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > f.maxBytes+3 {
		return nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("imageref: decode data uri: %w", err)
	}
	return f.build("", data, strings.TrimSuffix(meta, ";base64"))
}

func (f *Fetcher) build(source string, data []byte, declared string) (*Reference, error) {
	if len(data) == 0 {
		return nil, errors.New("imageref: empty body")
	}
	if int64(len(data)) > f.maxBytes {
		return nil, ErrTooLarge
	}
	// sniffed type wins; servers and clients routinely mislabel images
	detected := mimetype.Detect(data)
	mime := detected.String()
	if !strings.HasPrefix(mime, "image/") {
		declared = strings.TrimSpace(strings.Split(declared, ";")[0])
		if !strings.HasPrefix(declared, "image/") {
			return nil, ErrNotImage
		}
		mime = declared
	}
	return &Reference{URL: source, Data: data, MIMEType: mime}, nil
}

func redact(raw string) string {
	if strings.HasPrefix(raw, "data:") {
		return "data:…"
	}
	if u, err := url.Parse(raw); err == nil {
		u.RawQuery = ""
		return u.String()
	}
	return raw
}
