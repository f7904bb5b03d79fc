package httputil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/time/rate"

	"pf_scrooper/config"
)

const acceptEncoding = "gzip, deflate, br"

// FetchError is a transport or decoding failure. It aborts the run that
// issued the request.
type FetchError struct {
	URL string
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads pages from the property portal. Calls block until the
// whole body has been read and decoded.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewFetcher(cfg *config.FetchConfig) *Fetcher {
	return NewFetcherWithClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

func NewFetcherWithClient(cfg *config.FetchConfig, client *http.Client) *Fetcher {
	f := &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
	}
	if cfg.RateLimitMS > 0 {
		f.limiter = rate.NewLimiter(rate.Every(time.Duration(cfg.RateLimitMS)*time.Millisecond), 1)
	}
	return f
}

// Fetch GETs url and returns the decoded body as text. A non-2xx status is
// logged but its body is still returned; callers treat an error page like any
// page without a payload.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &FetchError{URL: url, Op: "rate limit", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Op: "build request", Err: err}
	}
	// Setting Accept-Encoding ourselves turns off the transport's transparent
	// gzip handling, so decoding is always done below.
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Op: "request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Op: "read body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[warn] fetch %s: status %d", url, resp.StatusCode)
	}

	encoding := resp.Header.Get("Content-Encoding")
	body, err := Decode(encoding, raw)
	if err != nil {
		return "", &FetchError{URL: url, Op: "decode " + encoding, Err: err}
	}

	return string(body), nil
}

// Decode undoes a Content-Encoding. Unknown or empty encodings are treated
// as identity.
func Decode(encoding string, body []byte) ([]byte, error) {
	var r io.ReadCloser
	var err error

	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		r, err = gzip.NewReader(bytes.NewReader(body))
	case "deflate":
		r, err = zlib.NewReader(bytes.NewReader(body))
	case "br":
		r = io.NopCloser(brotli.NewReader(bytes.NewReader(body)))
	default:
		return body, nil
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
