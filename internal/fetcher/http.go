// Package fetcher downloads pages from the status site and the licence
// register over HTTP with a fixed politeness interval between requests.
package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a page is read. Register pages are a few
// hundred KB at most.
const maxBodyBytes = 2 << 20

// Options configures the HTTP fetcher.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// Interval is the minimum delay enforced before every outbound request.
	// The register has no published API; hammering it trips abuse protection.
	Interval time.Duration
}

// HTTPFetcher fetches pages with a shared rate limiter, request timeout, and
// bounded retry. Redirects are followed by the default client policy.
type HTTPFetcher struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
}

// New creates an HTTPFetcher with the given options.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "repeater-atlas/1.0"
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Interval), 1)
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:    opts,
		limiter: limiter,
	}
}

// Get fetches the URL and returns the decoded page body.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: create request")
	}
	return f.do(req)
}

// PostForm submits an HTML form to the URL and returns the decoded page body.
func (f *HTTPFetcher) PostForm(ctx context.Context, rawURL string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *HTTPFetcher) do(req *http.Request) (string, error) {
	req.Header.Set("User-Agent", f.opts.UserAgent)

	var lastErr error
	for attempt := 0; attempt < f.opts.MaxRetries; attempt++ {
		if err := f.limiter.Wait(req.Context()); err != nil {
			return "", eris.Wrap(err, "fetcher: rate limiter wait")
		}

		cloned := req.Clone(req.Context())
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return "", eris.Wrap(err, "fetcher: clone request body")
			}
			cloned.Body = body
		}

		resp, err := f.client.Do(cloned)
		if err != nil {
			lastErr = err
			zap.L().Warn("http request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			f.backoff(req.Context(), attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("fetcher: http %d from %s", resp.StatusCode, req.URL.String())
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				zap.L().Warn("server error, retrying",
					zap.String("url", req.URL.String()),
					zap.Int("status", resp.StatusCode),
					zap.Int("attempt", attempt+1),
				)
				f.backoff(req.Context(), attempt)
				continue
			}
			return "", lastErr
		}

		body, err := decodeBody(resp)
		_ = resp.Body.Close()
		if err != nil {
			return "", err
		}
		return body, nil
	}

	return "", eris.Wrap(lastErr, "fetcher: all retries exhausted")
}

func (f *HTTPFetcher) backoff(ctx context.Context, attempt int) {
	base := time.Second
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	d += time.Duration(rand.Int63n(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// decodeBody reads the response body and converts it to UTF-8 according to
// the Content-Type charset. The register serves some pages as ISO-8859-1.
func decodeBody(resp *http.Response) (string, error) {
	reader := io.Reader(io.LimitReader(resp.Body, maxBodyBytes))

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if _, params, err := mime.ParseMediaType(ct); err == nil {
			if charset, ok := params["charset"]; ok && !strings.EqualFold(charset, "utf-8") {
				enc, err := htmlindex.Get(charset)
				if err != nil {
					return "", eris.Wrapf(err, "fetcher: unsupported charset %q", charset)
				}
				reader = enc.NewDecoder().Reader(reader)
			}
		}
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: read body")
	}
	return string(raw), nil
}
