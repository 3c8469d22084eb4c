// Package fetch retrieves web pages for analysis. A single Fetcher is
// shared across pipeline stages so per-host politeness limits apply to
// every page hit the tool makes.
package fetch

import (
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultPerHost   = 2.0

	// maxBodyBytes caps how much of a page is read. Marketing sites
	// rarely exceed a few MB; anything past this is not worth parsing.
	maxBodyBytes = 10 << 20
)

// Result is a fetched page. Body is decoded to UTF-8 when the response
// declares a charset; callers check OK before parsing.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// OK reports whether the response carried a 2xx status.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Options configures the fetcher.
type Options struct {
	UserAgent  string
	PerHostRPS float64
}

// Fetcher fetches pages with a shared connection pool and lazily
// created per-host rate limiters. Requests are made once; there is no
// retry on failure.
type Fetcher struct {
	client    *http.Client
	userAgent string
	perHost   rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Fetcher with the given options.
func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.PerHostRPS <= 0 {
		opts.PerHostRPS = defaultPerHost
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: opts.UserAgent,
		perHost:   rate.Limit(opts.PerHostRPS),
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(f.perHost, 1)
		f.limiters[host] = lim
	}
	return lim
}

// Get fetches a URL once. The returned error covers transport failures
// only; non-2xx responses come back as a Result with OK() == false so
// callers can record the status.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: parse url %q", rawURL)
	}

	if err := f.limiterFor(u.Host).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetch: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: get %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: read body")
	}

	body := decodeCharset(raw, resp.Header.Get("Content-Type"))

	return &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// decodeCharset converts the body to UTF-8 using the charset declared
// in the Content-Type header. Unknown or missing charsets pass the
// bytes through untouched.
func decodeCharset(raw []byte, contentType string) string {
	if contentType == "" {
		return string(raw)
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(raw)
	}
	cs, ok := params["charset"]
	if !ok || strings.EqualFold(cs, "utf-8") {
		return string(raw)
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(enc.NewDecoder().Reader(strings.NewReader(string(raw))))
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
