// Package fetcher retrieves and parses award pages with retries and
// classified failure reasons.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/bookawards/harvester/internal/metrics"
)

// Fail reasons attached to terminal fetch failures.
const (
	ReasonForbidden  = "403 Forbidden"
	ReasonDNS        = "DNS error"
	ReasonConnection = "Connection error"
	ReasonUnknown    = "unknown error"
)

// FetchError is the classified terminal failure for one URL. The
// fetcher never returns any other error type.
type FetchError struct {
	URL      string
	Reason   string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config controls fetch behavior.
type Config struct {
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

// Fetcher retrieves pages with linear backoff between attempts.
// 403 responses and DNS failures are terminal on the first attempt.
type Fetcher struct {
	cfg       Config
	logger    *zap.Logger
	base      *colly.Collector
	transport http.RoundTripper
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = 3 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	// Retry attempts revisit the same URL through a cloned collector.
	c.AllowURLRevisit = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}

	return &Fetcher{
		cfg:       cfg,
		logger:    logger,
		base:      c,
		transport: newHTTPTransport(),
	}
}

// Fetch retrieves and parses one page. Scheme-less URLs are assumed
// https. The returned error, when non-nil, is always a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, *FetchError) {
	url := normalizeURL(rawURL)

	var last *FetchError
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		page, failure, terminal := f.attempt(ctx, url)
		if failure == nil {
			metrics.RecordFetch("ok")
			return page, nil
		}
		failure.Attempts = attempt
		last = failure

		f.logger.Warn("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.String("reason", failure.Reason),
			zap.Error(failure.Err))

		if terminal || attempt == f.cfg.MaxAttempts {
			metrics.RecordFetch(failure.Reason)
			return nil, failure
		}
		if err := f.wait(ctx, f.cfg.BaseDelay*time.Duration(attempt)); err != nil {
			return nil, &FetchError{URL: url, Reason: err.Error(), Attempts: attempt, Err: err}
		}
	}
	if last == nil {
		last = &FetchError{URL: url, Reason: ReasonUnknown}
	}
	return nil, last
}

// attempt performs a single request. It reports whether a failure is
// terminal, i.e. further retries would be pointless.
func (f *Fetcher) attempt(ctx context.Context, url string) (*Page, *FetchError, bool) {
	collector := f.base.Clone()
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.WithTransport(f.transport)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Referer", "https://www.google.com/")
		r.Headers.Set("Upgrade-Insecure-Requests", "1")
	})

	res, err := f.visit(ctx, collector, url)
	if err != nil {
		failure, terminal := f.classify(url, 0, err)
		return nil, failure, terminal
	}

	if res.err != nil {
		failure, terminal := f.classify(url, res.statusCode, res.err)
		return nil, failure, terminal
	}

	page, err := NewPage(res.finalURL, res.body)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: fmt.Sprintf("%T: %v", err, err), Err: err}, false
	}
	return page, nil, false
}

// visitResult carries everything one collector visit produced.
type visitResult struct {
	body       []byte
	finalURL   string
	statusCode int
	err        error
}

// visit runs the collector in its own goroutine. The goroutine owns
// all response state, registers its own callbacks, and hands back one
// result over the channel. On cancellation the channel is abandoned;
// the orphaned goroutine finishes against its private result and the
// buffered send never blocks.
func (f *Fetcher) visit(ctx context.Context, collector *colly.Collector, url string) (visitResult, error) {
	done := make(chan visitResult, 1)
	go func() {
		res := visitResult{finalURL: url}
		collector.OnResponse(func(r *colly.Response) {
			res.finalURL = r.Request.URL.String()
			res.body = append([]byte(nil), r.Body...)
		})
		collector.OnError(func(r *colly.Response, err error) {
			if r != nil {
				res.statusCode = r.StatusCode
			}
			res.err = err
		})
		if err := collector.Visit(url); err != nil && res.err == nil {
			res.err = err
		}
		done <- res
	}()
	select {
	case <-ctx.Done():
		return visitResult{}, ctx.Err()
	case res := <-done:
		return res, nil
	}
}

func (f *Fetcher) classify(url string, status int, err error) (*FetchError, bool) {
	switch {
	case status == http.StatusForbidden:
		return &FetchError{URL: url, Reason: ReasonForbidden, Err: err}, true
	case status > 0:
		return &FetchError{URL: url, Reason: fmt.Sprintf("HTTP %d", status), Err: err}, false
	case isDNSError(err):
		return &FetchError{URL: url, Reason: ReasonDNS, Err: err}, true
	case isConnectionError(err):
		return &FetchError{URL: url, Reason: ReasonConnection, Err: err}, false
	case errors.Is(err, context.Canceled):
		return &FetchError{URL: url, Reason: err.Error(), Err: err}, true
	default:
		return &FetchError{URL: url, Reason: fmt.Sprintf("%T: %v", err, err), Err: err}, false
	}
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
