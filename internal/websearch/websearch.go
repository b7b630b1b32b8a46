// Package websearch discovers candidate award sites through a web
// search engine.
package websearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Provider executes a single search query.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

const defaultEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo queries the HTML endpoint and scrapes the result list.
type DuckDuckGo struct {
	http     *resty.Client
	endpoint string
}

// NewDuckDuckGo builds a provider. endpoint overrides the production
// URL when non-empty.
func NewDuckDuckGo(userAgent, endpoint string) *DuckDuckGo {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	hc := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")
	return &DuckDuckGo{http: hc, endpoint: endpoint}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	resp, err := d.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search %q: HTTP %d", query, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("search %q: parse results: %w", query, err)
	}

	var out []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		if href == "" {
			return true
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     href,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(out) < maxResults
	})
	return out, nil
}

var awardKeywords = []string{
	"book award", "literary prize", "book prize", "writing award",
	"author award", "publishing award", "book contest",
}

// likelyAward reports whether a hit plausibly describes a book award.
func likelyAward(r Result) bool {
	text := strings.ToLower(r.Title + " " + r.Snippet)
	for _, kw := range awardKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Searcher runs a fixed query set against a provider, filters the hits
// and deduplicates them by URL.
type Searcher struct {
	provider   Provider
	queries    []string
	maxResults int
	delay      time.Duration
	baseDelay  time.Duration
	logger     *zap.Logger
}

// New wires a searcher. delay is the pause between queries.
func New(provider Provider, queries []string, maxResults int, delay time.Duration, logger *zap.Logger) *Searcher {
	return &Searcher{
		provider:   provider,
		queries:    queries,
		maxResults: maxResults,
		delay:      delay,
		baseDelay:  5 * time.Second,
		logger:     logger,
	}
}

const maxAttempts = 4

// Run executes every query and returns the unique, likely-award hits
// in discovery order.
func (s *Searcher) Run(ctx context.Context) ([]Result, error) {
	var all []Result
	for i, query := range s.queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			s.wait(ctx, s.delay)
		}
		s.logger.Info("searching", zap.String("query", query))
		hits := s.searchWithRetry(ctx, query)
		all = append(all, hits...)
	}
	unique := dedupe(all)
	s.logger.Info("search complete",
		zap.Int("raw", len(all)), zap.Int("unique", len(unique)))
	return unique, nil
}

// searchWithRetry retries a query with exponential backoff. Exhausted
// retries yield an empty slice so other queries still run.
func (s *Searcher) searchWithRetry(ctx context.Context, query string) []Result {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			s.wait(ctx, s.baseDelay*time.Duration(1<<(attempt-1)))
		}
		hits, err := s.provider.Search(ctx, query, s.maxResults)
		if err != nil {
			s.logger.Warn("query failed",
				zap.String("query", query),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}
		var kept []Result
		for _, h := range hits {
			if likelyAward(h) {
				kept = append(kept, h)
			}
		}
		s.logger.Info("query done",
			zap.String("query", query), zap.Int("kept", len(kept)))
		return kept
	}
	s.logger.Error("query exhausted retries", zap.String("query", query))
	return nil
}

func dedupe(results []Result) []Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (s *Searcher) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
