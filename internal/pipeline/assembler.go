// Package pipeline assembles one award record per seed URL by
// orchestrating the fetcher, the extractors, and the link classifier.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookawards/harvester/internal/award"
	"github.com/bookawards/harvester/internal/extract"
	"github.com/bookawards/harvester/internal/fetcher"
)

// Fetcher retrieves a parsed page or a classified failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, *fetcher.FetchError)
}

// Assembler drives the extraction pipeline for one seed at a time.
// All fetches are sequential; the output is deterministic for
// deterministic page content.
type Assembler struct {
	fetcher Fetcher
	delay   time.Duration
	logger  *zap.Logger
}

// New builds an Assembler. delay is the pause observed between
// related-page fetches.
func New(f Fetcher, delay time.Duration, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{fetcher: f, delay: delay, logger: logger}
}

// Assemble extracts one record from a seed URL and its related pages.
// A failed seed fetch fails the whole assembly with that fail reason;
// related-page failures only forgo their enrichment. The returned
// record must not be mutated afterwards.
func (a *Assembler) Assemble(ctx context.Context, seedURL, titleHint string) (*award.Record, string) {
	rec := award.New(seedURL)
	if titleHint != "" {
		rec.Set(award.FieldName, extract.CleanName(titleHint))
	}

	seed, failure := a.fetcher.Fetch(ctx, seedURL)
	if failure != nil {
		a.logger.Error("seed fetch failed",
			zap.String("url", seedURL),
			zap.String("reason", failure.Reason))
		return nil, failure.Reason
	}

	extract.Apply(seed, rec)

	related := extract.ClassifyLinks(seed, seed.URL)
	for _, role := range extract.Roles() {
		linkURL, ok := related[role]
		if !ok {
			continue
		}
		a.logger.Info("checking related page",
			zap.String("role", string(role)),
			zap.String("url", linkURL))

		page, failure := a.fetcher.Fetch(ctx, linkURL)
		if failure != nil {
			// Related pages are optional enrichments.
			a.logger.Warn("related page skipped",
				zap.String("role", string(role)),
				zap.String("url", linkURL),
				zap.String("reason", failure.Reason))
			continue
		}
		a.pause(ctx)
		extract.ApplyRole(role, page, rec, linkURL)
	}

	return rec, ""
}

func (a *Assembler) pause(ctx context.Context) {
	if a.delay <= 0 {
		return
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
