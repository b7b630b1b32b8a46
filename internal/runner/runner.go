// Package runner drives full harvest runs: seed files, search
// discovery, and update-only replays.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookawards/harvester/internal/airtable"
	"github.com/bookawards/harvester/internal/award"
	"github.com/bookawards/harvester/internal/logging"
	"github.com/bookawards/harvester/internal/metrics"
	"github.com/bookawards/harvester/internal/seedlist"
	"github.com/bookawards/harvester/internal/websearch"
)

// Assembler builds one record per seed URL.
type Assembler interface {
	Assemble(ctx context.Context, seedURL, titleHint string) (*award.Record, string)
}

// Reconciler pushes records into the remote store.
type Reconciler interface {
	Upsert(ctx context.Context, rec *award.Record) bool
	UpsertBatch(ctx context.Context, recs []*award.Record) airtable.BatchResult
}

// Searcher discovers candidate seed URLs.
type Searcher interface {
	Run(ctx context.Context) ([]websearch.Result, error)
}

// Options tunes a run.
type Options struct {
	ProgressPath string
	SeedDelay    time.Duration
	// SearchOnly skips all remote store writes.
	SearchOnly bool
}

// Summary counts the outcomes of one run.
type Summary struct {
	Total      int
	Extracted  int
	Reconciled int
	Failed     int
}

// Runner orchestrates one harvest.
type Runner struct {
	assembler  Assembler
	reconciler Reconciler
	searcher   Searcher
	opts       Options
	logger     *zap.Logger
}

// New wires a runner. searcher may be nil when only file-driven runs
// are needed.
func New(a Assembler, r Reconciler, s Searcher, opts Options, logger *zap.Logger) *Runner {
	if opts.ProgressPath == "" {
		opts.ProgressPath = "book_awards_data.json"
	}
	return &Runner{assembler: a, reconciler: r, searcher: s, opts: opts, logger: logger}
}

// RunSeeds processes every URL in a seed file sequentially, annotating
// each line with its outcome. Cancellation is honored between seeds;
// the seed in flight always completes.
func (r *Runner) RunSeeds(ctx context.Context, seedPath string) (Summary, error) {
	log := logging.ForRun(r.logger, uuid.NewString())

	seeds, err := seedlist.Load(seedPath)
	if err != nil {
		return Summary{}, err
	}
	if len(seeds) == 0 {
		log.Warn("seed list is empty", zap.String("path", seedPath))
		return Summary{}, nil
	}
	log.Info("starting seed run",
		zap.String("path", seedPath), zap.Int("seeds", len(seeds)))

	var sum Summary
	var collected []*award.Record
	for i, seed := range seeds {
		if err := ctx.Err(); err != nil {
			log.Warn("run canceled", zap.Int("processed", i))
			return sum, err
		}
		if i > 0 {
			r.pause(ctx)
		}
		sum.Total++

		rec, reason := r.assembler.Assemble(ctx, seed.URL, "")
		if rec == nil {
			sum.Failed++
			metrics.RecordExtraction("failed")
			log.Error("extraction failed",
				zap.String("url", seed.URL), zap.String("reason", reason))
			r.annotate(log, seedPath, seed.URL, seedlist.FailedStatus(reason))
			continue
		}
		sum.Extracted++
		metrics.RecordExtraction("ok")

		collected = append(collected, rec)
		if err := saveProgress(r.opts.ProgressPath, collected); err != nil {
			log.Error("progress save failed", zap.Error(err))
		}
		r.annotate(log, seedPath, seed.URL, seedlist.StatusExtracted)

		if r.opts.SearchOnly {
			continue
		}
		if r.reconciler.Upsert(ctx, rec) {
			sum.Reconciled++
			r.annotate(log, seedPath, seed.URL, seedlist.StatusReconciled)
		}
	}

	log.Info("seed run complete",
		zap.Int("total", sum.Total),
		zap.Int("extracted", sum.Extracted),
		zap.Int("reconciled", sum.Reconciled),
		zap.Int("failed", sum.Failed))
	return sum, nil
}

// RunSearch discovers seeds through the searcher and processes them.
// Reconciliation happens once at the end, as a batch.
func (r *Runner) RunSearch(ctx context.Context) (Summary, error) {
	log := logging.ForRun(r.logger, uuid.NewString())

	results, err := r.searcher.Run(ctx)
	if err != nil {
		return Summary{}, err
	}
	if len(results) == 0 {
		log.Warn("search found no candidate awards")
		return Summary{}, nil
	}
	log.Info("starting search run", zap.Int("candidates", len(results)))

	var sum Summary
	var collected []*award.Record
	for i, res := range results {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if i > 0 {
			r.pause(ctx)
		}
		sum.Total++

		rec, reason := r.assembler.Assemble(ctx, res.URL, res.Title)
		if rec == nil {
			sum.Failed++
			metrics.RecordExtraction("failed")
			log.Error("extraction failed",
				zap.String("url", res.URL), zap.String("reason", reason))
			continue
		}
		sum.Extracted++
		metrics.RecordExtraction("ok")
		collected = append(collected, rec)
		if err := saveProgress(r.opts.ProgressPath, collected); err != nil {
			log.Error("progress save failed", zap.Error(err))
		}
	}

	if !r.opts.SearchOnly && len(collected) > 0 {
		res := r.reconciler.UpsertBatch(ctx, collected)
		sum.Reconciled = res.Created + res.Updated
	}

	log.Info("search run complete",
		zap.Int("total", sum.Total),
		zap.Int("extracted", sum.Extracted),
		zap.Int("reconciled", sum.Reconciled),
		zap.Int("failed", sum.Failed))
	return sum, nil
}

// RunUpdateOnly replays a progress file into the remote store without
// fetching anything.
func (r *Runner) RunUpdateOnly(ctx context.Context, progressPath string) (airtable.BatchResult, error) {
	recs, err := LoadProgress(progressPath)
	if err != nil {
		return airtable.BatchResult{}, err
	}
	if len(recs) == 0 {
		r.logger.Warn("no records in progress file", zap.String("path", progressPath))
		return airtable.BatchResult{}, nil
	}
	r.logger.Info("replaying progress file",
		zap.String("path", progressPath), zap.Int("records", len(recs)))
	return r.reconciler.UpsertBatch(ctx, recs), nil
}

func (r *Runner) annotate(log *zap.Logger, path, url, status string) {
	if err := seedlist.UpdateStatus(path, url, status); err != nil {
		log.Error("seed annotation failed",
			zap.String("url", url), zap.Error(err))
	}
}

func (r *Runner) pause(ctx context.Context) {
	if r.opts.SeedDelay <= 0 {
		return
	}
	t := time.NewTimer(r.opts.SeedDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
