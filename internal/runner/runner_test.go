package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookawards/harvester/internal/airtable"
	"github.com/bookawards/harvester/internal/award"
	"github.com/bookawards/harvester/internal/seedlist"
	"github.com/bookawards/harvester/internal/websearch"
)

type fakeAssembler struct {
	fails  map[string]string // url -> fail reason
	titles map[string]string // url -> title hint seen
}

func (f *fakeAssembler) Assemble(_ context.Context, url, title string) (*award.Record, string) {
	if f.titles == nil {
		f.titles = make(map[string]string)
	}
	f.titles[url] = title
	if reason, ok := f.fails[url]; ok {
		return nil, reason
	}
	r := award.New(url)
	r.Set(award.FieldName, "Award at "+url)
	return r, ""
}

type fakeReconciler struct {
	upserts int
	batches [][]*award.Record
	fail    bool
}

func (f *fakeReconciler) Upsert(_ context.Context, _ *award.Record) bool {
	f.upserts++
	return !f.fail
}

func (f *fakeReconciler) UpsertBatch(_ context.Context, recs []*award.Record) airtable.BatchResult {
	f.batches = append(f.batches, recs)
	if f.fail {
		return airtable.BatchResult{Failed: len(recs)}
	}
	return airtable.BatchResult{Created: len(recs)}
}

type fakeSearcher struct {
	results []websearch.Result
}

func (f *fakeSearcher) Run(_ context.Context) ([]websearch.Result, error) {
	return f.results, nil
}

func newRunner(t *testing.T, a *fakeAssembler, r *fakeReconciler, s *fakeSearcher, searchOnly bool) *Runner {
	t.Helper()
	return New(a, r, s, Options{
		ProgressPath: filepath.Join(t.TempDir(), "progress.json"),
		SearchOnly:   searchOnly,
	}, zap.NewNop())
}

func writeSeeds(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestRunSeedsAnnotatesOutcomes(t *testing.T) {
	a := &fakeAssembler{fails: map[string]string{
		"https://broken.example.org": "403 Forbidden",
	}}
	r := &fakeReconciler{}
	run := newRunner(t, a, r, nil, false)
	path := writeSeeds(t, "https://example-award.org\nhttps://broken.example.org\n")

	sum, err := run.RunSeeds(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, Summary{Total: 2, Extracted: 1, Reconciled: 1, Failed: 1}, sum)
	require.Equal(t, 1, r.upserts)

	seeds, err := seedlist.Load(path)
	require.NoError(t, err)
	require.Equal(t, seedlist.StatusReconciled, seeds[0].Status)
	require.Equal(t, "failed: 403 Forbidden", seeds[1].Status)
}

func TestRunSeedsSearchOnlySkipsStore(t *testing.T) {
	a := &fakeAssembler{}
	r := &fakeReconciler{}
	run := newRunner(t, a, r, nil, true)
	path := writeSeeds(t, "https://example-award.org\n")

	sum, err := run.RunSeeds(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, Summary{Total: 1, Extracted: 1}, sum)
	require.Zero(t, r.upserts)

	seeds, err := seedlist.Load(path)
	require.NoError(t, err)
	require.Equal(t, seedlist.StatusExtracted, seeds[0].Status)
}

func TestRunSeedsFailedUpsertKeepsExtractedStatus(t *testing.T) {
	a := &fakeAssembler{}
	r := &fakeReconciler{fail: true}
	run := newRunner(t, a, r, nil, false)
	path := writeSeeds(t, "https://example-award.org\n")

	sum, err := run.RunSeeds(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, Summary{Total: 1, Extracted: 1}, sum)

	seeds, err := seedlist.Load(path)
	require.NoError(t, err)
	require.Equal(t, seedlist.StatusExtracted, seeds[0].Status)
}

func TestRunSeedsWritesProgress(t *testing.T) {
	a := &fakeAssembler{}
	r := &fakeReconciler{}
	run := newRunner(t, a, r, nil, true)
	path := writeSeeds(t, "https://example-award.org\n")

	_, err := run.RunSeeds(context.Background(), path)
	require.NoError(t, err)

	recs, err := LoadProgress(run.opts.ProgressPath)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "https://example-award.org", recs[0].Value(award.FieldWebsite))
	require.Equal(t, "Award at https://example-award.org", recs[0].Value(award.FieldName))
}

func TestRunSearchBatchesAtEnd(t *testing.T) {
	a := &fakeAssembler{fails: map[string]string{"https://dead.example.org": "DNS error"}}
	r := &fakeReconciler{}
	s := &fakeSearcher{results: []websearch.Result{
		{Title: "Example Book Award", URL: "https://example-award.org"},
		{Title: "Dead Award", URL: "https://dead.example.org"},
		{Title: "Quill Prize", URL: "https://quill-prize.org"},
	}}
	run := newRunner(t, a, r, s, false)

	sum, err := run.RunSearch(context.Background())
	require.NoError(t, err)
	require.Equal(t, Summary{Total: 3, Extracted: 2, Reconciled: 2, Failed: 1}, sum)
	require.Zero(t, r.upserts)
	require.Len(t, r.batches, 1)
	require.Len(t, r.batches[0], 2)

	// Title hints flow through to the assembler.
	require.Equal(t, "Example Book Award", a.titles["https://example-award.org"])
}

func TestRunUpdateOnlyReplaysProgress(t *testing.T) {
	r := &fakeReconciler{}
	run := newRunner(t, &fakeAssembler{}, r, nil, false)

	rec := award.New("https://example-award.org")
	rec.Set(award.FieldName, "Example Book Award")
	require.NoError(t, saveProgress(run.opts.ProgressPath, []*award.Record{rec}))

	res, err := run.RunUpdateOnly(context.Background(), run.opts.ProgressPath)
	require.NoError(t, err)
	require.Equal(t, airtable.BatchResult{Created: 1}, res)
	require.Len(t, r.batches, 1)
	require.Equal(t, "Example Book Award", r.batches[0][0].Value(award.FieldName))
}

func TestProgressRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	rec := award.New("https://example-award.org")
	rec.Set(award.FieldName, "Example Book Award")
	rec.Set(award.FieldCategory, "Fiction")
	rec.Set(award.FieldCelebration, "Yes")
	require.NoError(t, saveProgress(path, []*award.Record{rec}))

	recs, err := LoadProgress(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, rec, recs[0])
}

func TestRunSeedsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := newRunner(t, &fakeAssembler{}, &fakeReconciler{}, nil, false)
	path := writeSeeds(t, "https://example-award.org\n")

	_, err := run.RunSeeds(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}
