package airtable

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bookawards/harvester/internal/award"
	"github.com/bookawards/harvester/internal/metrics"
)

// Clock abstracts time for deterministic verification dates in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// BatchResult summarizes one reconciliation pass.
type BatchResult struct {
	Created int
	Updated int
	Failed  int
}

// Reconciler performs idempotent upserts of award records. Identity is
// the lower-cased award name or website.
type Reconciler struct {
	client *Client
	clock  Clock
	delay  time.Duration
	logger *zap.Logger

	index     map[string]string // normalized name/website -> remote ID
	preloaded bool

	schema      map[string]SchemaField // by column name
	schemaTried bool
}

// NewReconciler wires a reconciler. delay is the pause between records
// in a batch.
func NewReconciler(client *Client, clock Clock, delay time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		client: client,
		clock:  clock,
		delay:  delay,
		logger: logger,
		index:  make(map[string]string),
	}
}

// PreloadIndex bulk-loads the identity index so a batch needs only one
// list call instead of a lookup per record.
func (r *Reconciler) PreloadIndex(ctx context.Context) error {
	nameCol := award.Def(award.FieldName).Name
	siteCol := award.Def(award.FieldWebsite).Name
	records, err := r.client.ListRecords(ctx, []string{nameCol, siteCol})
	if err != nil {
		return err
	}
	for _, rec := range records {
		r.register(stringField(rec.Fields, nameCol), stringField(rec.Fields, siteCol), rec.ID)
	}
	r.preloaded = true
	r.logger.Info("identity index loaded", zap.Int("records", len(records)))
	return nil
}

func stringField(fields map[string]any, name string) string {
	v, _ := fields[name].(string)
	return v
}

func (r *Reconciler) register(name, website, id string) {
	if k := normalizeKey(name); k != "" {
		r.index[k] = id
	}
	if k := normalizeKey(website); k != "" {
		r.index[k] = id
	}
}

func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// escapeFormula makes a value safe inside a double-quoted Airtable
// formula literal.
func escapeFormula(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

// find resolves the remote ID for a record, if it exists. Outside a
// preloaded batch it falls back to remote formula queries.
func (r *Reconciler) find(ctx context.Context, rec *award.Record) (string, bool) {
	for _, id := range []award.FieldID{award.FieldName, award.FieldWebsite} {
		if remote, ok := r.index[normalizeKey(rec.Value(id))]; ok {
			return remote, true
		}
	}
	if r.preloaded {
		return "", false
	}
	for _, id := range []award.FieldID{award.FieldName, award.FieldWebsite} {
		v := normalizeKey(rec.Value(id))
		if v == "" {
			continue
		}
		formula := fmt.Sprintf(`LOWER({%s}) = "%s"`, award.Def(id).Name, escapeFormula(v))
		matches, err := r.client.QueryByFormula(ctx, formula)
		if err != nil {
			r.logger.Warn("remote lookup failed", zap.Error(err))
			continue
		}
		if len(matches) > 0 {
			return matches[0].ID, true
		}
	}
	return "", false
}

func (r *Reconciler) ensureSchema(ctx context.Context) {
	if r.schemaTried {
		return
	}
	r.schemaTried = true
	fields, err := r.client.Schema(ctx)
	if err != nil {
		r.logger.Warn("schema unavailable, skipping field validation", zap.Error(err))
		return
	}
	r.schema = make(map[string]SchemaField, len(fields))
	for _, f := range fields {
		r.schema[f.Name] = f
	}
}

// numeric strips everything but digits and the decimal point and
// parses the remainder.
func numeric(v string) (float64, bool) {
	var b strings.Builder
	for _, ch := range v {
		if ch >= '0' && ch <= '9' || ch == '.' {
			b.WriteRune(ch)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// payload translates a record into remote field values. Blank fields
// are omitted, unknown columns dropped, and each value is coerced to
// the column's kind.
func (r *Reconciler) payload(rec *award.Record) map[string]any {
	out := make(map[string]any)
	for _, def := range award.Fields() {
		v := strings.TrimSpace(rec.Value(def.ID))
		if v == "" {
			continue
		}
		if r.schema != nil {
			if _, ok := r.schema[def.Name]; !ok {
				r.logger.Debug("dropping unknown column", zap.String("field", def.Name))
				continue
			}
		}
		switch def.Kind {
		case award.KindBool:
			if def.ID == award.FieldCelebration {
				// The remote column stores the literal token.
				out[def.Name] = string(award.YesNo(v))
			} else {
				out[def.Name] = award.YesNo(v).Bool()
			}
		case award.KindSelect:
			if coerced, ok := r.coerceSelect(def.Name, v); ok {
				out[def.Name] = coerced
			}
		case award.KindMoney, award.KindNumber:
			if f, ok := numeric(v); ok {
				out[def.Name] = f
			}
		default:
			out[def.Name] = award.Truncate(v, def.MaxLen)
		}
	}
	out["Data Completeness"] = string(award.Score(rec))
	out["Last Verification Date"] = r.clock.Now().Format("2006-01-02")
	return out
}

// coerceSelect validates a value against the column's select options.
// An unlisted value falls back to the first option; with no known
// options, including when the schema never loaded, the value is
// dropped rather than risk a rejected write.
func (r *Reconciler) coerceSelect(column, v string) (string, bool) {
	opts := r.schema[column].Options
	if len(opts) == 0 {
		return "", false
	}
	for _, opt := range opts {
		if strings.EqualFold(opt, v) {
			return opt, true
		}
	}
	r.logger.Debug("select value not in options, using first",
		zap.String("field", column), zap.String("value", v))
	return opts[0], true
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeCreated
	outcomeUpdated
)

func (r *Reconciler) upsertOne(ctx context.Context, rec *award.Record) outcome {
	r.ensureSchema(ctx)
	name := rec.Value(award.FieldName)
	fields := r.payload(rec)

	if id, ok := r.find(ctx, rec); ok {
		if err := r.client.UpdateRecord(ctx, id, fields); err != nil {
			r.logger.Error("update failed", zap.String("award", name), zap.Error(err))
			return outcomeFailed
		}
		r.logger.Info("record updated", zap.String("award", name), zap.String("record_id", id))
		return outcomeUpdated
	}

	id, err := r.client.CreateRecord(ctx, fields)
	if err != nil {
		r.logger.Error("create failed", zap.String("award", name), zap.Error(err))
		return outcomeFailed
	}
	r.register(name, rec.Value(award.FieldWebsite), id)
	r.logger.Info("record created", zap.String("award", name), zap.String("record_id", id))
	return outcomeCreated
}

// Upsert reconciles one record and reports whether it succeeded.
func (r *Reconciler) Upsert(ctx context.Context, rec *award.Record) bool {
	switch r.upsertOne(ctx, rec) {
	case outcomeCreated:
		metrics.RecordUpsert("created")
		return true
	case outcomeUpdated:
		metrics.RecordUpsert("updated")
		return true
	default:
		metrics.RecordUpsert("failed")
		return false
	}
}

// UpsertBatch reconciles a batch sequentially, isolating per-record
// failures.
func (r *Reconciler) UpsertBatch(ctx context.Context, recs []*award.Record) BatchResult {
	var res BatchResult
	metrics.SetBatchSize(len(recs))
	if err := r.PreloadIndex(ctx); err != nil {
		r.logger.Warn("index preload failed, falling back to per-record lookups", zap.Error(err))
	}
	for i, rec := range recs {
		if i > 0 {
			r.pause(ctx)
		}
		switch r.upsertOne(ctx, rec) {
		case outcomeCreated:
			metrics.RecordUpsert("created")
			res.Created++
		case outcomeUpdated:
			metrics.RecordUpsert("updated")
			res.Updated++
		default:
			metrics.RecordUpsert("failed")
			res.Failed++
		}
	}
	r.logger.Info("batch reconciled",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed))
	return res
}

func (r *Reconciler) pause(ctx context.Context) {
	if r.delay <= 0 {
		return
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
