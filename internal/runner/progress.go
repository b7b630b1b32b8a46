package runner

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bookawards/harvester/internal/award"
)

// recordMap flattens a record into column-name keys, the shape the
// progress file stores.
func recordMap(r *award.Record) map[string]string {
	m := make(map[string]string, len(award.Fields()))
	for _, def := range award.Fields() {
		m[def.Name] = r.Value(def.ID)
	}
	return m
}

// saveProgress rewrites the progress file with everything collected
// so far, so an interrupted run loses at most one record.
func saveProgress(path string, recs []*award.Record) error {
	out := make([]map[string]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordMap(r))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// LoadProgress reads a previously written progress file back into
// records, for update-only runs.
func LoadProgress(path string) ([]*award.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	recs := make([]*award.Record, 0, len(raw))
	for _, m := range raw {
		r := award.New(m[award.Def(award.FieldWebsite).Name])
		for _, def := range award.Fields() {
			if v, ok := m[def.Name]; ok && v != "" {
				r.Set(def.ID, v)
			}
		}
		recs = append(recs, r)
	}
	return recs, nil
}
