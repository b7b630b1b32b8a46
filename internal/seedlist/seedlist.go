// Package seedlist reads and annotates line-oriented seed URL files.
//
// Each non-blank, non-comment line is a URL, optionally followed by a
// trailing status annotation:
//
//	https://example-award.org  # json-complete, airtable-complete
//
// The annotations record run bookkeeping and survive re-runs.
package seedlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Statuses written back to the file.
const (
	StatusExtracted  = "json-complete"
	StatusReconciled = "json-complete, airtable-complete"
)

// FailedStatus formats a failure annotation from a fetch fail reason.
func FailedStatus(reason string) string {
	if reason == "" {
		return "failed"
	}
	return "failed: " + reason
}

// Seed is one entry of the list.
type Seed struct {
	URL    string
	Status string // current annotation, empty if none
}

// Load parses the seed file. Blank lines and lines starting with '#'
// are skipped.
func Load(path string) ([]Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed list: %w", err)
	}
	defer f.Close()

	var seeds []Seed
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		url, status, ok := splitLine(sc.Text())
		if !ok {
			continue
		}
		seeds = append(seeds, Seed{URL: url, Status: status})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed list: %w", err)
	}
	return seeds, nil
}

func splitLine(line string) (url, status string, ok bool) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return "", "", false
	}
	url = s
	if i := strings.Index(s, "#"); i >= 0 {
		url = strings.TrimSpace(s[:i])
		status = strings.TrimSpace(s[i+1:])
	}
	if url == "" {
		return "", "", false
	}
	return url, status, true
}

// UpdateStatus rewrites the annotation for one URL in place. A seed
// already marked fully reconciled is never downgraded to the
// extraction-only status; every other transition overwrites.
func UpdateStatus(path, url, status string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed list: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lineURL, current, ok := splitLine(line)
		if !ok || lineURL != url {
			continue
		}
		if status == StatusExtracted && current == StatusReconciled {
			continue
		}
		lines[i] = fmt.Sprintf("%s  # %s", lineURL, status)
	}

	out := strings.Join(lines, "\n")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write seed list: %w", err)
	}
	return nil
}
