// Package report writes the pipeline's persisted artifacts. All JSON output
// is pretty-printed with a trailing newline, and map keys marshal sorted, so
// artifacts are byte-stable across runs and diff cleanly.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dropdex/internal"
)

type UnresolvedReport struct {
	Stats                    map[string]int              `json:"stats"`
	UnresolvedMissingInItems []internal.UnresolvedRecord `json:"unresolvedMissingInItems"`
	UnresolvedAmbiguous      []internal.UnresolvedRecord `json:"unresolvedAmbiguous"`
}

// BuildUnresolvedReport partitions records into the missing and ambiguous
// buckets and derives per-reason counts. Every record lands in exactly one
// bucket; nothing is discarded.
func BuildUnresolvedReport(records []internal.UnresolvedRecord, extraStats map[string]int) UnresolvedReport {
	rep := UnresolvedReport{
		Stats:                    map[string]int{},
		UnresolvedMissingInItems: []internal.UnresolvedRecord{},
		UnresolvedAmbiguous:      []internal.UnresolvedRecord{},
	}
	for _, rec := range records {
		rep.Stats[string(rec.Reason)]++
		if rec.Reason == internal.ReasonMultipleMatches {
			rep.UnresolvedAmbiguous = append(rep.UnresolvedAmbiguous, rec)
		} else {
			rep.UnresolvedMissingInItems = append(rep.UnresolvedMissingInItems, rec)
		}
	}
	rep.Stats["unresolvedTotal"] = len(records)
	for key, value := range extraStats {
		rep.Stats[key] = value
	}
	return rep
}

// WriteJSON persists one artifact: pretty-printed, trailing newline.
func WriteJSON(path string, v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(blob, '\n'), 0o644)
}
