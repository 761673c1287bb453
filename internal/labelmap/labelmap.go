// Package labelmap persists the label→SourceID registry that keeps ids
// stable across resolution runs. The map only ever grows: once a label has
// been assigned an id, that assignment is never recomputed or overwritten.
package labelmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dropdex/internal"
	"dropdex/internal/ident"
)

const DefaultFallbackID = internal.SourceID("data:unknown")

type Defaults struct {
	FallbackSourceID internal.SourceID `json:"fallbackSourceId"`
}

type Map struct {
	ByLabel  map[string]internal.SourceID `json:"byLabel"`
	Defaults Defaults                     `json:"defaults"`
}

func New() *Map {
	return &Map{
		ByLabel:  map[string]internal.SourceID{},
		Defaults: Defaults{FallbackSourceID: DefaultFallbackID},
	}
}

// Load reads a persisted map. A missing file yields a fresh empty map; a file
// that exists but does not parse is a fatal error, never silently replaced.
func Load(path string) (*Map, error) {
	blob, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}

	var m Map
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, fmt.Errorf("label map %s: %w", path, err)
	}
	if m.ByLabel == nil {
		m.ByLabel = map[string]internal.SourceID{}
	}
	if m.Defaults.FallbackSourceID == "" {
		m.Defaults.FallbackSourceID = DefaultFallbackID
	}
	return &m, nil
}

// ResolveLabelID returns the stable id for a label. Persisted assignments win
// verbatim; only genuinely new labels get a freshly computed deterministic
// slug. The caller persists new assignments via MergeNewLabel.
func (m *Map) ResolveLabelID(label string) internal.SourceID {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return m.Defaults.FallbackSourceID
	}
	if id, ok := m.ByLabel[trimmed]; ok {
		return id
	}
	return ident.BuildID(ident.NamespaceData, trimmed)
}

// MergeNewLabel records a label→id assignment if the label is new. Existing
// keys are never overwritten. Reports whether the map changed.
func (m *Map) MergeNewLabel(label string, id internal.SourceID) bool {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return false
	}
	if _, ok := m.ByLabel[trimmed]; ok {
		return false
	}
	m.ByLabel[trimmed] = id
	return true
}

// Save writes the map as pretty-printed JSON with a trailing newline.
// encoding/json emits map keys sorted, so output is byte-stable.
func (m *Map) Save(path string) error {
	blob, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(blob, '\n'), 0o644)
}
