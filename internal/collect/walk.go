// Package collect turns raw drop-table datasets into partial maps of
// normalized item name (or catalog id) to source-id sets. Collectors never
// infer a source from item content, only from their own dataset's structural
// keys, and unparsable context is excluded rather than guessed.
package collect

import (
	"encoding/json"
	"fmt"
	"strings"

	"dropdex/internal"
	"dropdex/internal/util"
)

// NameSources keys contributions by util.NameKey of the found item name.
type NameSources map[string]internal.SourceSet

func (n NameSources) Add(nameKey string, id internal.SourceID) {
	if nameKey == "" || id == "" {
		return
	}
	set, ok := n[nameKey]
	if !ok {
		set = internal.SourceSet{}
		n[nameKey] = set
	}
	set.Add(id)
}

func (n NameSources) Merge(other NameSources) {
	for key, set := range other {
		existing, ok := n[key]
		if !ok {
			existing = internal.SourceSet{}
			n[key] = existing
		}
		existing.Union(set)
	}
}

// itemNameKeys are the object fields plausibly holding an item name in any
// of the third-party dataset shapes.
var itemNameKeys = map[string]struct{}{
	"itemName": {},
	"name":     {},
	"item":     {},
	"modName":  {},
}

func isItemNameKey(key string) bool {
	_, ok := itemNameKeys[key]
	return ok
}

// visitStrings walks an arbitrarily nested decoded JSON tree and calls fn for
// every string value sitting under an object key accepted by keyOK. Arrays
// are traversed; non-string leaves are ignored. The walk is depth-first in
// encounter order and never fails: malformed optional structure is simply
// not visited.
func visitStrings(v any, keyOK func(string) bool, fn func(key, value string)) {
	switch t := v.(type) {
	case map[string]any:
		for key, child := range t {
			if s, ok := child.(string); ok && keyOK(key) {
				fn(key, s)
				continue
			}
			visitStrings(child, keyOK, fn)
		}
	case []any:
		for _, child := range t {
			visitStrings(child, keyOK, fn)
		}
	}
}

// collectItemNames gathers the NameKey of every item-name string in a
// subtree.
func collectItemNames(v any) []string {
	var out []string
	seen := map[string]struct{}{}
	visitStrings(v, isItemNameKey, func(_, value string) {
		key := util.NameKey(value)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, key)
	})
	return out
}

// decodeRoot unmarshals a dataset body and, when the payload is wrapped in a
// single-key envelope like {"missionRewards": ...}, unwraps it. A top level
// that is not JSON at all is a parse error; collectors then enforce their own
// expected root shape.
func decodeRoot(raw []byte, envelope string) (any, error) {
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", envelope, err)
	}
	if obj, ok := root.(map[string]any); ok {
		if inner, ok := obj[envelope]; ok {
			return inner, nil
		}
	}
	return root, nil
}

func rootObject(v any, name string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dataset %s: expected top-level object", name)
	}
	return obj, nil
}

func rootArray(v any, name string) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("dataset %s: expected top-level array", name)
	}
	return arr, nil
}

func stringField(v any, key string) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
