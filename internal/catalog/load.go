package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"dropdex/internal"
)

// ItemsNamespace prefixes every catalog id derived from a reference dataset
// path.
const ItemsNamespace = "items:"

// BuildItems parses one static reference dataset: a JSON object map keyed by
// item path, each value optionally carrying "name" and "categories". A
// wrong-shaped top level is a parse error; missing or wrong-typed optional
// fields are treated as absent.
func BuildItems(raw []byte) ([]internal.CatalogItem, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("reference dataset: expected top-level object: %w", err)
	}

	out := make([]internal.CatalogItem, 0, len(root))
	for path, rawValue := range root {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		var value map[string]any
		_ = json.Unmarshal(rawValue, &value)

		name := stringField(value, "name")
		item := internal.CatalogItem{
			ID:          internal.CatalogID(ItemsNamespace + path),
			Path:        path,
			DisplayName: name,
			Categories:  stringSliceField(value, "categories"),
			Displayable: name != "" && name != path,
		}
		if item.DisplayName == "" {
			item.DisplayName = path
		}
		out = append(out, item)
	}
	return out, nil
}

// MergeItems folds several reference datasets into one item list. Later
// datasets fill gaps but never overwrite a real display name found earlier.
func MergeItems(batches ...[]internal.CatalogItem) []internal.CatalogItem {
	byID := map[internal.CatalogID]internal.CatalogItem{}
	order := make([]internal.CatalogID, 0)
	for _, batch := range batches {
		for _, item := range batch {
			existing, ok := byID[item.ID]
			if !ok {
				byID[item.ID] = item
				order = append(order, item.ID)
				continue
			}
			if !existing.Displayable && item.Displayable {
				item.Categories = mergeCategories(existing.Categories, item.Categories)
				byID[item.ID] = item
				continue
			}
			existing.Categories = mergeCategories(existing.Categories, item.Categories)
			byID[item.ID] = existing
		}
	}

	out := make([]internal.CatalogItem, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func mergeCategories(a, b []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(a)+len(b))
	for _, cat := range append(append([]string{}, a...), b...) {
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func stringSliceField(m map[string]any, key string) []string {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
