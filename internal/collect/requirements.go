package collect

import (
	"encoding/json"
	"fmt"
	"sort"

	"dropdex/internal"
	"dropdex/internal/catalog"
)

// CollectRequirements parses the crafting dataset:
// { "<outputPath>": [{item: "<componentPath>", count: n}] }.
// Parsing is tolerant of malformed components (skipped); the fail-closed rule
// against unknown catalog ids is applied later by the resolver, which has the
// index.
func CollectRequirements(raw []byte) ([]internal.RequirementDef, error) {
	var root map[string][]map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("dataset requirements: expected object of component arrays: %w", err)
	}

	paths := make([]string, 0, len(root))
	for path := range root {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]internal.RequirementDef, 0, len(root))
	for _, path := range paths {
		def := internal.RequirementDef{Output: internal.CatalogID(catalog.ItemsNamespace + path)}
		for _, comp := range root[path] {
			item, _ := comp["item"].(string)
			if item == "" {
				continue
			}
			count := 1
			if f, ok := comp["count"].(float64); ok && f >= 1 {
				count = int(f)
			}
			def.Components = append(def.Components, internal.RequirementComponent{
				CatalogID: internal.CatalogID(catalog.ItemsNamespace + item),
				Count:     count,
			})
		}
		if len(def.Components) == 0 {
			continue
		}
		out = append(out, def)
	}

	return out, nil
}
