package collect

import (
	"encoding/json"
	"fmt"

	"dropdex/internal"
	"dropdex/internal/catalog"
	"dropdex/internal/labelmap"
)

// ItemCatalogDrops is keyed by CatalogID directly: the third-party item
// catalog already speaks in item paths, so no name join is needed.
type ItemCatalogDrops struct {
	ByID      map[internal.CatalogID]internal.SourceSet
	Sources   []internal.Source
	NewLabels map[string]internal.SourceID
}

// CollectItemCatalog consumes { "<path>": {name, drops: [{location, type}]} }.
// Drop locations are free-text labels, so ids go through the label map: a
// persisted assignment is reused verbatim and only new labels get fresh
// deterministic slugs, which the caller must merge back and persist.
func CollectItemCatalog(raw []byte, lm *labelmap.Map) (ItemCatalogDrops, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return ItemCatalogDrops{}, fmt.Errorf("dataset itemCatalog: expected top-level object: %w", err)
	}

	out := ItemCatalogDrops{
		ByID:      map[internal.CatalogID]internal.SourceSet{},
		NewLabels: map[string]internal.SourceID{},
	}
	registered := map[internal.SourceID]struct{}{}

	for path, rawEntry := range root {
		var entry map[string]any
		_ = json.Unmarshal(rawEntry, &entry)
		drops, ok := entry["drops"].([]any)
		if !ok {
			continue
		}

		id := internal.CatalogID(catalog.ItemsNamespace + path)
		for _, drop := range drops {
			location := stringField(drop, "location")
			if location == "" {
				continue
			}
			sourceID := lm.ResolveLabelID(location)
			if _, known := lm.ByLabel[location]; !known {
				out.NewLabels[location] = sourceID
			}

			set, ok := out.ByID[id]
			if !ok {
				set = internal.SourceSet{}
				out.ByID[id] = set
			}
			set.Add(sourceID)

			if _, ok := registered[sourceID]; !ok {
				registered[sourceID] = struct{}{}
				out.Sources = append(out.Sources, internal.Source{
					ID:    sourceID,
					Label: location,
					Type:  internal.SourceDrop,
				})
			}
		}
	}

	return out, nil
}
