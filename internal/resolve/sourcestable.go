package resolve

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"dropdex/internal"
	"dropdex/internal/catalog"
	"dropdex/internal/labelmap"
)

type sourcesTableEntry struct {
	Source string `json:"source"`
}

type SourcesTableResolution struct {
	Acquisitions map[internal.CatalogID]internal.AcquisitionDef
	Unresolved   []internal.UnresolvedRecord
	NewLabels    map[string]internal.SourceID
	Sources      []internal.Source
}

// ResolveSourcesTable handles the flat label-keyed dataset:
// { "<pathKey>": [{source: label}] }. Each label goes through the label map;
// path keys unknown to the catalog are dropped fail-closed and recorded, as
// are entries whose source list yields nothing usable.
func ResolveSourcesTable(raw []byte, idx *catalog.Index, lm *labelmap.Map) (SourcesTableResolution, error) {
	var root map[string][]sourcesTableEntry
	if err := json.Unmarshal(raw, &root); err != nil {
		return SourcesTableResolution{}, fmt.Errorf("dataset sourcesTable: expected object of source arrays: %w", err)
	}

	res := SourcesTableResolution{
		Acquisitions: map[internal.CatalogID]internal.AcquisitionDef{},
		NewLabels:    map[string]internal.SourceID{},
	}
	registered := map[internal.SourceID]struct{}{}

	paths := make([]string, 0, len(root))
	for path := range root {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		id := internal.CatalogID(catalog.ItemsNamespace + path)
		if !idx.Has(id) {
			res.Unresolved = append(res.Unresolved, internal.UnresolvedRecord{
				Name:   path,
				Reason: internal.ReasonKeyNotInIndex,
			})
			continue
		}

		set := internal.SourceSet{}
		for _, entry := range root[path] {
			label := strings.TrimSpace(entry.Source)
			if label == "" {
				continue
			}
			sourceID := lm.ResolveLabelID(label)
			if _, known := lm.ByLabel[label]; !known {
				res.NewLabels[label] = sourceID
			}
			set.Add(sourceID)

			if _, ok := registered[sourceID]; !ok {
				registered[sourceID] = struct{}{}
				res.Sources = append(res.Sources, internal.Source{
					ID:    sourceID,
					Label: label,
					Type:  internal.SourceDrop,
				})
			}
		}

		if len(set) == 0 {
			res.Unresolved = append(res.Unresolved, internal.UnresolvedRecord{
				Name:   path,
				Reason: internal.ReasonIndexNoSources,
			})
			continue
		}
		res.Acquisitions[id] = internal.AcquisitionDef{Sources: sortedIDs(set)}
	}

	sortUnresolved(res.Unresolved)
	return res, nil
}
