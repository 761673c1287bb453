package catalog

import (
	"dropdex/internal"
	"dropdex/internal/util"
)

// Index is the read-only view of the reference catalog the resolution engine
// joins against. It is built once per run and never mutated afterwards.
type Index struct {
	ByID      map[internal.CatalogID]internal.CatalogItem
	NameToIDs map[string][]internal.CatalogID
}

func BuildIndex(items []internal.CatalogItem) *Index {
	idx := &Index{
		ByID:      map[internal.CatalogID]internal.CatalogItem{},
		NameToIDs: map[string][]internal.CatalogID{},
	}
	for _, item := range items {
		idx.ByID[item.ID] = item
		key := util.NameKey(item.DisplayName)
		if key == "" {
			continue
		}
		idx.NameToIDs[key] = append(idx.NameToIDs[key], item.ID)
	}
	return idx
}

func (idx *Index) Has(id internal.CatalogID) bool {
	_, ok := idx.ByID[id]
	return ok
}

func (idx *Index) Displayable(id internal.CatalogID) bool {
	item, ok := idx.ByID[id]
	return ok && item.Displayable
}

// DisplayableIDsForName returns the catalog ids whose display name reduces to
// nameKey, restricted to displayable entries. Callers that require an exact
// single match must check len == 1 themselves; the index never arbitrates.
func (idx *Index) DisplayableIDsForName(nameKey string) []internal.CatalogID {
	ids := idx.NameToIDs[nameKey]
	out := make([]internal.CatalogID, 0, len(ids))
	for _, id := range ids {
		if idx.Displayable(id) {
			out = append(out, id)
		}
	}
	return out
}
