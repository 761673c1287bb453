package catalog

import (
	"fmt"
	"sort"
	"strings"

	"dropdex/internal"
	"dropdex/internal/util"
)

// SourceIndex holds every registered Source keyed by id. Construction fails
// before any lookup can succeed if two raw sources normalize to the same id:
// a duplicate SourceID is an integrity defect, never a silent merge of
// distinct sources.
type SourceIndex struct {
	ByID map[internal.SourceID]internal.Source
}

func BuildSourceIndex(sources []internal.Source) (*SourceIndex, error) {
	idx := &SourceIndex{ByID: map[internal.SourceID]internal.Source{}}
	var dups []string
	for _, src := range sources {
		id := internal.SourceID(util.Normalize(string(src.ID)))
		if id == "" {
			continue
		}
		if existing, ok := idx.ByID[id]; ok {
			if existing.Label == src.Label {
				continue
			}
			dups = append(dups, fmt.Sprintf("%s (%q vs %q)", id, existing.Label, src.Label))
			continue
		}
		src.ID = id
		idx.ByID[id] = src
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, fmt.Errorf("%s: duplicate source ids after normalization: %s", internal.DupSourceID, strings.Join(dups, "; "))
	}
	return idx, nil
}

func (idx *SourceIndex) Has(id internal.SourceID) bool {
	_, ok := idx.ByID[id]
	return ok
}

// IDs returns every registered id in lexicographic order.
func (idx *SourceIndex) IDs() []internal.SourceID {
	out := make([]internal.SourceID, 0, len(idx.ByID))
	for id := range idx.ByID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
