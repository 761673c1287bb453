// Package resolve joins collector contributions, the catalog index, the
// label map and the manual override table into the final acquisition map.
// The engine never guesses: ambiguous or absent matches become unresolved
// records, not best-guess assignments.
package resolve

import (
	"sort"

	"dropdex/internal"
	"dropdex/internal/catalog"
	"dropdex/internal/collect"
	"dropdex/internal/util"
)

// Context carries every index the resolver needs, built explicitly per run
// and threaded by parameter so the pipeline is testable with fixtures.
type Context struct {
	Catalog      *catalog.Index
	Names        collect.NameSources
	Relics       collect.RelicIndex
	ByID         map[internal.CatalogID]internal.SourceSet
	Requirements []internal.RequirementDef
}

// NewContext returns an empty context over a catalog index; collectors'
// outputs are merged in by the caller.
func NewContext(idx *catalog.Index) *Context {
	return &Context{
		Catalog: idx,
		Names:   collect.NameSources{},
		Relics:  collect.RelicIndex{},
		ByID:    map[internal.CatalogID]internal.SourceSet{},
	}
}

func (c *Context) AddDirect(id internal.CatalogID, sources internal.SourceSet) {
	set, ok := c.ByID[id]
	if !ok {
		set = internal.SourceSet{}
		c.ByID[id] = set
	}
	set.Union(sources)
}

// ResolveAll computes the acquisition map for every catalog item through the
// additive stages: relic index, name joins and direct-id contributions, then
// path-family fallback only if nothing else fired, then manual overrides
// unconditionally. Later stages never remove earlier contributions. Items
// ending with an empty set get no entry at all: absence, not an empty array,
// signals "no known source".
func ResolveAll(ctx *Context) map[internal.CatalogID]internal.AcquisitionDef {
	out := map[internal.CatalogID]internal.AcquisitionDef{}
	for id, item := range ctx.Catalog.ByID {
		set := internal.SourceSet{}

		if relicKey, ok := collect.ParseRelicKey(item.DisplayName); ok {
			set.Union(ctx.Relics[relicKey])
		}

		set.Union(ctx.Names[util.NameKey(item.DisplayName)])
		set.Union(ctx.ByID[id])

		if len(set) == 0 {
			for _, rule := range PathRules {
				if rule.Matches(item.Path) {
					set.Add(rule.Source.ID)
				}
			}
		}

		set.Add(ManualOverrides[id]...)

		if len(set) == 0 {
			continue
		}
		out[id] = internal.AcquisitionDef{Sources: sortedIDs(set)}
	}
	return out
}

// ResolveRequirements applies the fail-closed rule: an entry survives only
// when its output id and every component id exist in the catalog.
func ResolveRequirements(ctx *Context) []internal.RequirementDef {
	out := make([]internal.RequirementDef, 0, len(ctx.Requirements))
	for _, def := range ctx.Requirements {
		if !ctx.Catalog.Has(def.Output) {
			continue
		}
		valid := true
		for _, comp := range def.Components {
			if !ctx.Catalog.Has(comp.CatalogID) {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		out = append(out, def)
	}
	return out
}

func sortedIDs(set internal.SourceSet) []internal.SourceID {
	out := make([]internal.SourceID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
