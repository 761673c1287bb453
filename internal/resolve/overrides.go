package resolve

import (
	"strings"

	"dropdex/internal"
)

// PathRule assigns one coarse source to items whose dataset path matches.
// Rules only run when no structured dataset produced a source; they are
// evaluated independently and more than one may fire.
type PathRule struct {
	PathPrefix   string
	PathContains string
	Source       internal.Source
}

func (r PathRule) Matches(path string) bool {
	if r.PathPrefix != "" && !strings.HasPrefix(path, r.PathPrefix) {
		return false
	}
	if r.PathContains != "" && !strings.Contains(path, r.PathContains) {
		return false
	}
	return r.PathPrefix != "" || r.PathContains != ""
}

// PathRules is the fixed, ordered path-family fallback table.
var PathRules = []PathRule{
	{
		PathPrefix: "/Lotus/Weapons/VoidTrader/",
		Source:     internal.Source{ID: "src:vendor/baro-kiteer", Label: "Baro Ki'Teer", Type: internal.SourceVendor},
	},
	{
		PathPrefix: "/Lotus/Upgrades/CosmeticEnhancers/",
		Source:     internal.Source{ID: "src:vendor/baro-kiteer", Label: "Baro Ki'Teer", Type: internal.SourceVendor},
	},
	{
		PathContains: "/Gems/Eidolon/",
		Source:       internal.Source{ID: "src:mining/cetus", Label: "Mining (Plains of Eidolon)", Type: internal.SourceOther},
	},
	{
		PathContains: "/Gems/Solaris/",
		Source:       internal.Source{ID: "src:mining/orb-vallis", Label: "Mining (Orb Vallis)", Type: internal.SourceOther},
	},
	{
		PathContains: "/Gems/Deimos/",
		Source:       internal.Source{ID: "src:mining/cambion-drift", Label: "Mining (Cambion Drift)", Type: internal.SourceOther},
	},
	{
		PathContains: "/Fish/Eidolon/",
		Source:       internal.Source{ID: "src:fishing/cetus", Label: "Fishing (Plains of Eidolon)", Type: internal.SourceOther},
	},
	{
		PathContains: "/Fish/Solaris/",
		Source:       internal.Source{ID: "src:fishing/orb-vallis", Label: "Fishing (Orb Vallis)", Type: internal.SourceOther},
	},
	{
		PathContains: "/Fish/Deimos/",
		Source:       internal.Source{ID: "src:fishing/cambion-drift", Label: "Fishing (Cambion Drift)", Type: internal.SourceOther},
	},
	{
		PathPrefix: "/Lotus/Types/Recipes/",
		Source:     internal.Source{ID: "src:crafting/foundry", Label: "Foundry", Type: internal.SourceCrafting},
	},
	{
		PathPrefix: "/Lotus/StoreItems/",
		Source:     internal.Source{ID: "src:vendor/market", Label: "Market", Type: internal.SourceVendor},
	},
	{
		PathContains: "/Keys/",
		Source:       internal.Source{ID: "src:quest", Label: "Quest Reward", Type: internal.SourceOther},
	},
}

// ManualOverrides is the hand-authored table keyed by exact catalog id.
// Overrides are always appended to the union of derived sources, never
// replacing them.
var ManualOverrides = map[internal.CatalogID][]internal.SourceID{
	"items:/Lotus/Powersuits/Excalibur/Excalibur": {"src:vendor/market"},
	"items:/Lotus/Types/Items/MiscItems/OrokinReactor": {
		"src:vendor/market",
		"data:invasion",
	},
	"items:/Lotus/Types/Items/MiscItems/OrokinCatalyst": {
		"src:vendor/market",
		"data:invasion",
	},
	"items:/Lotus/Types/Items/MiscItems/Forma": {
		"src:vendor/market",
		"data:relic",
	},
	"items:/Lotus/Weapons/Tenno/Melee/Swords/DarkSword": {"data:invasion"},
}

// OverrideSources registers every source the override and path-rule tables
// refer to, so referenced ids always exist in the source index.
var OverrideSources = []internal.Source{
	{ID: "data:invasion", Label: "Invasion Reward", Type: internal.SourceDrop},
	{ID: "data:relic", Label: "Void Relic", Type: internal.SourceDrop},
}

// RuleSources returns the source records the path-rule table introduces,
// deduplicated by id.
func RuleSources() []internal.Source {
	seen := map[internal.SourceID]struct{}{}
	out := make([]internal.Source, 0, len(PathRules)+len(OverrideSources))
	for _, rule := range PathRules {
		if _, ok := seen[rule.Source.ID]; ok {
			continue
		}
		seen[rule.Source.ID] = struct{}{}
		out = append(out, rule.Source)
	}
	for _, src := range OverrideSources {
		if _, ok := seen[src.ID]; ok {
			continue
		}
		seen[src.ID] = struct{}{}
		out = append(out, src)
	}
	return out
}
