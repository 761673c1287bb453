package collect

import (
	"strings"

	"dropdex/internal"
	"dropdex/internal/ident"
)

type bountyFamily struct {
	display string
	dataset string
}

// bountyFamilies maps family slugs to their dataset envelope key and the
// display prefix used when registering bounty sources.
var bountyFamilies = map[string]bountyFamily{
	"cetus":   {display: "Cetus", dataset: "cetusBountyRewards"},
	"solaris": {display: "Solaris", dataset: "solarisBountyRewards"},
	"deimos":  {display: "Deimos", dataset: "deimosRewards"},
	"zariman": {display: "Zariman", dataset: "zarimanRewards"},
}

// BountyDataset returns the dataset name for a bounty family slug.
func BountyDataset(family string) (string, bool) {
	fam, ok := bountyFamilies[strings.ToLower(strings.TrimSpace(family))]
	if !ok {
		return "", false
	}
	return fam.dataset, true
}

// CollectBountyRewards consumes one bounty dataset family:
// [{bountyName, rewards: {A: [...], B: [...], C: [...]}}]. The source id is
// built from the family and the bounty name, e.g.
// "data:bounty/solaris/capture".
func CollectBountyRewards(raw []byte, family string) (NameSources, []internal.Source, error) {
	family = strings.ToLower(strings.TrimSpace(family))
	fam, ok := bountyFamilies[family]
	if !ok {
		fam = bountyFamily{display: family, dataset: family + "BountyRewards"}
	}

	root, err := decodeRoot(raw, fam.dataset)
	if err != nil {
		return nil, nil, err
	}
	entries, err := rootArray(root, fam.dataset)
	if err != nil {
		return nil, nil, err
	}

	names := NameSources{}
	var sources []internal.Source
	for _, entry := range entries {
		bounty := stringField(entry, "bountyName")
		if bounty == "" {
			continue
		}
		id := ident.BuildID(ident.NamespaceData, "bounty", family, bounty)
		sources = append(sources, internal.Source{
			ID:    id,
			Label: fam.display + " Bounty: " + bounty,
			Type:  internal.SourceDrop,
		})
		for _, nameKey := range collectItemNames(entry) {
			names.Add(nameKey, id)
		}
	}

	return names, sources, nil
}
