package collect

import (
	"dropdex/internal"
	"dropdex/internal/ident"
)

// MissionRewards holds the generic name contributions plus the relic index
// extracted from the same traversal.
type MissionRewards struct {
	Names   NameSources
	Relics  RelicIndex
	Sources []internal.Source
}

// CollectMissionRewards consumes the nested planet→node→rewards dataset.
// Every item name found anywhere under a node subtree is attributed to
// "data:node/<planet>/<node>"; relic names additionally feed the relic index.
// Nodes whose subtree is not an object are skipped, never guessed at.
func CollectMissionRewards(raw []byte) (MissionRewards, error) {
	root, err := decodeRoot(raw, "missionRewards")
	if err != nil {
		return MissionRewards{}, err
	}
	planets, err := rootObject(root, "missionRewards")
	if err != nil {
		return MissionRewards{}, err
	}

	out := MissionRewards{Names: NameSources{}, Relics: RelicIndex{}}
	for planet, nodesAny := range planets {
		nodes, ok := nodesAny.(map[string]any)
		if !ok {
			continue
		}
		for node, subtree := range nodes {
			if _, ok := subtree.(map[string]any); !ok {
				continue
			}
			id := ident.BuildID(ident.NamespaceData, "node", planet, node)
			out.Sources = append(out.Sources, internal.Source{
				ID:    id,
				Label: planet + "/" + node,
				Type:  internal.SourceDrop,
			})

			visitStrings(subtree, isItemNameKey, func(_, value string) {
				if relicKey, ok := ParseRelicKey(value); ok {
					out.Relics.Add(relicKey, id)
				}
			})
			for _, nameKey := range collectItemNames(subtree) {
				out.Names.Add(nameKey, id)
			}
		}
	}

	return out, nil
}
