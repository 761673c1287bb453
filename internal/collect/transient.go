package collect

import (
	"dropdex/internal"
	"dropdex/internal/ident"
)

// CollectTransientRewards consumes the objective-keyed dataset:
// [{objectiveName, rewards: [...]}]. Entries without an objective name carry
// no usable structural context and are skipped.
func CollectTransientRewards(raw []byte) (NameSources, []internal.Source, error) {
	root, err := decodeRoot(raw, "transientRewards")
	if err != nil {
		return nil, nil, err
	}
	entries, err := rootArray(root, "transientRewards")
	if err != nil {
		return nil, nil, err
	}

	names := NameSources{}
	var sources []internal.Source
	for _, entry := range entries {
		objective := stringField(entry, "objectiveName")
		if objective == "" {
			continue
		}
		id := ident.BuildID(ident.NamespaceData, "transient", objective)
		sources = append(sources, internal.Source{ID: id, Label: objective, Type: internal.SourceDrop})
		for _, nameKey := range collectItemNames(entry) {
			names.Add(nameKey, id)
		}
	}

	return names, sources, nil
}
