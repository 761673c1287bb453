package collect

import (
	"dropdex/internal"
	"dropdex/internal/ident"
)

// CollectResourceByAvatar consumes [{source, items: [{item, chance}]}] where
// "source" names the enemy or container avatar the resources drop from. Ids
// live in the src: namespace because they are derived from runtime entities
// rather than structured mission data.
func CollectResourceByAvatar(raw []byte) (NameSources, []internal.Source, error) {
	root, err := decodeRoot(raw, "resourceByAvatar")
	if err != nil {
		return nil, nil, err
	}
	entries, err := rootArray(root, "resourceByAvatar")
	if err != nil {
		return nil, nil, err
	}

	names := NameSources{}
	var sources []internal.Source
	for _, entry := range entries {
		avatar := stringField(entry, "source")
		if avatar == "" {
			continue
		}
		id := ident.BuildID(ident.NamespaceSrc, "avatar", avatar)
		sources = append(sources, internal.Source{ID: id, Label: avatar, Type: internal.SourceDrop})
		for _, nameKey := range collectItemNames(entry) {
			names.Add(nameKey, id)
		}
	}

	return names, sources, nil
}
