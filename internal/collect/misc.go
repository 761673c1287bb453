package collect

import (
	"dropdex/internal"
	"dropdex/internal/ident"
	"dropdex/internal/util"
)

// CollectMiscItems consumes [{itemName, enemies: [{enemyName, ...}]}]: one
// item with the enemies that drop it. Entries with no parsable item name or
// no named enemies contribute nothing.
func CollectMiscItems(raw []byte) (NameSources, []internal.Source, error) {
	root, err := decodeRoot(raw, "miscItems")
	if err != nil {
		return nil, nil, err
	}
	entries, err := rootArray(root, "miscItems")
	if err != nil {
		return nil, nil, err
	}

	names := NameSources{}
	var sources []internal.Source
	for _, entry := range entries {
		itemKey := util.NameKey(stringField(entry, "itemName"))
		if itemKey == "" {
			continue
		}

		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		enemies, ok := obj["enemies"].([]any)
		if !ok {
			continue
		}
		for _, enemy := range enemies {
			enemyName := stringField(enemy, "enemyName")
			if enemyName == "" {
				continue
			}
			id := ident.BuildID(ident.NamespaceSrc, "enemy", enemyName)
			sources = append(sources, internal.Source{ID: id, Label: enemyName, Type: internal.SourceDrop})
			names.Add(itemKey, id)
		}
	}

	return names, sources, nil
}
