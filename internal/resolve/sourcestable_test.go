package resolve

import (
	"testing"

	"dropdex/internal"
	"dropdex/internal/labelmap"
)

func TestResolveSourcesTable(t *testing.T) {
	idx := testIndex(
		internal.CatalogItem{ID: "items:/Lotus/Weapons/Karak", Path: "/Lotus/Weapons/Karak", DisplayName: "Karak", Displayable: true},
		internal.CatalogItem{ID: "items:/Lotus/Weapons/Karak2", Path: "/Lotus/Weapons/Karak2", DisplayName: "Karak Wraith", Displayable: true},
	)
	lm := labelmap.New()
	lm.MergeNewLabel("Cetus Bounty", "data:bounty/cetus")

	raw := []byte(`{
		"/Lotus/Weapons/Karak": [{"source": "Cetus Bounty"}, {"source": "  Sortie Reward  "}],
		"/Lotus/Unknown/Path": [{"source": "Cetus Bounty"}],
		"/Lotus/Weapons/Karak2": [{"source": "   "}]
	}`)

	res, err := ResolveSourcesTable(raw, idx, lm)
	if err != nil {
		t.Fatal(err)
	}

	def, ok := res.Acquisitions["items:/Lotus/Weapons/Karak"]
	if !ok {
		t.Fatalf("acquisitions: %+v", res.Acquisitions)
	}
	if len(def.Sources) != 2 || def.Sources[0] != "data:bounty/cetus" || def.Sources[1] != "data:sortie-reward" {
		t.Fatalf("sources: %v", def.Sources)
	}
	if res.NewLabels["Sortie Reward"] != "data:sortie-reward" {
		t.Fatalf("label not trimmed before bookkeeping: %v", res.NewLabels)
	}
	if _, ok := res.NewLabels["  Sortie Reward  "]; ok {
		t.Fatalf("untrimmed label recorded: %v", res.NewLabels)
	}
	for _, src := range res.Sources {
		if src.ID == "data:sortie-reward" && src.Label != "Sortie Reward" {
			t.Fatalf("registered label not trimmed: %+v", src)
		}
	}

	reasons := map[string]internal.UnresolvedReason{}
	for _, rec := range res.Unresolved {
		reasons[rec.Name] = rec.Reason
	}
	if reasons["/Lotus/Unknown/Path"] != internal.ReasonKeyNotInIndex {
		t.Fatalf("unresolved: %+v", res.Unresolved)
	}
	if reasons["/Lotus/Weapons/Karak2"] != internal.ReasonIndexNoSources {
		t.Fatalf("unresolved: %+v", res.Unresolved)
	}
}

func TestResolveSourcesTableWrongShape(t *testing.T) {
	if _, err := ResolveSourcesTable([]byte(`[]`), testIndex(), labelmap.New()); err == nil {
		t.Fatal("expected parse error")
	}
}
