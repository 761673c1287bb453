package resolve

import (
	"testing"

	"dropdex/internal"
	"dropdex/internal/catalog"
)

func testIndex(items ...internal.CatalogItem) *catalog.Index {
	return catalog.BuildIndex(items)
}

func set(ids ...internal.SourceID) internal.SourceSet {
	s := internal.SourceSet{}
	s.Add(ids...)
	return s
}

func TestResolveUnionAcrossCollectors(t *testing.T) {
	idx := testIndex(internal.CatalogItem{
		ID: "items:/a", Path: "/a", DisplayName: "Cryotic", Displayable: true,
	})
	ctx := NewContext(idx)
	ctx.Names["cryotic"] = set("data:node/ceres/bode")
	ctx.Names.Merge(map[string]internal.SourceSet{"cryotic": set("data:transient/excavation")})

	out := ResolveAll(ctx)
	def, ok := out["items:/a"]
	if !ok {
		t.Fatal("no acquisition emitted")
	}
	want := []internal.SourceID{"data:node/ceres/bode", "data:transient/excavation"}
	if len(def.Sources) != 2 || def.Sources[0] != want[0] || def.Sources[1] != want[1] {
		t.Fatalf("sources: %v", def.Sources)
	}
}

func TestResolveRelicProjection(t *testing.T) {
	idx := testIndex(internal.CatalogItem{
		ID:          "items:/Lotus/Types/Game/Projections/T2VoidProjection14",
		Path:        "/Lotus/Types/Game/Projections/T2VoidProjection14",
		DisplayName: "Meso V14 Relic",
		Displayable: true,
	})
	ctx := NewContext(idx)
	ctx.Relics.Add("meso v14", "data:node/ceres/bode")

	out := ResolveAll(ctx)
	def := out["items:/Lotus/Types/Game/Projections/T2VoidProjection14"]
	if len(def.Sources) != 1 || def.Sources[0] != "data:node/ceres/bode" {
		t.Fatalf("sources: %v", def.Sources)
	}
}

func TestResolvePathFallbackOnlyWhenEmpty(t *testing.T) {
	baro := internal.CatalogItem{
		ID: "items:/Lotus/Weapons/VoidTrader/PrismaGorgon", Path: "/Lotus/Weapons/VoidTrader/PrismaGorgon",
		DisplayName: "Prisma Gorgon", Displayable: true,
	}
	idx := testIndex(baro)

	ctx := NewContext(idx)
	out := ResolveAll(ctx)
	if def := out[baro.ID]; len(def.Sources) != 1 || def.Sources[0] != "src:vendor/baro-kiteer" {
		t.Fatalf("fallback not applied: %v", out[baro.ID].Sources)
	}

	ctx = NewContext(idx)
	ctx.Names["prisma gorgon"] = set("data:transient/razorback-armada")
	out = ResolveAll(ctx)
	def := out[baro.ID]
	for _, id := range def.Sources {
		if id == "src:vendor/baro-kiteer" {
			t.Fatalf("fallback fired despite structured sources: %v", def.Sources)
		}
	}
}

func TestResolveManualOverridesAlwaysAppend(t *testing.T) {
	excal := internal.CatalogItem{
		ID: "items:/Lotus/Powersuits/Excalibur/Excalibur", Path: "/Lotus/Powersuits/Excalibur/Excalibur",
		DisplayName: "Excalibur", Displayable: true,
	}
	idx := testIndex(excal)
	ctx := NewContext(idx)
	ctx.Names["excalibur"] = set("data:node/mars/war")

	out := ResolveAll(ctx)
	def := out[excal.ID]
	hasDerived, hasOverride := false, false
	for _, id := range def.Sources {
		if id == "data:node/mars/war" {
			hasDerived = true
		}
		if id == "src:vendor/market" {
			hasOverride = true
		}
	}
	if !hasDerived || !hasOverride {
		t.Fatalf("override must append to the union, not replace it: %v", def.Sources)
	}
}

func TestResolveEmptySetEmitsNothing(t *testing.T) {
	idx := testIndex(internal.CatalogItem{
		ID: "items:/x", Path: "/x", DisplayName: "Unobtainium", Displayable: true,
	})
	out := ResolveAll(NewContext(idx))
	if _, ok := out["items:/x"]; ok {
		t.Fatal("empty source set must produce no entry, not an empty array")
	}
}

func TestResolveRequirementsFailClosed(t *testing.T) {
	idx := testIndex(
		internal.CatalogItem{ID: "items:/out", Path: "/out", DisplayName: "Lavos", Displayable: true},
		internal.CatalogItem{ID: "items:/comp", Path: "/comp", DisplayName: "Orokin Cell", Displayable: true},
	)
	ctx := NewContext(idx)
	ctx.Requirements = []internal.RequirementDef{
		{Output: "items:/out", Components: []internal.RequirementComponent{{CatalogID: "items:/comp", Count: 3}}},
		{Output: "items:/out", Components: []internal.RequirementComponent{
			{CatalogID: "items:/comp", Count: 1},
			{CatalogID: "items:/missing", Count: 1},
		}},
		{Output: "items:/missing-out", Components: []internal.RequirementComponent{{CatalogID: "items:/comp", Count: 1}}},
	}

	out := ResolveRequirements(ctx)
	if len(out) != 1 {
		t.Fatalf("partial recipes leaked: %+v", out)
	}
	if out[0].Components[0].Count != 3 {
		t.Fatalf("wrong survivor: %+v", out[0])
	}
}
