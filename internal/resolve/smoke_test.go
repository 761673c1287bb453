package resolve

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dropdex/internal"
	"dropdex/internal/config"
	"dropdex/internal/labelmap"
	"dropdex/internal/storage"
)

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeSmokeData(t *testing.T, dataDir string) {
	t.Helper()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	writeFixture(t, dataDir, "items", `{
		"/Lotus/Types/Game/Projections/T2VoidProjection14": {"name": "Meso V14 Relic"},
		"/Lotus/Types/Items/MiscItems/TepaNodule": {"name": "Tepa Nodule"},
		"/Lotus/Weapons/VoidTrader/PrismaGorgon": {"name": "Prisma Gorgon"},
		"/Lotus/Types/Items/MiscItems/Nameless": {}
	}`)
	writeFixture(t, dataDir, "itemCatalog", `{
		"/Lotus/Types/Items/MiscItems/TepaNodule": {"name": "Tepa Nodule", "drops": [{"location": "Orb Vallis Caves"}]}
	}`)
	writeFixture(t, dataDir, "missionRewards", `{"missionRewards": {
		"Ceres": {"Bode": {"rewards": {"C": [{"itemName": "Meso V14 Relic", "chance": 11.28}]}}}
	}}`)
	writeFixture(t, dataDir, "transientRewards", `{"transientRewards": []}`)
	writeFixture(t, dataDir, "cetusBountyRewards", `{"cetusBountyRewards": []}`)
	writeFixture(t, dataDir, "solarisBountyRewards", `{"solarisBountyRewards": [
		{"bountyName": "Capture", "rewards": {"A": [{"itemName": "5X Tepa Nodule"}]}}
	]}`)
	writeFixture(t, dataDir, "deimosRewards", `{"deimosRewards": []}`)
	writeFixture(t, dataDir, "zarimanRewards", `{"zarimanRewards": []}`)
	writeFixture(t, dataDir, "resourceByAvatar", `{"resourceByAvatar": []}`)
	writeFixture(t, dataDir, "miscItems", `{"miscItems": [
		{"itemName": "Ghost Item", "enemies": [{"enemyName": "Elite Lancer"}]}
	]}`)
	writeFixture(t, dataDir, "requirements", `{}`)
}

func TestSmokeResolveRun(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	writeSmokeData(t, dataDir)

	cfg := config.Config{
		DBPath:       filepath.Join(tmp, "dropdex.db"),
		DataDir:      dataDir,
		OutputDir:    filepath.Join(tmp, "out"),
		LabelMapPath: filepath.Join(tmp, "label-map.json"),
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	svc := NewService(db, cfg)
	res, err := svc.Run(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Items != 4 {
		t.Fatalf("items=%d", res.Items)
	}

	blob, err := os.ReadFile(filepath.Join(cfg.OutputDir, "acquisitions.json"))
	if err != nil {
		t.Fatal(err)
	}
	if blob[len(blob)-1] != '\n' {
		t.Fatal("artifact missing trailing newline")
	}

	var acquisitions map[internal.CatalogID]internal.AcquisitionDef
	if err := json.Unmarshal(blob, &acquisitions); err != nil {
		t.Fatal(err)
	}

	relic := acquisitions["items:/Lotus/Types/Game/Projections/T2VoidProjection14"]
	if len(relic.Sources) != 1 || relic.Sources[0] != "data:node/ceres/bode" {
		t.Fatalf("relic sources: %v", relic.Sources)
	}

	tepa := acquisitions["items:/Lotus/Types/Items/MiscItems/TepaNodule"]
	hasBounty, hasCaves := false, false
	for _, id := range tepa.Sources {
		if id == "data:bounty/solaris/capture" {
			hasBounty = true
		}
		if id == "data:orb-vallis-caves" {
			hasCaves = true
		}
	}
	if !hasBounty || !hasCaves {
		t.Fatalf("tepa sources: %v", tepa.Sources)
	}

	baro := acquisitions["items:/Lotus/Weapons/VoidTrader/PrismaGorgon"]
	if len(baro.Sources) != 1 || baro.Sources[0] != "src:vendor/baro-kiteer" {
		t.Fatalf("path fallback: %v", baro.Sources)
	}

	// "Ghost Item" matches no catalog entry and must surface in the report.
	var rep struct {
		Stats                    map[string]int              `json:"stats"`
		UnresolvedMissingInItems []internal.UnresolvedRecord `json:"unresolvedMissingInItems"`
	}
	repBlob, err := os.ReadFile(filepath.Join(cfg.OutputDir, "unresolved-report.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(repBlob, &rep); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, rec := range rep.UnresolvedMissingInItems {
		if rec.Name == "ghost item" && rec.Reason == internal.ReasonNoCatalogMatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("ghost item not reported: %+v", rep.UnresolvedMissingInItems)
	}

	lm, err := labelmap.Load(cfg.LabelMapPath)
	if err != nil {
		t.Fatal(err)
	}
	if lm.ByLabel["Orb Vallis Caves"] != "data:orb-vallis-caves" {
		t.Fatalf("new label not persisted: %v", lm.ByLabel)
	}

	// Second run must reuse the persisted label verbatim.
	res2, err := svc.Run(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if res2.Resolved != res.Resolved {
		t.Fatalf("runs disagree: %d vs %d", res2.Resolved, res.Resolved)
	}
}

func TestRunFailsWhenUnresolvedInsertFails(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	writeSmokeData(t, dataDir)

	cfg := config.Config{
		DBPath:       filepath.Join(tmp, "dropdex.db"),
		DataDir:      dataDir,
		OutputDir:    filepath.Join(tmp, "out"),
		LabelMapPath: filepath.Join(tmp, "label-map.json"),
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Unresolved records feed export:xlsx, so a failed insert must abort the
	// run instead of being swallowed.
	if _, err := NewService(db, cfg).Run(dataDir); err == nil {
		t.Fatal("insert failure not surfaced")
	}
}
