package storage

import (
	"path/filepath"
	"testing"

	"dropdex/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDatasetRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if body, err := db.GetDataset("missionRewards"); err != nil || body != nil {
		t.Fatalf("expected nil for never-fetched dataset, got %v %v", body, err)
	}

	if err := db.PutDataset("missionRewards", []byte(`{"a":1}`), "https://example.test/missionRewards.json"); err != nil {
		t.Fatal(err)
	}
	if err := db.PutDataset("missionRewards", []byte(`{"a":2}`), "https://example.test/missionRewards.json"); err != nil {
		t.Fatal(err)
	}

	body, err := db.GetDataset("missionRewards")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"a":2}` {
		t.Fatalf("upsert did not replace body: %s", body)
	}

	names, err := db.ListDatasets()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "missionRewards" {
		t.Fatalf("names: %v", names)
	}
}

func TestUnresolvedRoundTrip(t *testing.T) {
	db := openTestDB(t)

	records := []internal.UnresolvedRecord{
		{Name: "zz item", Section: "b", Reason: internal.ReasonNoCatalogMatch, Suggestion: "z item", SuggestionDistance: 1},
		{Name: "aa item", Section: "a", Reason: internal.ReasonMultipleMatches, SourceLabel: "Somewhere"},
	}
	if err := db.InsertUnresolved("trace-1", records); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertUnresolved("trace-2", records[:1]); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListUnresolved("trace-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("records: %+v", got)
	}
	if got[0].Name != "aa item" || got[0].SourceLabel != "Somewhere" {
		t.Fatalf("order or fields wrong: %+v", got[0])
	}
	if got[1].Suggestion != "z item" || got[1].SuggestionDistance != 1 {
		t.Fatalf("suggestion lost: %+v", got[1])
	}
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	if v, err := db.GetMetadata("missing"); err != nil || v != nil {
		t.Fatalf("expected nil for missing key, got %v %v", v, err)
	}
	if err := db.SetMetadata("datasets.last_fetch", "2026-01-01T00:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("datasets.last_fetch", "2026-02-01T00:00:00Z"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMetadata("datasets.last_fetch")
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || *v != "2026-02-01T00:00:00Z" {
		t.Fatalf("metadata: %v", v)
	}
}

func TestInsertRun(t *testing.T) {
	db := openTestDB(t)
	err := db.InsertRun("trace-1", "resolve",
		map[string]float64{"totalMs": 12.5},
		map[string]int{"items": 3, "resolved": 2})
	if err != nil {
		t.Fatal(err)
	}
}
