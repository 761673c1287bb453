package validate

import (
	"strings"
	"testing"

	"dropdex/internal"
	"dropdex/internal/catalog"
)

func fixtureIndexes(t *testing.T) (*catalog.Index, *catalog.SourceIndex) {
	t.Helper()
	idx := catalog.BuildIndex([]internal.CatalogItem{
		{ID: "items:/Lotus/Weapons/Skana", Path: "/Lotus/Weapons/Skana", DisplayName: "Skana", Displayable: true},
		{ID: "items:/Lotus/Weapons/Braton", Path: "/Lotus/Weapons/Braton", DisplayName: "Braton", Displayable: true},
		{ID: "items:/Lotus/Types/Hidden", Path: "/Lotus/Types/Hidden", DisplayName: "/Lotus/Types/Hidden"},
	})
	sources, err := catalog.BuildSourceIndex([]internal.Source{
		{ID: "data:market", Label: "Market", Type: internal.SourceVendor},
		{ID: "data:node/ceres/bode", Label: "Ceres/Bode", Type: internal.SourceDrop},
	})
	if err != nil {
		t.Fatal(err)
	}
	return idx, sources
}

func TestValidateIntegrityClean(t *testing.T) {
	idx, sources := fixtureIndexes(t)
	acquisitions := map[internal.CatalogID]internal.AcquisitionDef{
		"items:/Lotus/Weapons/Skana":  {Sources: []internal.SourceID{"data:market", "data:node/ceres/bode"}},
		"items:/Lotus/Weapons/Braton": {Sources: []internal.SourceID{"data:market"}},
	}
	requirements := []internal.RequirementDef{
		{Output: "items:/Lotus/Weapons/Skana", Components: []internal.RequirementComponent{
			{CatalogID: "items:/Lotus/Weapons/Braton", Count: 2},
		}},
	}
	if defects := ValidateIntegrity(idx, sources, acquisitions, requirements); len(defects) != 0 {
		t.Fatalf("unexpected defects: %+v", defects)
	}
}

func TestValidateIntegrityAggregatesEverything(t *testing.T) {
	idx, _ := fixtureIndexes(t)
	sources, err := catalog.BuildSourceIndex([]internal.Source{
		{ID: "data:market", Label: "Market", Type: internal.SourceVendor},
		{ID: "data:gated", Label: "Gated", Type: internal.SourceDrop,
			PrereqIDs: []internal.SourceID{"data:missing-prereq"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	acquisitions := map[internal.CatalogID]internal.AcquisitionDef{
		"items:/Lotus/Weapons/Phantom": {Sources: []internal.SourceID{"data:market"}},
		"items:/Lotus/Weapons/Skana":   {Sources: []internal.SourceID{"data:market", "data:gated", "data:gated"}},
		"items:/Lotus/Weapons/Braton":  {Sources: nil},
	}
	requirements := []internal.RequirementDef{
		{Output: "items:/Lotus/Weapons/Nowhere", Components: []internal.RequirementComponent{
			{CatalogID: "items:/Lotus/Weapons/AlsoNowhere", Count: 0},
		}},
		{Output: "items:/Lotus/Weapons/Skana"},
	}

	defects := ValidateIntegrity(idx, sources, acquisitions, requirements)
	want := map[internal.DefectCode]int{
		internal.DanglingPrereq:   1,
		internal.CountMismatch:    5,
		internal.ReqUnknownOutput: 1,
		internal.ReqUnknownComp:   1,
	}
	got := map[internal.DefectCode]int{}
	for _, d := range defects {
		got[d.Code]++
	}
	for code, n := range want {
		if got[code] != n {
			t.Errorf("%s: got %d want %d (%+v)", code, got[code], n, defects)
		}
	}
	if len(defects) != 8 {
		t.Fatalf("total defects: got %d want 8", len(defects))
	}

	err = IntegrityError(defects)
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if !strings.HasPrefix(err.Error(), "8 integrity defects:") {
		t.Fatalf("error header: %q", err.Error())
	}
	for _, d := range defects {
		if !strings.Contains(err.Error(), d.Subject) {
			t.Fatalf("error missing subject %s", d.Subject)
		}
	}
}

func TestValidateIntegrityUnsortedSources(t *testing.T) {
	idx, sources := fixtureIndexes(t)
	acquisitions := map[internal.CatalogID]internal.AcquisitionDef{
		"items:/Lotus/Weapons/Skana": {Sources: []internal.SourceID{"data:node/ceres/bode", "data:market"}},
	}
	defects := ValidateIntegrity(idx, sources, acquisitions, nil)
	if len(defects) != 1 || defects[0].Code != internal.CountMismatch {
		t.Fatalf("defects: %+v", defects)
	}
}

func TestValidateCompleteness(t *testing.T) {
	idx, sources := fixtureIndexes(t)
	acquisitions := map[internal.CatalogID]internal.AcquisitionDef{
		"items:/Lotus/Weapons/Skana": {Sources: []internal.SourceID{"data:market", "src:vendor/nobody"}},
	}

	defects := ValidateCompleteness(idx, sources, acquisitions)
	if len(defects) != 2 {
		t.Fatalf("defects: %+v", defects)
	}
	// Sorted by code: ACQ_MISSING before ACQ_SOURCE_UNKNOWN.
	if defects[0].Code != internal.AcqMissing || defects[0].Subject != "items:/Lotus/Weapons/Braton" {
		t.Fatalf("first defect: %+v", defects[0])
	}
	if defects[1].Code != internal.AcqSourceUnknown || defects[1].Subject != "items:/Lotus/Weapons/Skana" {
		t.Fatalf("second defect: %+v", defects[1])
	}
	for _, d := range defects {
		if d.Class != internal.DefectCompleteness {
			t.Fatalf("class: %+v", d)
		}
	}
}

func TestValidateCompletenessSkipsNonDisplayable(t *testing.T) {
	idx, sources := fixtureIndexes(t)
	acquisitions := map[internal.CatalogID]internal.AcquisitionDef{
		"items:/Lotus/Weapons/Skana":  {Sources: []internal.SourceID{"data:market"}},
		"items:/Lotus/Weapons/Braton": {Sources: []internal.SourceID{"data:market"}},
	}
	if defects := ValidateCompleteness(idx, sources, acquisitions); len(defects) != 0 {
		t.Fatalf("non-displayable item flagged: %+v", defects)
	}
}

func TestIntegrityErrorNilOnClean(t *testing.T) {
	if err := IntegrityError(nil); err != nil {
		t.Fatal(err)
	}
}

func TestValidateDataStopsOnIntegrity(t *testing.T) {
	idx, sources := fixtureIndexes(t)
	acquisitions := map[internal.CatalogID]internal.AcquisitionDef{
		"items:/Lotus/Weapons/Skana": {Sources: nil},
	}
	if _, err := ValidateData(idx, sources, acquisitions, nil); err == nil {
		t.Fatal("expected integrity error")
	}
}
