// Package validate runs the two independent passes over finished pipeline
// output: integrity defects are fatal and surfaced as one aggregated error
// listing everything found, completeness defects are advisory and only
// reported.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dropdex/internal"
	"dropdex/internal/catalog"
)

// ValidateIntegrity collects every fatal-class defect instead of stopping at
// the first, so a single run gives complete diagnosis.
func ValidateIntegrity(
	idx *catalog.Index,
	sources *catalog.SourceIndex,
	acquisitions map[internal.CatalogID]internal.AcquisitionDef,
	requirements []internal.RequirementDef,
) []internal.Defect {
	var defects []internal.Defect
	add := func(code internal.DefectCode, subject, detail string) {
		defects = append(defects, internal.Defect{
			Class:   internal.DefectIntegrity,
			Code:    code,
			Subject: subject,
			Detail:  detail,
		})
	}

	for _, id := range sources.IDs() {
		src := sources.ByID[id]
		for _, prereq := range src.PrereqIDs {
			if !sources.Has(prereq) {
				add(internal.DanglingPrereq, string(id), fmt.Sprintf("prereq %s not in source index", prereq))
			}
		}
	}

	for id, def := range acquisitions {
		if !idx.Has(id) {
			add(internal.CountMismatch, string(id), "acquisition entry for id not in catalog")
		}
		if len(def.Sources) == 0 {
			add(internal.CountMismatch, string(id), "acquisition entry with zero sources")
			continue
		}
		for i := 1; i < len(def.Sources); i++ {
			if def.Sources[i] <= def.Sources[i-1] {
				add(internal.CountMismatch, string(id), "sources not sorted and deduplicated")
				break
			}
		}
	}

	for _, def := range requirements {
		if !idx.Has(def.Output) {
			add(internal.ReqUnknownOutput, string(def.Output), "")
		}
		if len(def.Components) == 0 {
			add(internal.CountMismatch, string(def.Output), "requirement with zero components")
		}
		for _, comp := range def.Components {
			if !idx.Has(comp.CatalogID) {
				add(internal.ReqUnknownComp, string(def.Output), fmt.Sprintf("component %s not in catalog", comp.CatalogID))
			}
			if comp.Count < 1 {
				add(internal.CountMismatch, string(def.Output), fmt.Sprintf("component %s has count %d", comp.CatalogID, comp.Count))
			}
		}
	}

	sortDefects(defects)
	return defects
}

// ValidateCompleteness reports the advisory pass: every displayable item
// should have an acquisition entry whose sources all exist in the index.
// Violations are returned, never thrown.
func ValidateCompleteness(
	idx *catalog.Index,
	sources *catalog.SourceIndex,
	acquisitions map[internal.CatalogID]internal.AcquisitionDef,
) []internal.Defect {
	var defects []internal.Defect
	add := func(code internal.DefectCode, subject, detail string) {
		defects = append(defects, internal.Defect{
			Class:   internal.DefectCompleteness,
			Code:    code,
			Subject: subject,
			Detail:  detail,
		})
	}

	for id, item := range idx.ByID {
		if !item.Displayable {
			continue
		}
		def, ok := acquisitions[id]
		if !ok {
			add(internal.AcqMissing, string(id), "")
			continue
		}
		if len(def.Sources) == 0 {
			add(internal.AcqEmpty, string(id), "")
			continue
		}
		for _, sourceID := range def.Sources {
			if !sources.Has(sourceID) {
				add(internal.AcqSourceUnknown, string(id), fmt.Sprintf("source %s not in source index", sourceID))
			}
		}
	}

	sortDefects(defects)
	return defects
}

// IntegrityError folds integrity defects into one error enumerating all of
// them, or nil when the list is empty. The pipeline must never proceed past a
// non-nil result.
func IntegrityError(defects []internal.Defect) error {
	if len(defects) == 0 {
		return nil
	}
	lines := make([]string, 0, len(defects)+1)
	lines = append(lines, fmt.Sprintf("%d integrity defects:", len(defects)))
	for _, d := range defects {
		line := fmt.Sprintf("  [%s] %s", d.Code, d.Subject)
		if d.Detail != "" {
			line += ": " + d.Detail
		}
		lines = append(lines, line)
	}
	return errors.New(strings.Join(lines, "\n"))
}

// ValidateData runs the integrity pass and returns its aggregated error,
// plus the advisory completeness defects for reporting.
func ValidateData(
	idx *catalog.Index,
	sources *catalog.SourceIndex,
	acquisitions map[internal.CatalogID]internal.AcquisitionDef,
	requirements []internal.RequirementDef,
) ([]internal.Defect, error) {
	if err := IntegrityError(ValidateIntegrity(idx, sources, acquisitions, requirements)); err != nil {
		return nil, err
	}
	return ValidateCompleteness(idx, sources, acquisitions), nil
}

func sortDefects(defects []internal.Defect) {
	sort.Slice(defects, func(i, j int) bool {
		if defects[i].Code != defects[j].Code {
			return defects[i].Code < defects[j].Code
		}
		if defects[i].Subject != defects[j].Subject {
			return defects[i].Subject < defects[j].Subject
		}
		return defects[i].Detail < defects[j].Detail
	})
}
