package internal

// CatalogID identifies an item in the static reference catalog,
// e.g. "items:/Lotus/Weapons/Tenno/Melee/Swords/Skana".
type CatalogID string

// SourceID identifies a place, activity or vendor that can yield an item.
// Two namespaces exist: "data:" for ids derived from structured datasets and
// "src:" for ids derived at runtime from enemy or vendor names.
type SourceID string

type SourceType string

const (
	SourceDrop     SourceType = "drop"
	SourceCrafting SourceType = "crafting"
	SourceVendor   SourceType = "vendor"
	SourceOther    SourceType = "other"
)

type CatalogItem struct {
	ID          CatalogID
	Path        string
	DisplayName string
	Categories  []string
	// Displayable is true only when a real name distinct from the raw
	// dataset path was found for this item.
	Displayable bool
}

type Source struct {
	ID        SourceID   `json:"id"`
	Label     string     `json:"label"`
	Type      SourceType `json:"type"`
	PrereqIDs []SourceID `json:"prereqIds,omitempty"`
}

// AcquisitionDef lists every known source for one catalog item. Sources are
// deduplicated and lexicographically sorted so generated artifacts diff
// cleanly between runs.
type AcquisitionDef struct {
	Sources []SourceID `json:"sources"`
}

type UnresolvedReason string

const (
	ReasonNoCatalogMatch   UnresolvedReason = "no-catalog-match"
	ReasonMultipleMatches  UnresolvedReason = "multiple-catalog-matches"
	ReasonNoSourcesParsed  UnresolvedReason = "no-sources-parsed"
	ReasonKeyNotInIndex    UnresolvedReason = "key-not-in-index"
	ReasonIndexNoSources   UnresolvedReason = "index-has-no-sources"
)

// UnresolvedRecord captures one input the pipeline could not place. Records
// are never discarded: every unmatched name yields exactly one record for
// manual triage. Suggestion is advisory only and never feeds back into
// resolution.
type UnresolvedRecord struct {
	Name               string           `json:"name"`
	SourceLabel        string           `json:"sourceLabel,omitempty"`
	Section            string           `json:"section,omitempty"`
	Reason             UnresolvedReason `json:"reasonCode"`
	Suggestion         string           `json:"suggestion,omitempty"`
	SuggestionDistance int              `json:"suggestionDistance,omitempty"`
}

type RequirementComponent struct {
	CatalogID CatalogID `json:"catalogId"`
	Count     int       `json:"count"`
}

// RequirementDef is a crafting recipe. Entries are fail-closed: if the output
// id or any component id is unknown, the whole entry is dropped.
type RequirementDef struct {
	Output     CatalogID              `json:"outputCatalogId"`
	Components []RequirementComponent `json:"components"`
}

type DefectClass string

const (
	DefectIntegrity    DefectClass = "integrity"
	DefectCompleteness DefectClass = "completeness"
)

type DefectCode string

const (
	DupSourceID      DefectCode = "DUP_SOURCE_ID"
	DanglingPrereq   DefectCode = "DANGLING_PREREQ"
	CountMismatch    DefectCode = "COUNT_MISMATCH"
	ReqUnknownOutput DefectCode = "REQ_UNKNOWN_OUTPUT"
	ReqUnknownComp   DefectCode = "REQ_UNKNOWN_COMPONENT"
	AcqMissing       DefectCode = "ACQ_MISSING"
	AcqEmpty         DefectCode = "ACQ_EMPTY"
	AcqSourceUnknown DefectCode = "ACQ_SOURCE_UNKNOWN"
)

type Defect struct {
	Class   DefectClass `json:"class"`
	Code    DefectCode  `json:"code"`
	Subject string      `json:"subject"`
	Detail  string      `json:"detail,omitempty"`
}

// SourceSet is the accumulation type every collector and resolver stage
// contributes into.
type SourceSet map[SourceID]struct{}

func (s SourceSet) Add(ids ...SourceID) {
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
}

func (s SourceSet) Union(other SourceSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

func StringPtr(v string) *string { return &v }

func IntPtr(v int) *int { return &v }
