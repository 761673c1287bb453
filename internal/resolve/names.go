package resolve

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"dropdex/internal"
	"dropdex/internal/catalog"
	"dropdex/internal/labelmap"
	"dropdex/internal/util"
)

// Row is one record of the NDJSON drop-row stream produced by the wiki
// scraper.
type Row struct {
	Section struct {
		File   string `json:"file"`
		H3Text string `json:"h3Text"`
		H3ID   string `json:"h3Id"`
	} `json:"section"`
	Columns  []string          `json:"columns"`
	Values   []string          `json:"values"`
	ByColumn map[string]string `json:"byColumn"`
}

type NameResolution struct {
	Acquisitions map[internal.CatalogID]internal.AcquisitionDef
	Unresolved   []internal.UnresolvedRecord
	NewLabels    map[string]internal.SourceID
	RowCount     int
}

var (
	nameColumnProbes   = []string{"item", "name", "itemname", "reward", "mod"}
	sourceColumnProbes = []string{"source", "location", "drop location", "dropped by"}
)

// ResolveNameRows runs the exact-single-match name resolution over an NDJSON
// row stream. Lines are parsed strictly in arrival order. A candidate name
// resolves only when exactly one displayable catalog entry matches; zero or
// multiple matches produce an unresolved record and no output entry.
func ResolveNameRows(r io.Reader, idx *catalog.Index, lm *labelmap.Map) (NameResolution, error) {
	res := NameResolution{
		Acquisitions: map[internal.CatalogID]internal.AcquisitionDef{},
		NewLabels:    map[string]internal.SourceID{},
	}
	sets := map[internal.CatalogID]internal.SourceSet{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return NameResolution{}, fmt.Errorf("row stream line %d: %w", lineNo, err)
		}
		res.RowCount++

		name := probeColumn(row, nameColumnProbes)
		if name == "" {
			continue
		}
		sourceLabel := probeColumn(row, sourceColumnProbes)
		if sourceLabel == "" {
			sourceLabel = strings.TrimSpace(row.Section.H3Text)
		}
		section := strings.TrimSpace(row.Section.H3Text)

		if sourceLabel == "" {
			res.Unresolved = append(res.Unresolved, internal.UnresolvedRecord{
				Name:    name,
				Section: section,
				Reason:  internal.ReasonNoSourcesParsed,
			})
			continue
		}

		nameKey := util.NameKey(name)
		ids := idx.DisplayableIDsForName(nameKey)
		switch len(ids) {
		case 0:
			rec := internal.UnresolvedRecord{
				Name:        name,
				SourceLabel: sourceLabel,
				Section:     section,
				Reason:      internal.ReasonNoCatalogMatch,
			}
			if suggestion, dist, ok := nearestName(nameKey, idx); ok {
				rec.Suggestion = suggestion
				rec.SuggestionDistance = dist
			}
			res.Unresolved = append(res.Unresolved, rec)
		case 1:
			sourceID := lm.ResolveLabelID(sourceLabel)
			if _, known := lm.ByLabel[sourceLabel]; !known {
				res.NewLabels[sourceLabel] = sourceID
			}
			set, ok := sets[ids[0]]
			if !ok {
				set = internal.SourceSet{}
				sets[ids[0]] = set
			}
			set.Add(sourceID)
		default:
			res.Unresolved = append(res.Unresolved, internal.UnresolvedRecord{
				Name:        name,
				SourceLabel: sourceLabel,
				Section:     section,
				Reason:      internal.ReasonMultipleMatches,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return NameResolution{}, err
	}

	for id, set := range sets {
		res.Acquisitions[id] = internal.AcquisitionDef{Sources: sortedIDs(set)}
	}
	sortUnresolved(res.Unresolved)
	return res, nil
}

func probeColumn(row Row, probes []string) string {
	keys := make([]string, 0, len(row.ByColumn))
	for key := range row.ByColumn {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, probe := range probes {
		for _, key := range keys {
			lower := strings.ToLower(strings.TrimSpace(key))
			if strings.Contains(lower, probe) && strings.TrimSpace(row.ByColumn[key]) != "" {
				return strings.TrimSpace(row.ByColumn[key])
			}
		}
		for i, col := range row.Columns {
			if i >= len(row.Values) {
				break
			}
			lower := strings.ToLower(strings.TrimSpace(col))
			if strings.Contains(lower, probe) && strings.TrimSpace(row.Values[i]) != "" {
				return strings.TrimSpace(row.Values[i])
			}
		}
	}
	return ""
}

// nearestName finds the closest displayable catalog name by edit distance.
// Triage aid only: suggestions are recorded on the unresolved report and
// never used to resolve.
func nearestName(nameKey string, idx *catalog.Index) (string, int, bool) {
	best := ""
	bestDist := -1
	for candidate := range idx.NameToIDs {
		if len(idx.DisplayableIDsForName(candidate)) == 0 {
			continue
		}
		dist := levenshtein.ComputeDistance(nameKey, candidate)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && candidate < best) {
			best = candidate
			bestDist = dist
		}
	}
	limit := len(nameKey) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return "", 0, false
	}
	return best, bestDist, true
}

func sortUnresolved(records []internal.UnresolvedRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Section < records[j].Section
	})
}
