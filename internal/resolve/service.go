package resolve

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dropdex/internal"
	"dropdex/internal/catalog"
	"dropdex/internal/collect"
	"dropdex/internal/config"
	"dropdex/internal/labelmap"
	"dropdex/internal/report"
	"dropdex/internal/storage"
	"dropdex/internal/validate"
)

// Service runs the whole resolution pipeline: catalog index, collectors,
// merge, validation, artifacts. One run is a single-threaded deterministic
// batch over in-memory data; any fatal parse or I/O error aborts it.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

type RunResult struct {
	TraceID             string `json:"traceId"`
	Items               int    `json:"items"`
	Resolved            int    `json:"resolved"`
	Sources             int    `json:"sources"`
	Requirements        int    `json:"requirements"`
	Unresolved          int    `json:"unresolved"`
	CompletenessDefects int    `json:"completenessDefects"`
	OutputDir           string `json:"outputDir"`
}

// Run executes the full pipeline. Raw dataset bodies come from dataDir when
// a file is present there, otherwise from the sqlite cache; a dataset found
// in neither place is a fatal error, not a silent skip.
func (s *Service) Run(dataDir string) (RunResult, error) {
	start := time.Now()
	trace := traceID()

	lm, err := labelmap.Load(s.cfg.LabelMapPath)
	if err != nil {
		return RunResult{}, err
	}

	itemsRaw, err := s.dataset(dataDir, "items")
	if err != nil {
		return RunResult{}, err
	}
	primary, err := catalog.BuildItems(itemsRaw)
	if err != nil {
		return RunResult{}, err
	}

	itemCatalogRaw, err := s.dataset(dataDir, "itemCatalog")
	if err != nil {
		return RunResult{}, err
	}
	secondary, err := catalog.BuildItems(itemCatalogRaw)
	if err != nil {
		return RunResult{}, err
	}

	idx := catalog.BuildIndex(catalog.MergeItems(primary, secondary))
	ctx := NewContext(idx)
	var allSources []internal.Source

	missionsRaw, err := s.dataset(dataDir, "missionRewards")
	if err != nil {
		return RunResult{}, err
	}
	missions, err := collect.CollectMissionRewards(missionsRaw)
	if err != nil {
		return RunResult{}, err
	}
	ctx.Names.Merge(missions.Names)
	for key, set := range missions.Relics {
		existing, ok := ctx.Relics[key]
		if !ok {
			existing = internal.SourceSet{}
			ctx.Relics[key] = existing
		}
		existing.Union(set)
	}
	allSources = append(allSources, missions.Sources...)

	transientRaw, err := s.dataset(dataDir, "transientRewards")
	if err != nil {
		return RunResult{}, err
	}
	transientNames, transientSources, err := collect.CollectTransientRewards(transientRaw)
	if err != nil {
		return RunResult{}, err
	}
	ctx.Names.Merge(transientNames)
	allSources = append(allSources, transientSources...)

	for _, family := range []string{"cetus", "solaris", "deimos", "zariman"} {
		datasetName, _ := collect.BountyDataset(family)
		raw, err := s.dataset(dataDir, datasetName)
		if err != nil {
			return RunResult{}, err
		}
		names, sources, err := collect.CollectBountyRewards(raw, family)
		if err != nil {
			return RunResult{}, err
		}
		ctx.Names.Merge(names)
		allSources = append(allSources, sources...)
	}

	resourcesRaw, err := s.dataset(dataDir, "resourceByAvatar")
	if err != nil {
		return RunResult{}, err
	}
	resourceNames, resourceSources, err := collect.CollectResourceByAvatar(resourcesRaw)
	if err != nil {
		return RunResult{}, err
	}
	ctx.Names.Merge(resourceNames)
	allSources = append(allSources, resourceSources...)

	miscRaw, err := s.dataset(dataDir, "miscItems")
	if err != nil {
		return RunResult{}, err
	}
	miscNames, miscSources, err := collect.CollectMiscItems(miscRaw)
	if err != nil {
		return RunResult{}, err
	}
	ctx.Names.Merge(miscNames)
	allSources = append(allSources, miscSources...)

	itemDrops, err := collect.CollectItemCatalog(itemCatalogRaw, lm)
	if err != nil {
		return RunResult{}, err
	}
	for id, set := range itemDrops.ByID {
		ctx.AddDirect(id, set)
	}
	allSources = append(allSources, itemDrops.Sources...)
	for label, id := range itemDrops.NewLabels {
		lm.MergeNewLabel(label, id)
	}

	requirementsRaw, err := s.dataset(dataDir, "requirements")
	if err != nil {
		return RunResult{}, err
	}
	ctx.Requirements, err = collect.CollectRequirements(requirementsRaw)
	if err != nil {
		return RunResult{}, err
	}

	allSources = append(allSources, RuleSources()...)
	sourceIndex, err := catalog.BuildSourceIndex(allSources)
	if err != nil {
		return RunResult{}, err
	}

	acquisitions := ResolveAll(ctx)
	requirements := ResolveRequirements(ctx)

	completeness, err := validate.ValidateData(idx, sourceIndex, acquisitions, requirements)
	if err != nil {
		return RunResult{}, err
	}

	unresolved := unmatchedCollectorNames(ctx)

	sourceRecords := make([]internal.Source, 0, len(sourceIndex.ByID))
	for _, id := range sourceIndex.IDs() {
		sourceRecords = append(sourceRecords, sourceIndex.ByID[id])
	}

	rep := report.BuildUnresolvedReport(unresolved, map[string]int{
		"items":        len(idx.ByID),
		"resolved":     len(acquisitions),
		"sources":      len(sourceIndex.ByID),
		"requirements": len(requirements),
	})

	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "acquisitions.json"), acquisitions); err != nil {
		return RunResult{}, err
	}
	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "requirements.json"), requirements); err != nil {
		return RunResult{}, err
	}
	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "sources.json"), sourceRecords); err != nil {
		return RunResult{}, err
	}
	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "unresolved-report.json"), rep); err != nil {
		return RunResult{}, err
	}
	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "completeness-defects.json"), completeness); err != nil {
		return RunResult{}, err
	}
	if err := lm.Save(s.cfg.LabelMapPath); err != nil {
		return RunResult{}, err
	}

	if err := s.db.InsertUnresolved(trace, unresolved); err != nil {
		return RunResult{}, err
	}
	_ = s.db.InsertRun(trace, "resolve",
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{
			"items":        len(idx.ByID),
			"resolved":     len(acquisitions),
			"sources":      len(sourceIndex.ByID),
			"requirements": len(requirements),
			"unresolved":   len(unresolved),
			"completeness": len(completeness),
		})

	return RunResult{
		TraceID:             trace,
		Items:               len(idx.ByID),
		Resolved:            len(acquisitions),
		Sources:             len(sourceIndex.ByID),
		Requirements:        len(requirements),
		Unresolved:          len(unresolved),
		CompletenessDefects: len(completeness),
		OutputDir:           s.cfg.OutputDir,
	}, nil
}

// unmatchedCollectorNames records every normalized name the collectors found
// that joins no displayable catalog entry. These are expected steady-state
// outcomes, kept for triage, never guessed at.
func unmatchedCollectorNames(ctx *Context) []internal.UnresolvedRecord {
	var out []internal.UnresolvedRecord
	for nameKey := range ctx.Names {
		if len(ctx.Catalog.DisplayableIDsForName(nameKey)) > 0 {
			continue
		}
		if _, isRelic := collect.ParseRelicKey(nameKey); isRelic {
			continue
		}
		out = append(out, internal.UnresolvedRecord{
			Name:   nameKey,
			Reason: internal.ReasonNoCatalogMatch,
		})
	}
	sortUnresolved(out)
	return out
}

func (s *Service) dataset(dataDir, name string) ([]byte, error) {
	if dataDir != "" {
		path := filepath.Join(dataDir, name+".json")
		blob, err := os.ReadFile(path)
		if err == nil {
			return blob, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	blob, err := s.db.GetDataset(name)
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, fmt.Errorf("dataset %s: not in %s and never fetched (run data:fetch)", name, dataDir)
	}
	return blob, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
