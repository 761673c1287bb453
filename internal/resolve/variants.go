package resolve

import (
	"os"
	"path/filepath"
	"time"

	"dropdex/internal/catalog"
	"dropdex/internal/labelmap"
	"dropdex/internal/report"
)

// LoadIndex builds the catalog index from the static reference datasets, the
// same way Run does.
func (s *Service) LoadIndex(dataDir string) (*catalog.Index, error) {
	itemsRaw, err := s.dataset(dataDir, "items")
	if err != nil {
		return nil, err
	}
	primary, err := catalog.BuildItems(itemsRaw)
	if err != nil {
		return nil, err
	}

	itemCatalogRaw, err := s.dataset(dataDir, "itemCatalog")
	if err != nil {
		return nil, err
	}
	secondary, err := catalog.BuildItems(itemCatalogRaw)
	if err != nil {
		return nil, err
	}

	return catalog.BuildIndex(catalog.MergeItems(primary, secondary)), nil
}

type VariantResult struct {
	TraceID    string `json:"traceId"`
	Rows       int    `json:"rows"`
	Resolved   int    `json:"resolved"`
	Unresolved int    `json:"unresolved"`
	NewLabels  int    `json:"newLabels"`
	OutputDir  string `json:"outputDir"`
}

// RunNames executes the name-resolution variant over an NDJSON row stream
// file and writes its own acquisition table and unresolved report.
func (s *Service) RunNames(dataDir, inputPath string) (VariantResult, error) {
	start := time.Now()
	trace := traceID()

	lm, err := labelmap.Load(s.cfg.LabelMapPath)
	if err != nil {
		return VariantResult{}, err
	}
	idx, err := s.LoadIndex(dataDir)
	if err != nil {
		return VariantResult{}, err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return VariantResult{}, err
	}
	defer f.Close()

	res, err := ResolveNameRows(f, idx, lm)
	if err != nil {
		return VariantResult{}, err
	}

	for label, id := range res.NewLabels {
		lm.MergeNewLabel(label, id)
	}

	rep := report.BuildUnresolvedReport(res.Unresolved, map[string]int{
		"rows":     res.RowCount,
		"resolved": len(res.Acquisitions),
	})

	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "name-acquisitions.json"), res.Acquisitions); err != nil {
		return VariantResult{}, err
	}
	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "name-unresolved-report.json"), rep); err != nil {
		return VariantResult{}, err
	}
	if err := lm.Save(s.cfg.LabelMapPath); err != nil {
		return VariantResult{}, err
	}

	if err := s.db.InsertUnresolved(trace, res.Unresolved); err != nil {
		return VariantResult{}, err
	}
	_ = s.db.InsertRun(trace, "resolve:names",
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"rows": res.RowCount, "resolved": len(res.Acquisitions), "unresolved": len(res.Unresolved)})

	return VariantResult{
		TraceID:    trace,
		Rows:       res.RowCount,
		Resolved:   len(res.Acquisitions),
		Unresolved: len(res.Unresolved),
		NewLabels:  len(res.NewLabels),
		OutputDir:  s.cfg.OutputDir,
	}, nil
}

// RunSourcesTable executes the flat sources-table variant. When inputPath is
// empty the cached "sourcesTable" dataset is used.
func (s *Service) RunSourcesTable(dataDir, inputPath string) (VariantResult, error) {
	start := time.Now()
	trace := traceID()

	lm, err := labelmap.Load(s.cfg.LabelMapPath)
	if err != nil {
		return VariantResult{}, err
	}
	idx, err := s.LoadIndex(dataDir)
	if err != nil {
		return VariantResult{}, err
	}

	var raw []byte
	if inputPath != "" {
		raw, err = os.ReadFile(inputPath)
	} else {
		raw, err = s.dataset(dataDir, "sourcesTable")
	}
	if err != nil {
		return VariantResult{}, err
	}

	res, err := ResolveSourcesTable(raw, idx, lm)
	if err != nil {
		return VariantResult{}, err
	}

	for label, id := range res.NewLabels {
		lm.MergeNewLabel(label, id)
	}

	rep := report.BuildUnresolvedReport(res.Unresolved, map[string]int{
		"resolved": len(res.Acquisitions),
	})

	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "sources-table-acquisitions.json"), res.Acquisitions); err != nil {
		return VariantResult{}, err
	}
	if err := report.WriteJSON(filepath.Join(s.cfg.OutputDir, "sources-table-unresolved-report.json"), rep); err != nil {
		return VariantResult{}, err
	}
	if err := lm.Save(s.cfg.LabelMapPath); err != nil {
		return VariantResult{}, err
	}

	if err := s.db.InsertUnresolved(trace, res.Unresolved); err != nil {
		return VariantResult{}, err
	}
	_ = s.db.InsertRun(trace, "resolve:sources-table",
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"resolved": len(res.Acquisitions), "unresolved": len(res.Unresolved)})

	return VariantResult{
		TraceID:    trace,
		Resolved:   len(res.Acquisitions),
		Unresolved: len(res.Unresolved),
		NewLabels:  len(res.NewLabels),
		OutputDir:  s.cfg.OutputDir,
	}, nil
}
