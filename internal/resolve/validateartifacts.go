package resolve

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dropdex/internal"
	"dropdex/internal/catalog"
	"dropdex/internal/validate"
)

// ValidateArtifacts re-checks previously written artifacts against the
// catalog: the integrity pass returns an aggregated error naming every
// defect, the completeness pass returns advisory defects.
func (s *Service) ValidateArtifacts(dataDir string) ([]internal.Defect, error) {
	idx, err := s.LoadIndex(dataDir)
	if err != nil {
		return nil, err
	}

	var acquisitions map[internal.CatalogID]internal.AcquisitionDef
	if err := s.readArtifact("acquisitions.json", &acquisitions); err != nil {
		return nil, err
	}
	var sources []internal.Source
	if err := s.readArtifact("sources.json", &sources); err != nil {
		return nil, err
	}
	var requirements []internal.RequirementDef
	if err := s.readArtifact("requirements.json", &requirements); err != nil {
		return nil, err
	}

	sourceIndex, err := catalog.BuildSourceIndex(sources)
	if err != nil {
		return nil, err
	}

	return validate.ValidateData(idx, sourceIndex, acquisitions, requirements)
}

func (s *Service) readArtifact(name string, v any) error {
	path := filepath.Join(s.cfg.OutputDir, name)
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("artifact %s: %w (run resolve first)", name, err)
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return fmt.Errorf("artifact %s: %w", name, err)
	}
	return nil
}
