package report

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"dropdex/internal"
)

// ExportUnresolvedXLSX writes the unresolved records as a triage sheet.
func ExportUnresolvedXLSX(records []internal.UnresolvedRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"name", "source_label", "section", "reason", "suggestion", "suggestion_distance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range records {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, rec.Name)
		set(2, rec.SourceLabel)
		set(3, rec.Section)
		set(4, string(rec.Reason))
		set(5, rec.Suggestion)
		if rec.Suggestion != "" {
			set(6, rec.SuggestionDistance)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
