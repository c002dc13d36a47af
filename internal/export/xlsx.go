package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"visaprep/internal/domain"
)

const sheetName = "Extracted Fields"

// WriteXLSX renders an extraction result as an XLSX workbook: one row per
// field plus a confidence summary block underneath.
func WriteXLSX(result *domain.ExtractionResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("export.WriteXLSX: creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, fmt.Errorf("export.WriteXLSX: writing header: %w", err)
		}
	}

	for i := range result.ExtractedFields {
		row := fieldToRow(&result.ExtractedFields[i])
		for col, val := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("export.WriteXLSX: writing row %d: %w", i+1, err)
			}
		}
	}

	// Summary block two rows below the field table
	base := len(result.ExtractedFields) + 3
	summary := [][2]interface{}{
		{"Document Type", result.DocumentType},
		{"High Confidence Fields", result.ConfidenceSummary.HighConfidence},
		{"Medium Confidence Fields", result.ConfidenceSummary.MediumConfidence},
		{"Low Confidence Fields", result.ConfidenceSummary.LowConfidence},
		{"Overall Confidence", result.ConfidenceSummary.OverallConfidence},
	}
	for i, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, base+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, base+i)
		if err := f.SetCellValue(sheetName, labelCell, pair[0]); err != nil {
			return nil, fmt.Errorf("export.WriteXLSX: writing summary: %w", err)
		}
		if err := f.SetCellValue(sheetName, valueCell, pair[1]); err != nil {
			return nil, fmt.Errorf("export.WriteXLSX: writing summary: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export.WriteXLSX: serializing workbook: %w", err)
	}
	return buf, nil
}
