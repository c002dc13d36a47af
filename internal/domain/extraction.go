package domain

// FieldValidationStatus tracks a single extracted field through the
// validate/correct flow.
type FieldValidationStatus string

const (
	FieldStatusPending   FieldValidationStatus = "pending"
	FieldStatusValidated FieldValidationStatus = "validated"
	FieldStatusFlagged   FieldValidationStatus = "flagged"
	FieldStatusCorrected FieldValidationStatus = "corrected"
)

// ExtractedField is one field pulled out of a document by the model.
// Identity within a single extraction run is by FieldName; the merge step
// keeps at most one field per name.
type ExtractedField struct {
	FieldName        string                `json:"field_name"`
	FieldValue       string                `json:"field_value"`
	ConfidenceScore  float64               `json:"confidence_score"`
	FieldCategory    string                `json:"field_category"`
	SourceText       string                `json:"source_text,omitempty"`
	ValidationStatus FieldValidationStatus `json:"validation_status"`
}

// ConfidenceSummary buckets extracted fields by confidence.
// High is >= 0.8, medium is [0.6, 0.8), low is < 0.6.
type ConfidenceSummary struct {
	HighConfidence    int     `json:"high_confidence"`
	MediumConfidence  int     `json:"medium_confidence"`
	LowConfidence     int     `json:"low_confidence"`
	OverallConfidence float64 `json:"overall_confidence"`
}

// ExtractionResult is the output of one extraction run.
type ExtractionResult struct {
	DocumentType      string            `json:"document_type"`
	ExtractedFields   []ExtractedField  `json:"extracted_fields"`
	ConfidenceSummary ConfidenceSummary `json:"confidence_summary"`
	ExtractionNotes   []string          `json:"extraction_notes"`
	ProcessingTimeMS  int64             `json:"processing_time_ms"`
}
