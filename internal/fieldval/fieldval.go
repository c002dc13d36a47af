// Package fieldval checks extracted field values against per-field format
// rules and derives validation statuses. It never mutates its input and
// never fails: bad values surface as lowered confidence and flagged
// statuses, not as errors.
package fieldval

import (
	"fmt"
	"strings"

	"visaprep/internal/domain"
)

// Assessment is the aggregate quality tier for one extraction run.
type Assessment string

const (
	AssessmentPoor      Assessment = "Poor"
	AssessmentFair      Assessment = "Fair"
	AssessmentGood      Assessment = "Good"
	AssessmentExcellent Assessment = "Excellent"
)

// Result is the validation outcome for a single field.
type Result struct {
	FieldName        string                       `json:"field_name"`
	IsValid          bool                         `json:"is_valid"`
	ConfidenceScore  float64                      `json:"confidence_score"`
	ValidationStatus domain.FieldValidationStatus `json:"validation_status"`
	Issues           []string                     `json:"issues"`
	Suggestions      []string                     `json:"suggestions"`
}

// Summary aggregates per-field results for one extraction run.
type Summary struct {
	Results           []Result   `json:"validation_results"`
	OverallAssessment Assessment `json:"overall_assessment"`
	MissingFields     []string   `json:"missing_fields"`
	Recommendations   []string   `json:"recommendations"`
}

// ValidateField checks one extracted field. Format failures cap the
// confidence at 0.3; the confidence is never raised.
func ValidateField(f domain.ExtractedField) Result {
	value := strings.TrimSpace(f.FieldValue)
	conf := clamp01(f.ConfidenceScore)
	valid := true
	var issues, suggestions []string

	switch {
	case value == "":
		valid = false
		conf = 0
		issues = append(issues, "Field value is empty")
		suggestions = append(suggestions, "Remove the field or extract a value from the document")
	default:
		if len([]rune(value)) == 1 {
			conf = capAt(conf, 0.2)
		}
		if r, ok := rules[f.FieldName]; ok && !r.check(value) {
			valid = false
			conf = capAt(conf, 0.3)
			issues = append(issues, r.issue)
			suggestions = append(suggestions, r.suggestion)
		}
	}

	return Result{
		FieldName:        f.FieldName,
		IsValid:          valid,
		ConfidenceScore:  conf,
		ValidationStatus: statusFor(valid, conf),
		Issues:           issues,
		Suggestions:      suggestions,
	}
}

// ValidateExtraction runs ValidateField over every field and buckets the
// run into an overall assessment by valid fraction. An empty field list
// counts as the top tier, not as Poor.
func ValidateExtraction(fields []domain.ExtractedField) Summary {
	results := make([]Result, 0, len(fields))
	var validCount int
	var missing []string

	for _, f := range fields {
		r := ValidateField(f)
		results = append(results, r)
		if r.IsValid {
			validCount++
		}
		if r.ValidationStatus == domain.FieldStatusFlagged {
			missing = append(missing, r.FieldName)
		}
	}

	assessment := AssessmentExcellent
	if len(fields) > 0 {
		switch fraction := float64(validCount) / float64(len(fields)); {
		case fraction < 0.5:
			assessment = AssessmentPoor
		case fraction < 0.8:
			assessment = AssessmentFair
		case fraction < 0.95:
			assessment = AssessmentGood
		}
	}

	var recs []string
	if len(missing) > 0 {
		recs = append(recs, fmt.Sprintf("Re-check %d flagged field(s) against the source document", len(missing)))
	}
	if assessment == AssessmentPoor {
		recs = append(recs, "Extraction quality is poor; consider re-uploading a clearer scan")
	}

	return Summary{
		Results:           results,
		OverallAssessment: assessment,
		MissingFields:     missing,
		Recommendations:   recs,
	}
}

func statusFor(valid bool, conf float64) domain.FieldValidationStatus {
	switch {
	case !valid && conf < 0.3:
		return domain.FieldStatusFlagged
	case !valid:
		return domain.FieldStatusPending
	case conf < 0.7:
		return domain.FieldStatusPending
	default:
		return domain.FieldStatusValidated
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
