package agent

import (
	"fmt"
	"strings"

	"visaprep/internal/catalog"
	"visaprep/internal/domain"
)

// PromptMode selects the expected output shape of an extraction prompt.
type PromptMode int

const (
	// ModeFieldsOnly asks for the compact {"extracted_fields": [...]}
	// envelope, used for per-batch calls.
	ModeFieldsOnly PromptMode = iota
	// ModeFullResult asks for a complete extraction result object.
	ModeFullResult
)

const (
	// maxPromptFields caps the enumerated field list; anything beyond it
	// is summarized rather than silently dropped.
	maxPromptFields = 80

	maxPromptExamples = 3
)

// BuildExtractionPrompt composes the instruction block for one model call:
// document type and description, the allowed fields annotated with category
// and required/optional, worked examples (full mode only), the expected JSON
// output shape and the document excerpt.
func BuildExtractionPrompt(tmpl *catalog.DocumentTemplate, fields []catalog.FieldDefinition, excerpt string, mode PromptMode) string {
	var b strings.Builder

	b.WriteString("You are a document data extraction assistant for U.S. immigration paperwork.\n")
	fmt.Fprintf(&b, "Document type: %s (%s)\n\n", tmpl.Name, tmpl.Description)

	b.WriteString("Extract values for the following fields wherever they appear in the document:\n")
	shown := fields
	extra := 0
	if len(fields) > maxPromptFields {
		shown = fields[:maxPromptFields]
		extra = len(fields) - maxPromptFields
	}
	for _, f := range shown {
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", f.Name, f.Category, req, f.Description)
	}
	if extra > 0 {
		fmt.Fprintf(&b, "+%d additional fields, extract if present\n", extra)
	}

	if mode == ModeFullResult && len(tmpl.Examples) > 0 {
		b.WriteString("\nExample documents of this type:\n")
		for i, ex := range tmpl.Examples {
			if i >= maxPromptExamples {
				break
			}
			b.WriteString(ex)
			b.WriteString("\n---\n")
		}
	}

	b.WriteString("\nIMPORTANT INSTRUCTIONS:\n")
	b.WriteString("- Only extract values that actually appear in the document. Never invent values.\n")
	b.WriteString("- confidence_score is a float between 0.0 and 1.0 reflecting how certain you are.\n")
	b.WriteString("- source_text is the exact document snippet the value was taken from.\n")
	b.WriteString("- Return ONLY valid JSON with no markdown formatting, no code fences, no explanation.\n\n")

	switch mode {
	case ModeFieldsOnly:
		b.WriteString(`Return a JSON object with this exact shape:
{
  "extracted_fields": [
    {
      "field_name": "",
      "field_value": "",
      "confidence_score": 0.0,
      "field_category": "",
      "source_text": ""
    }
  ]
}
`)
	case ModeFullResult:
		b.WriteString(`Return a JSON object with this exact shape:
{
  "document_type": "",
  "extracted_fields": [
    {
      "field_name": "",
      "field_value": "",
      "confidence_score": 0.0,
      "field_category": "",
      "source_text": ""
    }
  ],
  "confidence_summary": {
    "high_confidence": 0,
    "medium_confidence": 0,
    "low_confidence": 0,
    "overall_confidence": 0.0
  },
  "extraction_notes": []
}
`)
	}

	b.WriteString("\nDocument text:\n")
	b.WriteString(excerpt)
	return b.String()
}

// BuildCorrectionPrompt asks the model to re-extract a single flagged
// field given its current value and the document excerpt.
func BuildCorrectionPrompt(field domain.ExtractedField, excerpt string) string {
	var b strings.Builder

	b.WriteString("You are reviewing a single field extracted from a U.S. immigration document.\n")
	b.WriteString("The value below failed validation and may be wrong or badly formatted.\n\n")
	fmt.Fprintf(&b, "Field: %s (category: %s)\n", field.FieldName, field.FieldCategory)
	fmt.Fprintf(&b, "Current value: %q\n", field.FieldValue)
	fmt.Fprintf(&b, "Current confidence: %.2f\n\n", field.ConfidenceScore)

	b.WriteString("Re-read the document text and provide a corrected value.\n")
	b.WriteString("Return ONLY valid JSON with no markdown formatting:\n")
	b.WriteString(`{
  "corrected_value": "",
  "confidence_score": 0.0,
  "explanation": "",
  "source_text": ""
}
`)
	b.WriteString("\nDocument text:\n")
	b.WriteString(excerpt)
	return b.String()
}
