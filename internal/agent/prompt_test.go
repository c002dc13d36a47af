package agent

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"visaprep/internal/catalog"
	"visaprep/internal/domain"
)

func TestBuildExtractionPrompt_FieldsOnly(t *testing.T) {
	tmpl := catalog.TemplateForCategory("passport")
	fields := []catalog.FieldDefinition{
		{Name: "passport_number", Description: "Passport number", Category: "identification", Required: true},
		{Name: "place_of_birth", Description: "City and country of birth", Category: "personal"},
	}

	p := BuildExtractionPrompt(tmpl, fields, "Passport No: A1234567", ModeFieldsOnly)

	assert.Contains(t, p, "Document type: passport")
	assert.Contains(t, p, "- passport_number (identification, required): Passport number")
	assert.Contains(t, p, "- place_of_birth (personal, optional): City and country of birth")
	assert.Contains(t, p, `"extracted_fields"`)
	assert.NotContains(t, p, `"confidence_summary"`)
	assert.NotContains(t, p, "Example documents")
	assert.Contains(t, p, "Document text:\nPassport No: A1234567")
}

func TestBuildExtractionPrompt_FullResultIncludesExamples(t *testing.T) {
	tmpl := catalog.TemplateForCategory("passport")
	p := BuildExtractionPrompt(tmpl, tmpl.Fields, "some text", ModeFullResult)

	assert.Contains(t, p, "Example documents of this type:")
	assert.Contains(t, p, `"confidence_summary"`)
	assert.Contains(t, p, `"document_type"`)
}

func TestBuildExtractionPrompt_CapsFieldList(t *testing.T) {
	fields := make([]catalog.FieldDefinition, maxPromptFields+7)
	for i := range fields {
		fields[i] = catalog.FieldDefinition{Name: fmt.Sprintf("field_%d", i), Category: "other"}
	}
	tmpl := catalog.TemplateForCategory("general")

	p := BuildExtractionPrompt(tmpl, fields, "text", ModeFieldsOnly)

	assert.Contains(t, p, "+7 additional fields, extract if present")
	assert.Contains(t, p, fmt.Sprintf("- field_%d ", maxPromptFields-1))
	assert.NotContains(t, p, fmt.Sprintf("- field_%d ", maxPromptFields))
	assert.Equal(t, maxPromptFields, strings.Count(p, "\n- field_"))
}

func TestBuildCorrectionPrompt(t *testing.T) {
	f := domain.ExtractedField{
		FieldName:       "email",
		FieldValue:      "john.smith@",
		ConfidenceScore: 0.42,
		FieldCategory:   "contact",
	}

	p := BuildCorrectionPrompt(f, "Contact: john.smith@example.com")

	assert.Contains(t, p, "Field: email (category: contact)")
	assert.Contains(t, p, `Current value: "john.smith@"`)
	assert.Contains(t, p, "Current confidence: 0.42")
	assert.Contains(t, p, `"corrected_value"`)
	assert.Contains(t, p, "Document text:\nContact: john.smith@example.com")
}
