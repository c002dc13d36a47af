package fieldval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visaprep/internal/domain"
)

func field(name, value string, conf float64) domain.ExtractedField {
	return domain.ExtractedField{
		FieldName:       name,
		FieldValue:      value,
		ConfidenceScore: conf,
	}
}

func TestValidateField_ValidHighConfidence(t *testing.T) {
	r := ValidateField(field("email", "john.smith@example.com", 0.9))
	assert.True(t, r.IsValid)
	assert.Equal(t, 0.9, r.ConfidenceScore)
	assert.Equal(t, domain.FieldStatusValidated, r.ValidationStatus)
	assert.Empty(t, r.Issues)
}

func TestValidateField_InvalidEmail(t *testing.T) {
	r := ValidateField(field("email", "john.smith_at_example.com", 0.85))
	assert.False(t, r.IsValid)
	assert.Equal(t, 0.3, r.ConfidenceScore)
	assert.Equal(t, domain.FieldStatusPending, r.ValidationStatus)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, "Invalid email format", r.Issues[0])
	require.Len(t, r.Suggestions, 1)
	assert.Contains(t, r.Suggestions[0], "@")
}

func TestValidateField_EmptyValueFlagged(t *testing.T) {
	r := ValidateField(field("nationality", "   ", 0.9))
	assert.False(t, r.IsValid)
	assert.Zero(t, r.ConfidenceScore)
	assert.Equal(t, domain.FieldStatusFlagged, r.ValidationStatus)
	assert.Contains(t, r.Issues, "Field value is empty")
}

func TestValidateField_SingleCharacterCapped(t *testing.T) {
	r := ValidateField(field("city", "M", 0.95))
	assert.True(t, r.IsValid)
	assert.Equal(t, 0.2, r.ConfidenceScore)
	assert.Equal(t, domain.FieldStatusPending, r.ValidationStatus)
}

func TestValidateField_SingleRuneNotBytes(t *testing.T) {
	// A multi-byte rune is still a single character.
	r := ValidateField(field("city", "é", 0.95))
	assert.Equal(t, 0.2, r.ConfidenceScore)
}

func TestValidateField_ConfidenceNeverRaised(t *testing.T) {
	r := ValidateField(field("email", "bad-email", 0.1))
	assert.False(t, r.IsValid)
	assert.Equal(t, 0.1, r.ConfidenceScore)
	assert.Equal(t, domain.FieldStatusFlagged, r.ValidationStatus)
}

func TestValidateField_NoRuleFieldPasses(t *testing.T) {
	r := ValidateField(field("job_duties", "Designs payment services", 0.65))
	assert.True(t, r.IsValid)
	assert.Equal(t, 0.65, r.ConfidenceScore)
	// Valid but below the validated threshold stays pending.
	assert.Equal(t, domain.FieldStatusPending, r.ValidationStatus)
}

func TestValidateField_ConfidenceClamped(t *testing.T) {
	r := ValidateField(field("job_duties", "something", 1.4))
	assert.Equal(t, 1.0, r.ConfidenceScore)
}

func TestValidateField_FormatRules(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		valid bool
	}{
		{"valid passport", "passport_number", "A1234567", true},
		{"passport too short", "passport_number", "A12", false},
		{"passport lowercase", "passport_number", "a1234567", false},
		{"valid visa", "visa_number", "2021-AB-9876", true},
		{"visa too short", "visa_number", "AB12", false},
		{"valid phone", "phone", "+1 (415) 555-0133", true},
		{"phone too few digits", "phone", "555-0133", false},
		{"valid date of birth", "date_of_birth", "1985-03-14", true},
		{"dob alternate format", "date_of_birth", "14 March 1985", true},
		{"dob in the future", "date_of_birth", "2085-03-14", false},
		{"dob unparseable", "date_of_birth", "someday", false},
		{"valid name", "full_name", "Maria Garcia-Lopez", true},
		{"name with digits", "full_name", "JOHN SM1TH", false},
		{"name too short", "last_name", "X", false},
		{"valid postal code", "postal_code", "94105-1804", true},
		{"postal code too long", "postal_code", "123456789012345", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateField(field(tt.field, tt.value, 0.9))
			assert.Equal(t, tt.valid, r.IsValid)
		})
	}
}

func TestValidateExtraction_EmptyIsExcellent(t *testing.T) {
	s := ValidateExtraction(nil)
	assert.Equal(t, AssessmentExcellent, s.OverallAssessment)
	assert.Empty(t, s.Results)
	assert.Empty(t, s.MissingFields)
	assert.Empty(t, s.Recommendations)
}

func TestValidateExtraction_AssessmentTiers(t *testing.T) {
	valid := field("job_duties", "something", 0.9)
	invalid := field("email", "nope", 0.9)

	tests := []struct {
		name     string
		fields   []domain.ExtractedField
		expected Assessment
	}{
		{"all valid", []domain.ExtractedField{valid, valid}, AssessmentExcellent},
		{"19 of 20 valid", append(repeat(valid, 19), invalid), AssessmentExcellent},
		{"9 of 10 valid", append(repeat(valid, 9), invalid), AssessmentGood},
		{"3 of 4 valid", []domain.ExtractedField{valid, valid, valid, invalid}, AssessmentFair},
		{"half valid", []domain.ExtractedField{valid, invalid}, AssessmentFair},
		{"under half valid", []domain.ExtractedField{valid, invalid, invalid}, AssessmentPoor},
		{"none valid", []domain.ExtractedField{invalid}, AssessmentPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ValidateExtraction(tt.fields)
			assert.Equal(t, tt.expected, s.OverallAssessment)
		})
	}
}

func TestValidateExtraction_FlaggedFieldsListed(t *testing.T) {
	fields := []domain.ExtractedField{
		field("nationality", "", 0.9),
		field("email", "good@example.com", 0.9),
		field("phone", "12", 0.1),
	}

	s := ValidateExtraction(fields)
	assert.Equal(t, []string{"nationality", "phone"}, s.MissingFields)
	require.Len(t, s.Results, 3)
	assert.Contains(t, s.Recommendations[0], "2 flagged field(s)")
}

func TestValidateExtraction_PoorAddsRecommendation(t *testing.T) {
	s := ValidateExtraction([]domain.ExtractedField{field("email", "nope", 0.9)})
	require.NotEmpty(t, s.Recommendations)
	assert.Contains(t, s.Recommendations[len(s.Recommendations)-1], "clearer scan")
}

func repeat(f domain.ExtractedField, n int) []domain.ExtractedField {
	out := make([]domain.ExtractedField, n)
	for i := range out {
		out[i] = f
	}
	return out
}
