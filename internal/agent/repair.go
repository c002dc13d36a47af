package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"visaprep/internal/domain"
)

// Models wrap JSON in code fences or surround it with prose often enough
// that a single json.Unmarshal is not good enough. The repair strategies
// are tried in order until one yields a parseable payload: the raw text,
// the text with Markdown fences stripped, and the substring between the
// first '{' and the last '}'.
var repairStrategies = []func(string) string{
	func(s string) string { return s },
	stripCodeFences,
	braceSlice,
}

// batchSchema is the structural contract for one batch response:
// extracted_fields must be present and must be a list.
var batchSchema = jsonschema.MustCompileString("batch.json", `{
	"type": "object",
	"required": ["extracted_fields"],
	"properties": {
		"extracted_fields": {"type": "array"}
	}
}`)

type fieldPayload struct {
	FieldName       string  `json:"field_name"`
	FieldValue      string  `json:"field_value"`
	ConfidenceScore float64 `json:"confidence_score"`
	FieldCategory   string  `json:"field_category"`
	SourceText      string  `json:"source_text"`
}

type batchPayload struct {
	ExtractedFields []fieldPayload `json:"extracted_fields"`
}

// decodeBatchFields parses one batch response into extracted fields.
// Confidence scores are clamped into [0,1]; the batch category fills in a
// missing field_category; every field starts out pending.
func decodeBatchFields(raw, batchCategory string) ([]domain.ExtractedField, error) {
	var payload batchPayload
	if err := decodeStructured(raw, batchSchema, &payload); err != nil {
		return nil, err
	}

	fields := make([]domain.ExtractedField, 0, len(payload.ExtractedFields))
	for _, p := range payload.ExtractedFields {
		if strings.TrimSpace(p.FieldName) == "" {
			continue
		}
		category := p.FieldCategory
		if category == "" {
			category = batchCategory
		}
		fields = append(fields, domain.ExtractedField{
			FieldName:        p.FieldName,
			FieldValue:       p.FieldValue,
			ConfidenceScore:  clamp01(p.ConfidenceScore),
			FieldCategory:    category,
			SourceText:       p.SourceText,
			ValidationStatus: domain.FieldStatusPending,
		})
	}
	return fields, nil
}

// decodeStructured applies the repair strategies until one produces JSON
// that satisfies schema (when non-nil), then unmarshals into v.
func decodeStructured(raw string, schema *jsonschema.Schema, v any) error {
	var lastErr error
	for _, repair := range repairStrategies {
		candidate := strings.TrimSpace(repair(raw))
		if candidate == "" {
			continue
		}
		var generic any
		if err := json.Unmarshal([]byte(candidate), &generic); err != nil {
			lastErr = err
			continue
		}
		if schema != nil {
			if err := schema.Validate(generic); err != nil {
				lastErr = fmt.Errorf("response shape: %w", err)
				continue
			}
		}
		if err := json.Unmarshal([]byte(candidate), v); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("empty response")
	}
	return fmt.Errorf("parsing model response: %w", lastErr)
}

func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	i := strings.IndexByte(t, '\n')
	if i < 0 {
		return ""
	}
	t = strings.TrimSpace(t[i+1:])
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

func braceSlice(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
