package agent

import "visaprep/internal/domain"

// fieldSet merges extracted fields across batches keyed by field name.
// A later field replaces an earlier one only when its confidence is
// strictly greater; exact ties keep the first seen. Insertion order is
// preserved so results are deterministic.
type fieldSet struct {
	order  []string
	byName map[string]domain.ExtractedField
}

func newFieldSet() *fieldSet {
	return &fieldSet{byName: make(map[string]domain.ExtractedField)}
}

func (s *fieldSet) add(fields ...domain.ExtractedField) {
	for _, f := range fields {
		cur, ok := s.byName[f.FieldName]
		if !ok {
			s.order = append(s.order, f.FieldName)
			s.byName[f.FieldName] = f
			continue
		}
		if f.ConfidenceScore > cur.ConfidenceScore {
			s.byName[f.FieldName] = f
		}
	}
}

func (s *fieldSet) fields() []domain.ExtractedField {
	out := make([]domain.ExtractedField, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}
