package agent

import "visaprep/internal/domain"

// summarize buckets the final field list by confidence and computes the
// arithmetic mean (0 when there are no fields).
func summarize(fields []domain.ExtractedField) domain.ConfidenceSummary {
	var s domain.ConfidenceSummary
	if len(fields) == 0 {
		return s
	}

	var total float64
	for _, f := range fields {
		total += f.ConfidenceScore
		switch {
		case f.ConfidenceScore >= 0.8:
			s.HighConfidence++
		case f.ConfidenceScore >= 0.6:
			s.MediumConfidence++
		default:
			s.LowConfidence++
		}
	}
	s.OverallConfidence = total / float64(len(fields))
	return s
}
