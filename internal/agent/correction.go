package agent

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"visaprep/internal/domain"
	"visaprep/internal/port"
)

type correctionPayload struct {
	CorrectedValue  string  `json:"corrected_value"`
	ConfidenceScore float64 `json:"confidence_score"`
	Explanation     string  `json:"explanation"`
	SourceText      string  `json:"source_text"`
}

// correctFlagged issues one model call per flagged field, all concurrent,
// and waits for them collectively. Each goroutine mutates a distinct field
// slot, so no locking is needed. Individual failures are logged and
// swallowed: this is a best-effort quality pass, invisible to the caller
// on failure. Returns the number of fields updated and the number flagged.
func (a *Agent) correctFlagged(ctx context.Context, cfg Config, fields []domain.ExtractedField, excerpt string) (int, int) {
	var wg sync.WaitGroup
	var updated int64
	flagged := 0

	for i := range fields {
		if fields[i].ValidationStatus != domain.FieldStatusFlagged {
			continue
		}
		flagged++
		wg.Add(1)
		go func(f *domain.ExtractedField) {
			defer wg.Done()
			ok, err := a.correctField(ctx, cfg, f, excerpt)
			if err != nil {
				log.Printf("agent.correctFlagged: correction of %s failed: %v", f.FieldName, err)
				return
			}
			if ok {
				atomic.AddInt64(&updated, 1)
			}
		}(&fields[i])
	}

	wg.Wait()
	return int(updated), flagged
}

// correctField overwrites the field only when the model is both more
// confident than the current value and actually produced one.
func (a *Agent) correctField(ctx context.Context, cfg Config, f *domain.ExtractedField, excerpt string) (bool, error) {
	raw, err := a.client.Complete(ctx, port.ModelRequest{
		Prompt:       BuildCorrectionPrompt(*f, excerpt),
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		JSONResponse: true,
	})
	if err != nil {
		return false, err
	}

	var p correctionPayload
	if err := decodeStructured(raw, nil, &p); err != nil {
		return false, err
	}

	if p.ConfidenceScore <= f.ConfidenceScore || strings.TrimSpace(p.CorrectedValue) == "" {
		return false, nil
	}

	f.FieldValue = p.CorrectedValue
	f.ConfidenceScore = clamp01(p.ConfidenceScore)
	if p.SourceText != "" {
		f.SourceText = p.SourceText
	}
	f.ValidationStatus = domain.FieldStatusValidated
	return true, nil
}
