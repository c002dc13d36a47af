// Package agent implements the document extraction pipeline: it batches a
// template's fields to keep each model call under context limits, merges
// per-batch results by confidence, validates the merged fields and runs a
// best-effort correction pass over badly flagged ones.
package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"visaprep/internal/catalog"
	"visaprep/internal/domain"
	"visaprep/internal/fieldval"
	"visaprep/internal/port"
)

// Config holds the per-run extraction settings. Callers pass it explicitly
// into Extract; the Agent itself is stateless, so concurrent runs with
// different configs are safe.
type Config struct {
	Model               string  `json:"model"`
	Temperature         float64 `json:"temperature"`
	MaxTokens           int     `json:"max_tokens"`
	RetryAttempts       int     `json:"retry_attempts"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	EnableValidation    bool    `json:"enable_validation"`
	EnableCorrection    bool    `json:"enable_correction"`
}

// DefaultConfig returns the extraction defaults. ConfidenceThreshold is
// carried for callers to inspect but is not read by the pipeline itself.
func DefaultConfig() Config {
	return Config{
		Model:               "gpt-4o",
		Temperature:         0.1,
		MaxTokens:           4096,
		RetryAttempts:       3,
		ConfidenceThreshold: 0.7,
		EnableValidation:    true,
		EnableCorrection:    true,
	}
}

// ExtractionContext is the per-request input to Extract.
type ExtractionContext struct {
	DocumentCategory string
	DocumentText     string
	FileType         string
	Filename         string
	UserID           uuid.UUID
	DocumentID       uuid.UUID
}

// Agent runs the extraction pipeline against a ModelClient.
type Agent struct {
	client  port.ModelClient
	backoff func(attempt int) time.Duration
}

// New creates an Agent on top of a model provider client.
func New(client port.ModelClient) *Agent {
	return &Agent{
		client:  client,
		backoff: func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

// Extract runs the full pipeline for one document and returns the final
// result. It fails only when a field batch exhausts every retry; format
// problems in individual values degrade into flagged fields instead.
func (a *Agent) Extract(ctx context.Context, cfg Config, ec ExtractionContext) (*domain.ExtractionResult, error) {
	start := time.Now()

	tmpl := catalog.TemplateForCategory(ec.DocumentCategory)
	text, truncated := truncateDocument(ec.DocumentText)

	var notes []string
	if truncated {
		notes = append(notes, "document text truncated to fit model context")
	}

	batches := buildBatches(tmpl.Fields)
	merged := newFieldSet()

	// Batches run one at a time: correctness does not require it, but it
	// bounds concurrent load on the provider.
	for _, batch := range batches {
		fields, err := a.extractBatch(ctx, cfg, tmpl, batch, text)
		if err != nil {
			return nil, fmt.Errorf("document extraction failed: %w", err)
		}
		merged.add(fields...)
	}

	fields := merged.fields()
	notes = append(notes, fmt.Sprintf("extracted %d field(s) across %d batch(es)", len(fields), len(batches)))

	if cfg.EnableValidation {
		summary := fieldval.ValidateExtraction(fields)
		for i := range fields {
			r := summary.Results[i]
			fields[i].ValidationStatus = r.ValidationStatus
			// Validation only ever lowers confidence.
			if r.ConfidenceScore < fields[i].ConfidenceScore {
				fields[i].ConfidenceScore = r.ConfidenceScore
			}
		}
		notes = append(notes, fmt.Sprintf("validation assessment: %s", summary.OverallAssessment))

		if summary.OverallAssessment == fieldval.AssessmentPoor && cfg.EnableCorrection {
			updated, flagged := a.correctFlagged(ctx, cfg, fields, text)
			notes = append(notes, fmt.Sprintf("correction pass updated %d of %d flagged field(s)", updated, flagged))
		}
	}

	return &domain.ExtractionResult{
		DocumentType:      tmpl.Name,
		ExtractedFields:   fields,
		ConfidenceSummary: summarize(fields),
		ExtractionNotes:   notes,
		ProcessingTimeMS:  time.Since(start).Milliseconds(),
	}, nil
}

// extractBatch calls the model once per attempt for a single field batch,
// retrying with linear backoff until the configured attempt budget runs out.
func (a *Agent) extractBatch(ctx context.Context, cfg Config, tmpl *catalog.DocumentTemplate, batch fieldBatch, text string) ([]domain.ExtractedField, error) {
	prompt := BuildExtractionPrompt(tmpl, batch.Fields, text, ModeFieldsOnly)

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.backoff(attempt - 1)):
			}
		}

		raw, err := a.client.Complete(ctx, port.ModelRequest{
			Prompt:       prompt,
			Model:        cfg.Model,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			JSONResponse: true,
		})
		if err != nil {
			lastErr = err
			log.Printf("agent.extractBatch: %s batch attempt %d/%d failed: %v", batch.Category, attempt, attempts, err)
			continue
		}

		fields, err := decodeBatchFields(raw, batch.Category)
		if err != nil {
			lastErr = err
			log.Printf("agent.extractBatch: %s batch attempt %d/%d returned unusable payload: %v", batch.Category, attempt, attempts, err)
			continue
		}
		return fields, nil
	}

	return nil, fmt.Errorf("%s batch failed after %d attempt(s): %w", batch.Category, attempts, lastErr)
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
