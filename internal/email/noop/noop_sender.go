package noop

import (
	"context"
	"log"

	"visaprep/internal/domain"
	"visaprep/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendExtractionComplete(_ context.Context, toEmail, toName, documentName string, summary domain.ConfidenceSummary) error {
	log.Printf("[NOOP EMAIL] Extraction complete for %s (%s): %s (high=%d medium=%d low=%d overall=%.2f)",
		toName, toEmail, documentName,
		summary.HighConfidence, summary.MediumConfidence, summary.LowConfidence, summary.OverallConfidence)
	return nil
}

func (s *noopSender) SendExtractionFailed(_ context.Context, toEmail, toName, documentName, reason string) error {
	log.Printf("[NOOP EMAIL] Extraction failed for %s (%s): %s: %s", toName, toEmail, documentName, reason)
	return nil
}
