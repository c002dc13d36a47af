package port

import (
	"context"

	"visaprep/internal/domain"
)

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	SendExtractionComplete(ctx context.Context, toEmail, toName, documentName string, summary domain.ConfidenceSummary) error
	SendExtractionFailed(ctx context.Context, toEmail, toName, documentName, reason string) error
}
