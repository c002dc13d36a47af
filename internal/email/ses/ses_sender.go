package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"visaprep/internal/domain"
	"visaprep/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendExtractionComplete(ctx context.Context, toEmail, toName, documentName string, summary domain.ConfidenceSummary) error {
	subject := fmt.Sprintf("Your document %q is ready for review", documentName)
	docsURL := fmt.Sprintf("%s/documents", s.frontendURL)
	htmlBody := buildExtractionCompleteHTML(toName, documentName, docsURL, summary)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nWe finished reading %q. Extracted fields: %d high confidence, %d medium, %d low (overall %.0f%%).\n\nReview the results at:\n%s\n\nVisaPrep Team",
		toName, documentName,
		summary.HighConfidence, summary.MediumConfidence, summary.LowConfidence,
		summary.OverallConfidence*100, docsURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendExtractionFailed(ctx context.Context, toEmail, toName, documentName, reason string) error {
	subject := fmt.Sprintf("We could not process %q", documentName)
	docsURL := fmt.Sprintf("%s/documents", s.frontendURL)
	htmlBody := buildExtractionFailedHTML(toName, documentName, reason, docsURL)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nWe were unable to process %q.\n\nReason: %s\n\nYou can re-upload the document at:\n%s\n\nVisaPrep Team",
		toName, documentName, reason, docsURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildExtractionCompleteHTML(name, documentName, docsURL string, summary domain.ConfidenceSummary) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your document is ready</h2>
  <p>Hi %s,</p>
  <p>We finished reading <strong>%s</strong>. Here is how the extraction went:</p>
  <ul>
    <li>%d fields extracted with high confidence</li>
    <li>%d fields with medium confidence</li>
    <li>%d fields may need your attention</li>
  </ul>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Results</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">VisaPrep - Visa Application Assistant</p>
</body>
</html>`, name, documentName, summary.HighConfidence, summary.MediumConfidence, summary.LowConfidence, docsURL)
}

func buildExtractionFailedHTML(name, documentName, reason, docsURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">We could not process your document</h2>
  <p>Hi %s,</p>
  <p>We were unable to process <strong>%s</strong>.</p>
  <p style="color: #666;">Reason: %s</p>
  <p>Please check the file and try uploading it again:</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">My Documents</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">VisaPrep - Visa Application Assistant</p>
</body>
</html>`, name, documentName, reason, docsURL)
}
