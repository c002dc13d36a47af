package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"visaprep/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendExtractionComplete(ctx context.Context, toEmail, toName, documentName string, summary domain.ConfidenceSummary) error {
	args := m.Called(ctx, toEmail, toName, documentName, summary)
	return args.Error(0)
}

func (m *MockEmailSender) SendExtractionFailed(ctx context.Context, toEmail, toName, documentName, reason string) error {
	args := m.Called(ctx, toEmail, toName, documentName, reason)
	return args.Error(0)
}
