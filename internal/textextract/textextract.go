// Package textextract extracts plain text from uploaded document files so
// the extraction agent can work over it. PDF files go through a PDF text
// reader; plain text files pass through unchanged. Image files carry no
// machine-readable text and rely on OCR text supplied at upload time.
package textextract

import (
	"fmt"
	"strings"

	"visaprep/internal/domain"
	"visaprep/internal/port"
)

// Extractor dispatches text extraction by content type.
type Extractor struct{}

// New creates a text extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the plain text of a document, or
// domain.ErrNoDocumentText when the content type cannot yield text.
func (e *Extractor) ExtractText(data []byte, contentType string) (string, error) {
	switch {
	case contentType == "application/pdf":
		return extractPDF(data)
	case strings.HasPrefix(contentType, "text/"):
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", domain.ErrNoDocumentText
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: content type %q has no extractable text", domain.ErrNoDocumentText, contentType)
	}
}

var _ port.TextExtractor = (*Extractor)(nil)
