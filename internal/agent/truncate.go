package agent

const (
	// maxDocumentChars bounds the document excerpt passed to the model.
	maxDocumentChars = 5000

	truncationMarker = "...[TRUNCATED FOR LENGTH]..."
)

// truncateDocument keeps the first 80% and last 20% of the character
// budget so that both header text (names, identifiers) and footer text
// (signatures, stamps) survive. Returns the text unchanged when it fits.
func truncateDocument(text string) (string, bool) {
	if len(text) <= maxDocumentChars {
		return text, false
	}
	head := maxDocumentChars * 80 / 100
	tail := maxDocumentChars - head
	return text[:head] + truncationMarker + text[len(text)-tail:], true
}
