package port

// TextExtractor pulls plain text out of an uploaded file's bytes.
type TextExtractor interface {
	ExtractText(data []byte, contentType string) (string, error)
}
