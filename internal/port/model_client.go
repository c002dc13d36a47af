package port

import "context"

// ModelRequest is one chat-style completion request to a language model
// provider. JSONResponse asks the provider for a structured JSON response
// mode where supported.
type ModelRequest struct {
	Prompt       string
	Model        string
	Temperature  float64
	MaxTokens    int
	JSONResponse bool
}

// ModelClient abstracts a language model provider. Complete returns the
// raw assistant message text; callers are responsible for parsing it.
type ModelClient interface {
	Complete(ctx context.Context, req ModelRequest) (string, error)
}
