package repository

import "context"

// IGenerativeModel is the inference-service contract. The classifier and the
// context selector are its only callers; prompt construction and response
// parsing live with them, not here.
type IGenerativeModel interface {
	// Generate sends a prompt with a bounded output-token budget and returns
	// the raw model text.
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}
