package llm

import (
	"context"
)

// LLMClient is the single contract the pipeline has with the external
// extraction model: one prompt in, one text response out.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
