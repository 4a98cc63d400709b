package llm

import (
	"context"
)

// LLMClient generates a completion for a prompt. Extraction and description
// reconciliation are the only callers; the dedup engine itself never touches
// an LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RerankerClient orders documents by relevance to a query, most relevant
// first, returning indices into the input slice.
type RerankerClient interface {
	Rank(ctx context.Context, query string, documents []string) ([]int, error)
}
