package extraction

import (
	"context"
	"fmt"

	"github.com/agenthands/atlas/internal/config"
	"github.com/agenthands/atlas/internal/core/common"
	"github.com/agenthands/atlas/internal/core/model"
	"github.com/agenthands/atlas/internal/llm"
)

const defaultLocationsPrompt = `Extract every real-world location (landmark, museum, park, restaurant, hotel, theater, ...) mentioned in the text below.

Return a JSON object with key "locations", a list of objects with fields:
"name" (string), "type" (string, lowercase category), "description" (string, may be empty),
"source_text" (the sentence the location was found in), "confidence" (float 0..1).

Example:
{"locations": [{"name": "Louvre Museum", "type": "museum", "description": "World's largest art museum", "source_text": "We spent the morning at the Louvre Museum.", "confidence": 0.95}]}

Text:
%s`

// Extractor turns free text into location candidates using the configured
// LLM. Its output is intentionally noisy and overlapping; the dedupe engine
// downstream is what makes it canonical.
type Extractor struct {
	LLM     llm.LLMClient
	Prompts config.ExtractionPrompts
}

func NewExtractor(llmClient llm.LLMClient, prompts config.ExtractionPrompts) *Extractor {
	return &Extractor{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// ExtractLocations extracts location candidates from one text chunk. Every
// candidate carries chunkID as provenance and a confidence clamped to [0,1].
func (e *Extractor) ExtractLocations(ctx context.Context, chunkID string, content string) ([]model.LocationCandidate, error) {
	promptTemplate := e.Prompts.Locations
	if promptTemplate == "" {
		promptTemplate = defaultLocationsPrompt
	}
	prompt := fmt.Sprintf(promptTemplate, content)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate locations: %w", err)
	}

	result, err := common.ParseJSON[model.ExtractedLocations](response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract locations: %w", err)
	}

	candidates := make([]model.LocationCandidate, 0, len(result.Locations))
	for _, loc := range result.Locations {
		candidates = append(candidates, model.NewLocationCandidate(
			loc.Name, loc.Type, loc.Description, loc.SourceText, loc.Confidence, chunkID,
		))
	}

	return candidates, nil
}
