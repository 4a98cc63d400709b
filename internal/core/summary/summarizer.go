package summary

import (
	"context"
	"fmt"

	"github.com/agenthands/atlas/internal/config"
	"github.com/agenthands/atlas/internal/core/common"
	"github.com/agenthands/atlas/internal/core/model"
	"github.com/agenthands/atlas/internal/llm"
)

const defaultDescriptionPrompt = `The location "%s" was mentioned several times with different descriptions:

%s
Write one concise description (1-2 sentences) that reconciles them. Prefer concrete facts; drop contradictions you cannot resolve.
Return a JSON object: {"description": "..."}`

// Summarizer reconciles the conflicting member descriptions of a merged
// location into one blurb. It is an optional post-merge step: dedupe output
// never depends on it, and it is skipped entirely when no LLM is configured.
type Summarizer struct {
	LLM     llm.LLMClient
	Prompts config.SummaryPrompts
}

func NewSummarizer(llmClient llm.LLMClient, prompts config.SummaryPrompts) *Summarizer {
	return &Summarizer{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// ReconcileDescriptions returns a single description for a merged location
// given its members' distinct descriptions. Fewer than two descriptions need
// no reconciliation and are returned as-is.
func (s *Summarizer) ReconcileDescriptions(ctx context.Context, name string, descriptions []string) (string, error) {
	if len(descriptions) == 0 {
		return "", nil
	}
	if len(descriptions) == 1 {
		return descriptions[0], nil
	}

	list := ""
	for _, d := range descriptions {
		list += fmt.Sprintf("- %s\n", d)
	}

	promptTemplate := s.Prompts.Description
	if promptTemplate == "" {
		promptTemplate = defaultDescriptionPrompt
	}
	prompt := fmt.Sprintf(promptTemplate, name, list)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}

	result, err := common.ParseJSON[model.LocationSummary](response)
	if err != nil {
		return "", fmt.Errorf("failed to parse description result: %w", err)
	}

	return result.Description, nil
}
