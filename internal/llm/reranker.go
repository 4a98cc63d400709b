package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// SimpleLLMReranker orders location summaries by relevance to a free-text
// query with a single LLM call. Used by the server's search endpoint, never
// by the dedup engine.
type SimpleLLMReranker struct {
	LLM LLMClient
}

func NewSimpleLLMReranker(client LLMClient) *SimpleLLMReranker {
	return &SimpleLLMReranker{LLM: client}
}

var indexList = regexp.MustCompile(`\d+`)

func (r *SimpleLLMReranker) Rank(ctx context.Context, query string, docs []string) ([]int, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) == 1 {
		return []int{0}, nil
	}

	docList := ""
	for i, d := range docs {
		content := d
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		docList += fmt.Sprintf("[%d] %s\n", i, content)
	}

	prompt := fmt.Sprintf(`You rank travel locations by relevance to a query.
Query: %s

Locations:
%s
Return the location indices ordered from most to least relevant, as a comma-separated list like: 2, 0, 1
Return only the list.`, query, docList)

	response, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ranking: %w", err)
	}

	// Take indices in order of appearance; drop out-of-range and repeated
	// ones, then append anything the model forgot so the ranking is total.
	seen := make(map[int]bool)
	var ranked []int
	for _, m := range indexList.FindAllString(response, -1) {
		idx, err := strconv.Atoi(m)
		if err != nil || idx < 0 || idx >= len(docs) || seen[idx] {
			continue
		}
		seen[idx] = true
		ranked = append(ranked, idx)
	}
	for i := range docs {
		if !seen[i] {
			ranked = append(ranked, i)
		}
	}

	return ranked, nil
}
