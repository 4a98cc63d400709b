package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockLLM struct {
	Response string
	Err      error
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func TestRank(t *testing.T) {
	r := NewSimpleLLMReranker(&mockLLM{Response: "2, 0"})

	ranked, err := r.Rank(context.Background(), "art museums", []string{"a park", "a cafe", "a museum"})

	assert.NoError(t, err)
	// Missing indices are appended so the ranking stays total.
	assert.Equal(t, []int{2, 0, 1}, ranked)
}

func TestRankDropsInvalidIndices(t *testing.T) {
	r := NewSimpleLLMReranker(&mockLLM{Response: "7, 1, 1, 0"})

	ranked, err := r.Rank(context.Background(), "q", []string{"a", "b"})

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 0}, ranked)
}

func TestRankTrivialCases(t *testing.T) {
	r := NewSimpleLLMReranker(&mockLLM{Err: errors.New("should not be called")})

	ranked, err := r.Rank(context.Background(), "q", nil)
	assert.NoError(t, err)
	assert.Nil(t, ranked)

	ranked, err = r.Rank(context.Background(), "q", []string{"only"})
	assert.NoError(t, err)
	assert.Equal(t, []int{0}, ranked)
}

func TestRankLLMError(t *testing.T) {
	r := NewSimpleLLMReranker(&mockLLM{Err: errors.New("rate limited")})

	_, err := r.Rank(context.Background(), "q", []string{"a", "b"})
	assert.Error(t, err)
}
