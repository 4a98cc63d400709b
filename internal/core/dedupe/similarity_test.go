package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/atlas/internal/core/model"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	return NewScorer(opts)
}

func TestScoreExactNormalizedNameShortCircuits(t *testing.T) {
	s := newTestScorer(t)

	a := model.LocationCandidate{Name: "Louvre Museum", Type: "museum"}
	b := model.LocationCandidate{Name: "Musée du Louvre", Type: "restaurant", Description: "totally different"}

	// Same location after normalization, other signals notwithstanding.
	assert.Equal(t, 1.0, s.Score(a, b))
}

func TestScoreSymmetry(t *testing.T) {
	s := newTestScorer(t)

	pairs := [][2]model.LocationCandidate{
		{{Name: "Louvre Museum", Type: "museum"}, {Name: "Musée du Louvre", Type: "museum"}},
		{{Name: "Tuileries Garden", Type: "park"}, {Name: "Luxembourg Gardens", Type: "park"}},
		{{Name: "Saatchi Gallery", Type: "gallery"}, {Name: "Saatchi Gallery", Type: "museum"}},
		{{Name: "", Description: "a cafe"}, {Name: "", Description: "a cafe"}},
		{{Name: "Eiffel Tower", SourceText: "day one"}, {Name: "Big Ben", SourceText: "day two"}},
	}

	for _, p := range pairs {
		assert.Equal(t, s.Score(p[0], p[1]), s.Score(p[1], p[0]))
	}
}

func TestScoreBounded(t *testing.T) {
	s := newTestScorer(t)

	candidates := []model.LocationCandidate{
		{Name: "Louvre Museum", Type: "museum", Description: "art museum in Paris", SourceText: "we visited the Louvre"},
		{Name: "Musée du Louvre", Type: "museum", Description: "art museum in Paris", SourceText: "we visited the Louvre"},
		{},
		{Name: "X"},
		{Name: "Pere Lachaise Cemetery", Type: "cemetery"},
	}

	for i := range candidates {
		for j := range candidates {
			score := s.Score(candidates[i], candidates[j])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestScoreEmptyNamesNeverMatch(t *testing.T) {
	s := newTestScorer(t)

	// Identical type, description, and source context, but no names: the
	// remaining signals max out at 0.6 with default weights, below the
	// default threshold, so two blank candidates never silently merge.
	a := model.LocationCandidate{Type: "cafe", Description: "same words", SourceText: "same context"}
	b := model.LocationCandidate{Type: "cafe", Description: "same words", SourceText: "same context"}

	score := s.Score(a, b)
	assert.InDelta(t, 0.6, score, 1e-9)
	assert.Less(t, score, DefaultThreshold)
}

func TestNameSimilaritySubstringFloor(t *testing.T) {
	s := newTestScorer(t)
	assert.InDelta(t, 0.8, s.nameSimilarity("louvre", "louvre museum"), 1e-9)
}

func TestNameSimilarityWordOverlapFloors(t *testing.T) {
	s := newTestScorer(t)

	// Half the words overlap, and half the key words overlap.
	sim := s.nameSimilarity("tuileries garden", "luxembourg garden")
	assert.InDelta(t, 0.8, sim, 1e-9)
}

func TestTypeScore(t *testing.T) {
	s := newTestScorer(t)

	assert.InDelta(t, DefaultTypeWeight, s.typeScore("museum", "museum"), 1e-9)
	assert.InDelta(t, 0.7*DefaultTypeWeight, s.typeScore("museum", "gallery"), 1e-9)
	assert.InDelta(t, 0.7*DefaultTypeWeight, s.typeScore("church", "cathedral"), 1e-9)
	assert.Zero(t, s.typeScore("museum", "park"))
	assert.Zero(t, s.typeScore("", "museum"))
	assert.InDelta(t, DefaultTypeWeight, s.typeScore("Museum", "museum"), 1e-9)
}

func TestMatchRatio(t *testing.T) {
	assert.Equal(t, 1.0, matchRatio("abc", "abc"))
	assert.Zero(t, matchRatio("", "abc"))
	assert.Zero(t, matchRatio("abc", ""))

	// Longest block "bcd" matches, nothing else does: 2*3/8.
	assert.InDelta(t, 0.75, matchRatio("abcd", "bcde"), 1e-9)

	assert.Zero(t, matchRatio("xyz", "abc"))
}

func TestMatchRatioSymmetric(t *testing.T) {
	// The block partition's tie-break must not depend on argument order.
	pairs := [][2]string{
		{"eiffel tower", "big ben"},
		{"louvre museum", "luxembourg garden"},
		{"abcd", "bcde"},
		{"notre dame", "notre dame de paris"},
	}
	for _, p := range pairs {
		assert.Equal(t, matchRatio(p[0], p[1]), matchRatio(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestTextSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, textSimilarity("Art Museum", "art museum"))
	assert.Zero(t, textSimilarity("", "anything"))
	assert.Zero(t, textSimilarity("anything", ""))
}

func TestWordOverlap(t *testing.T) {
	assert.InDelta(t, 0.5, wordOverlap([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
	assert.Equal(t, 1.0, wordOverlap([]string{"a"}, []string{"a"}))
	assert.Zero(t, wordOverlap(nil, []string{"a"}))

	// Ratio uses the larger set's size.
	assert.InDelta(t, 1.0/3.0, wordOverlap([]string{"a"}, []string{"a", "b", "c"}), 1e-9)
}
