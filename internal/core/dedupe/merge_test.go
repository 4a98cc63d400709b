package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/atlas/internal/core/model"
)

// Three spellings of the same museum, deliberately disagreeing on every
// mergeable field.
func louvreMembers() []model.LocationCandidate {
	return []model.LocationCandidate{
		{Name: "The Louvre Museum", Type: "museum", Confidence: 0.7, Description: "short", SourceText: "s1", ChunkID: "c1"},
		{Name: "Louvre Museum", Type: "landmark", Confidence: 0.9, Description: "a much longer description", SourceText: "s2", ChunkID: "c2"},
		{Name: "Musée du Louvre", Type: "museum", Confidence: 0.8, Description: "", SourceText: "s1", ChunkID: "c3"},
	}
}

func TestMergeGroupFieldPolicies(t *testing.T) {
	d := newTestDeduplicator(t)
	m := d.mergeGroup(louvreMembers())

	// Name follows the highest-confidence member.
	assert.Equal(t, "Louvre Museum", m.Name)
	assert.Equal(t, "c2", m.ChunkID)

	// Most specific type wins even when a lower-confidence member holds it.
	assert.Equal(t, "landmark", m.Type)

	assert.Equal(t, "a much longer description", m.Description)
	assert.InDelta(t, 0.8, m.Confidence, 1e-9)

	// Sources deduplicate exactly, joined in confidence order.
	assert.Equal(t, "s2 | s1", m.SourceText)

	assert.True(t, m.Deduplication.IsMerged)
	assert.Equal(t, 3, m.Deduplication.OriginalCount)
	assert.Equal(t, []string{"c1", "c2", "c3"}, m.Deduplication.SourceChunks)
	assert.Equal(t, 1.0, m.Deduplication.MergeConfidence)
}

func TestMergeGroupConfidenceTieKeepsInputOrder(t *testing.T) {
	d := newTestDeduplicator(t)
	m := d.mergeGroup([]model.LocationCandidate{
		{Name: "Notre Dame", Type: "cathedral", Confidence: 0.8, ChunkID: "c1"},
		{Name: "Notre-Dame Cathedral", Type: "cathedral", Confidence: 0.8, ChunkID: "c2"},
	})

	assert.Equal(t, "Notre Dame", m.Name)
	assert.Equal(t, "c1", m.ChunkID)
}

func TestMergeGroupUnknownTypeLosesToKnown(t *testing.T) {
	d := newTestDeduplicator(t)
	m := d.mergeGroup([]model.LocationCandidate{
		{Name: "Borough Market", Type: "market", Confidence: 0.9},
		{Name: "Borough Market", Type: "cafe", Confidence: 0.5},
	})

	// "market" has no specificity rank; "cafe" does.
	assert.Equal(t, "cafe", m.Type)
}

func TestMergeGroupAllTypesEmpty(t *testing.T) {
	d := newTestDeduplicator(t)
	m := d.mergeGroup([]model.LocationCandidate{
		{Name: "Somewhere", Confidence: 0.9},
		{Name: "Somewhere", Confidence: 0.3},
	})

	assert.Equal(t, "", m.Type)
	assert.Equal(t, "", m.SourceText)
}

func TestMeanPairwiseScore(t *testing.T) {
	d := newTestDeduplicator(t)

	single := []model.LocationCandidate{{Name: "Eiffel Tower"}}
	assert.Equal(t, 1.0, d.meanPairwiseScore(single))

	assert.Equal(t, 0.0, d.meanPairwiseScore(nil))

	same := []model.LocationCandidate{
		{Name: "Louvre Museum"},
		{Name: "Musée du Louvre"},
		{Name: "The Louvre Museum"},
	}
	assert.Equal(t, 1.0, d.meanPairwiseScore(same))
}

func TestHasTypeConflict(t *testing.T) {
	assert.True(t, hasTypeConflict(louvreMembers()))

	compatible := []model.LocationCandidate{
		{Type: "museum"},
		{Type: "gallery"},
	}
	assert.False(t, hasTypeConflict(compatible))

	withEmpty := []model.LocationCandidate{
		{Type: "museum"},
		{Type: ""},
		{Type: "Museum"},
	}
	assert.False(t, hasTypeConflict(withEmpty))

	clash := []model.LocationCandidate{
		{Type: "park"},
		{Type: "restaurant"},
	}
	assert.True(t, hasTypeConflict(clash))
}
