package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/atlas/internal/config"
	"github.com/agenthands/atlas/internal/core/model"
	"github.com/agenthands/atlas/internal/driver"
)

func TestIngestTextAndDedupeGroup(t *testing.T) {
	extractionJSON := `{
		"locations": [
			{"name": "Louvre Museum", "type": "museum", "description": "World's largest art museum", "confidence": 0.9},
			{"name": "Musée du Louvre", "type": "museum", "description": "Museum holding the Mona Lisa", "confidence": 0.8}
		]
	}`
	summaryJSON := `{"description": "World-famous art museum, home of the Mona Lisa."}`

	mockLLM := &MockLLM{
		ResponseQueue: []string{extractionJSON, summaryJSON},
	}

	atlas, err := NewAtlas(nil, mockLLM, &config.Config{})
	require.NoError(t, err)

	ctx := context.Background()
	n, err := atlas.IngestText(ctx, "trip-1", "chunk-1", "We spent the morning at the Louvre.")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	merged, stats, err := atlas.DedupeGroup(ctx, "trip-1")
	require.NoError(t, err)

	require.Len(t, merged, 1)
	assert.NotEmpty(t, merged[0].UUID)
	assert.Equal(t, "Louvre Museum", merged[0].Name)
	require.NotNil(t, merged[0].Deduplication)
	assert.Equal(t, 2, merged[0].Deduplication.OriginalCount)
	assert.Equal(t, []string{"chunk-1", "chunk-1"}, merged[0].Deduplication.SourceChunks)

	// Two distinct member descriptions, so the summarizer's reconciliation
	// replaces the merge policy's pick.
	assert.Equal(t, "World-famous art museum, home of the Mona Lisa.", merged[0].Description)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.GroupsCreated)
	assert.Equal(t, stats, atlas.Stats())

	assert.Equal(t, merged, atlas.Results("trip-1"))
	assert.Empty(t, atlas.Results("trip-2"))
}

func TestIngestTextWithoutLLM(t *testing.T) {
	atlas, err := NewAtlas(nil, nil, &config.Config{})
	require.NoError(t, err)

	_, err = atlas.IngestText(context.Background(), "trip-1", "chunk-1", "some text")
	assert.Error(t, err)
}

func TestAddCandidatesWithoutLLM(t *testing.T) {
	// The raw-candidate path needs neither LLM nor driver.
	atlas, err := NewAtlas(nil, nil, &config.Config{})
	require.NoError(t, err)

	atlas.AddCandidates("trip-1", []model.LocationCandidate{
		{Name: "Eiffel Tower", Type: "landmark", Confidence: 0.9, ChunkID: "c1"},
		{Name: "The Eiffel Tower", Type: "landmark", Confidence: 0.8, ChunkID: "c2"},
		{Name: "Luxembourg Gardens", Type: "park", Confidence: 0.7, ChunkID: "c1"},
	})

	merged, stats, err := atlas.DedupeGroup(context.Background(), "trip-1")
	require.NoError(t, err)

	assert.Len(t, merged, 2)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 1, stats.DuplicatesFound)
	for _, m := range merged {
		assert.NotEmpty(t, m.UUID)
	}
}

func TestDedupeGroupPersists(t *testing.T) {
	mockDriver := &MockDriver{}
	atlas, err := NewAtlas(mockDriver, nil, &config.Config{})
	require.NoError(t, err)

	atlas.AddCandidates("trip-1", []model.LocationCandidate{
		{Name: "Louvre Museum", Type: "museum", Confidence: 0.9, ChunkID: "c1"},
		{Name: "Musée du Louvre", Type: "museum", Confidence: 0.8, ChunkID: "c2"},
	})

	merged, _, err := atlas.DedupeGroup(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, merged, 1)

	// One location write plus a chunk node and an extraction edge per chunk.
	assert.Contains(t, mockDriver.Queries, driver.SaveLocationQuery)
	assert.Contains(t, mockDriver.Queries, driver.SaveChunkQuery)
	assert.Contains(t, mockDriver.Queries, driver.SaveExtractionEdgeQuery)
	assert.Len(t, mockDriver.Queries, 5)

	assert.Equal(t, "trip-1", mockDriver.Params[0]["group_id"])
	assert.Equal(t, merged[0].UUID, mockDriver.Params[0]["uuid"])
	assert.Equal(t, true, mockDriver.Params[0]["is_merged"])
	assert.Equal(t, 2, mockDriver.Params[0]["original_count"])
}

func TestDedupeGroupDriverError(t *testing.T) {
	mockDriver := &MockDriver{Err: assert.AnError}
	atlas, err := NewAtlas(mockDriver, nil, &config.Config{})
	require.NoError(t, err)

	atlas.AddCandidates("trip-1", []model.LocationCandidate{
		{Name: "Louvre Museum", Type: "museum", ChunkID: "c1"},
	})

	_, _, err = atlas.DedupeGroup(context.Background(), "trip-1")
	assert.Error(t, err)
	assert.Empty(t, atlas.Results("trip-1"))
}

func TestNewAtlasRejectsBadConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Dedupe.SimilarityThreshold = 2.0

	_, err := NewAtlas(nil, nil, cfg)
	assert.Error(t, err)
}
