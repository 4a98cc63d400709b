// Package core wires extraction, deduplication, and persistence into the
// Atlas pipeline: text chunks in, canonical locations out.
package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/atlas/internal/config"
	"github.com/agenthands/atlas/internal/core/dedupe"
	"github.com/agenthands/atlas/internal/core/extraction"
	"github.com/agenthands/atlas/internal/core/model"
	"github.com/agenthands/atlas/internal/core/summary"
	"github.com/agenthands/atlas/internal/driver"
	"github.com/agenthands/atlas/internal/llm"
)

// Atlas accumulates location candidates per group, deduplicates them on
// demand, and optionally persists the canonical set. Driver and LLM are both
// optional: without a driver results stay in memory, without an LLM only the
// raw-candidate path works (no extraction, no description reconciliation).
type Atlas struct {
	Driver       driver.GraphDriver
	LLM          llm.LLMClient
	Extractor    *extraction.Extractor
	Deduplicator *dedupe.Deduplicator
	Summarizer   *summary.Summarizer

	mu         sync.Mutex
	candidates map[string][]model.LocationCandidate
	results    map[string][]model.MergedLocation
}

func NewAtlas(d driver.GraphDriver, llmClient llm.LLMClient, cfg *config.Config) (*Atlas, error) {
	ded, err := dedupe.NewDeduplicator(dedupe.OptionsFrom(cfg.Dedupe))
	if err != nil {
		return nil, fmt.Errorf("invalid dedupe configuration: %w", err)
	}

	a := &Atlas{
		Driver:       d,
		LLM:          llmClient,
		Deduplicator: ded,
		candidates:   make(map[string][]model.LocationCandidate),
		results:      make(map[string][]model.MergedLocation),
	}
	if llmClient != nil {
		a.Extractor = extraction.NewExtractor(llmClient, cfg.Extraction)
		a.Summarizer = summary.NewSummarizer(llmClient, cfg.Summary)
	}
	return a, nil
}

// IngestText extracts location candidates from one text chunk and queues
// them for the group. Returns how many candidates were extracted.
func (a *Atlas) IngestText(ctx context.Context, groupID, chunkID, content string) (int, error) {
	if a.Extractor == nil {
		return 0, fmt.Errorf("no LLM configured, cannot extract from text")
	}
	if chunkID == "" {
		chunkID = uuid.New().String()
	}

	cands, err := a.Extractor.ExtractLocations(ctx, chunkID, content)
	if err != nil {
		return 0, fmt.Errorf("failed to extract from chunk %s: %w", chunkID, err)
	}

	a.AddCandidates(groupID, cands)
	return len(cands), nil
}

// AddCandidates queues pre-extracted candidates for the group.
func (a *Atlas) AddCandidates(groupID string, cands []model.LocationCandidate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.candidates[groupID] = append(a.candidates[groupID], cands...)
}

// DedupeGroup collapses the group's accumulated candidates into canonical
// locations, persists them when a driver is configured, and returns them
// with the run's statistics. The accumulated candidates stay queued, so a
// later ingest plus re-dedupe re-clusters from scratch (the engine has no
// incremental mode).
func (a *Atlas) DedupeGroup(ctx context.Context, groupID string) ([]model.MergedLocation, model.DedupeStats, error) {
	a.mu.Lock()
	cands := make([]model.LocationCandidate, len(a.candidates[groupID]))
	copy(cands, a.candidates[groupID])
	a.mu.Unlock()

	merged, stats := a.Deduplicator.Deduplicate(cands)

	a.reconcileDescriptions(ctx, cands, merged)

	for i := range merged {
		if merged[i].UUID == "" {
			merged[i].UUID = uuid.New().String()
		}
	}

	if a.Driver != nil {
		if err := a.persist(ctx, groupID, merged); err != nil {
			return nil, model.DedupeStats{}, err
		}
	}

	a.mu.Lock()
	a.results[groupID] = merged
	a.mu.Unlock()

	return merged, stats, nil
}

// Results returns the canonical locations of the group's last dedupe run.
func (a *Atlas) Results(groupID string) []model.MergedLocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.results[groupID]
}

// Stats returns the engine's last-run statistics.
func (a *Atlas) Stats() model.DedupeStats {
	return a.Deduplicator.Stats()
}

// reconcileDescriptions asks the summarizer to collapse conflicting member
// descriptions of merged groups. Best effort: failures keep the merge
// policy's choice (the longest description).
func (a *Atlas) reconcileDescriptions(ctx context.Context, cands []model.LocationCandidate, merged []model.MergedLocation) {
	if a.Summarizer == nil {
		return
	}

	groups := a.Deduplicator.Cluster(cands)
	for i, g := range groups {
		if len(g.Indices) < 2 {
			continue
		}

		var descriptions []string
		seen := make(map[string]struct{})
		for _, idx := range g.Indices {
			d := cands[idx].Description
			if d == "" {
				continue
			}
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			descriptions = append(descriptions, d)
		}
		if len(descriptions) < 2 {
			continue
		}

		reconciled, err := a.Summarizer.ReconcileDescriptions(ctx, merged[i].Name, descriptions)
		if err != nil {
			log.Printf("Failed to reconcile descriptions for %s: %v", merged[i].Name, err)
			continue
		}
		if reconciled != "" {
			merged[i].Description = reconciled
		}
	}
}

// persist writes the canonical locations and their chunk provenance to the
// graph.
func (a *Atlas) persist(ctx context.Context, groupID string, merged []model.MergedLocation) error {
	now := time.Now().UTC()

	for _, m := range merged {
		chunks := []string{}
		originalCount := 1
		isMerged := false
		mergeConfidence := 1.0
		if m.Deduplication != nil {
			chunks = m.Deduplication.SourceChunks
			originalCount = m.Deduplication.OriginalCount
			isMerged = m.Deduplication.IsMerged
			mergeConfidence = m.Deduplication.MergeConfidence
		} else if m.ChunkID != "" {
			chunks = []string{m.ChunkID}
		}

		params := map[string]interface{}{
			"uuid":             m.UUID,
			"name":             m.Name,
			"type":             m.Type,
			"group_id":         groupID,
			"description":      m.Description,
			"source_text":      m.SourceText,
			"confidence":       m.Confidence,
			"created_at":       now,
			"is_merged":        isMerged,
			"original_count":   originalCount,
			"merge_confidence": mergeConfidence,
			"source_chunks":    chunks,
		}
		if _, err := a.Driver.ExecuteQuery(ctx, driver.SaveLocationQuery, params); err != nil {
			return fmt.Errorf("failed to save location %s: %w", m.Name, err)
		}

		for _, chunkID := range chunks {
			if chunkID == "" {
				continue
			}
			chunkParams := map[string]interface{}{
				"chunk_id":   chunkID,
				"group_id":   groupID,
				"created_at": now,
			}
			if _, err := a.Driver.ExecuteQuery(ctx, driver.SaveChunkQuery, chunkParams); err != nil {
				return fmt.Errorf("failed to save chunk %s: %w", chunkID, err)
			}

			edgeParams := map[string]interface{}{
				"location_uuid": m.UUID,
				"chunk_id":      chunkID,
				"created_at":    now,
			}
			if _, err := a.Driver.ExecuteQuery(ctx, driver.SaveExtractionEdgeQuery, edgeParams); err != nil {
				log.Printf("Failed to link location %s to chunk %s: %v", m.Name, chunkID, err)
			}
		}
	}

	return nil
}
