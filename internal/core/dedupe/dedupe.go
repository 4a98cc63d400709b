// Package dedupe collapses noisy, possibly duplicated location candidates
// into a canonical set. The engine is deterministic and purely in-memory:
// pairwise multi-signal similarity scoring drives a disjoint-set clustering
// pass, and each resulting group is merged by per-field policy.
package dedupe

import (
	"github.com/agenthands/atlas/internal/core/model"
)

// Deduplicator runs deduplication with a fixed set of options. The instance
// keeps the statistics of its most recent run; that state is not
// synchronized, so concurrent use of one instance needs external locking
// (or one instance per call).
type Deduplicator struct {
	opts   Options
	scorer *Scorer
	stats  model.DedupeStats
}

func NewDeduplicator(opts Options) (*Deduplicator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Deduplicator{
		opts:   opts,
		scorer: NewScorer(opts),
	}, nil
}

// Score exposes the pairwise similarity of two candidates under this
// deduplicator's weights.
func (d *Deduplicator) Score(a, b model.LocationCandidate) float64 {
	return d.scorer.Score(a, b)
}

// Deduplicate collapses the candidate list into canonical records and
// returns them with the run's statistics. Candidates with no detected
// duplicate pass through unchanged, without a deduplication block. The
// previous run's statistics are overwritten, not accumulated.
//
// Every unordered pair is scored, so the pass is O(n^2) similarity
// evaluations; acceptable up to a few thousand candidates per run.
func (d *Deduplicator) Deduplicate(candidates []model.LocationCandidate) ([]model.MergedLocation, model.DedupeStats) {
	// Confidence is clamped on every entry path, not just the constructor;
	// candidates decoded straight from JSON land here too.
	cands := make([]model.LocationCandidate, len(candidates))
	for i, c := range candidates {
		c.Confidence = model.ClampConfidence(c.Confidence)
		cands[i] = c
	}

	groups := d.Cluster(cands)

	merged := make([]model.MergedLocation, 0, len(groups))
	for _, g := range groups {
		if len(g.Indices) == 1 {
			merged = append(merged, passthrough(cands[g.Indices[0]]))
			continue
		}
		merged = append(merged, d.mergeGroup(pick(cands, g.Indices)))
	}

	d.stats = d.buildStats(cands, groups, merged)
	return merged, d.stats
}

// Cluster partitions candidate indices into duplicate groups: every pair
// scoring at or above the threshold is unioned, and groups are the
// connected components, ordered by smallest member. The result is always a
// partition of the input index range; a group of size 1 is a candidate with
// no detected duplicate.
func (d *Deduplicator) Cluster(cands []model.LocationCandidate) []model.DuplicateGroup {
	uf := newUnionFind(len(cands))
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if d.scorer.Score(cands[i], cands[j]) >= d.opts.Threshold {
				uf.union(i, j)
			}
		}
	}

	components := uf.components()
	groups := make([]model.DuplicateGroup, 0, len(components))
	for _, c := range components {
		groups = append(groups, model.DuplicateGroup{Indices: c})
	}
	return groups
}

// Stats returns the statistics of the most recent run.
func (d *Deduplicator) Stats() model.DedupeStats {
	return d.stats
}

// ResetStats clears the retained statistics.
func (d *Deduplicator) ResetStats() {
	d.stats = model.DedupeStats{}
}

func passthrough(c model.LocationCandidate) model.MergedLocation {
	return model.MergedLocation{
		Name:        c.Name,
		Type:        c.Type,
		Description: c.Description,
		SourceText:  c.SourceText,
		Confidence:  c.Confidence,
		ChunkID:     c.ChunkID,
	}
}

func pick(cands []model.LocationCandidate, indices []int) []model.LocationCandidate {
	out := make([]model.LocationCandidate, 0, len(indices))
	for _, i := range indices {
		out = append(out, cands[i])
	}
	return out
}
