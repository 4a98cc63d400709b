package dedupe

import (
	"unicode/utf8"

	"github.com/agenthands/atlas/internal/core/model"
)

// sourceTextPreview bounds the per-member source text kept in the merge
// report; the full text survives on the merged record itself.
const sourceTextPreview = 200

// buildStats aggregates one run into counters plus a per-group merge report
// for auditability. Group details are emitted only for groups that actually
// merged; singletons count toward the totals and the size histogram.
func (d *Deduplicator) buildStats(cands []model.LocationCandidate, groups []model.DuplicateGroup, merged []model.MergedLocation) model.DedupeStats {
	stats := model.DedupeStats{
		Processed: len(cands),
		MergeDetails: model.MergeReport{
			TotalGroups:   len(groups),
			SizeHistogram: make(map[int]int),
		},
	}

	for gi, g := range groups {
		size := len(g.Indices)
		stats.MergeDetails.SizeHistogram[size]++
		if size < 2 {
			continue
		}

		stats.DuplicatesFound += size - 1
		stats.GroupsCreated++

		members := pick(cands, g.Indices)
		detail := model.GroupDetail{
			GroupID:         gi,
			Name:            merged[gi].Name,
			Type:            merged[gi].Type,
			MergeConfidence: merged[gi].Deduplication.MergeConfidence,
			TypeConflict:    hasTypeConflict(members),
			Members:         make([]model.MemberSummary, 0, size),
		}
		for _, m := range members {
			detail.Members = append(detail.Members, model.MemberSummary{
				Name:       m.Name,
				Type:       m.Type,
				Confidence: m.Confidence,
				SourceText: truncate(m.SourceText, sourceTextPreview),
				ChunkID:    m.ChunkID,
			})
		}
		stats.MergeDetails.Groups = append(stats.MergeDetails.Groups, detail)
	}

	return stats
}

// truncate cuts s to at most n bytes, backing off to a rune boundary so the
// preview stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
