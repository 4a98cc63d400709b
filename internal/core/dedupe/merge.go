package dedupe

import (
	"sort"
	"strings"

	"github.com/agenthands/atlas/internal/core/model"
)

// typePriority ranks location types by specificity, lower being more
// specific. Unknown types rank last.
var typePriority = map[string]int{
	"landmark":   1,
	"museum":     2,
	"gallery":    3,
	"park":       4,
	"garden":     5,
	"hotel":      6,
	"restaurant": 7,
	"cafe":       8,
	"theater":    9,
	"transport":  10,
}

const unknownTypePriority = 11

func priorityOf(locType string) int {
	if p, ok := typePriority[strings.ToLower(locType)]; ok {
		return p
	}
	return unknownTypePriority
}

// mergeGroup collapses a group of size >= 2 into one canonical record.
// members must be in input order; chunk provenance and type tie-breaking
// depend on it.
func (d *Deduplicator) mergeGroup(members []model.LocationCandidate) model.MergedLocation {
	// Highest confidence first; stable, so ties keep input order.
	byConfidence := make([]model.LocationCandidate, len(members))
	copy(byConfidence, members)
	sort.SliceStable(byConfidence, func(i, j int) bool {
		return byConfidence[i].Confidence > byConfidence[j].Confidence
	})
	representative := byConfidence[0]

	// Most specific type wins; ties break by input order, so scan members,
	// not the confidence-sorted view.
	locType := representative.Type
	bestPriority := unknownTypePriority + 1
	for _, m := range members {
		if m.Type == "" {
			continue
		}
		if p := priorityOf(m.Type); p < bestPriority {
			bestPriority = p
			locType = m.Type
		}
	}

	description := ""
	for _, m := range byConfidence {
		if len(m.Description) > len(description) {
			description = m.Description
		}
	}

	var confidenceSum float64
	for _, m := range members {
		confidenceSum += m.Confidence
	}

	// Non-empty source texts, deduplicated exactly, first-seen order.
	var sources []string
	seen := make(map[string]struct{})
	for _, m := range byConfidence {
		if m.SourceText == "" {
			continue
		}
		if _, dup := seen[m.SourceText]; dup {
			continue
		}
		seen[m.SourceText] = struct{}{}
		sources = append(sources, m.SourceText)
	}

	chunks := make([]string, 0, len(members))
	for _, m := range members {
		chunks = append(chunks, m.ChunkID)
	}

	return model.MergedLocation{
		Name:        representative.Name,
		Type:        locType,
		Description: description,
		SourceText:  strings.Join(sources, " | "),
		Confidence:  confidenceSum / float64(len(members)),
		ChunkID:     representative.ChunkID,
		Deduplication: &model.Deduplication{
			IsMerged:        true,
			OriginalCount:   len(members),
			MergeConfidence: d.meanPairwiseScore(members),
			SourceChunks:    chunks,
		},
	}
}

// meanPairwiseScore recomputes the average similarity over all unordered
// member pairs. Degenerate groups score 0; a single member trivially scores 1.
func (d *Deduplicator) meanPairwiseScore(members []model.LocationCandidate) float64 {
	if len(members) == 1 {
		return 1.0
	}
	if len(members) < 2 {
		return 0.0
	}
	var total float64
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += d.scorer.Score(members[i], members[j])
			pairs++
		}
	}
	return total / float64(pairs)
}

// hasTypeConflict reports whether a group contains members whose non-empty
// types are neither equal nor in the same compatibility group. Such merges
// are still performed but flagged for review in the merge report.
func hasTypeConflict(members []model.LocationCandidate) bool {
	for i := 0; i < len(members); i++ {
		if members[i].Type == "" {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			if members[j].Type == "" {
				continue
			}
			if strings.EqualFold(members[i].Type, members[j].Type) {
				continue
			}
			if !compatibleTypes(members[i].Type, members[j].Type) {
				return true
			}
		}
	}
	return false
}
