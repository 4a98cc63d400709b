package dedupe

import (
	"strings"

	"github.com/agenthands/atlas/internal/core/model"
	"github.com/agenthands/atlas/internal/core/normalize"
)

// typeGroups lists location-type labels considered interchangeable for
// similarity purposes. Compatible but non-equal types earn 0.7x the type
// weight.
var typeGroups = [][]string{
	{"museum", "gallery"},
	{"park", "garden"},
	{"theater", "theatre"},
	{"market", "bazaar"},
	{"hotel", "accommodation"},
	{"restaurant", "cafe", "bistro"},
	{"landmark", "monument"},
	{"palace", "castle"},
	{"basilica", "church", "cathedral"},
}

// typeGroupOf maps a type label to its compatibility group id.
var typeGroupOf = func() map[string]int {
	m := make(map[string]int)
	for id, group := range typeGroups {
		for _, t := range group {
			m[t] = id
		}
	}
	return m
}()

// compatibleTypes reports whether two non-equal type labels belong to the
// same compatibility group.
func compatibleTypes(a, b string) bool {
	ga, ok := typeGroupOf[strings.ToLower(a)]
	if !ok {
		return false
	}
	gb, ok := typeGroupOf[strings.ToLower(b)]
	return ok && ga == gb
}

// Scorer computes the combined pairwise similarity of two candidates. It is
// deterministic and symmetric, and every score lies in [0,1].
type Scorer struct {
	opts Options
}

func NewScorer(opts Options) *Scorer {
	return &Scorer{opts: opts}
}

// Score combines the name, type, description, and source-context signals
// into one weighted score. Two candidates whose names agree exactly after
// normalization are the same location regardless of the remaining signals,
// so that case short-circuits to 1.0. Empty normalized names never match
// anything, including each other.
func (s *Scorer) Score(a, b model.LocationCandidate) float64 {
	na := normalize.Name(a.Name)
	nb := normalize.Name(b.Name)

	if na != "" && na == nb {
		return 1.0
	}

	score := s.nameSimilarity(na, nb) * s.opts.NameWeight
	score += s.typeScore(a.Type, b.Type)
	score += textSimilarity(a.Description, b.Description) * s.opts.DescriptionWeight
	score += textSimilarity(a.SourceText, b.SourceText) * s.opts.SourceWeight

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// nameSimilarity is the maximum of several signals computed on normalized
// names: the base edit-similarity ratio, a substring floor of 0.8, a word
// overlap floor of 0.75, and a key-word overlap floor of 0.8.
func (s *Scorer) nameSimilarity(na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	sim := matchRatio(na, nb)

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		sim = max(sim, 0.8)
	}

	if wordOverlap(normalize.Tokens(na), normalize.Tokens(nb)) >= 0.5 {
		sim = max(sim, 0.75)
	}

	if wordOverlap(normalize.KeyTokens(na), normalize.KeyTokens(nb)) >= 0.5 {
		sim = max(sim, 0.8)
	}

	return sim
}

func (s *Scorer) typeScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return s.opts.TypeWeight
	}
	if compatibleTypes(a, b) {
		return 0.7 * s.opts.TypeWeight
	}
	return 0
}

// textSimilarity is the plain case-insensitive edit-similarity ratio used
// for descriptions and source contexts. Either side empty scores 0.
func textSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return matchRatio(strings.ToLower(a), strings.ToLower(b))
}

// wordOverlap is intersection size over the larger set's size.
func wordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	common := 0
	seen := make(map[string]struct{}, len(b))
	for _, w := range b {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := set[w]; ok {
			common++
		}
	}
	larger := len(set)
	if len(seen) > larger {
		larger = len(seen)
	}
	return float64(common) / float64(larger)
}

// matchRatio is a longest-matching-block similarity ratio in [0,1]: the
// strings are recursively partitioned around their longest common substring
// and the ratio is 2*matched / (len(a)+len(b)).
func matchRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	// The tie-break below depends on argument order, so canonicalize it to
	// keep the ratio symmetric.
	if a > b {
		a, b = b, a
	}

	matched := 0
	stack := []window{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ai, bi, size := longestCommonBlock(a, b, w)
		if size == 0 {
			continue
		}
		matched += size
		stack = append(stack,
			window{w.alo, ai, w.blo, bi},
			window{ai + size, w.ahi, bi + size, w.bhi},
		)
	}

	return 2 * float64(matched) / float64(len(a)+len(b))
}

// window bounds one sub-problem of the block search: a[alo:ahi] vs b[blo:bhi].
type window struct{ alo, ahi, blo, bhi int }

// longestCommonBlock finds the longest common substring of a[alo:ahi] and
// b[blo:bhi] by dynamic programming over a rolling row. Ties resolve to the
// earliest position in a, keeping the ratio deterministic.
func longestCommonBlock(a, b string, w window) (bestA, bestB, bestSize int) {
	bestA, bestB = w.alo, w.blo

	prev := make([]int, w.bhi-w.blo+1)
	curr := make([]int, w.bhi-w.blo+1)
	for i := w.alo; i < w.ahi; i++ {
		for j := w.blo; j < w.bhi; j++ {
			if a[i] == b[j] {
				run := prev[j-w.blo] + 1
				curr[j-w.blo+1] = run
				if run > bestSize {
					bestSize = run
					bestA = i - run + 1
					bestB = j - run + 1
				}
			} else {
				curr[j-w.blo+1] = 0
			}
		}
		prev, curr = curr, prev
		clear(curr)
	}
	return bestA, bestB, bestSize
}
