package model

// LocationCandidate is one raw, possibly duplicated location record as
// produced by an extraction pass. Fields absent in the source payload keep
// their zero value; Confidence is clamped to [0,1] at construction.
type LocationCandidate struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	SourceText  string  `json:"source_text"`
	Confidence  float64 `json:"confidence"`
	ChunkID     string  `json:"chunk_id"`
}

// NewLocationCandidate builds a candidate with the confidence clamped into
// [0,1]. Extraction output is noisy; out-of-range confidences are treated as
// saturation, not as errors.
func NewLocationCandidate(name, locType, description, sourceText string, confidence float64, chunkID string) LocationCandidate {
	return LocationCandidate{
		Name:        name,
		Type:        locType,
		Description: description,
		SourceText:  sourceText,
		Confidence:  ClampConfidence(confidence),
		ChunkID:     chunkID,
	}
}

// ClampConfidence forces a confidence value into [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Deduplication carries the provenance of a merge.
type Deduplication struct {
	IsMerged        bool     `json:"is_merged"`
	OriginalCount   int      `json:"original_count"`
	MergeConfidence float64  `json:"merge_confidence"`
	SourceChunks    []string `json:"source_chunks"`
}

// MergedLocation is one canonical output record. Deduplication is nil for
// candidates that had no detected duplicate; those pass through unchanged.
type MergedLocation struct {
	UUID          string         `json:"uuid,omitempty"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Description   string         `json:"description"`
	SourceText    string         `json:"source_text"`
	Confidence    float64        `json:"confidence"`
	ChunkID       string         `json:"chunk_id,omitempty"`
	Deduplication *Deduplication `json:"deduplication,omitempty"`
}

// Candidate converts a merged record back into candidate shape, which is what
// makes re-running deduplication on its own output well defined.
func (m MergedLocation) Candidate() LocationCandidate {
	return LocationCandidate{
		Name:        m.Name,
		Type:        m.Type,
		Description: m.Description,
		SourceText:  m.SourceText,
		Confidence:  m.Confidence,
		ChunkID:     m.ChunkID,
	}
}

// DuplicateGroup is one connected component of the similarity graph,
// expressed as indices into the candidate slice.
type DuplicateGroup struct {
	Indices []int
}
