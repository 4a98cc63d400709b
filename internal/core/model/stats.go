package model

// MemberSummary is the audit trail entry for one original member of a merged
// group. SourceText is truncated for readability.
type MemberSummary struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	SourceText string  `json:"source_text"`
	ChunkID    string  `json:"chunk_id"`
}

// GroupDetail describes one merged group in the merge report.
type GroupDetail struct {
	GroupID         int             `json:"group_id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	MergeConfidence float64         `json:"merge_confidence"`
	TypeConflict    bool            `json:"type_conflict,omitempty"`
	Members         []MemberSummary `json:"members"`
}

// MergeReport is the structured per-group audit output of one run.
type MergeReport struct {
	TotalGroups   int           `json:"total_groups"`
	SizeHistogram map[int]int   `json:"size_histogram"`
	Groups        []GroupDetail `json:"groups"`
}

// DedupeStats aggregates one deduplication run. Counters are overwritten, not
// summed, by the next run.
type DedupeStats struct {
	Processed       int         `json:"processed"`
	DuplicatesFound int         `json:"duplicates_found"`
	GroupsCreated   int         `json:"groups_created"`
	MergeDetails    MergeReport `json:"merge_details"`
}
