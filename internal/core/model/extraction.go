package model

// ExtractedLocation is the JSON shape the extraction prompt asks the LLM for.
type ExtractedLocation struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	SourceText  string  `json:"source_text"`
	Confidence  float64 `json:"confidence"`
}

type ExtractedLocations struct {
	Locations []ExtractedLocation `json:"locations"`
}

// LocationSummary is the JSON shape of a description-reconciliation response.
type LocationSummary struct {
	Description string `json:"description"`
}
