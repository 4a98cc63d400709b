package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ExtractionPrompts struct {
	// Locations is a fmt template receiving the chunk text. It must ask for
	// the JSON shape of model.ExtractedLocations.
	Locations string `toml:"locations"`
}

type SummaryPrompts struct {
	// Description receives the location name and the member descriptions to
	// reconcile into one blurb.
	Description string `toml:"description"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// DedupeConfig is the deduplication engine's configuration surface. Zero
// values mean "use the engine default"; the engine validates ranges and
// merge policy names when it is constructed, so a bad threshold or an
// unrecognized policy fails at startup rather than at comparison time.
type DedupeConfig struct {
	SimilarityThreshold float64           `toml:"similarity_threshold"`
	NameWeight          float64           `toml:"name_weight"`
	TypeWeight          float64           `toml:"type_weight"`
	DescriptionWeight   float64           `toml:"description_weight"`
	SourceWeight        float64           `toml:"source_weight"`
	MergeStrategy       map[string]string `toml:"merge_strategy"`
}

type Config struct {
	LLM        LLMConfig         `toml:"llm"`
	Memgraph   MemgraphConfig    `toml:"memgraph"`
	Extraction ExtractionPrompts `toml:"extraction"`
	Summary    SummaryPrompts    `toml:"summary"`
	Dedupe     DedupeConfig      `toml:"dedupe"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
