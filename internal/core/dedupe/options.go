package dedupe

import (
	"fmt"

	"github.com/agenthands/atlas/internal/config"
)

// Default scoring weights. The full-weight paths sum to exactly 1.0; the
// type-compatibility discount only ever lowers the total.
const (
	DefaultThreshold         = 0.75
	DefaultNameWeight        = 0.4
	DefaultTypeWeight        = 0.2
	DefaultDescriptionWeight = 0.25
	DefaultSourceWeight      = 0.15
)

// supportedPolicies is the fixed per-field merge policy set. Unrecognized
// policy names are rejected at validation time rather than silently
// defaulted.
var supportedPolicies = map[string]string{
	"name":        "highest_confidence",
	"type":        "most_specific",
	"description": "longest",
	"confidence":  "average",
	"source_text": "concat_unique",
}

// Options is the engine's configuration surface. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	Threshold         float64
	NameWeight        float64
	TypeWeight        float64
	DescriptionWeight float64
	SourceWeight      float64

	// MergeStrategy names the policy per output field. Empty means the
	// defaults from supportedPolicies.
	MergeStrategy map[string]string
}

func DefaultOptions() Options {
	return Options{
		Threshold:         DefaultThreshold,
		NameWeight:        DefaultNameWeight,
		TypeWeight:        DefaultTypeWeight,
		DescriptionWeight: DefaultDescriptionWeight,
		SourceWeight:      DefaultSourceWeight,
	}
}

// OptionsFrom maps the loaded configuration onto engine options. A zero
// threshold falls back to the default; the four weights are taken as a set,
// so leaving all of them unset keeps the default weighting while setting any
// of them makes the caller responsible for the whole set.
func OptionsFrom(cfg config.DedupeConfig) Options {
	opts := DefaultOptions()
	if cfg.SimilarityThreshold != 0 {
		opts.Threshold = cfg.SimilarityThreshold
	}
	if cfg.NameWeight != 0 || cfg.TypeWeight != 0 || cfg.DescriptionWeight != 0 || cfg.SourceWeight != 0 {
		opts.NameWeight = cfg.NameWeight
		opts.TypeWeight = cfg.TypeWeight
		opts.DescriptionWeight = cfg.DescriptionWeight
		opts.SourceWeight = cfg.SourceWeight
	}
	if len(cfg.MergeStrategy) > 0 {
		opts.MergeStrategy = cfg.MergeStrategy
	}
	return opts
}

// Validate rejects configurations the engine cannot honor: an out-of-range
// threshold, negative or over-unity weights, or a merge policy it does not
// implement.
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("similarity threshold %v outside [0,1]", o.Threshold)
	}

	weights := map[string]float64{
		"name":        o.NameWeight,
		"type":        o.TypeWeight,
		"description": o.DescriptionWeight,
		"source":      o.SourceWeight,
	}
	total := 0.0
	for field, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s weight %v outside [0,1]", field, w)
		}
		total += w
	}
	if total > 1.0+1e-9 {
		return fmt.Errorf("weights sum to %v, must not exceed 1.0", total)
	}

	for field, policy := range o.MergeStrategy {
		want, ok := supportedPolicies[field]
		if !ok {
			return fmt.Errorf("merge strategy names unknown field %q", field)
		}
		if policy != want {
			return fmt.Errorf("unsupported merge policy %q for field %q (supported: %q)", policy, field, want)
		}
	}

	return nil
}
