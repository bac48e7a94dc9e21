// Package genconfig resolves the generation parameters for one
// summarization call from content-type defaults, caller overrides, and the
// length of the source text.
package genconfig

import (
	"encoding/json"

	"github.com/sakabe/article-pipeline/internal/classifier"
)

// consistencyMargin keeps max_length above min_length whenever the derived
// bounds collapse.
const consistencyMargin = 25

// GenerationConfig holds the fully resolved parameters for a generation call.
type GenerationConfig struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	Temperature       float64 `json:"temperature"`
	NumBeams          int     `json:"num_beams"`
	LengthPenalty     float64 `json:"length_penalty"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`
	EarlyStopping     bool    `json:"early_stopping"`
}

// Overrides carries caller-supplied parameters. Only keys present in the
// source JSON replace defaults; absent keys keep the content-type value.
type Overrides struct {
	MaxLength         *int     `json:"max_length"`
	MinLength         *int     `json:"min_length"`
	Temperature       *float64 `json:"temperature"`
	NumBeams          *int     `json:"num_beams"`
	LengthPenalty     *float64 `json:"length_penalty"`
	RepetitionPenalty *float64 `json:"repetition_penalty"`
	TopP              *float64 `json:"top_p"`
	TopK              *int     `json:"top_k"`
	NoRepeatNgramSize *int     `json:"no_repeat_ngram_size"`
	EarlyStopping     *bool    `json:"early_stopping"`
}

// ParseOverrides decodes a caller-supplied JSON parameter object. Malformed
// or empty input yields empty overrides rather than an error.
func ParseOverrides(raw string) Overrides {
	var ov Overrides
	if raw == "" {
		return ov
	}
	if err := json.Unmarshal([]byte(raw), &ov); err != nil {
		return Overrides{}
	}
	return ov
}

// Defaults returns the fixed parameter set for a content type.
func Defaults(contentType classifier.ContentType) GenerationConfig {
	switch contentType {
	case classifier.TypeTechnical:
		return GenerationConfig{
			MaxLength:         768,
			MinLength:         150,
			Temperature:       0.5,
			NumBeams:          6,
			LengthPenalty:     1.8,
			RepetitionPenalty: 1.3,
			TopP:              0.9,
			TopK:              40,
			NoRepeatNgramSize: 3,
			EarlyStopping:     true,
		}
	case classifier.TypeResearch:
		return GenerationConfig{
			MaxLength:         896,
			MinLength:         200,
			Temperature:       0.4,
			NumBeams:          6,
			LengthPenalty:     1.5,
			RepetitionPenalty: 1.2,
			TopP:              0.9,
			TopK:              40,
			NoRepeatNgramSize: 4,
			EarlyStopping:     true,
		}
	default:
		return GenerationConfig{
			MaxLength:         512,
			MinLength:         100,
			Temperature:       0.7,
			NumBeams:          4,
			LengthPenalty:     2.0,
			RepetitionPenalty: 1.5,
			TopP:              0.95,
			TopK:              50,
			NoRepeatNgramSize: 3,
			EarlyStopping:     true,
		}
	}
}

// Resolve merges content-type defaults with caller overrides and derives
// input-length-relative bounds. wordCount is the source text word count; a
// non-positive value skips length derivation.
func Resolve(contentType classifier.ContentType, overrides Overrides, wordCount int) GenerationConfig {
	cfg := Defaults(contentType)
	overrides.apply(&cfg)

	if wordCount > 0 {
		if derived := wordCount / 2; derived < cfg.MaxLength {
			cfg.MaxLength = derived
		}
		if derived := wordCount / 4; derived > cfg.MinLength {
			cfg.MinLength = derived
		}
	}

	if cfg.MaxLength <= cfg.MinLength {
		cfg.MaxLength = cfg.MinLength + consistencyMargin
	}

	return cfg
}

func (o Overrides) apply(cfg *GenerationConfig) {
	if o.MaxLength != nil {
		cfg.MaxLength = *o.MaxLength
	}
	if o.MinLength != nil {
		cfg.MinLength = *o.MinLength
	}
	if o.Temperature != nil {
		cfg.Temperature = *o.Temperature
	}
	if o.NumBeams != nil {
		cfg.NumBeams = *o.NumBeams
	}
	if o.LengthPenalty != nil {
		cfg.LengthPenalty = *o.LengthPenalty
	}
	if o.RepetitionPenalty != nil {
		cfg.RepetitionPenalty = *o.RepetitionPenalty
	}
	if o.TopP != nil {
		cfg.TopP = *o.TopP
	}
	if o.TopK != nil {
		cfg.TopK = *o.TopK
	}
	if o.NoRepeatNgramSize != nil {
		cfg.NoRepeatNgramSize = *o.NoRepeatNgramSize
	}
	if o.EarlyStopping != nil {
		cfg.EarlyStopping = *o.EarlyStopping
	}
}
