package genconfig

import (
	"testing"

	"github.com/sakabe/article-pipeline/internal/classifier"
)

func TestResolveMaxAlwaysExceedsMin(t *testing.T) {
	wordCounts := []int{0, 5, 40, 100, 399, 400, 401, 2000, 100000}
	types := []classifier.ContentType{
		classifier.TypeArticle,
		classifier.TypeTechnical,
		classifier.TypeResearch,
	}

	for _, ct := range types {
		for _, wc := range wordCounts {
			cfg := Resolve(ct, Overrides{}, wc)
			if cfg.MaxLength <= cfg.MinLength {
				t.Errorf("Resolve(%s, wordCount=%d): max_length %d must exceed min_length %d",
					ct, wc, cfg.MaxLength, cfg.MinLength)
			}
		}
	}
}

func TestResolveOverridesWin(t *testing.T) {
	maxLen := 300
	temp := 0.9
	beams := 8
	ov := Overrides{
		MaxLength:   &maxLen,
		Temperature: &temp,
		NumBeams:    &beams,
	}

	cfg := Resolve(classifier.TypeArticle, ov, 0)

	if cfg.MaxLength != 300 {
		t.Errorf("Expected overridden max_length 300, got %d", cfg.MaxLength)
	}
	if cfg.Temperature != 0.9 {
		t.Errorf("Expected overridden temperature 0.9, got %f", cfg.Temperature)
	}
	if cfg.NumBeams != 8 {
		t.Errorf("Expected overridden num_beams 8, got %d", cfg.NumBeams)
	}
	// Untouched keys keep content-type defaults.
	if cfg.TopP != 0.95 {
		t.Errorf("Expected default top_p 0.95, got %f", cfg.TopP)
	}
}

func TestResolveLengthDerivation(t *testing.T) {
	// 40-word input: max_length capped at 40/2=20, min_length floor 40/4=10
	// stays below the article default of 100, so the consistency floor kicks
	// in: max_length = min_length + 25.
	cfg := Resolve(classifier.TypeArticle, Overrides{}, 40)

	if cfg.MinLength < 10 {
		t.Errorf("Expected min_length >= 10, got %d", cfg.MinLength)
	}
	if cfg.MaxLength != cfg.MinLength+25 {
		t.Errorf("Expected max_length %d (min+25), got %d", cfg.MinLength+25, cfg.MaxLength)
	}
}

func TestResolveLongInputKeepsConfiguredBounds(t *testing.T) {
	// 2000-word input: 2000/2=1000 > default 512, 2000/4=500 > default 100.
	cfg := Resolve(classifier.TypeArticle, Overrides{}, 2000)

	if cfg.MaxLength != 512 {
		t.Errorf("Expected configured max_length 512, got %d", cfg.MaxLength)
	}
	if cfg.MinLength != 500 {
		t.Errorf("Expected derived min_length 500, got %d", cfg.MinLength)
	}
}

func TestParseOverrides(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMax int
	}{
		{"Valid JSON", `{"max_length": 256}`, 256},
		{"Malformed JSON treated as empty", `{max_length: 256`, 512},
		{"Empty string treated as empty", "", 512},
		{"Unknown keys ignored", `{"beam_width": 12}`, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov := ParseOverrides(tt.raw)
			cfg := Resolve(classifier.TypeArticle, ov, 0)
			if cfg.MaxLength != tt.wantMax {
				t.Errorf("Expected max_length %d, got %d", tt.wantMax, cfg.MaxLength)
			}
		})
	}
}

func TestDefaultsPerContentType(t *testing.T) {
	article := Defaults(classifier.TypeArticle)
	technical := Defaults(classifier.TypeTechnical)
	research := Defaults(classifier.TypeResearch)

	if technical.Temperature >= article.Temperature {
		t.Errorf("Expected technical temperature below article default")
	}
	if research.MinLength <= article.MinLength {
		t.Errorf("Expected research min_length above article default")
	}
	for _, cfg := range []GenerationConfig{article, technical, research} {
		if cfg.MaxLength <= cfg.MinLength {
			t.Errorf("Default config violates max > min: %+v", cfg)
		}
	}
}
