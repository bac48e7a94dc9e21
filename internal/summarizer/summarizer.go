// Package summarizer drives abstractive summarization: it resolves
// generation parameters, chunks long input, invokes a model provider per
// chunk, and recombines the results.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sakabe/article-pipeline/internal/chunker"
	"github.com/sakabe/article-pipeline/internal/classifier"
	"github.com/sakabe/article-pipeline/internal/genconfig"
)

// minInputChars is the shortest trimmed input accepted for summarization.
const minInputChars = 10

// Handle is a loaded generative model bound to its tokenizer budget.
type Handle interface {
	Name() string
	MaxInputWords() int
	Generate(ctx context.Context, text string, cfg genconfig.GenerationConfig) (string, error)
}

// Provider loads models by hub name.
type Provider interface {
	Load(ctx context.Context, name string) (Handle, error)
}

// Options selects between the behaviors the pipeline supports. The script
// lineage this replaces diverged on both points, so they are explicit here.
type Options struct {
	// DetectContentType classifies the input to pick parameter defaults.
	// When false the request's ContentType is used as-is.
	DetectContentType bool
	// ResummarizeCombined runs one more generation pass over the recombined
	// chunk summaries when they still exceed the configured maximum length.
	ResummarizeCombined bool
	// ChunkBudget is the word budget per chunk; capped by the model's own
	// input window at generation time.
	ChunkBudget int
}

// DefaultOptions enables content-type detection and the post-combination
// pass.
func DefaultOptions() Options {
	return Options{
		DetectContentType:   true,
		ResummarizeCombined: true,
		ChunkBudget:         chunker.DefaultMaxWords,
	}
}

// Request describes one summarization invocation.
type Request struct {
	Text        string
	Model       string
	ContentType classifier.ContentType
	Overrides   genconfig.Overrides
}

// Response is the outcome of a summarization invocation.
type Response struct {
	Summary     string                     `json:"summary"`
	Model       string                     `json:"model"`
	ContentType classifier.ContentType     `json:"content_type"`
	Config      genconfig.GenerationConfig `json:"config"`
	Chunks      int                        `json:"chunks"`
	Retried     bool                       `json:"retried"`
	ProcessedAt time.Time                  `json:"processed_at"`
}

// Driver orchestrates the summarization flow against a model provider.
type Driver struct {
	provider Provider
	opts     Options
}

// New creates a driver.
func New(provider Provider, opts Options) *Driver {
	if opts.ChunkBudget <= 0 {
		opts.ChunkBudget = chunker.DefaultMaxWords
	}
	return &Driver{provider: provider, opts: opts}
}

// Summarize produces an abstractive summary of req.Text.
func (d *Driver) Summarize(ctx context.Context, req Request) (*Response, error) {
	text := strings.TrimSpace(req.Text)
	if len(text) < minInputChars {
		return nil, fmt.Errorf("input text too short: need at least %d characters", minInputChars)
	}

	contentType := req.ContentType
	if d.opts.DetectContentType || contentType == "" {
		contentType = classifier.Classify(text)
	}

	docWords := len(strings.Fields(text))
	docConfig := genconfig.Resolve(contentType, req.Overrides, docWords)

	handle, err := d.provider.Load(ctx, req.Model)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	budget := d.opts.ChunkBudget
	if mw := handle.MaxInputWords(); mw > 0 && mw < budget {
		budget = mw
	}
	chunks := chunker.Split(text, budget)

	retried := false
	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		// Bounds are input-length-relative, so each chunk gets its own
		// resolution over the shared defaults and overrides.
		chunkConfig := genconfig.Resolve(contentType, req.Overrides, len(strings.Fields(chunk)))
		summary, didRetry, err := d.generateWithQualityGate(ctx, handle, chunk, chunkConfig)
		if err != nil {
			return nil, fmt.Errorf("generating summary: %w", err)
		}
		retried = retried || didRetry
		summaries = append(summaries, summary)
	}

	combined := strings.Join(summaries, " ")

	if d.opts.ResummarizeCombined && len(strings.Fields(combined)) > docConfig.MaxLength {
		reduced, err := handle.Generate(ctx, combined, docConfig)
		if err != nil {
			return nil, fmt.Errorf("re-summarizing combined result: %w", err)
		}
		combined = reduced
	}

	return &Response{
		Summary:     combined,
		Model:       handle.Name(),
		ContentType: contentType,
		Config:      docConfig,
		Chunks:      len(chunks),
		Retried:     retried,
		ProcessedAt: time.Now(),
	}, nil
}

// generateWithQualityGate runs one generation call and retries exactly once
// with a more aggressive parameter set when the result is under the minimum
// length or identical to the input. The second result is accepted
// unconditionally.
func (d *Driver) generateWithQualityGate(ctx context.Context, handle Handle, text string, cfg genconfig.GenerationConfig) (string, bool, error) {
	summary, err := handle.Generate(ctx, text, cfg)
	if err != nil {
		return "", false, err
	}

	if !needsRetry(text, summary, cfg.MinLength) {
		return summary, false, nil
	}

	retry, err := handle.Generate(ctx, text, aggressive(cfg))
	if err != nil {
		return "", false, err
	}
	return retry, true, nil
}

func needsRetry(input, summary string, minWords int) bool {
	if len(strings.Fields(summary)) < minWords {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(summary), strings.TrimSpace(input))
}

// aggressive is the fixed fallback parameter set for the quality-gate
// retry: wider beam search, hotter sampling, stronger penalties.
func aggressive(cfg genconfig.GenerationConfig) genconfig.GenerationConfig {
	cfg.NumBeams = 8
	cfg.Temperature = 0.9
	cfg.LengthPenalty = 2.5
	cfg.RepetitionPenalty = 2.0
	cfg.TopP = 0.98
	cfg.TopK = 100
	cfg.NoRepeatNgramSize = 2
	return cfg
}
