package summarizer_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sakabe/article-pipeline/internal/classifier"
	"github.com/sakabe/article-pipeline/internal/genconfig"
	"github.com/sakabe/article-pipeline/internal/mocks"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

func intPtr(v int) *int { return &v }

func TestSummarizeRejectsShortInput(t *testing.T) {
	provider := &mocks.MockProvider{}
	driver := summarizer.New(provider, summarizer.DefaultOptions())

	_, err := driver.Summarize(context.Background(), summarizer.Request{Text: "   tiny   ", Model: "test/model"})
	if err == nil {
		t.Fatal("Expected error for input below 10 characters")
	}
	if provider.LoadCalls != 0 {
		t.Errorf("Expected no model load for invalid input, got %d", provider.LoadCalls)
	}
}

func TestSummarizeSingleChunk(t *testing.T) {
	provider := &mocks.MockProvider{
		Outputs: []string{"a concise generated summary of the input"},
	}
	driver := summarizer.New(provider, summarizer.DefaultOptions())

	resp, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:  "The study presents research findings from a controlled experiment on reading habits.",
		Model: "facebook/bart-large-cnn",
		Overrides: genconfig.Overrides{
			MinLength: intPtr(1),
		},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if resp.Summary != "a concise generated summary of the input" {
		t.Errorf("Unexpected summary: %q", resp.Summary)
	}
	if resp.Chunks != 1 {
		t.Errorf("Expected 1 chunk, got %d", resp.Chunks)
	}
	if resp.Retried {
		t.Error("Expected no retry")
	}
	if resp.ContentType != classifier.TypeResearch {
		t.Errorf("Expected detected content type research, got %s", resp.ContentType)
	}
	if resp.Model != "facebook/bart-large-cnn" {
		t.Errorf("Unexpected model name %s", resp.Model)
	}
	if provider.GenerateCalls != 1 {
		t.Errorf("Expected 1 generation call, got %d", provider.GenerateCalls)
	}
}

func TestSummarizeFixedContentType(t *testing.T) {
	provider := &mocks.MockProvider{
		Outputs: []string{"fixed type summary output text"},
	}
	opts := summarizer.DefaultOptions()
	opts.DetectContentType = false
	driver := summarizer.New(provider, opts)

	resp, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:        "The study presents research findings from a controlled experiment.",
		Model:       "test/model",
		ContentType: classifier.TypeTechnical,
		Overrides:   genconfig.Overrides{MinLength: intPtr(1)},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if resp.ContentType != classifier.TypeTechnical {
		t.Errorf("Expected caller-fixed content type technical, got %s", resp.ContentType)
	}
}

func TestQualityGateRetriesShortSummary(t *testing.T) {
	provider := &mocks.MockProvider{
		Outputs: []string{
			"too short",
			"this second attempt carries comfortably more than five whole words",
		},
	}
	driver := summarizer.New(provider, summarizer.DefaultOptions())

	resp, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:      "A plain piece of writing about nothing in particular, long enough to pass validation.",
		Model:     "test/model",
		Overrides: genconfig.Overrides{MinLength: intPtr(5)},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if !resp.Retried {
		t.Error("Expected quality-gate retry")
	}
	if provider.GenerateCalls != 2 {
		t.Fatalf("Expected exactly 2 generation calls, got %d", provider.GenerateCalls)
	}
	if !strings.Contains(resp.Summary, "second attempt") {
		t.Errorf("Expected retry output accepted, got %q", resp.Summary)
	}

	// Retry must use the fixed aggressive parameter set.
	retryCfg := provider.Configs[1]
	if retryCfg.NumBeams != 8 || retryCfg.Temperature != 0.9 || retryCfg.TopP != 0.98 {
		t.Errorf("Expected aggressive retry parameters, got %+v", retryCfg)
	}
}

func TestQualityGateRetriesIdenticalSummary(t *testing.T) {
	input := "An uncompressible sentence the model simply echoes back unchanged every time."
	provider := &mocks.MockProvider{
		Outputs: []string{input, input},
	}
	driver := summarizer.New(provider, summarizer.DefaultOptions())

	resp, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:      input,
		Model:     "test/model",
		Overrides: genconfig.Overrides{MinLength: intPtr(1)},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	// The second result is accepted unconditionally, identical or not.
	if provider.GenerateCalls != 2 {
		t.Errorf("Expected exactly 2 generation calls, got %d", provider.GenerateCalls)
	}
	if !resp.Retried {
		t.Error("Expected quality-gate retry for identical output")
	}
	if resp.Summary != input {
		t.Errorf("Expected second result accepted, got %q", resp.Summary)
	}
}

func TestSummarizeMultiChunk(t *testing.T) {
	var sentences []string
	for i := 0; i < 6; i++ {
		sentences = append(sentences, fmt.Sprintf("alpha beta gamma delta epsilon s%d", i))
	}
	text := strings.Join(sentences, ". ") + "."

	provider := &mocks.MockProvider{
		MaxInput: 20,
		Outputs: []string{
			"first chunk summary words here",
			"second chunk summary words here",
			"third chunk summary words here",
		},
	}
	opts := summarizer.DefaultOptions()
	opts.ResummarizeCombined = false
	driver := summarizer.New(provider, opts)

	resp, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:  text,
		Model: "test/model",
		Overrides: genconfig.Overrides{
			MinLength: intPtr(1),
			MaxLength: intPtr(10),
		},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if resp.Chunks != 3 {
		t.Errorf("Expected 3 chunks, got %d", resp.Chunks)
	}
	want := "first chunk summary words here second chunk summary words here third chunk summary words here"
	if resp.Summary != want {
		t.Errorf("Expected single-space recombination, got %q", resp.Summary)
	}
}

func TestSummarizeResummarizesLongCombinedResult(t *testing.T) {
	var sentences []string
	for i := 0; i < 6; i++ {
		sentences = append(sentences, fmt.Sprintf("alpha beta gamma delta epsilon s%d", i))
	}
	text := strings.Join(sentences, ". ") + "."

	provider := &mocks.MockProvider{
		MaxInput: 20,
		Outputs: []string{
			"one two three four five",
			"one two three four five",
			"one two three four five",
			"short final version",
		},
	}
	driver := summarizer.New(provider, summarizer.DefaultOptions())

	resp, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:  text,
		Model: "test/model",
		Overrides: genconfig.Overrides{
			MinLength: intPtr(1),
			MaxLength: intPtr(10),
		},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if provider.GenerateCalls != 4 {
		t.Fatalf("Expected 3 chunk calls plus 1 combination pass, got %d", provider.GenerateCalls)
	}
	if resp.Summary != "short final version" {
		t.Errorf("Expected re-summarized combined result, got %q", resp.Summary)
	}
}

func TestSummarizeModelLoadError(t *testing.T) {
	provider := &mocks.MockProvider{LoadErr: fmt.Errorf("weights unavailable")}
	driver := summarizer.New(provider, summarizer.DefaultOptions())

	_, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:  "Some perfectly reasonable input text for the pipeline.",
		Model: "test/model",
	})
	if err == nil {
		t.Fatal("Expected model load error")
	}
	if !strings.Contains(err.Error(), "loading model") {
		t.Errorf("Expected wrapped load error, got: %v", err)
	}
}
