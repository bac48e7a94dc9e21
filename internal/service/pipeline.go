package service

import (
	"context"
	"log"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/sakabe/article-pipeline/internal/classifier"
	"github.com/sakabe/article-pipeline/internal/extractor"
	"github.com/sakabe/article-pipeline/internal/genconfig"
	"github.com/sakabe/article-pipeline/internal/repository"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

// Pipeline runs the full URL-to-summary flow: extract, summarize, cache.
type Pipeline struct {
	articles     repository.ArticleRepository
	results      repository.ResultRepository
	driver       *summarizer.Driver
	defaultModel string
}

func NewPipeline(
	articles repository.ArticleRepository,
	results repository.ResultRepository,
	driver *summarizer.Driver,
	defaultModel string,
) *Pipeline {
	return &Pipeline{
		articles:     articles,
		results:      results,
		driver:       driver,
		defaultModel: defaultModel,
	}
}

// Request describes one pipeline invocation.
type Request struct {
	URL         string
	Model       string
	ContentType classifier.ContentType
	Overrides   genconfig.Overrides
}

// Result is the pipeline output for one URL.
type Result struct {
	Article extractor.Article   `json:"article"`
	Summary summarizer.Response `json:"summary"`
	Cached  bool                `json:"cached"`
}

// Process extracts the article at req.URL and summarizes it, serving from
// the result cache when possible.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	startTime := time.Now()

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	logger.Printf("Pipeline processing started url=%s model=%s", req.URL, model)

	if entry, err := p.results.Get(ctx, req.URL, model); err == nil {
		logger.Printf("Pipeline cache hit url=%s model=%s", req.URL, model)
		return &Result{Article: entry.Article, Summary: entry.Summary, Cached: true}, nil
	}

	extractStart := time.Now()
	article, err := p.articles.Fetch(ctx, req.URL)
	if err != nil {
		logger.Printf("Error extracting article url=%s: %v", req.URL, err)
		return nil, err
	}
	extractDuration := time.Since(extractStart)

	summaryStart := time.Now()
	summary, err := p.driver.Summarize(ctx, summarizer.Request{
		Text:        article.Text,
		Model:       model,
		ContentType: req.ContentType,
		Overrides:   req.Overrides,
	})
	if err != nil {
		logger.Printf("Error summarizing article url=%s: %v", req.URL, err)
		return nil, err
	}
	summaryDuration := time.Since(summaryStart)

	if err := p.results.Store(ctx, req.URL, model, *article, *summary); err != nil {
		// A failed cache write is not fatal to the request.
		logger.Printf("Error caching result url=%s: %v", req.URL, err)
	}

	totalDuration := time.Since(startTime)
	logger.Printf("Pipeline processing completed url=%s total_duration_ms=%d extract_duration_ms=%d summary_duration_ms=%d chunks=%d retried=%t",
		req.URL, totalDuration.Milliseconds(), extractDuration.Milliseconds(), summaryDuration.Milliseconds(), summary.Chunks, summary.Retried)

	return &Result{Article: *article, Summary: *summary, Cached: false}, nil
}
