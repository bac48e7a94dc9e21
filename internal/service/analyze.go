package service

import (
	"context"
	"log"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/sakabe/article-pipeline/internal/repository"
	"github.com/sakabe/article-pipeline/internal/tfidf"
)

// Analyze produces TF-IDF reports for raw text or fetched articles.
type Analyze struct {
	articles repository.ArticleRepository
}

func NewAnalyze(articles repository.ArticleRepository) *Analyze {
	return &Analyze{articles: articles}
}

// Text fits a model over the document's own sentences and reports top
// terms, key sentences, and statistics.
func (a *Analyze) Text(ctx context.Context, text string) (*tfidf.Report, error) {
	analyzer := tfidf.New()
	sentences := tfidf.SplitSentences(text)
	if len(sentences) == 0 {
		sentences = []string{text}
	}
	if err := analyzer.Fit(sentences); err != nil {
		return nil, err
	}
	return analyzer.Analyze(text)
}

// URL fetches the article at url and analyzes its extracted text.
func (a *Analyze) URL(ctx context.Context, url string) (*tfidf.Report, error) {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	startTime := time.Now()

	logger.Printf("Analysis started url=%s", url)

	article, err := a.articles.Fetch(ctx, url)
	if err != nil {
		logger.Printf("Error extracting article for analysis url=%s: %v", url, err)
		return nil, err
	}

	report, err := a.Text(ctx, article.Text)
	if err != nil {
		logger.Printf("Error analyzing article url=%s: %v", url, err)
		return nil, err
	}

	logger.Printf("Analysis completed url=%s duration_ms=%d words=%d",
		url, time.Since(startTime).Milliseconds(), report.Stats.WordCount)
	return report, nil
}
