package repository

import (
	"context"

	"github.com/sakabe/article-pipeline/internal/cache"
	"github.com/sakabe/article-pipeline/internal/extractor"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

// ResultRepository stores finished pipeline results keyed by URL and model.
type ResultRepository interface {
	Get(ctx context.Context, url, model string) (*cache.Entry, error)
	Store(ctx context.Context, url, model string, article extractor.Article, summary summarizer.Response) error
	Prune(ctx context.Context) error
	Stats(ctx context.Context) (*cache.Stats, error)
	Clear(ctx context.Context) error
	Close() error
}

type resultRepository struct {
	manager *cache.Manager
}

func NewResultRepository(manager *cache.Manager) ResultRepository {
	return &resultRepository{manager: manager}
}

func (r *resultRepository) Get(ctx context.Context, url, model string) (*cache.Entry, error) {
	return r.manager.GetResult(ctx, url, model)
}

func (r *resultRepository) Store(ctx context.Context, url, model string, article extractor.Article, summary summarizer.Response) error {
	return r.manager.SetResult(ctx, url, model, article, summary)
}

func (r *resultRepository) Prune(ctx context.Context) error {
	return r.manager.Prune(ctx)
}

func (r *resultRepository) Stats(ctx context.Context) (*cache.Stats, error) {
	return r.manager.Stats(ctx)
}

func (r *resultRepository) Clear(ctx context.Context) error {
	return r.manager.Clear(ctx)
}

func (r *resultRepository) Close() error {
	return r.manager.Close()
}
