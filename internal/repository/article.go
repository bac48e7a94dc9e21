package repository

import (
	"context"

	"github.com/sakabe/article-pipeline/internal/extractor"
)

// ArticleRepository fetches readable article content from URLs.
type ArticleRepository interface {
	Fetch(ctx context.Context, url string) (*extractor.Article, error)
}

type articleRepository struct {
	extractor *extractor.Extractor
}

func NewArticleRepository() ArticleRepository {
	return &articleRepository{
		extractor: extractor.New(),
	}
}

// NewArticleRepositoryWith wraps an existing extractor. Used by tests.
func NewArticleRepositoryWith(ex *extractor.Extractor) ArticleRepository {
	return &articleRepository{extractor: ex}
}

func (r *articleRepository) Fetch(ctx context.Context, url string) (*extractor.Article, error) {
	return r.extractor.Extract(ctx, url)
}
