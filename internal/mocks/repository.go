package mocks

import (
	"context"

	"github.com/sakabe/article-pipeline/internal/cache"
	"github.com/sakabe/article-pipeline/internal/extractor"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

// Mock article repository with a fixed article or error.
type MockArticleRepository struct {
	Article    *extractor.Article
	Err        error
	FetchCalls int
	LastURL    string
}

func (m *MockArticleRepository) Fetch(ctx context.Context, url string) (*extractor.Article, error) {
	m.FetchCalls++
	m.LastURL = url
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Article != nil {
		return m.Article, nil
	}
	return &extractor.Article{
		Title:     "Mock Article",
		Text:      "Mock article body text long enough to summarize comfortably.",
		SourceURL: url,
	}, nil
}

// Mock result repository backed by a map.
type MockResultRepository struct {
	Entries     map[string]*cache.Entry
	StoreErr    error
	GetCalls    int
	StoreCalls  int
	PruneCalls  int
	ClearCalls  int
	ClosedCount int
}

func (m *MockResultRepository) key(url, model string) string {
	return url + "|" + model
}

func (m *MockResultRepository) Get(ctx context.Context, url, model string) (*cache.Entry, error) {
	m.GetCalls++
	if entry, ok := m.Entries[m.key(url, model)]; ok {
		return entry, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockResultRepository) Store(ctx context.Context, url, model string, article extractor.Article, summary summarizer.Response) error {
	m.StoreCalls++
	if m.StoreErr != nil {
		return m.StoreErr
	}
	if m.Entries == nil {
		m.Entries = make(map[string]*cache.Entry)
	}
	m.Entries[m.key(url, model)] = &cache.Entry{Article: article, Summary: summary}
	return nil
}

func (m *MockResultRepository) Prune(ctx context.Context) error {
	m.PruneCalls++
	return nil
}

func (m *MockResultRepository) Stats(ctx context.Context) (*cache.Stats, error) {
	return &cache.Stats{TotalEntries: len(m.Entries)}, nil
}

func (m *MockResultRepository) Clear(ctx context.Context) error {
	m.ClearCalls++
	m.Entries = nil
	return nil
}

func (m *MockResultRepository) Close() error {
	m.ClosedCount++
	return nil
}
