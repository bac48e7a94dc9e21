package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sakabe/article-pipeline/internal/cache"
	"github.com/sakabe/article-pipeline/internal/hub"
	"github.com/sakabe/article-pipeline/internal/repository"
	"github.com/sakabe/article-pipeline/internal/service"
	"github.com/sakabe/article-pipeline/internal/summarizer"
	"github.com/sakabe/article-pipeline/internal/transport/handler"
)

// Application represents the application with all business logic components.
type Application struct {
	Config            *Config
	ExtractHandler    *handler.Extract
	SummarizeHandler  *handler.Summarize
	AnalyzeHandler    *handler.Analyze
	CacheStatsHandler *handler.CacheStats
	CacheClearHandler *handler.CacheClear
	Results           repository.ResultRepository
	cleanup           func() error
}

// New creates a new application instance with all dependencies.
func New() (*Application, error) {
	// Load configuration
	cfg, err := Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Initialize cache manager
	cacheManager, err := cache.NewManager(context.Background(), cfg.CacheType, time.Duration(cfg.CacheTTLHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("creating cache manager: %w", err)
	}

	// Create the hub client
	var hubClient *hub.Client
	if cfg.HubBaseURL != "" || cfg.HubConfigURL != "" {
		hubClient = hub.NewClientWithURLs(cfg.HubAPIToken, cfg.HubBaseURL, cfg.HubConfigURL, hub.EnsureCacheDir())
	} else {
		hubClient = hub.NewClient(cfg.HubAPIToken)
	}

	// Create repositories
	articleRepo := repository.NewArticleRepository()
	modelRepo := repository.NewModelRepository(hubClient)
	resultRepo := repository.NewResultRepository(cacheManager)

	// Create services (business logic)
	driver := summarizer.New(modelRepo, summarizer.DefaultOptions())
	pipelineService := service.NewPipeline(articleRepo, resultRepo, driver, cfg.DefaultModel)
	analyzeService := service.NewAnalyze(articleRepo)

	// Create handlers (HTTP layer)
	extractHandler := handler.NewExtract(articleRepo)
	summarizeHandler := handler.NewSummarize(pipelineService)
	analyzeHandler := handler.NewAnalyze(analyzeService)
	cacheStatsHandler := handler.NewCacheStats(resultRepo)
	cacheClearHandler := handler.NewCacheClear(resultRepo)

	cleanup := func() error {
		return resultRepo.Close()
	}

	return &Application{
		Config:            cfg,
		ExtractHandler:    extractHandler,
		SummarizeHandler:  summarizeHandler,
		AnalyzeHandler:    analyzeHandler,
		CacheStatsHandler: cacheStatsHandler,
		CacheClearHandler: cacheClearHandler,
		Results:           resultRepo,
		cleanup:           cleanup,
	}, nil
}

// Close cleans up application resources.
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
