package handler

import (
	"net/http"

	"github.com/sakabe/article-pipeline/internal/repository"
	"github.com/sakabe/article-pipeline/internal/transport/response"
)

// CacheStats reports result-cache statistics.
type CacheStats struct {
	results repository.ResultRepository
}

func NewCacheStats(results repository.ResultRepository) *CacheStats {
	return &CacheStats{results: results}
}

func (h *CacheStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.results.Stats(r.Context())
	if err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}
	response.WriteSuccess(w, "Cache statistics", stats)
}

// CacheClear drops all cached results.
type CacheClear struct {
	results repository.ResultRepository
}

func NewCacheClear(results repository.ResultRepository) *CacheClear {
	return &CacheClear{results: results}
}

func (h *CacheClear) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.results.Clear(r.Context()); err != nil {
		response.WriteInternalError(w, err.Error())
		return
	}
	response.WriteSuccess(w, "Cache cleared", nil)
}
