package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sakabe/article-pipeline/internal/repository"
	"github.com/sakabe/article-pipeline/internal/transport/response"
)

// Extract serves article extraction without summarization.
type Extract struct {
	articles repository.ArticleRepository
}

func NewExtract(articles repository.ArticleRepository) *Extract {
	return &Extract{articles: articles}
}

type extractRequest struct {
	URL string `json:"url"`
}

func (h *Extract) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.URL == "" {
		response.WriteBadRequest(w, "URL is required")
		return
	}

	article, err := h.articles.Fetch(r.Context(), req.URL)
	if err != nil {
		writeFailure(w, err)
		return
	}

	response.WriteSuccess(w, "Article extracted successfully", article)
}
