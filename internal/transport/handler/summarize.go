package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sakabe/article-pipeline/internal/classifier"
	"github.com/sakabe/article-pipeline/internal/genconfig"
	"github.com/sakabe/article-pipeline/internal/service"
	"github.com/sakabe/article-pipeline/internal/transport/response"
)

// Summarize runs the full extraction and summarization pipeline for a URL.
type Summarize struct {
	pipeline *service.Pipeline
}

func NewSummarize(pipeline *service.Pipeline) *Summarize {
	return &Summarize{pipeline: pipeline}
}

type summarizeRequest struct {
	URL         string              `json:"url"`
	Model       string              `json:"model,omitempty"`
	ContentType string              `json:"content_type,omitempty"`
	Parameters  genconfig.Overrides `json:"parameters,omitempty"`
}

func (h *Summarize) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.URL == "" {
		response.WriteBadRequest(w, "URL is required")
		return
	}

	result, err := h.pipeline.Process(r.Context(), service.Request{
		URL:         req.URL,
		Model:       req.Model,
		ContentType: classifier.ContentType(req.ContentType),
		Overrides:   req.Parameters,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}

	response.WriteSuccess(w, "URL processed successfully", result)
}
