package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sakabe/article-pipeline/internal/service"
	"github.com/sakabe/article-pipeline/internal/transport/response"
)

// Analyze serves TF-IDF reports for raw text or a URL.
type Analyze struct {
	analyze *service.Analyze
}

func NewAnalyze(analyze *service.Analyze) *Analyze {
	return &Analyze{analyze: analyze}
}

type analyzeRequest struct {
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

func (h *Analyze) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.URL == "" && req.Text == "" {
		response.WriteBadRequest(w, "Either url or text is required")
		return
	}

	var (
		report interface{}
		err    error
	)
	if req.URL != "" {
		report, err = h.analyze.URL(r.Context(), req.URL)
	} else {
		report, err = h.analyze.Text(r.Context(), req.Text)
	}
	if err != nil {
		writeFailure(w, err)
		return
	}

	response.WriteSuccess(w, "Analysis completed", report)
}
