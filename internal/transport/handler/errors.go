package handler

import (
	"net/http"

	"github.com/sakabe/article-pipeline/internal/extractor"
	"github.com/sakabe/article-pipeline/internal/transport/response"
)

// writeFailure renders pipeline errors. Classified extraction failures keep
// their kind and map to 422; anything else is a 500.
func writeFailure(w http.ResponseWriter, err error) {
	if extractErr, ok := err.(*extractor.Error); ok {
		response.WriteClassifiedError(w, http.StatusUnprocessableEntity, string(extractErr.Kind), extractErr.Message)
		return
	}
	response.WriteInternalError(w, err.Error())
}
