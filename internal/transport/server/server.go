package server

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"github.com/sakabe/article-pipeline/internal/application"
	"github.com/sakabe/article-pipeline/internal/transport/middleware"
)

// CreateHandler builds the application and its HTTP routes. The returned
// cleanup function releases the application's resources.
func CreateHandler() (http.Handler, *application.Application, func(), error) {
	app, err := application.New()
	if err != nil {
		log.Printf("Error creating application: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, nil, err
	}

	handler := Routes(app)
	cleanup := func() {
		app.Close()
	}

	return handler, app, cleanup, nil
}

// Routes wires the application's handlers into a router.
func Routes(app *application.Application) http.Handler {
	auth := middleware.Auth(app.Config.APIAuthToken)

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler).Methods("GET")

	api.Handle("/extract", auth(app.ExtractHandler)).Methods("POST")
	api.Handle("/summarize", auth(app.SummarizeHandler)).Methods("POST")
	api.Handle("/analyze", auth(app.AnalyzeHandler)).Methods("POST")

	api.Handle("/cache/stats", app.CacheStatsHandler).Methods("GET")
	api.Handle("/cache/clear", app.CacheClearHandler).Methods("DELETE")

	return r
}

// HandleRequest handles a single HTTP request (for Cloud Functions).
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	handler, _, cleanup, err := CreateHandler()
	if err != nil {
		log.Printf("Failed to create handler: %v\nStack:\n%s", err, debug.Stack())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// loggingMiddleware logs each request with its status and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
