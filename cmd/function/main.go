package main

import (
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/sakabe/article-pipeline/internal/transport/server"
)

func init() {
	// Register the HTTP function for the pipeline API
	functions.HTTP("ArticlePipeline", server.HandleRequest)
}

func main() {
	// This main function is required for Cloud Functions
	// The actual function registration happens in init()
}
