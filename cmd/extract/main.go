package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sakabe/article-pipeline/internal/extractor"
)

type output struct {
	Success     bool   `json:"success"`
	Title       string `json:"title,omitempty"`
	Authors     string `json:"authors,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	Text        string `json:"text,omitempty"`
	TopImage    string `json:"top_image,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorType   string `json:"error_type,omitempty"`
}

func main() {
	if len(os.Args) != 2 {
		json.NewEncoder(os.Stdout).Encode(output{Success: false, Error: "URL argument required"})
		os.Exit(1)
	}

	article, err := extractor.New().Extract(context.Background(), os.Args[1])

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetEscapeHTML(false)

	if err != nil {
		result := output{Success: false, Error: err.Error()}
		if extractErr, ok := err.(*extractor.Error); ok {
			result.ErrorType = string(extractErr.Kind)
		}
		encoder.Encode(result)
		os.Exit(1)
	}

	encoder.Encode(output{
		Success:     true,
		Title:       article.Title,
		Authors:     article.Authors,
		PublishDate: article.PublishDate,
		Text:        article.Text,
		TopImage:    article.TopImage,
		SourceURL:   article.SourceURL,
	})
}
