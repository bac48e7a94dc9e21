package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sakabe/article-pipeline/internal/genconfig"
	"github.com/sakabe/article-pipeline/internal/hub"
	"github.com/sakabe/article-pipeline/internal/repository"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

type output struct {
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

func fail(message string) {
	json.NewEncoder(os.Stdout).Encode(output{Error: message})
	os.Exit(1)
}

func main() {
	if len(os.Args) != 4 {
		fail("Invalid arguments: expected <input_file> <model_name> <params_json>")
	}

	inputFile, modelName, paramsJSON := os.Args[1], os.Args[2], os.Args[3]

	data, err := os.ReadFile(inputFile)
	if err != nil {
		fail(fmt.Sprintf("reading input file: %v", err))
	}

	provider := repository.NewModelRepository(hub.NewClient(os.Getenv("HUB_API_TOKEN")))
	driver := summarizer.New(provider, summarizer.DefaultOptions())

	resp, err := driver.Summarize(context.Background(), summarizer.Request{
		Text:      string(data),
		Model:     modelName,
		Overrides: genconfig.ParseOverrides(paramsJSON),
	})
	if err != nil {
		fail(err.Error())
	}

	json.NewEncoder(os.Stdout).Encode(output{Summary: resp.Summary})
}
