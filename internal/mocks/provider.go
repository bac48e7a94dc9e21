package mocks

import (
	"context"
	"fmt"

	"github.com/sakabe/article-pipeline/internal/genconfig"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

// Mock model provider with scripted generation outputs.
type MockProvider struct {
	ModelName     string
	MaxInput      int
	Outputs       []string
	LoadErr       error
	GenerateErr   error
	LoadCalls     int
	GenerateCalls int
	Inputs        []string
	Configs       []genconfig.GenerationConfig
}

func (p *MockProvider) Load(ctx context.Context, name string) (summarizer.Handle, error) {
	p.LoadCalls++
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	modelName := p.ModelName
	if modelName == "" {
		modelName = name
	}
	maxInput := p.MaxInput
	if maxInput == 0 {
		maxInput = 1024
	}
	return &mockHandle{provider: p, name: modelName, maxInput: maxInput}, nil
}

type mockHandle struct {
	provider *MockProvider
	name     string
	maxInput int
}

func (h *mockHandle) Name() string       { return h.name }
func (h *mockHandle) MaxInputWords() int { return h.maxInput }

func (h *mockHandle) Generate(ctx context.Context, text string, cfg genconfig.GenerationConfig) (string, error) {
	p := h.provider
	p.Inputs = append(p.Inputs, text)
	p.Configs = append(p.Configs, cfg)
	call := p.GenerateCalls
	p.GenerateCalls++
	if p.GenerateErr != nil {
		return "", p.GenerateErr
	}
	if call < len(p.Outputs) {
		return p.Outputs[call], nil
	}
	return fmt.Sprintf("mock summary %d", call), nil
}
