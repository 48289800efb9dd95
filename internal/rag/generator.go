package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Generator produces an answer for a composed prompt. The call is
// blocking and single-shot: no streaming, no retry, no timeout beyond
// what the caller's context carries.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelGenerator backs Generator with a Genkit model.
type ModelGenerator struct {
	g         *genkit.Genkit
	modelName string // provider-qualified, e.g. "ollama/llama3.2:3b"
}

// NewModelGenerator creates a ModelGenerator for the given model name.
func NewModelGenerator(g *genkit.Genkit, modelName string) (*ModelGenerator, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	return &ModelGenerator{g: g, modelName: modelName}, nil
}

// Generate invokes the model with the prompt and returns its text output.
func (m *ModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, m.g,
		ai.WithPrompt("%s", prompt),
		ai.WithModelName(m.modelName),
	)
	if err != nil {
		return "", fmt.Errorf("model generation: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model returned empty response")
	}
	return text, nil
}
