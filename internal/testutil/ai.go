package testutil

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"

	"github.com/nourai/nourai/internal/corpus"
)

// FakeEmbedder is a deterministic ai.Embedder for tests. Each input text
// maps to a stable unit vector derived from a hash of its content, so
// identical texts always embed identically and distinct texts rarely
// collide.
type FakeEmbedder struct{}

func (e *FakeEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	resp := &ai.EmbedResponse{}
	for _, doc := range req.Input {
		text := ""
		for _, part := range doc.Content {
			text += part.Text
		}
		resp.Embeddings = append(resp.Embeddings, &ai.Embedding{
			Embedding: DeterministicVector(text),
		})
	}
	return resp, nil
}

func (e *FakeEmbedder) Name() string {
	return "fakeEmbedder"
}

func (e *FakeEmbedder) Register(_ api.Registry) {}

// DeterministicVector produces a stable unit vector for the given text.
func DeterministicVector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, corpus.VectorDimension)
	var norm float64
	for i := range vec {
		// xorshift keeps the sequence stable without math/rand state.
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		v := float64(int64(seed%2000)-1000) / 1000.0
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// ScriptedGenerator is a rag.Generator whose output is fixed per call.
// Err takes precedence over Output.
type ScriptedGenerator struct {
	Output  string
	Err     error
	Prompts []string // records every prompt received
}

func (g *ScriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Output, nil
}
