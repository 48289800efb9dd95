package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nourai/nourai/internal/corpus"
)

// stubSearcher returns canned hits and records the query it received.
type stubSearcher struct {
	hits  []corpus.Hit
	err   error
	query string
	topK  int
}

func (s *stubSearcher) Search(_ context.Context, query string, k int) ([]corpus.Hit, error) {
	s.query = query
	s.topK = k
	return s.hits, s.err
}

// stubGenerator returns a fixed answer and records the prompt.
type stubGenerator struct {
	answer string
	err    error
	prompt string
	calls  int
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func newTestEngine(t *testing.T, searcher Searcher, generator Generator) *Engine {
	t.Helper()
	engine, err := NewEngine(Config{
		Searcher:    searcher,
		Generator:   generator,
		Threshold:   0.5,
		DefaultTopK: 5,
	})
	require.NoError(t, err)
	return engine
}

func TestNewEngineValidation(t *testing.T) {
	searcher := &stubSearcher{}
	generator := &stubGenerator{}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing searcher", Config{Generator: generator, Threshold: 0.5, DefaultTopK: 5}},
		{"missing generator", Config{Searcher: searcher, Threshold: 0.5, DefaultTopK: 5}},
		{"negative threshold", Config{Searcher: searcher, Generator: generator, Threshold: -0.1, DefaultTopK: 5}},
		{"threshold above one", Config{Searcher: searcher, Generator: generator, Threshold: 1.1, DefaultTopK: 5}},
		{"zero default top-k", Config{Searcher: searcher, Generator: generator, Threshold: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestAnswerRejectsEmptyQuery(t *testing.T) {
	engine := newTestEngine(t, &stubSearcher{}, &stubGenerator{})

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := engine.Answer(context.Background(), q, 0, nil)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
}

func TestAnswerRejectsNegativeTopK(t *testing.T) {
	engine := newTestEngine(t, &stubSearcher{}, &stubGenerator{})

	_, err := engine.Answer(context.Background(), "pregunta", -1, nil)
	assert.ErrorIs(t, err, ErrInvalidTopK)
}

func TestAnswerUsesDefaultTopK(t *testing.T) {
	searcher := &stubSearcher{}
	engine := newTestEngine(t, searcher, &stubGenerator{answer: "ok"})

	_, err := engine.Answer(context.Background(), "¿qué es la fibra?", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, searcher.topK)
}

func TestAnswerNoResults(t *testing.T) {
	generator := &stubGenerator{answer: "no debería llamarse"}
	engine := newTestEngine(t, &stubSearcher{hits: nil}, generator)

	resp, err := engine.Answer(context.Background(), "¿qué es la fibra?", 0, nil)

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoResults, resp.Outcome)
	assert.Equal(t, "No encontré información relevante en la base de datos.", resp.Answer)
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, generator.calls, "generator must not run without evidence")
}

func TestAnswerNoRelevant(t *testing.T) {
	searcher := &stubSearcher{hits: []corpus.Hit{
		{Chunk: corpus.Chunk{ID: 1, Content: "lejos"}, Distance: 4.0},
		{Chunk: corpus.Chunk{ID: 2, Content: "más lejos"}, Distance: 9.0},
	}}
	generator := &stubGenerator{answer: "no debería llamarse"}
	engine := newTestEngine(t, searcher, generator)

	resp, err := engine.Answer(context.Background(), "¿qué es la fibra?", 0, nil)

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoRelevant, resp.Outcome)
	assert.Equal(t, "No encontré documentos con suficiente relevancia. Intenta reformular tu pregunta.", resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, generator.calls)
}

func TestAnswerExpandsOnlyRetrievalQuery(t *testing.T) {
	searcher := &stubSearcher{hits: []corpus.Hit{
		{Chunk: corpus.Chunk{Content: "guía"}, Distance: 0.2},
	}}
	generator := &stubGenerator{answer: "respuesta"}
	engine := newTestEngine(t, searcher, generator)

	query := "¿qué debería comer?"
	_, err := engine.Answer(context.Background(), query, 0, nil)

	require.NoError(t, err)
	assert.Contains(t, searcher.query, "nutrición saludable", "retrieval query is expanded")
	assert.Contains(t, generator.prompt, "Pregunta: "+query, "prompt uses the original query")
	assert.NotContains(t, generator.prompt, "Pregunta: "+query+" nutrición")
}

func TestAnswerHappyPath(t *testing.T) {
	year := 2021
	searcher := &stubSearcher{hits: []corpus.Hit{
		{Chunk: corpus.Chunk{
			ID:           1,
			Content:      "El hierro es esencial durante el embarazo.",
			Title:        "Guía de micronutrientes",
			Organization: "Organización Mundial de la Salud",
			Year:         &year,
		}, Distance: 0.1},
		{Chunk: corpus.Chunk{ID: 2, Content: "irrelevante"}, Distance: 7.0},
	}}
	generator := &stubGenerator{answer: "Una embarazada necesita 27 mg de hierro al día."}
	engine := newTestEngine(t, searcher, generator)

	resp, err := engine.Answer(context.Background(), "¿cuánto hierro necesita una embarazada?", 3, nil)

	require.NoError(t, err)
	assert.Equal(t, OutcomeAnswered, resp.Outcome)
	assert.Equal(t, generator.answer, resp.Answer)
	require.Len(t, resp.Sources, 1, "only surviving evidence is cited")
	assert.Equal(t, "Guía de micronutrientes", resp.Sources[0].Title)
	assert.Equal(t, 3, searcher.topK)
	assert.Contains(t, generator.prompt, "El hierro es esencial durante el embarazo.")
	assert.NotContains(t, generator.prompt, "irrelevante", "filtered chunks never reach the prompt")
}

func TestAnswerClinicalContextReachesGenerator(t *testing.T) {
	searcher := &stubSearcher{hits: []corpus.Hit{
		{Chunk: corpus.Chunk{Content: "porciones recomendadas"}, Distance: 0.2},
	}}
	generator := &stubGenerator{answer: "plan"}
	engine := newTestEngine(t, searcher, generator)

	clinical := &ClinicalAttributes{
		Allergies: []string{"maní"},
		WeightKg:  floatPtr(70),
		HeightCm:  floatPtr(175),
	}
	_, err := engine.Answer(context.Background(), "hazme un plan de comidas", 0, clinical)

	require.NoError(t, err)
	assert.Contains(t, generator.prompt, "Alergias: maní")
	assert.Contains(t, generator.prompt, "IMC: 22.9")
	assert.True(t, strings.Contains(generator.prompt, "Evita a toda costa las alergias"),
		"allergy exclusion instruction must be present")
}

func TestAnswerSearchErrorAborts(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("connection refused")}
	engine := newTestEngine(t, searcher, &stubGenerator{answer: "x"})

	_, err := engine.Answer(context.Background(), "pregunta", 0, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "searching corpus")
}

func TestAnswerGeneratorErrorAborts(t *testing.T) {
	searcher := &stubSearcher{hits: []corpus.Hit{
		{Chunk: corpus.Chunk{Content: "dato"}, Distance: 0.2},
	}}
	engine := newTestEngine(t, searcher, &stubGenerator{err: errors.New("model offline")})

	_, err := engine.Answer(context.Background(), "pregunta", 0, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating answer")
}
