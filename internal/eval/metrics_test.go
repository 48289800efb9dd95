package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBLEUIdenticalTexts(t *testing.T) {
	text := "la fibra dietética mejora la digestión y la salud intestinal"

	got := BLEU(text, text)

	assert.InDelta(t, 1.0, got.BLEU1, 1e-9)
	assert.InDelta(t, 1.0, got.BLEU2, 1e-9)
	assert.InDelta(t, 1.0, got.BLEU3, 1e-9)
	assert.InDelta(t, 1.0, got.BLEU4, 1e-9)
	assert.InDelta(t, 1.0, got.Average, 1e-9)
}

func TestBLEUDisjointTexts(t *testing.T) {
	got := BLEU("uno dos tres cuatro", "cinco seis siete ocho")

	// Smoothing keeps scores nonzero but they must stay tiny.
	assert.Less(t, got.BLEU1, 0.1)
	assert.Less(t, got.Average, 0.1)
}

func TestBLEUEmptyInputs(t *testing.T) {
	assert.Zero(t, BLEU("", "referencia").Average)
	assert.Zero(t, BLEU("generado", "").Average)
}

func TestBLEUCaseInsensitive(t *testing.T) {
	a := BLEU("La Fibra Es Importante", "la fibra es importante")
	assert.InDelta(t, 1.0, a.Average, 1e-9)
}

func TestBLEUPartialOverlapOrdering(t *testing.T) {
	ref := "el hierro es esencial durante el embarazo"
	near := BLEU("el hierro es esencial durante la gestación", ref)
	far := BLEU("los carbohidratos aportan energía rápida", ref)

	assert.Greater(t, near.Average, far.Average)
}

func TestROUGEIdenticalTexts(t *testing.T) {
	text := "consumir frutas y verduras todos los días"

	got := ROUGE(text, text)

	assert.InDelta(t, 1.0, got.ROUGE1.F1, 1e-9)
	assert.InDelta(t, 1.0, got.ROUGE2.F1, 1e-9)
	assert.InDelta(t, 1.0, got.ROUGEL.F1, 1e-9)
}

func TestROUGE1PrecisionRecall(t *testing.T) {
	// generated: 4 tokens, 2 overlap; reference: 2 tokens, 2 overlap.
	got := ROUGE("frutas verduras pan queso", "frutas verduras")

	assert.InDelta(t, 0.5, got.ROUGE1.Precision, 1e-9)
	assert.InDelta(t, 1.0, got.ROUGE1.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, got.ROUGE1.F1, 1e-9)
}

func TestROUGELSubsequence(t *testing.T) {
	// LCS of "a b c d" and "a x c d" is "a c d" (3 tokens).
	got := ROUGE("a b c d", "a x c d")

	assert.InDelta(t, 0.75, got.ROUGEL.Precision, 1e-9)
	assert.InDelta(t, 0.75, got.ROUGEL.Recall, 1e-9)
}

func TestROUGEEmptyInputs(t *testing.T) {
	got := ROUGE("", "referencia")
	assert.Zero(t, got.ROUGE1.F1)
	assert.Zero(t, got.ROUGEL.F1)
}

func TestRetrievalPrecisionRecall(t *testing.T) {
	retrieved := []string{"Guía FAO", "Informe OMS", "Documento X"}
	relevant := []string{"Guía FAO", "Informe OMS"}

	precision, recall := RetrievalPrecisionRecall(retrieved, relevant)

	assert.InDelta(t, 2.0/3.0, precision, 1e-9)
	assert.InDelta(t, 1.0, recall, 1e-9)
}

func TestRetrievalPrecisionRecallEmptySets(t *testing.T) {
	precision, recall := RetrievalPrecisionRecall(nil, []string{"a"})
	assert.Zero(t, precision)
	assert.Zero(t, recall)

	precision, recall = RetrievalPrecisionRecall([]string{"a"}, nil)
	assert.Zero(t, precision)
	assert.Zero(t, recall)
}

func TestRetrievalPrecisionRecallDeduplicates(t *testing.T) {
	precision, recall := RetrievalPrecisionRecall(
		[]string{"a", "a", "b"},
		[]string{"a"},
	)

	assert.InDelta(t, 0.5, precision, 1e-9)
	assert.InDelta(t, 1.0, recall, 1e-9)
}
