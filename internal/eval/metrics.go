// Package eval implements the offline evaluation harness: BLEU and ROUGE
// text-overlap metrics against reference answers, plus retrieval
// precision/recall against expected source lists. It consumes the RAG
// engine's outputs and produces a report; it is not part of the query
// path.
package eval

import (
	"math"
	"strings"
)

// BLEUScores holds n-gram BLEU scores and their average.
type BLEUScores struct {
	BLEU1   float64 `json:"bleu_1"`
	BLEU2   float64 `json:"bleu_2"`
	BLEU3   float64 `json:"bleu_3"`
	BLEU4   float64 `json:"bleu_4"`
	Average float64 `json:"bleu_avg"`
}

// ROUGEScore holds precision, recall, and F1 for one ROUGE variant.
type ROUGEScore struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// ROUGEScores holds ROUGE-1, ROUGE-2 and ROUGE-L.
type ROUGEScores struct {
	ROUGE1 ROUGEScore `json:"rouge_1"`
	ROUGE2 ROUGEScore `json:"rouge_2"`
	ROUGEL ROUGEScore `json:"rouge_l"`
}

// tokenize lowercases and splits on whitespace.
func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// ngrams returns the n-grams of tokens joined by a space.
func ngrams(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}

// countGrams builds an occurrence map.
func countGrams(grams []string) map[string]int {
	counts := make(map[string]int, len(grams))
	for _, g := range grams {
		counts[g]++
	}
	return counts
}

// clippedMatches counts candidate n-grams capped by their reference count.
func clippedMatches(candidate, reference map[string]int) int {
	matches := 0
	for gram, count := range candidate {
		if refCount, ok := reference[gram]; ok {
			matches += min(count, refCount)
		}
	}
	return matches
}

// smoothingEpsilon replaces zero n-gram precision counts so higher-order
// BLEU doesn't collapse to zero on short texts.
const smoothingEpsilon = 0.1

// bleuN computes smoothed BLEU for uniform weights over orders 1..maxN,
// including the brevity penalty.
func bleuN(genTokens, refTokens []string, maxN int) float64 {
	if len(genTokens) == 0 || len(refTokens) == 0 {
		return 0
	}

	logSum := 0.0
	for n := 1; n <= maxN; n++ {
		candGrams := ngrams(genTokens, n)
		if len(candGrams) == 0 {
			return 0
		}
		matches := clippedMatches(countGrams(candGrams), countGrams(ngrams(refTokens, n)))

		precision := float64(matches) / float64(len(candGrams))
		if matches == 0 {
			precision = smoothingEpsilon / float64(len(candGrams))
		}
		logSum += math.Log(precision) / float64(maxN)
	}

	// Brevity penalty
	bp := 1.0
	if len(genTokens) < len(refTokens) {
		bp = math.Exp(1 - float64(len(refTokens))/float64(len(genTokens)))
	}

	return bp * math.Exp(logSum)
}

// BLEU scores a generated text against a reference.
func BLEU(generated, reference string) BLEUScores {
	gen := tokenize(generated)
	ref := tokenize(reference)

	s := BLEUScores{
		BLEU1: bleuN(gen, ref, 1),
		BLEU2: bleuN(gen, ref, 2),
		BLEU3: bleuN(gen, ref, 3),
		BLEU4: bleuN(gen, ref, 4),
	}
	s.Average = (s.BLEU1 + s.BLEU2 + s.BLEU3 + s.BLEU4) / 4
	return s
}

// rougeN computes n-gram overlap precision/recall/F1.
func rougeN(genTokens, refTokens []string, n int) ROUGEScore {
	candGrams := ngrams(genTokens, n)
	refGrams := ngrams(refTokens, n)
	if len(candGrams) == 0 || len(refGrams) == 0 {
		return ROUGEScore{}
	}

	matches := clippedMatches(countGrams(candGrams), countGrams(refGrams))
	precision := float64(matches) / float64(len(candGrams))
	recall := float64(matches) / float64(len(refGrams))
	return ROUGEScore{Precision: precision, Recall: recall, F1: f1(precision, recall)}
}

// rougeL computes LCS-based precision/recall/F1.
func rougeL(genTokens, refTokens []string) ROUGEScore {
	if len(genTokens) == 0 || len(refTokens) == 0 {
		return ROUGEScore{}
	}

	lcs := lcsLength(genTokens, refTokens)
	precision := float64(lcs) / float64(len(genTokens))
	recall := float64(lcs) / float64(len(refTokens))
	return ROUGEScore{Precision: precision, Recall: recall, F1: f1(precision, recall)}
}

// lcsLength computes the longest common subsequence length with a
// two-row dynamic program.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// ROUGE scores a generated text against a reference.
func ROUGE(generated, reference string) ROUGEScores {
	gen := tokenize(generated)
	ref := tokenize(reference)
	return ROUGEScores{
		ROUGE1: rougeN(gen, ref, 1),
		ROUGE2: rougeN(gen, ref, 2),
		ROUGEL: rougeL(gen, ref),
	}
}

// RetrievalPrecisionRecall computes set precision/recall of retrieved
// source identifiers against the expected relevant set.
func RetrievalPrecisionRecall(retrieved, relevant []string) (precision, recall float64) {
	retrievedSet := toSet(retrieved)
	relevantSet := toSet(relevant)

	overlap := 0
	for id := range retrievedSet {
		if _, ok := relevantSet[id]; ok {
			overlap++
		}
	}

	if len(retrievedSet) > 0 {
		precision = float64(overlap) / float64(len(retrievedSet))
	}
	if len(relevantSet) > 0 {
		recall = float64(overlap) / float64(len(relevantSet))
	}
	return precision, recall
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
