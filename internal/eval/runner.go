package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nourai/nourai/internal/log"
	"github.com/nourai/nourai/internal/rag"
)

// Case is one evaluation case: a question, optionally a reference answer
// for text-overlap metrics, and the titles of the sources an ideal
// retrieval would surface.
type Case struct {
	Question        string   `json:"question"`
	ReferenceAnswer string   `json:"reference_answer,omitempty"`
	ExpectedSources []string `json:"expected_sources,omitempty"`
}

// CaseResult holds the engine response and metrics for one case.
type CaseResult struct {
	Question           string       `json:"question"`
	Outcome            rag.Outcome  `json:"outcome"`
	Answer             string       `json:"answer"`
	RetrievedSources   []string     `json:"retrieved_sources"`
	Elapsed            float64      `json:"elapsed_seconds"`
	BLEU               *BLEUScores  `json:"bleu,omitempty"`
	ROUGE              *ROUGEScores `json:"rouge,omitempty"`
	RetrievalPrecision *float64     `json:"retrieval_precision,omitempty"`
	RetrievalRecall    *float64     `json:"retrieval_recall,omitempty"`
	Err                string       `json:"error,omitempty"`
}

// Report aggregates per-case results with corpus-level averages.
type Report struct {
	Cases []CaseResult `json:"cases"`

	AvgBLEU               float64 `json:"avg_bleu"`
	AvgROUGE1F1           float64 `json:"avg_rouge_1_f1"`
	AvgROUGELF1           float64 `json:"avg_rouge_l_f1"`
	AvgRetrievalPrecision float64 `json:"avg_retrieval_precision"`
	AvgRetrievalRecall    float64 `json:"avg_retrieval_recall"`
	Answered              int     `json:"answered"`
	Failed                int     `json:"failed"`
}

// LoadCases reads a JSON array of evaluation cases from path.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cases file: %w", err)
	}

	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parsing cases file %s: %w", path, err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("cases file %s contains no cases", path)
	}
	return cases, nil
}

// Answerer is the engine surface the runner needs.
type Answerer interface {
	Answer(ctx context.Context, query string, topK int, clinical *rag.ClinicalAttributes) (*rag.Response, error)
}

// Runner executes evaluation cases against an engine.
type Runner struct {
	engine Answerer
	logger log.Logger
}

// NewRunner builds a runner. A nil logger falls back to a no-op logger.
func NewRunner(engine Answerer, logger log.Logger) (*Runner, error) {
	if engine == nil {
		return nil, fmt.Errorf("eval runner requires an engine")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Runner{engine: engine, logger: logger}, nil
}

// Run evaluates every case and aggregates averages. Individual case
// failures are recorded in the report rather than aborting the run.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases to evaluate")
	}

	report := &Report{Cases: make([]CaseResult, 0, len(cases))}
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r.logger.Info("evaluating case", "index", i+1, "total", len(cases), "question", c.Question)
		report.Cases = append(report.Cases, r.runCase(ctx, c))
	}

	r.aggregate(report)
	return report, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) CaseResult {
	start := time.Now()
	resp, err := r.engine.Answer(ctx, c.Question, 0, nil)
	elapsed := time.Since(start).Seconds()

	result := CaseResult{Question: c.Question, Elapsed: elapsed}
	if err != nil {
		result.Err = err.Error()
		return result
	}

	result.Outcome = resp.Outcome
	result.Answer = resp.Answer
	result.RetrievedSources = sourceTitles(resp.Sources)

	if c.ReferenceAnswer != "" && resp.Outcome == rag.OutcomeAnswered {
		bleu := BLEU(resp.Answer, c.ReferenceAnswer)
		rouge := ROUGE(resp.Answer, c.ReferenceAnswer)
		result.BLEU = &bleu
		result.ROUGE = &rouge
	}
	if len(c.ExpectedSources) > 0 {
		precision, recall := RetrievalPrecisionRecall(result.RetrievedSources, c.ExpectedSources)
		result.RetrievalPrecision = &precision
		result.RetrievalRecall = &recall
	}
	return result
}

func sourceTitles(citations []rag.Citation) []string {
	titles := make([]string, 0, len(citations))
	for _, c := range citations {
		titles = append(titles, c.Title)
	}
	return titles
}

func (r *Runner) aggregate(report *Report) {
	var (
		bleuSum, rouge1Sum, rougeLSum float64
		bleuCount                     int
		precSum, recallSum            float64
		retrievalCount                int
	)

	for _, c := range report.Cases {
		if c.Err != "" {
			report.Failed++
			continue
		}
		if c.Outcome == rag.OutcomeAnswered {
			report.Answered++
		}
		if c.BLEU != nil {
			bleuSum += c.BLEU.Average
			rouge1Sum += c.ROUGE.ROUGE1.F1
			rougeLSum += c.ROUGE.ROUGEL.F1
			bleuCount++
		}
		if c.RetrievalPrecision != nil {
			precSum += *c.RetrievalPrecision
			recallSum += *c.RetrievalRecall
			retrievalCount++
		}
	}

	if bleuCount > 0 {
		report.AvgBLEU = bleuSum / float64(bleuCount)
		report.AvgROUGE1F1 = rouge1Sum / float64(bleuCount)
		report.AvgROUGELF1 = rougeLSum / float64(bleuCount)
	}
	if retrievalCount > 0 {
		report.AvgRetrievalPrecision = precSum / float64(retrievalCount)
		report.AvgRetrievalRecall = recallSum / float64(retrievalCount)
	}
}

// WriteText renders a human-readable report.
func (report *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	b.WriteString("=== Reporte de evaluación ===\n\n")
	for i, c := range report.Cases {
		fmt.Fprintf(&b, "Caso %d: %s\n", i+1, c.Question)
		if c.Err != "" {
			fmt.Fprintf(&b, "  Error: %s\n\n", c.Err)
			continue
		}
		fmt.Fprintf(&b, "  Resultado: %s (%.2fs)\n", c.Outcome, c.Elapsed)
		if c.BLEU != nil {
			fmt.Fprintf(&b, "  BLEU promedio: %.4f\n", c.BLEU.Average)
			fmt.Fprintf(&b, "  ROUGE-1 F1: %.4f  ROUGE-L F1: %.4f\n", c.ROUGE.ROUGE1.F1, c.ROUGE.ROUGEL.F1)
		}
		if c.RetrievalPrecision != nil {
			fmt.Fprintf(&b, "  Precisión de recuperación: %.4f  Cobertura: %.4f\n",
				*c.RetrievalPrecision, *c.RetrievalRecall)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "--- Promedios (%d casos, %d respondidos, %d fallidos) ---\n",
		len(report.Cases), report.Answered, report.Failed)
	fmt.Fprintf(&b, "BLEU: %.4f\n", report.AvgBLEU)
	fmt.Fprintf(&b, "ROUGE-1 F1: %.4f  ROUGE-L F1: %.4f\n", report.AvgROUGE1F1, report.AvgROUGELF1)
	fmt.Fprintf(&b, "Recuperación P: %.4f  R: %.4f\n", report.AvgRetrievalPrecision, report.AvgRetrievalRecall)

	_, err := io.WriteString(w, b.String())
	return err
}
