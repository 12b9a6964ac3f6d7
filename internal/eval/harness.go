package eval

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"scheme-qa-go/pkg/log"
)

// Answerer produces an answer for a question. The production implementation
// is the retrieval-augmented answer service.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Item is one ground-truth entry: a question and its expected answer.
type Item struct {
	Question    string
	GroundTruth string
}

// Result is the outcome for one evaluated question.
type Result struct {
	Item      Item
	Predicted string
	Score     Score
	Correct   bool
}

// Summary aggregates a full evaluation run.
type Summary struct {
	Total        int
	Correct      int
	Accuracy     float64
	AvgPrecision float64
	AvgRecall    float64
	AvgF1        float64
}

// LoadGroundTruth reads a two-column CSV of question,ground_truth rows.
// A leading header row is skipped.
func LoadGroundTruth(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ground truth file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ground truth file: %w", err)
	}

	items := make([]Item, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("ground truth row %d has %d columns, want 2", i+1, len(row))
		}
		question := strings.TrimSpace(row[0])
		truth := strings.TrimSpace(row[1])
		if i == 0 && strings.EqualFold(question, "question") {
			continue
		}
		if question == "" {
			continue
		}
		items = append(items, Item{Question: question, GroundTruth: truth})
	}
	return items, nil
}

// Harness runs every ground-truth question through the answerer and scores
// the answers.
type Harness struct {
	answerer  Answerer
	scorer    *Scorer
	threshold float64
}

// NewHarness creates a Harness. A question counts as answered correctly when
// its F1 exceeds threshold.
func NewHarness(answerer Answerer, scorer *Scorer, threshold float64) *Harness {
	return &Harness{answerer: answerer, scorer: scorer, threshold: threshold}
}

// Run evaluates all items sequentially.
func (h *Harness) Run(ctx context.Context, items []Item) ([]Result, error) {
	results := make([]Result, 0, len(items))
	for i, item := range items {
		log.Infof("[Eval] question %d/%d: %s", i+1, len(items), item.Question)

		predicted, err := h.answerer.Answer(ctx, item.Question)
		if err != nil {
			return nil, fmt.Errorf("failed to answer question %d: %w", i+1, err)
		}

		score, err := h.scorer.Score(ctx, predicted, item.GroundTruth)
		if err != nil {
			return nil, fmt.Errorf("failed to score question %d: %w", i+1, err)
		}

		results = append(results, Result{
			Item:      item,
			Predicted: predicted,
			Score:     score,
			Correct:   score.F1 > h.threshold,
		})
	}
	return results, nil
}

// Summarize aggregates per-question results into run-level metrics.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	if s.Total == 0 {
		return s
	}
	for _, r := range results {
		if r.Correct {
			s.Correct++
		}
		s.AvgPrecision += r.Score.Precision
		s.AvgRecall += r.Score.Recall
		s.AvgF1 += r.Score.F1
	}
	n := float64(s.Total)
	s.Accuracy = float64(s.Correct) / n * 100
	s.AvgPrecision /= n
	s.AvgRecall /= n
	s.AvgF1 /= n
	return s
}
