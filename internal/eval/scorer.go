// Package eval scores generated answers against a ground-truth set.
package eval

import (
	"context"
	"regexp"
	"strings"

	"scheme-qa-go/internal/vectorstore"
	"scheme-qa-go/pkg/embedding"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Score holds the semantic similarity of one predicted/reference pair.
type Score struct {
	Precision float64
	Recall    float64
	F1        float64
}

// Scorer computes a token-level semantic F1: each token of one text is
// greedily matched to its most similar token in the other via embedding
// cosine similarity; precision averages over prediction tokens, recall over
// reference tokens.
type Scorer struct {
	embedder embedding.Client
}

// NewScorer creates a Scorer using the given embedding client.
func NewScorer(embedder embedding.Client) *Scorer {
	return &Scorer{embedder: embedder}
}

// Score computes the semantic similarity between predicted and reference.
// Both token sets are embedded in a single batch round-trip.
func (s *Scorer) Score(ctx context.Context, predicted, reference string) (Score, error) {
	predTokens := Tokenize(predicted)
	refTokens := Tokenize(reference)
	if len(predTokens) == 0 || len(refTokens) == 0 {
		return Score{}, nil
	}

	all := make([]string, 0, len(predTokens)+len(refTokens))
	all = append(all, predTokens...)
	all = append(all, refTokens...)
	vectors, err := s.embedder.CreateEmbeddings(ctx, all)
	if err != nil {
		return Score{}, err
	}
	predVecs := vectors[:len(predTokens)]
	refVecs := vectors[len(predTokens):]

	precision := greedyMatch(predVecs, refVecs)
	recall := greedyMatch(refVecs, predVecs)

	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return Score{Precision: precision, Recall: recall, F1: f1}, nil
}

// greedyMatch averages, over each vector in from, the best cosine similarity
// against any vector in to.
func greedyMatch(from, to [][]float32) float64 {
	var total float64
	for _, f := range from {
		best := 0.0
		for _, t := range to {
			if sim := vectorstore.Cosine(f, t); sim > best {
				best = sim
			}
		}
		total += best
	}
	return total / float64(len(from))
}

// Tokenize lowercases text and splits it into letter/digit runs.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}
