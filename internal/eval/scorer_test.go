package eval

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashEmbedder gives every distinct token a deterministic vector so scoring
// tests run without a live embedding API.
type hashEmbedder struct {
	dims int
}

func (e *hashEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%uint32(e.dims)]++
	}
	return vec, nil
}

func (e *hashEmbedder) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := e.CreateEmbedding(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func TestScoreIdenticalTexts(t *testing.T) {
	scorer := NewScorer(&hashEmbedder{dims: 64})

	score, err := scorer.Score(context.Background(), "Rs 6000 per year for farmers", "Rs 6000 per year for farmers")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, score.Precision, 1e-9)
	assert.InDelta(t, 1.0, score.Recall, 1e-9)
	assert.InDelta(t, 1.0, score.F1, 1e-9)
}

// lookupEmbedder returns a fixed vector per known token.
type lookupEmbedder struct {
	vectors map[string][]float32
}

func (e *lookupEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 0, 1}, nil
}

func (e *lookupEmbedder) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, _ := e.CreateEmbedding(ctx, t)
		out = append(out, v)
	}
	return out, nil
}

func TestScorePartialOverlapBetweenZeroAndOne(t *testing.T) {
	scorer := NewScorer(&lookupEmbedder{vectors: map[string][]float32{
		"farmers": {1, 0, 0, 0},
		"receive": {0, 1, 0, 0},
		"income":  {0, 0, 1, 0},
		"housing": {1, 1, 0, 0},
	}})

	score, err := scorer.Score(context.Background(),
		"farmers receive income",
		"farmers receive housing")
	require.NoError(t, err)

	// two of three tokens match exactly, the third only partially
	assert.Greater(t, score.F1, 0.5)
	assert.Less(t, score.F1, 1.0)
	assert.Greater(t, score.Recall, score.Precision)
}

func TestScoreEmptyTexts(t *testing.T) {
	scorer := NewScorer(&hashEmbedder{dims: 64})

	score, err := scorer.Score(context.Background(), "", "some reference")
	require.NoError(t, err)
	assert.Zero(t, score.F1)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"rs", "6000", "per", "year"},
		Tokenize("Rs. 6000/- per year!"))
	assert.Empty(t, Tokenize("  ... "))
}
