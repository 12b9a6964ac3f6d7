package service

import (
	"context"
	"fmt"
	"strings"

	"scheme-qa-go/internal/model"
	"scheme-qa-go/pkg/llm"
	"scheme-qa-go/pkg/log"
)

// AnswerService runs the retrieval-augmented answer pipeline.
type AnswerService interface {
	// Answer returns the generated answer and the chunks it was grounded on.
	Answer(ctx context.Context, question string) (string, []model.ScoredChunk, error)
	// StreamAnswer streams the generated answer into writer and returns the
	// full text once the stream completes.
	StreamAnswer(ctx context.Context, question string, writer llm.MessageWriter) (string, []model.ScoredChunk, error)
}

type answerService struct {
	retrieval RetrievalService
	llmClient llm.Client
	topK      int
	useHyDE   bool
}

// NewAnswerService creates an AnswerService. With useHyDE the retrieval
// query is a model-generated hypothetical answer instead of the question
// itself; its phrasing sits closer in embedding space to answer-bearing
// chunks than a terse question does.
func NewAnswerService(retrieval RetrievalService, llmClient llm.Client, topK int, useHyDE bool) AnswerService {
	if topK <= 0 {
		topK = 3
	}
	return &answerService{
		retrieval: retrieval,
		llmClient: llmClient,
		topK:      topK,
		useHyDE:   useHyDE,
	}
}

// retrieve resolves the retrieval query (direct or HyDE) and runs it.
func (s *answerService) retrieve(ctx context.Context, question string) ([]model.ScoredChunk, error) {
	query := question
	if s.useHyDE {
		hypothetical, err := s.llmClient.Complete(ctx, BuildHyDEPrompt(question))
		if err != nil {
			return nil, fmt.Errorf("failed to generate hypothetical answer: %w", err)
		}
		log.Infof("[AnswerService] HyDE produced a %d-char hypothetical answer", len(hypothetical))
		query = hypothetical
	}
	return s.retrieval.Retrieve(ctx, query, s.topK)
}

func (s *answerService) Answer(ctx context.Context, question string) (string, []model.ScoredChunk, error) {
	sources, err := s.retrieve(ctx, question)
	if err != nil {
		return "", nil, err
	}

	answer, err := s.llmClient.Complete(ctx, BuildAnswerPrompt(sources, question))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	return strings.TrimSpace(answer), sources, nil
}

func (s *answerService) StreamAnswer(ctx context.Context, question string, writer llm.MessageWriter) (string, []model.ScoredChunk, error) {
	sources, err := s.retrieve(ctx, question)
	if err != nil {
		return "", nil, err
	}

	capture := &captureWriter{inner: writer}
	if err := s.llmClient.StreamChat(ctx, BuildAnswerPrompt(sources, question), capture); err != nil {
		return "", nil, fmt.Errorf("failed to stream answer: %w", err)
	}
	return capture.builder.String(), sources, nil
}

// captureWriter forwards streamed chunks while accumulating the full answer.
type captureWriter struct {
	inner   llm.MessageWriter
	builder strings.Builder
}

func (w *captureWriter) WriteMessage(messageType int, data []byte) error {
	w.builder.Write(data)
	return w.inner.WriteMessage(messageType, data)
}
