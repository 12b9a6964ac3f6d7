package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scheme-qa-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// transcript retention mirrors chat session expectations: a bounded history
// with a TTL, cleared explicitly by the user.
const (
	transcriptMaxPairs = 20
	transcriptTTL      = 7 * 24 * time.Hour
)

// TranscriptRepository stores per-session chat transcripts.
type TranscriptRepository interface {
	Append(ctx context.Context, sessionID, question, answer string) error
	History(ctx context.Context, sessionID string) ([]model.QAPair, error)
	Clear(ctx context.Context, sessionID string) error
}

type redisTranscriptRepository struct {
	redisClient *redis.Client
}

// NewTranscriptRepository creates a TranscriptRepository backed by Redis.
func NewTranscriptRepository(redisClient *redis.Client) TranscriptRepository {
	return &redisTranscriptRepository{redisClient: redisClient}
}

func transcriptKey(sessionID string) string {
	return fmt.Sprintf("transcript:%s", sessionID)
}

// Append adds one question/answer pair to the session transcript, trimming
// to the most recent pairs.
func (r *redisTranscriptRepository) Append(ctx context.Context, sessionID, question, answer string) error {
	pairs, err := r.History(ctx, sessionID)
	if err != nil {
		return err
	}

	pairs = append(pairs, model.QAPair{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now(),
	})
	if len(pairs) > transcriptMaxPairs {
		pairs = pairs[len(pairs)-transcriptMaxPairs:]
	}

	jsonData, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := r.redisClient.Set(ctx, transcriptKey(sessionID), jsonData, transcriptTTL).Err(); err != nil {
		return fmt.Errorf("failed to set transcript: %w", err)
	}
	return nil
}

// History returns the session transcript in chronological order.
func (r *redisTranscriptRepository) History(ctx context.Context, sessionID string) ([]model.QAPair, error) {
	jsonData, err := r.redisClient.Get(ctx, transcriptKey(sessionID)).Result()
	if err == redis.Nil {
		return []model.QAPair{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	var pairs []model.QAPair
	if err := json.Unmarshal([]byte(jsonData), &pairs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return pairs, nil
}

// Clear removes the session transcript; backs the "start new chat" action.
func (r *redisTranscriptRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.redisClient.Del(ctx, transcriptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}
