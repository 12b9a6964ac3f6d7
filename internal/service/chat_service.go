package service

import (
	"context"
	"encoding/json"
	"time"

	"scheme-qa-go/internal/model"
	"scheme-qa-go/internal/repository"
	"scheme-qa-go/pkg/log"

	"github.com/gorilla/websocket"
)

// ChatService drives the WebSocket answer flow for the web chat.
type ChatService interface {
	StreamResponse(ctx context.Context, sessionID, question string, ws *websocket.Conn) error
}

type chatService struct {
	answerService  AnswerService
	transcriptRepo repository.TranscriptRepository
}

// NewChatService creates a ChatService.
func NewChatService(answerService AnswerService, transcriptRepo repository.TranscriptRepository) ChatService {
	return &chatService{
		answerService:  answerService,
		transcriptRepo: transcriptRepo,
	}
}

// StreamResponse answers a question over the socket: streamed chunks, then
// the source list, then a completion notification; finally the exchange is
// appended to the session transcript.
func (s *chatService) StreamResponse(ctx context.Context, sessionID, question string, ws *websocket.Conn) error {
	interceptor := &wsWriterInterceptor{conn: ws}

	answer, sources, err := s.answerService.StreamAnswer(ctx, question, interceptor)
	if err != nil {
		return err
	}

	sendSources(ws, sources)
	sendCompletion(ws)

	if len(answer) > 0 {
		// save with a background context: a cancelled request should not
		// lose an answer that was already generated
		if err := s.transcriptRepo.Append(context.Background(), sessionID, question, answer); err != nil {
			log.Errorf("failed to save transcript entry: %v", err)
		}
	}
	return nil
}

// wsWriterInterceptor wraps a websocket.Conn, packaging raw chunks as JSON.
type wsWriterInterceptor struct {
	conn *websocket.Conn
}

// WriteMessage satisfies llm.MessageWriter.
func (w *wsWriterInterceptor) WriteMessage(messageType int, data []byte) error {
	payload := map[string]string{"chunk": string(data)}
	b, _ := json.Marshal(payload)
	return w.conn.WriteMessage(messageType, b)
}

// sendSources sends the provenance of the answer: title, originating row and
// a content snippet per retrieved chunk.
func sendSources(ws *websocket.Conn, sources []model.ScoredChunk) {
	type sourceDTO struct {
		Title   string  `json:"title"`
		Row     int     `json:"row"`
		Snippet string  `json:"snippet"`
		Score   float64 `json:"score"`
	}
	dtos := make([]sourceDTO, 0, len(sources))
	for _, src := range sources {
		dtos = append(dtos, sourceDTO{
			Title:   src.Chunk.Title,
			Row:     src.Chunk.SourceRow,
			Snippet: Snippet(src.Chunk.Text, 200),
			Score:   src.Score,
		})
	}
	payload := map[string]interface{}{"type": "sources", "sources": dtos}
	b, _ := json.Marshal(payload)
	_ = ws.WriteMessage(websocket.TextMessage, b)
}

// Snippet shortens text to at most max runes, appending an ellipsis. Cutting
// on runes keeps multi-byte characters intact.
func Snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

// sendCompletion sends the end-of-answer notification.
func sendCompletion(ws *websocket.Conn) {
	notif := map[string]interface{}{
		"type":      "completion",
		"status":    "finished",
		"timestamp": time.Now().UnixMilli(),
	}
	b, _ := json.Marshal(notif)
	_ = ws.WriteMessage(websocket.TextMessage, b)
}
