// Package handler contains the HTTP controllers.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"scheme-qa-go/internal/service"
	"scheme-qa-go/pkg/log"
	"scheme-qa-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatHandler manages WebSocket chat connections.
type ChatHandler struct {
	chatService    service.ChatService
	sessionManager *token.SessionManager
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chatService service.ChatService, sessionManager *token.SessionManager) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		sessionManager: sessionManager,
	}
}

// GetSessionToken issues a signed session token for a fresh chat session.
func (h *ChatHandler) GetSessionToken(c *gin.Context) {
	tokenString, sessionID, err := h.sessionManager.GenerateToken()
	if err != nil {
		log.Error("failed to issue session token", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    gin.H{"token": tokenString, "sessionId": sessionID},
	})
}

// Handle upgrades the connection and answers each incoming question over it.
func (h *ChatHandler) Handle(c *gin.Context) {
	tokenString := c.Param("token")
	claims, err := h.sessionManager.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "invalid token", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket connection established, session: %s", claims.SessionID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("failed to read WebSocket message: %v", err)
			break
		}
		question := string(message)
		log.Infof("received question over WebSocket: %s", question)

		err = h.chatService.StreamResponse(c.Request.Context(), claims.SessionID, question, conn)
		if err != nil {
			log.Errorf("failed to stream response: %v", err)
			errResp := map[string]string{"error": "the assistant is temporarily unavailable, please retry"}
			b, _ := json.Marshal(errResp)
			_ = conn.WriteMessage(websocket.TextMessage, b)
			notif := map[string]interface{}{
				"type":      "completion",
				"status":    "finished",
				"timestamp": time.Now().UnixMilli(),
			}
			nb, _ := json.Marshal(notif)
			_ = conn.WriteMessage(websocket.TextMessage, nb)
			break
		}
	}
}
