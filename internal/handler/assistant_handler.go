package handler

import (
	"net/http"
	"sync"

	"scheme-qa-go/internal/model"
	"scheme-qa-go/internal/pipeline"
	"scheme-qa-go/internal/repository"
	"scheme-qa-go/pkg/log"
	"scheme-qa-go/pkg/tasks"

	"github.com/gin-gonic/gin"
)

// AssistantHandler serves the region filter and the session transcript.
type AssistantHandler struct {
	processor      *pipeline.Processor
	transcriptRepo repository.TranscriptRepository

	mu            sync.Mutex
	currentRegion string
}

// NewAssistantHandler creates an AssistantHandler.
func NewAssistantHandler(processor *pipeline.Processor, transcriptRepo repository.TranscriptRepository) *AssistantHandler {
	return &AssistantHandler{
		processor:      processor,
		transcriptRepo: transcriptRepo,
		currentRegion:  model.RegionAll,
	}
}

// ListRegions returns the selectable region filters, sentinel first.
func (h *AssistantHandler) ListRegions(c *gin.Context) {
	h.mu.Lock()
	current := h.currentRegion
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    gin.H{"regions": model.Regions, "current": current},
	})
}

// SelectRegion switches the active region filter. A non-sentinel selection
// triggers the destructive index rebuild; the request blocks until the
// rebuild finishes.
func (h *AssistantHandler) SelectRegion(c *gin.Context) {
	var req struct {
		Region string `json:"region" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region is required"})
		return
	}
	if !model.IsValidRegion(req.Region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown region"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.Region == h.currentRegion {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"region": h.currentRegion, "rebuilt": false}})
		return
	}

	log.Infof("[AssistantHandler] region change %s -> %s, rebuilding index", h.currentRegion, req.Region)
	if err := h.processor.Process(c.Request.Context(), tasks.IngestTask{Region: req.Region}); err != nil {
		log.Errorf("[AssistantHandler] index rebuild failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "index rebuild failed"})
		return
	}
	h.currentRegion = req.Region
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"region": h.currentRegion, "rebuilt": true}})
}

// GetTranscript returns the session transcript, most recent exchange first.
func (h *AssistantHandler) GetTranscript(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}

	pairs, err := h.transcriptRepo.History(c.Request.Context(), sessionID)
	if err != nil {
		log.Errorf("[AssistantHandler] failed to load transcript: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transcript"})
		return
	}

	// most recent first
	reversed := make([]model.QAPair, 0, len(pairs))
	for i := len(pairs) - 1; i >= 0; i-- {
		reversed = append(reversed, pairs[i])
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": reversed})
}

// ClearTranscript empties the session transcript ("start new chat").
func (h *AssistantHandler) ClearTranscript(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}
	if err := h.transcriptRepo.Clear(c.Request.Context(), sessionID); err != nil {
		log.Errorf("[AssistantHandler] failed to clear transcript: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear transcript"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success"})
}
