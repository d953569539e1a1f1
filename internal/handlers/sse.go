package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/requestdata"
	"github.com/edukita/lms-backend/internal/sse"
)

// SSEHandler owns the live event stream. Each user gets at most one
// streaming client at a time; a new stream replaces the previous one.
type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.Mutex
	clients map[uuid.UUID]*sse.SSEClient
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*sse.SSEClient),
	}
}

func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	client := h.hub.NewSSEClient(rd.UserID)
	h.hub.AddChannel(client, "user:"+rd.UserID.String())

	h.mu.Lock()
	if prev, ok := h.clients[rd.UserID]; ok {
		h.hub.CloseClient(prev)
	}
	h.clients[rd.UserID] = client
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		if h.clients[rd.UserID] == client {
			delete(h.clients, rd.UserID)
		}
		h.mu.Unlock()
		h.hub.RemoveClient(client)
	}()

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

func (h *SSEHandler) Subscribe(c *gin.Context) {
	h.updateSubscription(c, h.hub.AddChannel)
}

func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	h.updateSubscription(c, h.hub.RemoveChannel)
}

func (h *SSEHandler) updateSubscription(c *gin.Context, apply func(*sse.SSEClient, string)) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req struct {
		Channel string `json:"channel" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	h.mu.Lock()
	client, ok := h.clients[rd.UserID]
	h.mu.Unlock()
	if !ok {
		RespondError(c, http.StatusNotFound, "no_active_stream", nil)
		return
	}

	apply(client, req.Channel)
	RespondOK(c, gin.H{"channel": req.Channel})
}
