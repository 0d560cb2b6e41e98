package handlers

import (
	"net/http"

	"sahara/middleware"
	"sahara/models"
	ai "sahara/services/intelligence"
	"sahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler serves the assistant endpoint.
type ChatHandler struct {
	ChatService ai.ChatService
}

func NewChatHandler(svc ai.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: svc}
}

// HandleChat handles POST /api/chat. Only a body without a message is rejected.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	identity := middleware.GetIdentity(c)
	resp := h.ChatService.HandleMessage(c.Request.Context(), req, identity)

	getLogger(c).Debug("chat handled",
		zap.String("sessionId", resp.SessionID),
		zap.String("intent", string(resp.Intent)),
		zap.Int("actions", len(resp.Actions)),
		zap.Bool("authenticated", identity != nil))
	c.JSON(http.StatusOK, resp)
}
