package handlers

import (
	"context"
	"net/http"

	"schooltrip/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SiteChatReplier answers the website chat widget.
type SiteChatReplier interface {
	Reply(ctx context.Context, req models.SiteChatRequest) (*models.SiteChatResponse, error)
}

type AIHandler struct {
	SiteChat SiteChatReplier
	Logger   *zap.Logger
}

func NewAIHandler(siteChat SiteChatReplier, logger *zap.Logger) *AIHandler {
	return &AIHandler{SiteChat: siteChat, Logger: logger}
}

// SiteChatHandler handles POST /api/ai/site-chat.
func (h *AIHandler) SiteChatHandler(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	var req models.SiteChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.SiteChat.Reply(c.Request.Context(), req)
	if err != nil {
		respondError(c, log, err, "Failed to answer chat")
		return
	}
	c.JSON(http.StatusOK, resp)
}
