package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"schooltrip/models"
	"schooltrip/services/messenger"
	"schooltrip/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBytes = 1 << 20

// WebhookHandler terminates the Messenger platform webhook.
type WebhookHandler struct {
	VerifyToken string
	// AppSecret enables X-Hub-Signature-256 checks when set.
	AppSecret  string
	Dispatcher worker.Dispatcher
	Logger     *zap.Logger
}

func NewWebhookHandler(verifyToken, appSecret string, dispatcher worker.Dispatcher, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{VerifyToken: verifyToken, AppSecret: appSecret, Dispatcher: dispatcher, Logger: logger}
}

// Verify answers the subscription handshake.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	if mode == "subscribe" && h.VerifyToken != "" && token == h.VerifyToken {
		requestLogger(c, h.Logger).Info("Webhook verified")
		c.String(http.StatusOK, c.Query("hub.challenge"))
		return
	}
	c.Status(http.StatusForbidden)
}

// Receive acknowledges delivery at once and hands every text message to the
// dispatcher.
func (h *WebhookHandler) Receive(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if h.AppSecret != "" && !messenger.ValidSignature(h.AppSecret, body, c.GetHeader(messenger.SignatureHeader)) {
		log.Warn("Webhook signature mismatch")
		c.Status(http.StatusForbidden)
		return
	}

	var event models.MessengerWebhook
	if err := json.Unmarshal(body, &event); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if event.Object != "page" {
		c.Status(http.StatusNotFound)
		return
	}
	for _, msg := range event.TextMessages() {
		if err := h.Dispatcher.Dispatch(c.Request.Context(), msg); err != nil {
			log.Error("Failed to dispatch messenger message", zap.String("senderId", msg.SenderID), zap.Error(err))
		}
	}
	c.String(http.StatusOK, "EVENT_RECEIVED")
}
