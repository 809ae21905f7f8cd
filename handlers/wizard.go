package handlers

import (
	"net/http"

	"schooltrip/models"
	"schooltrip/services/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WizardHandler exposes the server-side booking wizard sessions.
type WizardHandler struct {
	Wizards *wizard.Service
	Logger  *zap.Logger
}

func NewWizardHandler(svc *wizard.Service, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{Wizards: svc, Logger: logger}
}

type transportRequest struct {
	BusID string `json:"busId" binding:"required"`
}

func (h *WizardHandler) CreateSession(c *gin.Context) {
	view, err := h.Wizards.Create(c.Request.Context())
	if err != nil {
		respondError(c, requestLogger(c, h.Logger), err, "Failed to start booking")
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *WizardHandler) GetSession(c *gin.Context) {
	h.reply(c, "Failed to load booking session")(h.Wizards.Get(c.Request.Context(), c.Param("id")))
}

func (h *WizardHandler) UpdateQuote(c *gin.Context) {
	var input wizard.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	h.reply(c, "Failed to update quote")(h.Wizards.UpdateQuote(c.Request.Context(), c.Param("id"), input))
}

func (h *WizardHandler) Submit(c *gin.Context) {
	h.reply(c, "Failed to submit booking")(h.Wizards.Submit(c.Request.Context(), c.Param("id"), actorFrom(c)))
}

// Buses lists transport large enough for the session's group.
func (h *WizardHandler) Buses(c *gin.Context) {
	buses, err := h.Wizards.Buses(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, requestLogger(c, h.Logger), err, "Failed to fetch buses")
		return
	}
	c.JSON(http.StatusOK, buses)
}

func (h *WizardHandler) SelectTransport(c *gin.Context) {
	var req transportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.reply(c, "Failed to select transport")(h.Wizards.SelectTransport(c.Request.Context(), c.Param("id"), actorFrom(c), req.BusID))
}

func (h *WizardHandler) Back(c *gin.Context) {
	h.reply(c, "Failed to go back")(h.Wizards.Back(c.Request.Context(), c.Param("id")))
}

func (h *WizardHandler) SubmitContact(c *gin.Context) {
	var contact models.ContactUpdate
	if err := c.ShouldBindJSON(&contact); err != nil {
		badRequest(c, err)
		return
	}
	h.reply(c, "Failed to save contact details")(h.Wizards.SubmitContact(c.Request.Context(), c.Param("id"), actorFrom(c), contact))
}

func (h *WizardHandler) Restart(c *gin.Context) {
	h.reply(c, "Failed to restart booking")(h.Wizards.Restart(c.Request.Context(), c.Param("id")))
}

func (h *WizardHandler) reply(c *gin.Context, fallback string) func(*wizard.View, error) {
	return func(view *wizard.View, err error) {
		if err != nil {
			respondError(c, requestLogger(c, h.Logger), err, fallback)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
