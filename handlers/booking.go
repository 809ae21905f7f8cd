package handlers

import (
	"encoding/json"
	"net/http"

	"schooltrip/models"
	"schooltrip/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the customer side of booking records.
type BookingHandler struct {
	Bookings booking.BookingService
	Logger   *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Bookings: svc, Logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.CreateBooking(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, log, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	view, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, log, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateBooking handles PATCH /api/update-booking/:id. Unknown fields are
// rejected rather than merged.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	var update models.BookingUpdate
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&update); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.ApplyUpdate(c.Request.Context(), c.Param("id"), actorFrom(c), update)
	if err != nil {
		respondError(c, log, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, b)
}
