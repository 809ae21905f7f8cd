package handlers

import (
	"net/http"

	"schooltrip/models"
	"schooltrip/services/booking"
	"schooltrip/services/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Bookings booking.BookingService
	Catalog  catalog.CatalogService
	Logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings booking.BookingService, cat catalog.CatalogService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Catalog: cat, Logger: logger}
}

// ListBookingsHandler returns every booking newest first, optionally by status.
func (ah *AdminHandler) ListBookingsHandler(c *gin.Context) {
	log := requestLogger(c, ah.Logger)
	filter := models.BookingFilter{Status: models.BookingStatus(c.Query("status"))}
	views, err := ah.Bookings.ListForAdmin(c.Request.Context(), filter)
	if err != nil {
		respondError(c, log, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, views)
}

// SetBookingStatusHandler changes only the status of a booking.
func (ah *AdminHandler) SetBookingStatusHandler(c *gin.Context) {
	log := requestLogger(c, ah.Logger)
	var update models.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}
	b, err := ah.Bookings.SetStatus(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, log, err, "Failed to update booking status")
		return
	}
	log.Info("Booking status changed", zap.String("bookingId", b.ID), zap.String("status", string(b.Status)))
	c.JSON(http.StatusOK, b)
}

func (ah *AdminHandler) CreateTourHandler(c *gin.Context) {
	log := requestLogger(c, ah.Logger)
	var input models.TourInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	tour, err := ah.Catalog.CreateTour(c.Request.Context(), input)
	if err != nil {
		respondError(c, log, err, "Failed to create tour")
		return
	}
	c.JSON(http.StatusCreated, tour)
}

func (ah *AdminHandler) UpdateTourHandler(c *gin.Context) {
	log := requestLogger(c, ah.Logger)
	var input models.TourInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	tour, err := ah.Catalog.UpdateTour(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, log, err, "Failed to update tour")
		return
	}
	c.JSON(http.StatusOK, tour)
}

// DeleteTourHandler removes a tour; bookings that reference it are kept.
func (ah *AdminHandler) DeleteTourHandler(c *gin.Context) {
	log := requestLogger(c, ah.Logger)
	if err := ah.Catalog.DeleteTour(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, log, err, "Failed to delete tour")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tour deleted"})
}
