package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"schooltrip/services/catalog"
	"schooltrip/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the public tour and bus listings.
type CatalogHandler struct {
	Catalog catalog.CatalogService
	Logger  *zap.Logger
}

func NewCatalogHandler(svc catalog.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: svc, Logger: logger}
}

func (h *CatalogHandler) ListTours(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	tours, err := h.Catalog.ListTours(c.Request.Context())
	if err != nil {
		respondError(c, log, err, "Failed to fetch tours")
		return
	}
	c.JSON(http.StatusOK, tours)
}

func (h *CatalogHandler) GetTour(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	tour, err := h.Catalog.GetTour(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, log, err, "Failed to fetch tour")
		return
	}
	c.JSON(http.StatusOK, tour)
}

// ListBuses handles GET /api/buses?capacity=N.
func (h *CatalogHandler) ListBuses(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	minCapacity := 0
	if raw := strings.TrimSpace(c.Query("capacity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid capacity", "capacity must be a non-negative integer")
			return
		}
		minCapacity = n
	}
	buses, err := h.Catalog.ListBuses(c.Request.Context(), minCapacity)
	if err != nil {
		respondError(c, log, err, "Failed to fetch buses")
		return
	}
	c.JSON(http.StatusOK, buses)
}
