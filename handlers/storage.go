package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"schooltrip/services/catalog"
	"schooltrip/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageBytes = 10 << 20

// allowedImageExt lists the picture formats accepted for tour images.
var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// StorageHandler uploads tour pictures to the image host.
type StorageHandler struct {
	Catalog catalog.CatalogService
	Logger  *zap.Logger
}

func NewStorageHandler(svc catalog.CatalogService, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{Catalog: svc, Logger: logger}
}

// UploadTourImageHandler handles POST /api/admin/tours/:id/image with a
// multipart "file" field.
func (h *StorageHandler) UploadTourImageHandler(c *gin.Context) {
	log := requestLogger(c, h.Logger)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file not provided", err.Error())
		return
	}
	if fileHeader.Size > maxImageBytes {
		utils.JSONError(c, http.StatusBadRequest, "file too large", "images are limited to 10 MB")
		return
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(fileHeader.Filename))] {
		utils.JSONError(c, http.StatusBadRequest, "unsupported file type", "allowed types are jpg, png and webp")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to read upload", "")
		return
	}
	defer file.Close()

	tour, err := h.Catalog.UploadTourImage(c.Request.Context(), c.Param("id"), file, fileHeader.Filename)
	if err != nil {
		respondError(c, log, err, "Failed to upload tour image")
		return
	}
	log.Info("Tour image uploaded", zap.String("tourId", tour.ID), zap.String("url", tour.Image))
	c.JSON(http.StatusOK, tour)
}
