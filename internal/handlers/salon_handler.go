package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/salonhub/salon-directory-backend/internal/config"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/internal/services"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SalonHandler handles salon catalog HTTP requests
type SalonHandler struct {
	salons *services.SalonService
	upload config.UploadConfig
	log    *logrus.Logger
}

// NewSalonHandler creates a new salon handler
func NewSalonHandler(salons *services.SalonService, upload config.UploadConfig, log *logrus.Logger) *SalonHandler {
	return &SalonHandler{salons: salons, upload: upload, log: log}
}

// Create handles POST /api/v1/salons
func (h *SalonHandler) Create(c *gin.Context) {
	var req models.CreateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	salon, err := h.salons.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "salon created successfully", salon)
}

// Get handles GET /api/v1/salons/:id
func (h *SalonHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	salon, err := h.salons.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "salon fetched successfully", salon)
}

// List handles GET /api/v1/salons?city_id=N
func (h *SalonHandler) List(c *gin.Context) {
	var cityID *int64
	if raw := c.Query("city_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			respondValidation(c, "invalid city_id")
			return
		}
		cityID = &id
	}

	salons, err := h.salons.List(cityID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "salons fetched successfully", salons)
}

// Update handles PUT /api/v1/salons/:id
func (h *SalonHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	var req models.UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	salon, err := h.salons.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "salon updated successfully", salon)
}

// SetStatus handles PATCH /api/v1/salons/:id/status
func (h *SalonHandler) SetStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "active flag is required")
		return
	}

	if err := h.salons.SetActive(id, *req.Active); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "salon status updated", nil)
}

// Delete handles DELETE /api/v1/salons/:id
func (h *SalonHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	if err := h.salons.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "salon deleted successfully", nil)
}

// UploadImage handles POST /api/v1/salons/:id/images
func (h *SalonHandler) UploadImage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondValidation(c, "image file is required")
		return
	}

	maxBytes := int64(h.upload.MaxSizeMB) << 20
	if fileHeader.Size > maxBytes {
		respondValidation(c, fmt.Sprintf("image exceeds maximum size of %dMB", h.upload.MaxSizeMB))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		// Fall back to the file extension when the part has no content type
		ext = strings.ToLower(filepath.Ext(fileHeader.Filename))
		if contentType != "" || !validImageExt(ext) {
			respondValidation(c, "unsupported image type, expected jpeg, png or webp")
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondValidation(c, "could not read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		respondValidation(c, "could not read uploaded file")
		return
	}
	if int64(len(data)) > maxBytes {
		respondValidation(c, fmt.Sprintf("image exceeds maximum size of %dMB", h.upload.MaxSizeMB))
		return
	}

	fileName := uuid.New().String() + ext
	image, err := h.salons.AttachImage(c.Request.Context(), id, fileName, data)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "image uploaded successfully", image)
}

func validImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}
