package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/internal/services"
)

// CityHandler handles city catalog HTTP requests
type CityHandler struct {
	cities *services.CityService
	log    *logrus.Logger
}

// NewCityHandler creates a new city handler
func NewCityHandler(cities *services.CityService, log *logrus.Logger) *CityHandler {
	return &CityHandler{cities: cities, log: log}
}

// Create handles POST /api/v1/cities
func (h *CityHandler) Create(c *gin.Context) {
	var req models.CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "city name is required")
		return
	}

	city, err := h.cities.Create(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "city created successfully", city)
}

// BulkCreate handles POST /api/v1/cities/bulk
func (h *CityHandler) BulkCreate(c *gin.Context) {
	var req models.BulkCreateCitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "cities list is required")
		return
	}

	result, err := h.cities.BulkCreate(req.Names)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "cities processed", result)
}

// List handles GET /api/v1/cities
func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.cities.List()
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "cities fetched successfully", cities)
}

// Activate handles PATCH /api/v1/cities/:id/activate
func (h *CityHandler) Activate(c *gin.Context) {
	h.setActive(c, true, "city activated")
}

// Deactivate handles PATCH /api/v1/cities/:id/deactivate
func (h *CityHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false, "city deactivated")
}

func (h *CityHandler) setActive(c *gin.Context, active bool, message string) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid city id")
		return
	}

	if err := h.cities.SetActive(id, active); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, message, nil)
}

// Delete handles DELETE /api/v1/cities/:id
func (h *CityHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid city id")
		return
	}

	if err := h.cities.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "city deleted successfully", nil)
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
