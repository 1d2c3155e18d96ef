package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salonhub/salon-directory-backend/internal/middleware"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/internal/services"
	"github.com/salonhub/salon-directory-backend/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
	log  *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "user registered successfully", user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	resp, err := h.auth.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	device := utils.ParseUserAgent(c.Request.UserAgent())
	h.log.WithFields(logrus.Fields{
		"user_id":     resp.User.ID,
		"ip":          c.ClientIP(),
		"device_type": device.DeviceType,
		"os":          device.OS,
		"browser":     device.Browser,
	}).Info("user logged in")

	respondSuccess(c, http.StatusOK, "login successful", resp)
}

// Profile handles GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.auth.Profile(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "profile fetched successfully", user)
}
