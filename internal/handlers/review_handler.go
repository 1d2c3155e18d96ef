package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/middleware"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/internal/services"
)

// ReviewHandler handles review and moderation HTTP requests
type ReviewHandler struct {
	reviews *services.ReviewService
	log     *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log}
}

func listOptions(c *gin.Context) database.ReviewListOptions {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return database.ReviewListOptions{
		Status: c.Query("status"),
		SortBy: c.DefaultQuery("sort", "newest"),
		Limit:  limit,
		Offset: offset,
	}
}

// Create handles POST /api/v1/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "salon_id and rating (1-5) are required")
		return
	}

	review, err := h.reviews.Create(userCtx.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "review created successfully", review)
}

// Get handles GET /api/v1/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	review, err := h.reviews.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "review fetched successfully", review)
}

// Update handles PUT /api/v1/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	review, err := h.reviews.Update(userCtx.UserID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "review updated successfully", review)
}

// Delete handles DELETE /api/v1/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	isAdmin := userCtx.Role == models.RoleAdmin
	if err := h.reviews.Delete(userCtx.UserID, id, isAdmin); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "review deleted successfully", nil)
}

// ListBySalon handles GET /api/v1/reviews/salon/:salonId
func (h *ReviewHandler) ListBySalon(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	reviews, err := h.reviews.ListBySalon(salonID, listOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "reviews fetched successfully", reviews)
}

// SalonStats handles GET /api/v1/reviews/salon/:salonId/stats
func (h *ReviewHandler) SalonStats(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	stats, err := h.reviews.Stats(salonID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "review stats fetched successfully", stats)
}

// ListMine handles GET /api/v1/reviews/user/me
func (h *ReviewHandler) ListMine(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	reviews, err := h.reviews.ListByUser(userCtx.UserID, listOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "reviews fetched successfully", reviews)
}

// ToggleLike handles POST /api/v1/reviews/:id/like
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	liked, err := h.reviews.ToggleLike(userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "review unliked"
	if liked {
		message = "review liked"
	}
	respondSuccess(c, http.StatusOK, message, gin.H{"liked": liked})
}

// Report handles POST /api/v1/reviews/:id/report
func (h *ReviewHandler) Report(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	var req models.ReportReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "reason is required")
		return
	}

	report, err := h.reviews.Report(userCtx.UserID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "review reported successfully", report)
}

type responseRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddResponse handles POST /api/v1/reviews/:id/response
func (h *ReviewHandler) AddResponse(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "text is required")
		return
	}

	response, err := h.reviews.AddOwnerResponse(userCtx.UserID, id, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "response added successfully", response)
}

// UpdateResponse handles PUT /api/v1/reviews/:id/response
func (h *ReviewHandler) UpdateResponse(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "text is required")
		return
	}

	response, err := h.reviews.UpdateOwnerResponse(userCtx.UserID, id, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "response updated successfully", response)
}

// DeleteResponse handles DELETE /api/v1/reviews/:id/response
func (h *ReviewHandler) DeleteResponse(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	isAdmin := userCtx.Role == models.RoleAdmin
	if err := h.reviews.DeleteOwnerResponse(userCtx.UserID, id, isAdmin); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "response deleted successfully", nil)
}

// AdminList handles GET /api/v1/admin/reviews
func (h *ReviewHandler) AdminList(c *gin.Context) {
	reviews, err := h.reviews.ListAll(listOptions(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "reviews fetched successfully", reviews)
}

// Moderate handles PATCH /api/v1/admin/reviews/:id/moderate
func (h *ReviewHandler) Moderate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondValidation(c, "invalid review id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "status is required")
		return
	}

	review, err := h.reviews.Moderate(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "review moderated successfully", review)
}

// ListReports handles GET /api/v1/admin/reviews/reports
func (h *ReviewHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := h.reviews.ListReports(c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "reports fetched successfully", reports)
}

// HandleReport handles PATCH /api/v1/admin/reviews/reports/:reportId
func (h *ReviewHandler) HandleReport(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	reportID, err := parseIDParam(c, "reportId")
	if err != nil {
		respondValidation(c, "invalid report id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "status is required")
		return
	}

	if err := h.reviews.HandleReport(reportID, userCtx.UserID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "report handled successfully", nil)
}
