package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/internal/services"
)

// CouponHandler handles coupon catalog, purchase and redemption HTTP requests
type CouponHandler struct {
	coupons *services.CouponService
	log     *logrus.Logger
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *services.CouponService, log *logrus.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, log: log}
}

// Create handles POST /api/v1/coupons/:salonId
func (h *CouponHandler) Create(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	coupon, err := h.coupons.CreateCoupon(c.Request.Context(), salonID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "coupon created successfully", coupon)
}

// ListBySalon handles GET /api/v1/coupons/:salonId
func (h *CouponHandler) ListBySalon(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	coupons, err := h.coupons.ListSalonCoupons(salonID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "coupons fetched successfully", coupons)
}

// ListAll handles GET /api/v1/coupons
func (h *CouponHandler) ListAll(c *gin.Context) {
	coupons, err := h.coupons.ListAllCoupons()
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "coupons fetched successfully", coupons)
}

// Buy handles POST /api/v1/coupons/:salonId/:couponId/buy
func (h *CouponHandler) Buy(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	couponID, err := parseIDParam(c, "couponId")
	if err != nil {
		respondValidation(c, "invalid coupon id")
		return
	}

	var req struct {
		CustomerID int64 `json:"customer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "customer_id is required")
		return
	}

	purchase, err := h.coupons.BuyCoupon(req.CustomerID, salonID, couponID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "coupon purchased successfully", purchase)
}

// Purchase handles POST /api/v1/coupons/:salonId/purchase
func (h *CouponHandler) Purchase(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	var req models.PurchaseCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "customer_id and items are required")
		return
	}

	results, err := h.coupons.PurchaseCoupons(req.CustomerID, salonID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "coupons purchased successfully", results)
}

// Redeem handles POST /api/v1/coupons/:salonId/redeem
func (h *CouponHandler) Redeem(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	var req models.RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "customer_id and coupon_code are required")
		return
	}

	redemption, err := h.coupons.RedeemCoupon(salonID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "coupon redeemed successfully", redemption)
}

// CustomerCoupons handles GET /api/v1/coupons/customer/:customerId
func (h *CouponHandler) CustomerCoupons(c *gin.Context) {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		respondValidation(c, "invalid customer id")
		return
	}

	coupons, err := h.coupons.CustomerPurchasedCoupons(customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "purchased coupons fetched successfully", coupons)
}
