package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/salonhub/salon-directory-backend/internal/services"
)

// MembershipHandler handles membership plan and purchase HTTP requests
type MembershipHandler struct {
	memberships *services.MembershipService
	coupons     *services.CouponService
	log         *logrus.Logger
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(memberships *services.MembershipService, coupons *services.CouponService, log *logrus.Logger) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, coupons: coupons, log: log}
}

// CreatePlan handles POST /api/v1/memberships/:salonId
func (h *MembershipHandler) CreatePlan(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	var req models.CreateMembershipPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	plan, err := h.memberships.CreatePlan(salonID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "membership plan created successfully", plan)
}

// ListPlans handles GET /api/v1/memberships/:salonId
func (h *MembershipHandler) ListPlans(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	plans, err := h.memberships.ListPlans(salonID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "membership plans fetched successfully", plans)
}

// Purchase handles POST /api/v1/memberships/:salonId/purchase
func (h *MembershipHandler) Purchase(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	var req models.PurchaseMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "customer_id and membership_id are required")
		return
	}

	membership, err := h.memberships.PurchaseMembership(req.CustomerID, salonID, req.MembershipID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "membership purchased successfully", membership)
}

// MemberCoupons handles GET /api/v1/memberships/:salonId/:customerId/coupons
func (h *MembershipHandler) MemberCoupons(c *gin.Context) {
	salonID, err := parseIDParam(c, "salonId")
	if err != nil {
		respondValidation(c, "invalid salon id")
		return
	}

	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		respondValidation(c, "invalid customer id")
		return
	}

	coupons, err := h.coupons.CouponsForCustomer(c.Request.Context(), customerID, salonID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "coupons fetched successfully", coupons)
}

// CustomerMemberships handles GET /api/v1/customers/:customerId/memberships
func (h *MembershipHandler) CustomerMemberships(c *gin.Context) {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		respondValidation(c, "invalid customer id")
		return
	}

	var (
		memberships []models.CustomerMembershipDetail
	)
	if c.Query("active") == "true" {
		memberships, err = h.memberships.ListActiveCustomerMemberships(customerID)
	} else {
		memberships, err = h.memberships.ListCustomerMemberships(customerID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "memberships fetched successfully", memberships)
}
