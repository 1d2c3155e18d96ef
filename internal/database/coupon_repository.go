package database

import (
	"fmt"

	"github.com/salonhub/salon-directory-backend/internal/models"
)

// CouponRepository handles read-side database operations for coupons and
// purchase instances. Purchase and redemption transactions live in the
// coupon service because they span multiple tables.
type CouponRepository struct {
	db DB
}

// NewCouponRepository creates a new CouponRepository
func NewCouponRepository(db DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// Create inserts a coupon scoped to a salon
func (r *CouponRepository) Create(salonID int64, req *models.CreateCouponRequest) (*models.Coupon, error) {
	query := `
		INSERT INTO coupons (salon_id, code, description, discount, price, max_usage, valid_from, valid_to, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, salon_id, code, description, discount, price, max_usage, valid_from, valid_to, status, created_at
	`

	var coupon models.Coupon
	err := r.db.Get(&coupon, query,
		salonID, req.Code, req.Description, req.Discount, req.Price,
		req.MaxUsage, req.ValidFrom, req.ValidTo, models.CouponStatusActive)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListBySalon retrieves all coupons of a salon
func (r *CouponRepository) ListBySalon(salonID int64) ([]models.Coupon, error) {
	query := `
		SELECT id, salon_id, code, description, discount, price, max_usage, valid_from, valid_to, status, created_at
		FROM coupons
		WHERE salon_id = $1
		ORDER BY created_at DESC
	`

	coupons := []models.Coupon{}
	if err := r.db.Select(&coupons, query, salonID); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// ListActiveBySalon retrieves the active coupons of a salon
func (r *CouponRepository) ListActiveBySalon(salonID int64) ([]models.Coupon, error) {
	query := `
		SELECT id, salon_id, code, description, discount, price, max_usage, valid_from, valid_to, status, created_at
		FROM coupons
		WHERE salon_id = $1 AND status = $2
		ORDER BY created_at DESC
	`

	coupons := []models.Coupon{}
	if err := r.db.Select(&coupons, query, salonID, models.CouponStatusActive); err != nil {
		return nil, fmt.Errorf("failed to list active coupons: %w", err)
	}
	return coupons, nil
}

// ListAll retrieves every coupon in the directory
func (r *CouponRepository) ListAll() ([]models.Coupon, error) {
	query := `
		SELECT id, salon_id, code, description, discount, price, max_usage, valid_from, valid_to, status, created_at
		FROM coupons
		ORDER BY created_at DESC
	`

	coupons := []models.Coupon{}
	if err := r.db.Select(&coupons, query); err != nil {
		return nil, fmt.Errorf("failed to list all coupons: %w", err)
	}
	return coupons, nil
}

// ListPurchasedByCustomer retrieves a customer's purchase instances joined with
// their coupon definitions, without any status filter
func (r *CouponRepository) ListPurchasedByCustomer(customerID int64) ([]models.PurchasedCoupon, error) {
	query := `
		SELECT cc.id AS purchase_id, cc.status AS purchase_status, cc.purchased_at,
		       c.id, c.salon_id, c.code, c.description, c.discount, c.price,
		       c.max_usage, c.valid_from, c.valid_to, c.status, c.created_at
		FROM customer_coupons cc
		JOIN coupons c ON cc.coupon_id = c.id
		WHERE cc.customer_id = $1
		ORDER BY cc.purchased_at DESC
	`

	purchased := []models.PurchasedCoupon{}
	if err := r.db.Select(&purchased, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list purchased coupons: %w", err)
	}
	return purchased, nil
}
