package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/cache"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CouponService is the coupon catalog, purchase ledger and redemption engine.
// Purchase records ownership of redeemable units; redemption consumes exactly
// one owned unit and appends an immutable audit record. Every mutation runs in
// a single transaction and rolls back completely on failure.
type CouponService struct {
	db          *sqlx.DB
	repo        *database.CouponRepository
	memberships *MembershipService
	cache       *cache.CouponCache
	log         *logrus.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(
	db *sqlx.DB,
	repo *database.CouponRepository,
	memberships *MembershipService,
	couponCache *cache.CouponCache,
	log *logrus.Logger,
) *CouponService {
	return &CouponService{
		db:          db,
		repo:        repo,
		memberships: memberships,
		cache:       couponCache,
		log:         log,
	}
}

// CreateCoupon creates a coupon scoped to a salon. Codes are unique per salon.
func (s *CouponService) CreateCoupon(ctx context.Context, salonID int64, req *models.CreateCouponRequest) (*models.Coupon, error) {
	if !req.ValidTo.After(req.ValidFrom) {
		return nil, apperror.Validation("valid_to must be after valid_from", nil)
	}
	if req.MaxUsage < 1 {
		return nil, apperror.Validation("max_usage must be at least 1", nil)
	}

	coupon, err := s.repo.Create(salonID, req)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict(fmt.Sprintf("coupon code %q already exists for this salon", req.Code), err)
		}
		return nil, apperror.Internal("failed to create coupon", err)
	}

	s.cache.InvalidateSalon(ctx, salonID)

	s.log.WithFields(logrus.Fields{
		"salon_id":  salonID,
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
	}).Info("Coupon created")

	return coupon, nil
}

// ListSalonCoupons returns all coupons of a salon regardless of status
func (s *CouponService) ListSalonCoupons(salonID int64) ([]models.Coupon, error) {
	coupons, err := s.repo.ListBySalon(salonID)
	if err != nil {
		return nil, apperror.Internal("failed to list salon coupons", err)
	}
	return coupons, nil
}

// ListAllCoupons returns every coupon in the directory
func (s *CouponService) ListAllCoupons() ([]models.Coupon, error) {
	coupons, err := s.repo.ListAll()
	if err != nil {
		return nil, apperror.Internal("failed to list coupons", err)
	}
	return coupons, nil
}

// CouponsForCustomer returns the active coupons of a salon, gated on the
// customer holding an active membership there
func (s *CouponService) CouponsForCustomer(ctx context.Context, customerID, salonID int64) ([]models.Coupon, error) {
	membership, err := s.memberships.HasActiveMembership(customerID, salonID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.PreconditionFailed("customer does not have an active membership for this salon", nil)
	}

	if coupons, ok := s.cache.GetSalonCoupons(ctx, salonID); ok {
		return coupons, nil
	}

	coupons, err := s.repo.ListActiveBySalon(salonID)
	if err != nil {
		return nil, apperror.Internal("failed to list active coupons", err)
	}
	s.cache.SetSalonCoupons(ctx, salonID, coupons)
	return coupons, nil
}

// BuyCoupon purchases a single unit of a coupon for a customer. The coupon
// must belong to the salon, be active, and be inside its validity window.
func (s *CouponService) BuyCoupon(customerID, salonID, couponID int64) (*models.CustomerCoupon, error) {
	membership, err := s.memberships.HasActiveMembership(customerID, salonID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.PreconditionFailed("no active membership for this salon", nil)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now()
	coupon, err := s.loadCouponForPurchase(tx, salonID, couponID, now)
	if err != nil {
		return nil, err
	}

	instance, err := insertCustomerCoupon(tx, customerID, coupon.ID, now)
	if err != nil {
		return nil, apperror.Internal("failed to record coupon purchase", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit coupon purchase", err)
	}

	s.log.WithFields(logrus.Fields{
		"customer_id": customerID,
		"coupon_id":   coupon.ID,
		"purchase_id": instance.ID,
	}).Info("Coupon purchased")

	return instance, nil
}

// PurchaseCoupons buys a cart of coupon units in one transaction. Each item is
// validated independently; any invalid item aborts the whole cart.
func (s *CouponService) PurchaseCoupons(customerID, salonID int64, items []models.CartItem) ([]models.CartItemResult, error) {
	if len(items) == 0 {
		return nil, apperror.Validation("at least one cart item is required", nil)
	}
	for _, item := range items {
		if item.Quantity != nil && *item.Quantity < 1 {
			return nil, apperror.Validation(fmt.Sprintf("invalid quantity for coupon %d", item.CouponID), nil)
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now()
	results := make([]models.CartItemResult, 0, len(items))

	for _, item := range items {
		quantity := 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}

		coupon, err := s.loadCouponForPurchase(tx, salonID, item.CouponID, now)
		if err != nil {
			return nil, err
		}

		for i := 0; i < quantity; i++ {
			if _, err := insertCustomerCoupon(tx, customerID, coupon.ID, now); err != nil {
				return nil, apperror.Internal("failed to record coupon purchase", err)
			}
		}

		results = append(results, models.CartItemResult{
			CouponID: coupon.ID,
			Quantity: quantity,
			Status:   "purchased",
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit cart purchase", err)
	}

	s.log.WithFields(logrus.Fields{
		"customer_id": customerID,
		"salon_id":    salonID,
		"items":       len(results),
	}).Info("Coupon cart purchased")

	return results, nil
}

// CustomerPurchasedCoupons returns every purchase instance of a customer with
// its coupon definition, across all statuses
func (s *CouponService) CustomerPurchasedCoupons(customerID int64) ([]models.PurchasedCoupon, error) {
	purchased, err := s.repo.ListPurchasedByCustomer(customerID)
	if err != nil {
		return nil, apperror.Internal("failed to list purchased coupons", err)
	}
	return purchased, nil
}

// RedeemCoupon consumes one owned, active coupon instance. The coupon row is
// locked for the duration of the transaction so that concurrent redemptions
// near the usage limit serialize on the count check.
func (s *CouponService) RedeemCoupon(salonID int64, req *models.RedeemCouponRequest) (*models.CouponRedemption, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var coupon models.Coupon
	err = tx.Get(&coupon, `
		SELECT id, salon_id, code, description, discount, price, max_usage, valid_from, valid_to, status, created_at
		FROM coupons
		WHERE salon_id = $1 AND code = $2
		FOR UPDATE
	`, salonID, req.CouponCode)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("invalid coupon for this salon", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load coupon", err)
	}

	now := time.Now()
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidTo) {
		return nil, apperror.PreconditionFailed("coupon expired or not active yet", nil)
	}

	var instance models.CustomerCoupon
	err = tx.Get(&instance, `
		SELECT id, coupon_id, customer_id, status, purchased_at
		FROM customer_coupons
		WHERE customer_id = $1 AND coupon_id = $2 AND status = $3
		ORDER BY purchased_at
		LIMIT 1
		FOR UPDATE
	`, req.CustomerID, coupon.ID, models.CustomerCouponStatusActive)
	if database.IsNoRows(err) {
		return nil, apperror.PreconditionFailed("no active purchased coupon found for this customer", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load purchased coupon", err)
	}

	var redeemed int
	err = tx.Get(&redeemed, `
		SELECT COUNT(*) FROM coupon_redemptions
		WHERE coupon_id = $1 AND status = $2
	`, coupon.ID, models.RedemptionStatusRedeemed)
	if err != nil {
		return nil, apperror.Internal("failed to count redemptions", err)
	}
	if redeemed >= coupon.MaxUsage {
		return nil, apperror.PreconditionFailed("coupon usage limit reached", nil)
	}

	result, err := tx.Exec(`
		UPDATE customer_coupons SET status = $2 WHERE id = $1 AND status = $3
	`, instance.ID, models.CustomerCouponStatusUsed, models.CustomerCouponStatusActive)
	if err != nil {
		return nil, apperror.Internal("failed to mark coupon as used", err)
	}
	if rows, err := result.RowsAffected(); err != nil || rows == 0 {
		return nil, apperror.PreconditionFailed("no active purchased coupon found for this customer", err)
	}

	var redemption models.CouponRedemption
	err = tx.QueryRowx(`
		INSERT INTO coupon_redemptions (coupon_id, customer_id, status, redeemed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, coupon_id, customer_id, status, redeemed_at
	`, coupon.ID, req.CustomerID, models.RedemptionStatusRedeemed, now).StructScan(&redemption)
	if err != nil {
		return nil, apperror.Internal("failed to record redemption", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit redemption", err)
	}

	s.log.WithFields(logrus.Fields{
		"customer_id":   req.CustomerID,
		"coupon_id":     coupon.ID,
		"code":          coupon.Code,
		"redemption_id": redemption.ID,
	}).Info("Coupon redeemed")

	return &redemption, nil
}

// loadCouponForPurchase loads a coupon scoped to a salon inside tx and checks
// that it is purchasable at the given instant
func (s *CouponService) loadCouponForPurchase(tx *sqlx.Tx, salonID, couponID int64, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := tx.Get(&coupon, `
		SELECT id, salon_id, code, description, discount, price, max_usage, valid_from, valid_to, status, created_at
		FROM coupons
		WHERE id = $1 AND salon_id = $2
	`, couponID, salonID)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound(fmt.Sprintf("coupon %d not found", couponID), nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load coupon", err)
	}

	if coupon.Status != models.CouponStatusActive {
		return nil, apperror.PreconditionFailed(fmt.Sprintf("coupon %s is inactive", coupon.Code), nil)
	}
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidTo) {
		return nil, apperror.PreconditionFailed(fmt.Sprintf("coupon %s expired or not active yet", coupon.Code), nil)
	}
	return &coupon, nil
}

func insertCustomerCoupon(tx *sqlx.Tx, customerID, couponID int64, now time.Time) (*models.CustomerCoupon, error) {
	var instance models.CustomerCoupon
	err := tx.QueryRowx(`
		INSERT INTO customer_coupons (customer_id, coupon_id, status, purchased_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, coupon_id, customer_id, status, purchased_at
	`, customerID, couponID, models.CustomerCouponStatusActive, now).StructScan(&instance)
	if err != nil {
		return nil, err
	}
	return &instance, nil
}
