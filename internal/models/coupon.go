package models

import "time"

// Coupon definition statuses
const (
	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
)

// Purchased coupon instance statuses
const (
	CustomerCouponStatusActive  = "active"
	CustomerCouponStatusUsed    = "used"
	CustomerCouponStatusExpired = "expired"
)

// Redemption record statuses
const (
	RedemptionStatusPending   = "pending"
	RedemptionStatusRedeemed  = "redeemed"
	RedemptionStatusCancelled = "cancelled"
)

// Coupon represents a discount offer defined by a salon.
// Codes are unique per salon; redemption is valid inside [valid_from, valid_to].
type Coupon struct {
	ID          int64     `json:"id" db:"id"`
	SalonID     int64     `json:"salon_id" db:"salon_id"`
	Code        string    `json:"code" db:"code"`
	Description *string   `json:"description,omitempty" db:"description"`
	Discount    float64   `json:"discount" db:"discount"`
	Price       float64   `json:"price" db:"price"`
	MaxUsage    int       `json:"max_usage" db:"max_usage"`
	ValidFrom   time.Time `json:"valid_from" db:"valid_from"`
	ValidTo     time.Time `json:"valid_to" db:"valid_to"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CustomerCoupon represents one purchased, individually redeemable unit of a
// coupon. The instance moves active -> used exactly once on redemption, or
// active -> expired via the cleanup sweep; both are terminal.
type CustomerCoupon struct {
	ID          int64     `json:"id" db:"id"`
	CouponID    int64     `json:"coupon_id" db:"coupon_id"`
	CustomerID  int64     `json:"customer_id" db:"customer_id"`
	Status      string    `json:"status" db:"status"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
}

// CouponRedemption is an append-only audit record of a redemption event
type CouponRedemption struct {
	ID         int64     `json:"id" db:"id"`
	CouponID   int64     `json:"coupon_id" db:"coupon_id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Status     string    `json:"status" db:"status"`
	RedeemedAt time.Time `json:"redeemed_at" db:"redeemed_at"`
}

// PurchasedCoupon is a customer's coupon instance joined with its definition
type PurchasedCoupon struct {
	PurchaseID     int64     `json:"purchase_id" db:"purchase_id"`
	PurchaseStatus string    `json:"purchase_status" db:"purchase_status"`
	PurchasedAt    time.Time `json:"purchased_at" db:"purchased_at"`
	Coupon
}

// CreateCouponRequest represents the request to create a coupon
type CreateCouponRequest struct {
	Code        string    `json:"code" binding:"required"`
	Description *string   `json:"description,omitempty"`
	Discount    float64   `json:"discount" binding:"required"`
	Price       float64   `json:"price"`
	MaxUsage    int       `json:"max_usage" binding:"required,min=1"`
	ValidFrom   time.Time `json:"valid_from" binding:"required"`
	ValidTo     time.Time `json:"valid_to" binding:"required"`
}

// CartItem is one line of a batched coupon purchase. A nil Quantity means the
// field was omitted and defaults to one unit; an explicit value below one is
// rejected.
type CartItem struct {
	CouponID int64 `json:"coupon_id" binding:"required"`
	Quantity *int  `json:"quantity,omitempty"`
}

// PurchaseCouponsRequest represents a cart purchase across one salon
type PurchaseCouponsRequest struct {
	CustomerID int64      `json:"customer_id" binding:"required"`
	Items      []CartItem `json:"items" binding:"required"`
}

// CartItemResult summarizes one purchased cart line
type CartItemResult struct {
	CouponID int64  `json:"coupon_id"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

// RedeemCouponRequest represents the request to redeem a purchased coupon
type RedeemCouponRequest struct {
	CustomerID int64  `json:"customer_id" binding:"required"`
	CouponCode string `json:"coupon_code" binding:"required"`
}
