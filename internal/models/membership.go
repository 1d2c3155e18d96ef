package models

import "time"

// Membership plan statuses
const (
	PlanStatusActive   = "active"
	PlanStatusInactive = "inactive"
)

// Customer membership statuses
const (
	MembershipStatusActive  = "active"
	MembershipStatusExpired = "expired"
)

// MembershipPlan represents a time-bounded membership offer sold by a salon
type MembershipPlan struct {
	ID           int64     `json:"id" db:"id"`
	SalonID      int64     `json:"salon_id" db:"salon_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Price        float64   `json:"price" db:"price"`
	DurationDays int       `json:"duration_days" db:"duration_days"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CustomerMembership represents a customer's purchased entitlement at a salon.
// At most one row exists per (customer, salon).
type CustomerMembership struct {
	ID           int64     `json:"id" db:"id"`
	CustomerID   int64     `json:"customer_id" db:"customer_id"`
	SalonID      int64     `json:"salon_id" db:"salon_id"`
	MembershipID int64     `json:"membership_id" db:"membership_id"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CustomerMembershipDetail is the membership row joined with its plan and salon
type CustomerMembershipDetail struct {
	CustomerMembershipID int64     `json:"customer_membership_id" db:"customer_membership_id"`
	StartDate            time.Time `json:"start_date" db:"start_date"`
	EndDate              time.Time `json:"end_date" db:"end_date"`
	Status               string    `json:"status" db:"status"`
	MembershipID         int64     `json:"membership_id" db:"membership_id"`
	MembershipName       string    `json:"membership_name" db:"membership_name"`
	Price                float64   `json:"price" db:"price"`
	DurationDays         int       `json:"duration_days" db:"duration_days"`
	SalonID              int64     `json:"salon_id" db:"salon_id"`
	SalonName            string    `json:"salon_name" db:"salon_name"`
}

// CreateMembershipPlanRequest represents the request to create a plan
type CreateMembershipPlanRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description,omitempty"`
	Price        float64 `json:"price" binding:"required"`
	DurationDays int     `json:"duration_days" binding:"required,min=1"`
}

// PurchaseMembershipRequest represents the request to purchase a membership
type PurchaseMembershipRequest struct {
	CustomerID   int64 `json:"customer_id" binding:"required"`
	MembershipID int64 `json:"membership_id" binding:"required"`
}
