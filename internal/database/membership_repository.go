package database

import (
	"database/sql"
	"fmt"

	"github.com/salonhub/salon-directory-backend/internal/models"
)

// MembershipRepository handles database operations for salon membership plans
// and customer memberships
type MembershipRepository struct {
	db DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// CreatePlan inserts a membership plan for a salon
func (r *MembershipRepository) CreatePlan(salonID int64, req *models.CreateMembershipPlanRequest) (*models.MembershipPlan, error) {
	query := `
		INSERT INTO salon_membership_plans (salon_id, name, description, price, duration_days, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, salon_id, name, description, price, duration_days, status, created_at
	`

	var plan models.MembershipPlan
	err := r.db.Get(&plan, query,
		salonID, req.Name, req.Description, req.Price, req.DurationDays, models.PlanStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create membership plan: %w", err)
	}
	return &plan, nil
}

// ListPlans retrieves the active plans of a salon
func (r *MembershipRepository) ListPlans(salonID int64) ([]models.MembershipPlan, error) {
	query := `
		SELECT id, salon_id, name, description, price, duration_days, status, created_at
		FROM salon_membership_plans
		WHERE salon_id = $1 AND status = $2
		ORDER BY price
	`

	plans := []models.MembershipPlan{}
	if err := r.db.Select(&plans, query, salonID, models.PlanStatusActive); err != nil {
		return nil, fmt.Errorf("failed to list membership plans: %w", err)
	}
	return plans, nil
}

// GetActiveMembership retrieves the active-status membership for the pair, or nil
func (r *MembershipRepository) GetActiveMembership(customerID, salonID int64) (*models.CustomerMembership, error) {
	query := `
		SELECT id, customer_id, salon_id, membership_id, start_date, end_date, status, created_at
		FROM customer_memberships
		WHERE customer_id = $1 AND salon_id = $2 AND status = $3
	`

	var m models.CustomerMembership
	err := r.db.Get(&m, query, customerID, salonID, models.MembershipStatusActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active membership: %w", err)
	}
	return &m, nil
}

// ListCustomerMemberships retrieves all memberships of a customer joined with
// plan and salon details, newest first
func (r *MembershipRepository) ListCustomerMemberships(customerID int64) ([]models.CustomerMembershipDetail, error) {
	query := `
		SELECT cm.id AS customer_membership_id,
		       cm.start_date, cm.end_date, cm.status,
		       m.id AS membership_id, m.name AS membership_name,
		       m.price, m.duration_days,
		       s.id AS salon_id, s.name AS salon_name
		FROM customer_memberships cm
		JOIN salon_membership_plans m ON cm.membership_id = m.id
		JOIN salons s ON cm.salon_id = s.id
		WHERE cm.customer_id = $1
		ORDER BY cm.created_at DESC
	`

	memberships := []models.CustomerMembershipDetail{}
	if err := r.db.Select(&memberships, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list customer memberships: %w", err)
	}
	return memberships, nil
}

// ListActiveCustomerMemberships retrieves the memberships of a customer whose
// end date has not passed, soonest-expiring first
func (r *MembershipRepository) ListActiveCustomerMemberships(customerID int64) ([]models.CustomerMembershipDetail, error) {
	query := `
		SELECT cm.id AS customer_membership_id,
		       cm.start_date, cm.end_date, cm.status,
		       m.id AS membership_id, m.name AS membership_name,
		       m.price, m.duration_days,
		       s.id AS salon_id, s.name AS salon_name
		FROM customer_memberships cm
		JOIN salon_membership_plans m ON cm.membership_id = m.id
		JOIN salons s ON cm.salon_id = s.id
		WHERE cm.customer_id = $1 AND cm.end_date >= NOW()
		ORDER BY cm.end_date
	`

	memberships := []models.CustomerMembershipDetail{}
	if err := r.db.Select(&memberships, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list active customer memberships: %w", err)
	}
	return memberships, nil
}
