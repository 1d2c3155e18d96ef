package services

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// MembershipService is the membership ledger. It grants customers
// time-bounded entitlements at salons and gate-keeps coupon visibility
// and purchase.
type MembershipService struct {
	db   *sqlx.DB
	repo *database.MembershipRepository
	log  *logrus.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(db *sqlx.DB, repo *database.MembershipRepository, log *logrus.Logger) *MembershipService {
	return &MembershipService{db: db, repo: repo, log: log}
}

// CreatePlan creates a membership plan for a salon
func (s *MembershipService) CreatePlan(salonID int64, req *models.CreateMembershipPlanRequest) (*models.MembershipPlan, error) {
	if req.DurationDays < 1 {
		return nil, apperror.Validation("duration_days must be at least 1", nil)
	}

	plan, err := s.repo.CreatePlan(salonID, req)
	if err != nil {
		return nil, apperror.Internal("failed to create membership plan", err)
	}
	return plan, nil
}

// ListPlans returns the active plans of a salon
func (s *MembershipService) ListPlans(salonID int64) ([]models.MembershipPlan, error) {
	plans, err := s.repo.ListPlans(salonID)
	if err != nil {
		return nil, apperror.Internal("failed to list membership plans", err)
	}
	return plans, nil
}

// PurchaseMembership grants a customer a membership at a salon. The plan must
// belong to the salon. A customer holds at most one membership per salon, so a
// repurchase while a row exists is rejected with a conflict.
func (s *MembershipService) PurchaseMembership(customerID, salonID, planID int64) (*models.CustomerMembership, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperror.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var plan models.MembershipPlan
	err = tx.Get(&plan, `
		SELECT id, salon_id, name, description, price, duration_days, status, created_at
		FROM salon_membership_plans
		WHERE id = $1 AND salon_id = $2
	`, planID, salonID)
	if database.IsNoRows(err) {
		return nil, apperror.NotFound("membership plan not found", nil)
	}
	if err != nil {
		return nil, apperror.Internal("failed to load membership plan", err)
	}

	var existingID int64
	err = tx.Get(&existingID, `
		SELECT id FROM customer_memberships
		WHERE customer_id = $1 AND salon_id = $2
	`, customerID, salonID)
	if err == nil {
		return nil, apperror.Conflict("customer already holds a membership for this salon", nil)
	}
	if !database.IsNoRows(err) {
		return nil, apperror.Internal("failed to check existing membership", err)
	}

	startDate := time.Now()
	endDate := startDate.AddDate(0, 0, plan.DurationDays)

	var membership models.CustomerMembership
	err = tx.QueryRowx(`
		INSERT INTO customer_memberships (customer_id, salon_id, membership_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, customer_id, salon_id, membership_id, start_date, end_date, status, created_at
	`, customerID, salonID, planID, startDate, endDate, models.MembershipStatusActive).StructScan(&membership)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("customer already holds a membership for this salon", err)
		}
		return nil, apperror.Internal("failed to record membership purchase", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Internal("failed to commit membership purchase", err)
	}

	s.log.WithFields(logrus.Fields{
		"customer_id": customerID,
		"salon_id":    salonID,
		"plan_id":     planID,
		"end_date":    endDate.Format("2006-01-02"),
	}).Info("Membership purchased")

	return &membership, nil
}

// HasActiveMembership returns the active membership for the (customer, salon)
// pair, or nil when none exists
func (s *MembershipService) HasActiveMembership(customerID, salonID int64) (*models.CustomerMembership, error) {
	membership, err := s.repo.GetActiveMembership(customerID, salonID)
	if err != nil {
		return nil, apperror.Internal(fmt.Sprintf("failed to check membership for customer %d", customerID), err)
	}
	return membership, nil
}

// ListCustomerMemberships returns every membership of a customer
func (s *MembershipService) ListCustomerMemberships(customerID int64) ([]models.CustomerMembershipDetail, error) {
	memberships, err := s.repo.ListCustomerMemberships(customerID)
	if err != nil {
		return nil, apperror.Internal("failed to list customer memberships", err)
	}
	return memberships, nil
}

// ListActiveCustomerMemberships returns the not-yet-expired memberships of a customer
func (s *MembershipService) ListActiveCustomerMemberships(customerID int64) ([]models.CustomerMembershipDetail, error) {
	memberships, err := s.repo.ListActiveCustomerMemberships(customerID)
	if err != nil {
		return nil, apperror.Internal("failed to list active customer memberships", err)
	}
	return memberships, nil
}
