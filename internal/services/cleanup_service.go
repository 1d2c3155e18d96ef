package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"github.com/salonhub/salon-directory-backend/internal/cache"
	"github.com/salonhub/salon-directory-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// CleanupService runs the scheduled expired-coupon sweep. Daily at midnight
// in the configured timezone it expires still-active purchase instances of
// lapsed coupons (used instances are left untouched) and then deletes the
// coupon definitions; FK cascades remove any remaining dependent rows.
type CleanupService struct {
	db    *sqlx.DB
	cache *cache.CouponCache
	log   *logrus.Logger
	cfg   config.CleanupConfig
	cron  *cron.Cron
}

// NewCleanupService creates a new CleanupService
func NewCleanupService(db *sqlx.DB, couponCache *cache.CouponCache, cfg config.CleanupConfig, log *logrus.Logger) *CleanupService {
	return &CleanupService{db: db, cache: couponCache, log: log, cfg: cfg}
}

// Start schedules the sweep and starts the cron runner
func (s *CleanupService) Start() error {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load cleanup timezone %q: %w", s.cfg.Timezone, err)
	}

	s.cron = cron.New(cron.WithSeconds(), cron.WithLocation(loc))
	if _, err := s.cron.AddFunc(s.cfg.Spec, s.sweepJob); err != nil {
		return fmt.Errorf("failed to schedule coupon cleanup: %w", err)
	}
	s.cron.Start()

	s.log.WithFields(logrus.Fields{
		"spec":     s.cfg.Spec,
		"timezone": s.cfg.Timezone,
	}).Info("Coupon cleanup job scheduled")
	return nil
}

// Stop stops the cron runner and waits for a running sweep to finish
func (s *CleanupService) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Coupon cleanup job stopped")
}

// RunNow executes one sweep immediately
func (s *CleanupService) RunNow() (int, error) {
	return s.sweep(time.Now())
}

func (s *CleanupService) sweepJob() {
	start := time.Now()
	deleted, err := s.sweep(start)
	if err != nil {
		s.log.WithError(err).Error("Coupon cleanup failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"deleted_coupons": deleted,
		"duration":        time.Since(start).String(),
	}).Info("Coupon cleanup finished")
}

// sweep removes every coupon whose validity window has closed. Returns the
// number of deleted coupon definitions.
func (s *CleanupService) sweep(now time.Time) (int, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	type expiredCoupon struct {
		ID      int64 `db:"id"`
		SalonID int64 `db:"salon_id"`
	}
	expired := []expiredCoupon{}
	if err := tx.Select(&expired, `SELECT id, salon_id FROM coupons WHERE valid_to < $1`, now); err != nil {
		return 0, fmt.Errorf("failed to collect expired coupons: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(expired))
	salonIDs := make(map[int64]struct{})
	for _, c := range expired {
		ids = append(ids, c.ID)
		salonIDs[c.SalonID] = struct{}{}
	}

	query, args, err := sqlx.In(`
		UPDATE customer_coupons SET status = 'expired'
		WHERE coupon_id IN (?) AND status = 'active'
	`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build expiry update: %w", err)
	}
	result, err := tx.Exec(tx.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to expire customer coupons: %w", err)
	}
	expiredInstances, _ := result.RowsAffected()

	query, args, err = sqlx.In(`DELETE FROM coupons WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build coupon delete: %w", err)
	}
	if _, err := tx.Exec(tx.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to delete expired coupons: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cleanup: %w", err)
	}

	ctx := context.Background()
	for salonID := range salonIDs {
		s.cache.InvalidateSalon(ctx, salonID)
	}

	s.log.WithFields(logrus.Fields{
		"expired_coupons":   len(ids),
		"expired_instances": expiredInstances,
	}).Info("Expired coupons swept")

	return len(ids), nil
}
