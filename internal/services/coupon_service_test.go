package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonhub/salon-directory-backend/internal/apperror"
	"github.com/salonhub/salon-directory-backend/internal/database"
	"github.com/salonhub/salon-directory-backend/internal/models"
)

func newCouponService(db *sqlx.DB) *CouponService {
	repo := database.NewCouponRepository(db)
	membershipRepo := database.NewMembershipRepository(db)
	memberships := NewMembershipService(db, membershipRepo, testLogger())
	return NewCouponService(db, repo, memberships, nil, testLogger())
}

func TestCreateCoupon_Validation(t *testing.T) {
	db, _ := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	t.Run("Window Inverted", func(t *testing.T) {
		_, err := svc.CreateCoupon(context.Background(), 1, &models.CreateCouponRequest{
			Code:      "SUMMER10",
			Discount:  10,
			Price:     100,
			MaxUsage:  5,
			ValidFrom: now.Add(24 * time.Hour),
			ValidTo:   now,
		})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Max Usage Zero", func(t *testing.T) {
		_, err := svc.CreateCoupon(context.Background(), 1, &models.CreateCouponRequest{
			Code:      "SUMMER10",
			Discount:  10,
			Price:     100,
			MaxUsage:  0,
			ValidFrom: now,
			ValidTo:   now.Add(24 * time.Hour),
		})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestCreateCoupon_DuplicateCode(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectQuery(`INSERT INTO coupons`).
		WillReturnError(&pqUniqueViolation)

	_, err := svc.CreateCoupon(context.Background(), 1, &models.CreateCouponRequest{
		Code:      "SUMMER10",
		Discount:  10,
		Price:     100,
		MaxUsage:  5,
		ValidFrom: now,
		ValidTo:   now.Add(24 * time.Hour),
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponsForCustomer_MembershipRequired(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	mock.ExpectQuery(`FROM customer_memberships`).
		WithArgs(int64(7), int64(3), models.MembershipStatusActive).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CouponsForCustomer(context.Background(), 7, 3)
	assert.True(t, apperror.Is(err, apperror.KindPreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuyCoupon_Success(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectQuery(`FROM customer_memberships`).
		WithArgs(int64(7), int64(3), models.MembershipStatusActive).
		WillReturnRows(sqlmock.NewRows(membershipColumns).AddRow(
			1, 7, 3, 2, now.AddDate(0, 0, -5), now.AddDate(0, 0, 25), models.MembershipStatusActive, now,
		))

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(11), int64(3)).
		WillReturnRows(couponRow(11, 3, "SUMMER10", 5, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	mock.ExpectQuery(`INSERT INTO customer_coupons`).
		WillReturnRows(sqlmock.NewRows(customerCouponColumns).AddRow(
			100, 11, 7, models.CustomerCouponStatusActive, now,
		))
	mock.ExpectCommit()

	instance, err := svc.BuyCoupon(7, 3, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(100), instance.ID)
	assert.Equal(t, models.CustomerCouponStatusActive, instance.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseCoupons_EmptyCart(t *testing.T) {
	db, _ := newTestDB(t)
	svc := newCouponService(db)

	_, err := svc.PurchaseCoupons(7, 3, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestPurchaseCoupons_InvalidQuantity(t *testing.T) {
	db, _ := newTestDB(t)
	svc := newCouponService(db)

	t.Run("Negative", func(t *testing.T) {
		_, err := svc.PurchaseCoupons(7, 3, []models.CartItem{{CouponID: 11, Quantity: intPtr(-1)}})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Explicit Zero", func(t *testing.T) {
		_, err := svc.PurchaseCoupons(7, 3, []models.CartItem{{CouponID: 11, Quantity: intPtr(0)}})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestPurchaseCoupons_Success(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectBegin()

	// First item: quantity 2
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(11), int64(3)).
		WillReturnRows(couponRow(11, 3, "SUMMER10", 5, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`INSERT INTO customer_coupons`).
			WillReturnRows(sqlmock.NewRows(customerCouponColumns).AddRow(
				int64(100+i), 11, 7, models.CustomerCouponStatusActive, now,
			))
	}

	// Second item: quantity omitted defaults to one unit
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(12), int64(3)).
		WillReturnRows(couponRow(12, 3, "WINTER20", 3, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	mock.ExpectQuery(`INSERT INTO customer_coupons`).
		WillReturnRows(sqlmock.NewRows(customerCouponColumns).AddRow(
			102, 12, 7, models.CustomerCouponStatusActive, now,
		))

	mock.ExpectCommit()

	results, err := svc.PurchaseCoupons(7, 3, []models.CartItem{
		{CouponID: 11, Quantity: intPtr(2)},
		{CouponID: 12},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Quantity)
	assert.Equal(t, 1, results[1].Quantity)
	assert.Equal(t, "purchased", results[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseCoupons_AbortsWhenItemExpired(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectBegin()

	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(11), int64(3)).
		WillReturnRows(couponRow(11, 3, "SUMMER10", 5, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	mock.ExpectQuery(`INSERT INTO customer_coupons`).
		WillReturnRows(sqlmock.NewRows(customerCouponColumns).AddRow(
			100, 11, 7, models.CustomerCouponStatusActive, now,
		))

	// Second coupon is past its window: the whole cart rolls back
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(12), int64(3)).
		WillReturnRows(couponRow(12, 3, "WINTER20", 3, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.CouponStatusActive))
	mock.ExpectRollback()

	_, err := svc.PurchaseCoupons(7, 3, []models.CartItem{
		{CouponID: 11},
		{CouponID: 12},
	})
	assert.True(t, apperror.Is(err, apperror.KindPreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseCoupons_UnknownCouponAborts(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(99), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.PurchaseCoupons(7, 3, []models.CartItem{{CouponID: 99}})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCoupon_Success(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(3), "SUMMER10").
		WillReturnRows(couponRow(11, 3, "SUMMER10", 5, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	mock.ExpectQuery(`FROM customer_coupons`).
		WithArgs(int64(7), int64(11), models.CustomerCouponStatusActive).
		WillReturnRows(sqlmock.NewRows(customerCouponColumns).AddRow(
			100, 11, 7, models.CustomerCouponStatusActive, now.Add(-time.Minute),
		))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(11), models.RedemptionStatusRedeemed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE customer_coupons`).
		WithArgs(int64(100), models.CustomerCouponStatusUsed, models.CustomerCouponStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO coupon_redemptions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coupon_id", "customer_id", "status", "redeemed_at"}).
			AddRow(500, 11, 7, models.RedemptionStatusRedeemed, now))
	mock.ExpectCommit()

	redemption, err := svc.RedeemCoupon(3, &models.RedeemCouponRequest{CustomerID: 7, CouponCode: "SUMMER10"})
	require.NoError(t, err)
	assert.Equal(t, int64(500), redemption.ID)
	assert.Equal(t, models.RedemptionStatusRedeemed, redemption.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCoupon_UnknownCode(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(3), "NOPE").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.RedeemCoupon(3, &models.RedeemCouponRequest{CustomerID: 7, CouponCode: "NOPE"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCoupon_OutsideWindow(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(3), "SUMMER10").
		WillReturnRows(couponRow(11, 3, "SUMMER10", 5, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.CouponStatusActive))
	mock.ExpectRollback()

	_, err := svc.RedeemCoupon(3, &models.RedeemCouponRequest{CustomerID: 7, CouponCode: "SUMMER10"})
	assert.True(t, apperror.Is(err, apperror.KindPreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCoupon_NoActivePurchase(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(3), "SUMMER10").
		WillReturnRows(couponRow(11, 3, "SUMMER10", 5, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	mock.ExpectQuery(`FROM customer_coupons`).
		WithArgs(int64(7), int64(11), models.CustomerCouponStatusActive).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.RedeemCoupon(3, &models.RedeemCouponRequest{CustomerID: 7, CouponCode: "SUMMER10"})
	assert.True(t, apperror.Is(err, apperror.KindPreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCoupon_UsageLimitReached(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(3), "SUMMER10").
		WillReturnRows(couponRow(11, 3, "SUMMER10", 2, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	mock.ExpectQuery(`FROM customer_coupons`).
		WithArgs(int64(7), int64(11), models.CustomerCouponStatusActive).
		WillReturnRows(sqlmock.NewRows(customerCouponColumns).AddRow(
			100, 11, 7, models.CustomerCouponStatusActive, now,
		))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(11), models.RedemptionStatusRedeemed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	_, err := svc.RedeemCoupon(3, &models.RedeemCouponRequest{CustomerID: 7, CouponCode: "SUMMER10"})
	assert.True(t, apperror.Is(err, apperror.KindPreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCoupon_InstanceAlreadyConsumed(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newCouponService(db)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM coupons`).
		WithArgs(int64(3), "SUMMER10").
		WillReturnRows(couponRow(11, 3, "SUMMER10", 5, now.Add(-time.Hour), now.Add(time.Hour), models.CouponStatusActive))
	mock.ExpectQuery(`FROM customer_coupons`).
		WithArgs(int64(7), int64(11), models.CustomerCouponStatusActive).
		WillReturnRows(sqlmock.NewRows(customerCouponColumns).AddRow(
			100, 11, 7, models.CustomerCouponStatusActive, now,
		))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(int64(11), models.RedemptionStatusRedeemed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// The status guard on the update found no matching row
	mock.ExpectExec(`UPDATE customer_coupons`).
		WithArgs(int64(100), models.CustomerCouponStatusUsed, models.CustomerCouponStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.RedeemCoupon(3, &models.RedeemCouponRequest{CustomerID: 7, CouponCode: "SUMMER10"})
	assert.True(t, apperror.Is(err, apperror.KindPreconditionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
