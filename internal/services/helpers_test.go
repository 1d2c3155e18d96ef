package services

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var pqUniqueViolation = pq.Error{Code: "23505"}

func newTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func intPtr(n int) *int {
	return &n
}

var couponColumns = []string{
	"id", "salon_id", "code", "description", "discount", "price",
	"max_usage", "valid_from", "valid_to", "status", "created_at",
}

func couponRow(id, salonID int64, code string, maxUsage int, validFrom, validTo time.Time, status string) *sqlmock.Rows {
	return sqlmock.NewRows(couponColumns).AddRow(
		id, salonID, code, nil, 10.0, 100.0,
		maxUsage, validFrom, validTo, status, time.Now(),
	)
}

var customerCouponColumns = []string{"id", "coupon_id", "customer_id", "status", "purchased_at"}

var membershipColumns = []string{
	"id", "customer_id", "salon_id", "membership_id",
	"start_date", "end_date", "status", "created_at",
}
